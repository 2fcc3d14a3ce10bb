package paidyet

import (
	"context"
	"encoding/json"
	"time"

	"paybridge/internal/pkg/httpclient"
)

// HTTPGateway implements GatewayClient against the PaidYET transaction API.
type HTTPGateway struct {
	env    Environment
	client *httpclient.Client

	// baseURL overrides the environment-selected API root in tests.
	baseURL string
}

// NewHTTPGateway builds a gateway client for the environment with the given
// call timeout.
func NewHTTPGateway(env Environment, timeout time.Duration) *HTTPGateway {
	return &HTTPGateway{
		env:    env,
		client: httpclient.New(timeout),
	}
}

// WithBaseURL points the gateway at a fixed API root instead of the
// environment-selected one.
func (g *HTTPGateway) WithBaseURL(url string) *HTTPGateway {
	g.baseURL = url
	return g
}

func (g *HTTPGateway) base() string {
	if g.baseURL != "" {
		return g.baseURL
	}
	return g.env.BaseURL()
}

func (g *HTTPGateway) Create(ctx context.Context, token string, body SalePayload) (*GatewayResponse, error) {
	resp, err := g.client.Post(ctx, g.base()+"/transaction", token, body)
	return decode(OpCreate, resp, err)
}

func (g *HTTPGateway) Refund(ctx context.Context, token, transactionID string, body RefundPayload) (*GatewayResponse, error) {
	resp, err := g.client.Post(ctx, g.base()+"/transaction/refund/"+transactionID, token, body)
	return decode(OpRefund, resp, err)
}

func (g *HTTPGateway) Capture(ctx context.Context, token, transactionID string, body CapturePayload) (*GatewayResponse, error) {
	resp, err := g.client.Put(ctx, g.base()+"/transaction/capture/"+transactionID, token, body)
	return decode(OpCapture, resp, err)
}

func (g *HTTPGateway) Void(ctx context.Context, token, transactionID string) (*GatewayResponse, error) {
	resp, err := g.client.Put(ctx, g.base()+"/transaction/void/"+transactionID, token, struct{}{})
	return decode(OpVoid, resp, err)
}

func (g *HTTPGateway) Query(ctx context.Context, token, transactionID string) (*GatewayResponse, error) {
	resp, err := g.client.Get(ctx, g.base()+"/transaction/"+transactionID, token)
	return decode(OpQuery, resp, err)
}

// transactionBody covers the common fields of every transaction response.
type transactionBody struct {
	ID         string        `json:"id"`
	Status     string        `json:"status"`
	Message    string        `json:"message"`
	ReasonCode string        `json:"reason_code"`
	Error      *GatewayError `json:"error"`
}

func decode(op Operation, resp *httpclient.Response, err error) (*GatewayResponse, error) {
	if err != nil {
		return nil, &TransportError{Op: op, Cause: err}
	}

	var body transactionBody
	// A non-JSON body is still a received response; classification falls
	// through on the HTTP status.
	_ = json.Unmarshal(resp.Body, &body)

	out := &GatewayResponse{
		HTTPStatus: resp.StatusCode,
		ID:         body.ID,
		Status:     body.Status,
		Message:    body.Message,
		ReasonCode: body.ReasonCode,
		Err:        body.Error,
		Raw:        json.RawMessage(resp.Body),
	}
	if out.Message == "" && body.Error != nil {
		out.Message = body.Error.Message
	}
	if out.ReasonCode == "" && body.Error != nil {
		out.ReasonCode = body.Error.Code
	}
	return out, nil
}
