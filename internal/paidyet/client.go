package paidyet

import (
	"context"
	"encoding/json"
	"net/http"
)

// Operation names an outbound gateway call family.
type Operation string

const (
	OpCreate  Operation = "create"
	OpRefund  Operation = "refund"
	OpCapture Operation = "capture"
	OpVoid    Operation = "void"
	OpQuery   Operation = "query"
)

// GatewayError is the structured error object a gateway reply may carry
// alongside its status.
type GatewayError struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// GatewayResponse is the decoded gateway reply for any operation. Raw keeps
// the full body for callers that need fields beyond the common ones (the
// query endpoint returns the whole transaction record).
type GatewayResponse struct {
	HTTPStatus int
	ID         string
	Status     string
	Message    string
	ReasonCode string
	Err        *GatewayError
	Raw        json.RawMessage
}

// TokenRejected reports whether the gateway refused the bearer token itself
// rather than the transaction.
func (r *GatewayResponse) TokenRejected() bool {
	if r.HTTPStatus == http.StatusUnauthorized || r.HTTPStatus == http.StatusForbidden {
		return true
	}
	switch r.Status {
	case "unauthorized", "invalid_token", "token_expired":
		return true
	}
	return false
}

// GatewayClient performs the transaction HTTP exchanges, one method per
// operation family. Implementations return a *TransportError when no
// response was received at all.
type GatewayClient interface {
	Create(ctx context.Context, token string, body SalePayload) (*GatewayResponse, error)
	Refund(ctx context.Context, token, transactionID string, body RefundPayload) (*GatewayResponse, error)
	Capture(ctx context.Context, token, transactionID string, body CapturePayload) (*GatewayResponse, error)
	Void(ctx context.Context, token, transactionID string) (*GatewayResponse, error)
	Query(ctx context.Context, token, transactionID string) (*GatewayResponse, error)
}
