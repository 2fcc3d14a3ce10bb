package paidyet

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"paybridge/internal/pkg/httpclient"
)

// tokenLifetime is how long PaidYET reports its bearer tokens valid for.
// The login response does not carry an expiry field, so the documented
// 60-minute lifetime is assumed when the response omits expires_in.
const tokenLifetime = 60 * time.Minute

// HTTPIssuer implements TokenIssuer against the PaidYET login endpoint.
type HTTPIssuer struct {
	client *httpclient.Client

	// loginURL overrides the environment-selected endpoint in tests.
	loginURL string
}

// NewHTTPIssuer builds an issuer with the given call timeout.
func NewHTTPIssuer(timeout time.Duration) *HTTPIssuer {
	return &HTTPIssuer{client: httpclient.New(timeout)}
}

// WithLoginURL points the issuer at a fixed endpoint instead of the
// environment-selected one.
func (i *HTTPIssuer) WithLoginURL(url string) *HTTPIssuer {
	i.loginURL = url
	return i
}

type loginRequest struct {
	MerchantID string `json:"merchant_id"`
	APIKey     string `json:"api_key"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
	Message   string `json:"message"`
}

// Issue exchanges the credentials for a bearer token at the
// environment-selected login URL.
func (i *HTTPIssuer) Issue(ctx context.Context, creds Credentials) (IssuedToken, error) {
	url := i.loginURL
	if url == "" {
		url = creds.Env.LoginURL()
	}
	resp, err := i.client.Post(ctx, url, "", loginRequest{
		MerchantID: creds.MerchantID,
		APIKey:     creds.APIKey,
	})
	if err != nil {
		return IssuedToken{}, fmt.Errorf("login request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return IssuedToken{}, fmt.Errorf("login rejected with status %d", resp.StatusCode)
	}

	var body loginResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return IssuedToken{}, fmt.Errorf("login response parse: %w", err)
	}
	if body.Token == "" {
		return IssuedToken{}, fmt.Errorf("login response carried no token")
	}

	lifetime := tokenLifetime
	if body.ExpiresIn > 0 {
		lifetime = time.Duration(body.ExpiresIn) * time.Second
	}

	return IssuedToken{Value: body.Token, Lifetime: lifetime}, nil
}
