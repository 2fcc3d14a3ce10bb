package httpclient

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client wraps resty for calls to the PaidYET API. Unlike a general-purpose
// client it performs no transport-level retries: the dispatcher applies the
// retry policy explicitly, and a hidden extra attempt here would break its
// attempt accounting.
type Client struct {
	r *resty.Client
}

// Response is the status code and raw body of a completed exchange. A
// non-2xx status still produces a Response; only a failure to get any
// response at all is an error.
type Response struct {
	StatusCode int
	Body       []byte
}

// New creates a client with the given per-call timeout.
func New(timeout time.Duration) *Client {
	r := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{r: r}
}

// WithHeader sets a header on every request.
func (c *Client) WithHeader(key, value string) *Client {
	c.r.SetHeader(key, value)
	return c
}

// Get sends a GET request with a bearer token.
func (c *Client) Get(ctx context.Context, url, token string) (*Response, error) {
	return wrap(c.request(ctx, token).Get(url))
}

// Post sends a POST request with a JSON body. token may be empty for
// unauthenticated endpoints (login).
func (c *Client) Post(ctx context.Context, url, token string, body interface{}) (*Response, error) {
	req := c.request(ctx, token)
	if body != nil {
		req.SetBody(body)
	}
	return wrap(req.Post(url))
}

// Put sends a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, url, token string, body interface{}) (*Response, error) {
	req := c.request(ctx, token)
	if body != nil {
		req.SetBody(body)
	}
	return wrap(req.Put(url))
}

func (c *Client) request(ctx context.Context, token string) *resty.Request {
	req := c.r.R().SetContext(ctx)
	if token != "" {
		req.SetAuthToken(token)
	}
	return req
}

func wrap(resp *resty.Response, err error) (*Response, error) {
	if err != nil {
		return nil, err
	}
	return &Response{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
	}, nil
}
