// Package graphql implements the remote provider client. It speaks the
// provider's single-endpoint query/mutation protocol, classifies every
// outcome into a *model.RemoteError, and never retries on its own.
//
// A client built without a credential is disabled for its whole lifetime:
// creation calls fail with model.ErrRemoteDisabled and listings return empty
// results, without any network I/O.
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/kompox/replops/domain/model"
)

const (
	DefaultEndpoint  = "https://replit.com/graphql"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 2 // requests per second
	DefaultBurst     = 4
	maxBodyBytes     = 4 << 20
)

// Client is the remote provider client.
type Client struct {
	token      string
	endpoint   string
	timeout    time.Duration
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides the protocol endpoint.
func WithEndpoint(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.endpoint = url
		}
	}
}

// WithHTTPClient replaces the HTTP client. Its Timeout is overridden by WithTimeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the hard per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRateLimit sets the client-side request rate. A zero limit disables limiting.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New returns a client. An empty token yields a disabled client.
func New(token string, opts ...Option) *Client {
	c := &Client{
		token:      strings.TrimSpace(token),
		endpoint:   DefaultEndpoint,
		timeout:    DefaultTimeout,
		userAgent:  "replops",
		httpClient: &http.Client{},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultBurst),
	}
	for _, o := range opts {
		o(c)
	}
	hc := *c.httpClient
	hc.Timeout = c.timeout
	c.httpClient = &hc
	return c
}

// Enabled reports whether a credential was supplied at construction.
func (c *Client) Enabled() bool { return c.token != "" }

// Endpoint returns the protocol endpoint.
func (c *Client) Endpoint() string { return c.endpoint }

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []apiError      `json:"errors"`
}

// Query issues one protocol request and decodes the data member into out
// (which may be nil). Every failure is returned as a *model.RemoteError,
// except context cancellation by the caller.
func (c *Client) Query(ctx context.Context, op, doc string, vars map[string]any, out any) error {
	if !c.Enabled() {
		return model.ErrRemoteDisabled
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return c.transportError(ctx, op, err)
		}
	}

	payload, err := json.Marshal(request{Query: doc, Variables: vars})
	if err != nil {
		return fmt.Errorf("%s: encoding request: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%s: building request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Requested-With", "replit")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.transportError(ctx, op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return c.transportError(ctx, op, err)
	}
	return decode(op, resp.StatusCode, body, out)
}

// decode classifies a received response.
func decode(op string, status int, body []byte, out any) error {
	switch {
	case status == http.StatusUnauthorized:
		return &model.RemoteError{Kind: model.ErrRemoteAuth, Op: op, StatusCode: status}
	case status == http.StatusForbidden:
		return &model.RemoteError{Kind: model.ErrRemotePermission, Op: op, StatusCode: status}
	case status == http.StatusTooManyRequests:
		return &model.RemoteError{Kind: model.ErrRemoteRateLimited, Op: op, StatusCode: status}
	case status < 200 || status > 299:
		return &model.RemoteError{Kind: model.ErrRemoteProtocol, Op: op, StatusCode: status, Body: string(body)}
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return &model.RemoteError{Kind: model.ErrRemoteAPI, Op: op, StatusCode: status, Messages: []string{"null response"}}
	}
	var r response
	if err := json.Unmarshal(trimmed, &r); err != nil {
		return &model.RemoteError{Kind: model.ErrRemoteProtocol, Op: op, StatusCode: status, Body: string(body), Err: err}
	}
	if len(r.Errors) > 0 {
		msgs := make([]string, 0, len(r.Errors))
		for _, e := range r.Errors {
			msgs = append(msgs, e.Message)
		}
		return &model.RemoteError{Kind: model.ErrRemoteAPI, Op: op, StatusCode: status, Messages: msgs}
	}
	data := bytes.TrimSpace(r.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return &model.RemoteError{Kind: model.ErrRemoteAPI, Op: op, StatusCode: status, Messages: []string{"null response"}}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &model.RemoteError{Kind: model.ErrRemoteProtocol, Op: op, StatusCode: status, Body: string(body), Err: err}
	}
	return nil
}

// transportError classifies a failure where no response was received.
func (c *Client) transportError(ctx context.Context, op string, err error) error {
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, err)
	}
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) ||
		(errors.As(err, &ne) && ne.Timeout()) {
		return &model.RemoteError{Kind: model.ErrRemoteTimeout, Op: op, Err: err}
	}
	return &model.RemoteError{Kind: model.ErrRemoteUnreachable, Op: op, Err: err}
}
