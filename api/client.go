package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/rts-ads/quote-engine/quote"
)

// Client talks to the pricing service over HTTP. It implements
// quote.Pricer.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

var _ quote.Pricer = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default http.Client. The default sets no
// timeout; supply a client with one to bound requests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

func WithClientLogger(l *zap.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StatusError is a non-2xx answer from the service.
type StatusError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *StatusError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("pricing service: status %d: %s: %s", e.StatusCode, e.Message, e.Details)
	}
	return fmt.Sprintf("pricing service: status %d: %s", e.StatusCode, e.Message)
}

// Quote posts the cart and decodes the priced result. Any non-2xx status
// is a *StatusError regardless of body; an undecodable 2xx body wraps
// quote.ErrMalformedQuote.
func (c *Client) Quote(ctx context.Context, req quote.Request) (*quote.Result, error) {
	body, err := json.Marshal(fromLineItems(req))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/quote", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("pricing service not reachable at %s: %w", c.baseURL, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Debug("failed to close response body", zap.Error(err))
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serr := &StatusError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var e ErrorResponse
		if json.Unmarshal(respBody, &e) == nil && e.Error != "" {
			serr.Message = e.Error
			if d, ok := e.Details.(string); ok {
				serr.Details = d
			}
		}
		return nil, serr
	}

	var qr QuoteResponse
	if err := json.Unmarshal(respBody, &qr); err != nil {
		return nil, fmt.Errorf("%w: %v", quote.ErrMalformedQuote, err)
	}
	if qr.Items == nil {
		return nil, fmt.Errorf("%w: missing items", quote.ErrMalformedQuote)
	}
	return toQuoteResult(qr), nil
}

// HealthCheck reports whether the service answers /health.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("pricing service not reachable at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{StatusCode: resp.StatusCode, Message: "health check failed"}
	}
	return nil
}
