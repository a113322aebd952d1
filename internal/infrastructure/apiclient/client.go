// Package apiclient implements the authenticated request pipeline against the
// campus backend.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/smartcampus/campus-portal/internal/core/domain"
	"github.com/smartcampus/campus-portal/internal/core/ports"
	"github.com/smartcampus/campus-portal/internal/core/session"
	"github.com/smartcampus/campus-portal/internal/pkg/metrics"
)

const (
	headerContentType   = "Content-Type"
	headerAuthorization = "Authorization"
	mimeJSON            = "application/json"

	defaultFailure = "Request failed"
)

// Client is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

var _ ports.APIClient = (*Client)(nil)

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithTimeout bounds every request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.http
			hc.Timeout = d
			c.http = &hc
		}
	}
}

// New builds a client for an absolute base URL such as
// "https://campus.example.edu/api".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute http(s)", baseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request sends one call and returns the parsed JSON body. The bearer token
// comes from the session store carried by ctx, if any.
func (c *Client) Request(ctx context.Context, path string, opts ports.RequestOptions) (json.RawMessage, error) {
	method := strings.ToUpper(opts.Method)
	if method == "" {
		method = http.MethodGet
	}

	start := time.Now()
	data, err := c.do(ctx, method, path, opts)
	metrics.APIRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())

	outcome := "ok"
	if err != nil {
		outcome = string(domain.KindOf(err))
		c.log.Error().Err(err).
			Str("method", method).
			Str("path", path).
			Str("kind", outcome).
			Msg("api request failed")
	}
	metrics.APIRequestsTotal.WithLabelValues(method, outcome).Inc()
	return data, err
}

func (c *Client) do(ctx context.Context, method, path string, opts ports.RequestOptions) (json.RawMessage, error) {
	body, err := encodeBody(opts.Body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body.reader)
	if err != nil {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid request: %v", err))
	}
	c.applyHeaders(ctx, req, body, opts.Headers)

	c.log.Debug().Str("method", method).Str("url", req.URL.String()).Msg("api request")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, domain.NewNetworkError(err)
	}
	defer resp.Body.Close()

	return decodeResponse(resp)
}

// applyHeaders merges defaults, then caller headers on top. Multipart bodies
// get their Content-Type from the encoder last, boundary included.
func (c *Client) applyHeaders(ctx context.Context, req *http.Request, body encodedBody, caller map[string]string) {
	if body.kind != bodyMultipart && body.kind != bodyRaw {
		req.Header.Set(headerContentType, mimeJSON)
	}
	if store, ok := session.FromContext(ctx); ok {
		if token := store.Token(ctx); token != "" {
			req.Header.Set(headerAuthorization, "Bearer "+token)
		}
	}

	for k, v := range caller {
		if body.kind == bodyMultipart && strings.EqualFold(k, headerContentType) {
			c.log.Debug().Str("content_type", v).Msg("ignoring caller content type for multipart body")
			continue
		}
		req.Header.Set(k, v)
	}

	if body.kind == bodyMultipart {
		req.Header.Set(headerContentType, body.contentType)
	}
}

func decodeResponse(resp *http.Response) (json.RawMessage, error) {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewNetworkError(fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode == http.StatusNoContent {
		return json.RawMessage("null"), nil
	}

	if !isJSON(resp.Header.Get(headerContentType)) {
		msg := strings.TrimSpace(string(raw))
		if msg == "" {
			msg = defaultFailure
		}
		return nil, domain.NewProtocolError(resp.StatusCode, msg)
	}

	if !json.Valid(raw) {
		return nil, domain.NewProtocolError(resp.StatusCode, "invalid JSON response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, domain.NewServerError(resp.StatusCode, errorMessage(raw, resp.StatusCode))
	}

	return json.RawMessage(raw), nil
}

func isJSON(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), mimeJSON)
}

// errorMessage prefers the body's "error", then "message" string field.
func errorMessage(raw []byte, status int) string {
	var envelope struct {
		Error   any `json:"error"`
		Message any `json:"message"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if s, ok := envelope.Error.(string); ok && s != "" {
			return s
		}
		if s, ok := envelope.Message.(string); ok && s != "" {
			return s
		}
	}
	return fmt.Sprintf("Request failed with status %d", status)
}

// IsStatus reports whether err is a server error with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *domain.APIError
	return errors.As(err, &apiErr) && apiErr.Kind == domain.KindServer && apiErr.Status == status
}

// Decode unmarshals a Request result into out.
func Decode(raw json.RawMessage, out any) error {
	if err := json.Unmarshal(raw, out); err != nil {
		return domain.NewProtocolError(0, fmt.Sprintf("unexpected response shape: %v", err))
	}
	return nil
}
