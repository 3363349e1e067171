// Package client reads a running evalhub server over HTTP.
package client

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

	"github.com/okian/evalhub/internal/domain/model"
	"github.com/okian/evalhub/pkg/logger"
)

// DefaultTimeout bounds each request unless WithHTTPClient or WithTimeout
// override it.
const DefaultTimeout = 30 * time.Second

// Client errors.
var (
	ErrNotFound         = errors.New("not found")
	ErrUnexpectedStatus = errors.New("unexpected status")
)

// StatusError carries the server's error body for a failed request.
type StatusError struct {
	URL     string
	Status  int
	Code    string
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("GET %s: %d %s: %s", e.URL, e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("GET %s: %d", e.URL, e.Status)
}

// Unwrap lets errors.Is match ErrNotFound for 404 responses and
// ErrUnexpectedStatus otherwise.
func (e *StatusError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return ErrNotFound
	}
	return ErrUnexpectedStatus
}

// Client talks to the evalhub HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  logger.Logger
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger sets the logger used for fallbacks.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Client for the server at baseURL, e.g. "http://localhost:3001".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List fetches the whole catalog. The static snapshot is tried first and
// the live listing is used when it is not served.
func (c *Client) List(ctx context.Context) (model.Snapshot, error) {
	var snap model.Snapshot
	err := c.getJSON(ctx, "/evals.json", &snap)
	if err == nil {
		return snap, nil
	}
	if ctx.Err() != nil {
		return model.Snapshot{}, err
	}

	c.logger.Debug(ctx, "static snapshot unavailable; falling back to live listing", logger.Error(err))
	snap = model.Snapshot{}
	if err := c.getJSON(ctx, "/api/evals", &snap); err != nil {
		return model.Snapshot{}, err
	}
	return snap, nil
}

// Detail fetches one benchmark with its notes. Unknown ids match ErrNotFound.
func (c *Client) Detail(ctx context.Context, id string) (model.Detail, error) {
	var d model.Detail
	if err := c.getJSON(ctx, "/api/evals/"+url.PathEscape(id), &d); err != nil {
		return model.Detail{}, err
	}
	// Code blocks are not part of the wire format; parse them again.
	return model.NewDetail(d.BenchmarkRecord), nil
}

// Groups fetches the sorted distinct groups.
func (c *Client) Groups(ctx context.Context) ([]string, error) {
	var body struct {
		Groups []string `json:"groups"`
	}
	if err := c.getJSON(ctx, "/api/groups", &body); err != nil {
		return nil, err
	}
	if body.Groups == nil {
		body.Groups = []string{}
	}
	return body.Groups, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	target := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", target, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		serr := &StatusError{URL: target, Status: resp.StatusCode}
		var e struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &e) == nil {
			serr.Code, serr.Message = e.Code, e.Message
		}
		return serr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", target, err)
	}
	return nil
}
