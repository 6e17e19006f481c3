// Package backend talks to the remote SQL analysis service over HTTP.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/felixgeelhaar/fortify/timeout"
	"github.com/felixgeelhaar/sqlscore/pkg/domain/analysis"
	"github.com/felixgeelhaar/sqlscore/pkg/domain/datasource"
)

const (
	PathTestConnection = "/jd/sql-analysis/testConnection"
	PathAnalyze        = "/jd/sql-analysis/analyze"
	PathHealth         = "/xm/soar/health"
)

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 16 << 20

// envelope is the wrapper every backend response uses.
type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// exchange is a completed HTTP round trip.
type exchange struct {
	status int
	body   []byte
}

// Client implements analysis.Gateway against the analysis backend.
type Client struct {
	baseURL  string
	http     *http.Client
	logger   *slog.Logger
	timeout  time.Duration
	retryCfg retry.Config
}

var _ analysis.Gateway = (*Client)(nil)

// NewClient creates a client for the backend rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if o.maxAttempts < 1 {
		o.maxAttempts = 1
	}
	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger,
		timeout: o.timeout,
		retryCfg: retry.Config{
			MaxAttempts:   o.maxAttempts,
			InitialDelay:  o.initialDelay,
			BackoffPolicy: retry.BackoffExponential,
		},
	}
}

// BaseURL returns the backend root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// TestConnection asks the backend to open the connection and describe the database.
func (c *Client) TestConnection(ctx context.Context, conn datasource.Connection) (*analysis.DatabaseMeta, error) {
	data, err := c.call(ctx, http.MethodPost, PathTestConnection, conn)
	if err != nil {
		return nil, err
	}
	if err := validatePayload(metaSchemaLoader, data); err != nil {
		return nil, err
	}
	var meta analysis.DatabaseMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return &meta, nil
}

// Analyze submits a statement and returns the EXPLAIN rows and the raw report.
func (c *Client) Analyze(ctx context.Context, req analysis.AnalyzeRequest) (*analysis.AnalyzeResponse, error) {
	data, err := c.call(ctx, http.MethodPost, PathAnalyze, req)
	if err != nil {
		return nil, err
	}
	if err := validatePayload(analyzeSchemaLoader, data); err != nil {
		return nil, err
	}
	var resp analysis.AnalyzeResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return &resp, nil
}

// Health returns the status code the backend reports for its analysis engine.
func (c *Client) Health(ctx context.Context) (int, error) {
	data, err := c.call(ctx, http.MethodGet, PathHealth, nil)
	if err != nil {
		return 0, err
	}
	var status int
	if err := json.Unmarshal(data, &status); err != nil {
		return 0, fmt.Errorf("%w: health status: %v", ErrInvalidPayload, err)
	}
	return status, nil
}

// call performs one logical request. Transport failures are retried;
// answers from the backend, good or bad, are not.
func (c *Client) call(ctx context.Context, method, path string, payload any) (json.RawMessage, error) {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s request: %w", path, err)
		}
	}

	r := retry.New[*exchange](c.retryCfg)
	t := timeout.New[*exchange](timeout.Config{DefaultTimeout: c.timeout})

	ex, err := t.Execute(ctx, c.timeout, func(ctx context.Context) (*exchange, error) {
		return r.Do(ctx, func(ctx context.Context) (*exchange, error) {
			return c.roundTrip(ctx, method, path, body)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	if ex.status < 200 || ex.status >= 300 {
		return nil, &BackendError{Path: path, HTTPStatus: ex.status, Message: snippet(ex.body)}
	}

	var env envelope
	if err := json.Unmarshal(ex.body, &env); err != nil {
		return nil, fmt.Errorf("%w: decode envelope from %s: %v", ErrInvalidPayload, path, err)
	}
	if env.Code != CodeSuccess {
		return nil, &BackendError{Path: path, HTTPStatus: ex.status, Code: env.Code, Message: env.Msg}
	}
	return env.Data, nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body []byte) (*exchange, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("backend request failed", "method", method, "path", path, "error", err)
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	c.logger.Debug("backend request", "method", method, "path", path,
		"status", resp.StatusCode, "duration", time.Since(start))
	return &exchange{status: resp.StatusCode, body: data}, nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	if s == "" {
		s = "empty response"
	}
	return s
}
