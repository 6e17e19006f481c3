package sdk

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/felixgeelhaar/mcp-go/client"
)

// ExplainGuideURI is the resource holding the EXPLAIN reading guide.
const ExplainGuideURI = "sqlscore://explain-guide"

// Client is a typed Go client for the sqlscore MCP server.
type Client struct {
	mcp           *client.Client
	retryCfg      retry.Config
	timeout       time.Duration
	defaultSource string
}

// NewClient creates a new SDK client wrapping the given MCP transport.
func NewClient(transport client.Transport, opts ...Option) *Client {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return &Client{
		mcp:           client.New(transport, client.WithTimeout(o.timeout)),
		timeout:       o.timeout,
		defaultSource: o.defaultSource,
		retryCfg: retry.Config{
			MaxAttempts:   o.maxAttempts,
			InitialDelay:  o.initialDelay,
			BackoffPolicy: retry.BackoffExponential,
		},
	}
}

// Initialize performs the MCP initialize handshake.
func (c *Client) Initialize(ctx context.Context) (*client.ServerInfo, error) {
	return c.mcp.Initialize(ctx)
}

// Close closes the underlying transport.
func (c *Client) Close() error {
	return c.mcp.Close()
}

// call invokes a tool with retry. Error results are not retried.
func (c *Client) call(ctx context.Context, tool string, args map[string]any) (*client.ToolResult, error) {
	r := retry.New[*client.ToolResult](c.retryCfg)
	result, err := r.Do(ctx, func(ctx context.Context) (*client.ToolResult, error) {
		return c.mcp.CallTool(ctx, tool, args)
	})
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", tool, err)
	}
	if result.IsError {
		msg := ""
		if len(result.Content) > 0 {
			msg = result.Content[0].Text
		}
		return nil, &ToolError{Tool: tool, Message: msg}
	}
	return result, nil
}

func unmarshalText[T any](result *client.ToolResult) (*T, error) {
	text, err := textResult(result)
	if err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	return &v, nil
}

func textResult(result *client.ToolResult) (string, error) {
	if len(result.Content) == 0 {
		return "", ErrNoContent
	}
	return result.Content[0].Text, nil
}

// ParseReport structures a report without contacting the backend.
func (c *Client) ParseReport(ctx context.Context, report string) (*Outcome, error) {
	res, err := c.call(ctx, "sqlscore_parse_report", map[string]any{"report": report})
	if err != nil {
		return nil, err
	}
	return unmarshalText[Outcome](res)
}

// Analyze scores a statement on the backend.
func (c *Client) Analyze(ctx context.Context, req AnalyzeRequest) (*Outcome, error) {
	args := c.connectionArgs(req.Connection)
	args["sql"] = req.SQL
	res, err := c.call(ctx, "sqlscore_analyze", args)
	if err != nil {
		return nil, err
	}
	return unmarshalText[Outcome](res)
}

// TestConnection checks that the backend can reach the database.
func (c *Client) TestConnection(ctx context.Context, conn Connection) (*DatabaseMeta, error) {
	res, err := c.call(ctx, "sqlscore_test_connection", c.connectionArgs(conn))
	if err != nil {
		return nil, err
	}
	return unmarshalText[DatabaseMeta](res)
}

func (c *Client) connectionArgs(conn Connection) map[string]any {
	if conn == (Connection{}) {
		conn.Source = c.defaultSource
	}
	return conn.args()
}

// ListDataSources returns the saved data sources with passwords masked.
func (c *Client) ListDataSources(ctx context.Context) ([]DataSource, error) {
	res, err := c.call(ctx, "sqlscore_list_data_sources", nil)
	if err != nil {
		return nil, err
	}
	v, err := unmarshalText[[]DataSource](res)
	if err != nil {
		return nil, err
	}
	return *v, nil
}

// Health reports whether the analysis backend is up.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	res, err := c.call(ctx, "sqlscore_health", nil)
	if err != nil {
		return nil, err
	}
	return unmarshalText[Health](res)
}

// ExplainGuide reads the EXPLAIN reading guide resource.
func (c *Client) ExplainGuide(ctx context.Context) (*ExplainGuide, error) {
	rc, err := c.mcp.ReadResource(ctx, ExplainGuideURI)
	if err != nil {
		return nil, fmt.Errorf("read explain guide: %w", err)
	}
	var guide ExplainGuide
	if err := json.Unmarshal([]byte(rc.Text), &guide); err != nil {
		return nil, fmt.Errorf("unmarshal explain guide: %w", err)
	}
	return &guide, nil
}
