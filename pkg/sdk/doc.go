// Package sdk provides a typed Go client for the sqlscore MCP server.
//
// The client wraps mcp-go/client.CallTool with one method per MCP tool
// and retries failed calls via fortify.
//
// Usage:
//
//	transport, _ := client.NewStdioTransport("sqlscore", "mcp")
//	c := sdk.NewClient(transport)
//	defer c.Close()
//
//	_, _ = c.Initialize(ctx)
//	out, _ := c.Analyze(ctx, sdk.AnalyzeRequest{SQL: "select * from orders", Source: "shop"})
//	fmt.Println(out.Result.Score)
package sdk
