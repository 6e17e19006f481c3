package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	inframcp "github.com/felixgeelhaar/sqlscore/internal/infrastructure/mcp"
	"github.com/spf13/cobra"
)

var (
	mcpTransport string
	mcpAddr      string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the sqlscore MCP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if os.Getenv("SQLSCORE_SKIP_MCP_START") == "true" {
			return nil
		}
		root, err := getHomeRoot()
		if err != nil {
			return err
		}
		server, err := inframcp.NewServer(root, slog.Default())
		if err != nil {
			return err
		}
		ctx := commandContext(cmd)
		switch strings.ToLower(mcpTransport) {
		case "stdio", "":
			return server.ServeStdio(ctx)
		case "http":
			return server.ServeHTTP(ctx, mcpAddr)
		case "ws", "websocket":
			return server.ServeWebSocket(ctx, mcpAddr)
		default:
			e := NewCLIError(fmt.Sprintf("unsupported transport: %s", mcpTransport), "Use stdio, http or ws", nil)
			e.ExitCode = ExitUsage
			return e
		}
	},
}

func init() {
	mcpCmd.Flags().StringVar(&mcpTransport, "transport", "stdio", "Transport to use (stdio, http, ws)")
	mcpCmd.Flags().StringVar(&mcpAddr, "addr", ":8090", "Address for http/ws transports")
	RootCmd.AddCommand(mcpCmd)
}
