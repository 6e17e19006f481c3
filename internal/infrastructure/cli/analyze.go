package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/sqlscore/pkg/application"
)

var (
	analyzeConn        connectionFlags
	analyzeSQL         string
	analyzeFile        string
	analyzeJSON        bool
	analyzeRaw         bool
	analyzeCopy        bool
	analyzeExplainHelp bool
	analyzeNoExplain   bool
)

// Replaced in tests.
var (
	copyToClipboard = clipboard.WriteAll
	stdinIsTerminal = func() bool {
		fd := os.Stdin.Fd()
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a SQL statement and show the EXPLAIN plan",
	Long: `Send a statement to the analysis backend and show its score card.

The statement comes from --sql, from --file (use - for stdin), or from stdin
when it is piped. The connection comes from --source, from --url/--username/
--password, or from the last connection used.`,
	Example: `  sqlscore analyze --source shop --sql "select * from orders where status = 'new'"
  sqlscore analyze -f slow.sql --url jdbc:mysql://localhost:3306/shop -u app -p secret
  cat slow.sql | sqlscore analyze --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if analyzeExplainHelp {
			renderExplainGuide(out)
			return nil
		}

		sql, err := readStatement(cmd.InOrStdin())
		if err != nil {
			return MapError(err)
		}

		services, err := loadServicesForHome()
		if err != nil {
			return err
		}
		conn, err := analyzeConn.resolve(services.Sources)
		if err != nil {
			return MapError(err)
		}

		outcome, err := services.Analysis.Analyze(commandContext(cmd), conn, sql)
		if err != nil {
			return MapError(err)
		}

		if analyzeCopy {
			if err := copyToClipboard(outcome.Raw); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not copy to clipboard: %v\n", err)
			} else {
				fmt.Fprintln(cmd.ErrOrStderr(), "Report copied to clipboard.")
			}
		}

		return printOutcome(out, outcome, !analyzeNoExplain)
	},
}

// printOutcome writes an outcome in the format selected by --json and --raw.
func printOutcome(w io.Writer, outcome *application.Outcome, showExplain bool) error {
	switch {
	case analyzeJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(outcome.View())
	case analyzeRaw:
		fmt.Fprintln(w, outcome.Raw)
		return nil
	default:
		renderOutcome(w, outcome, showExplain)
		return nil
	}
}

// readStatement picks the statement from --sql, --file or piped stdin.
func readStatement(stdin io.Reader) (string, error) {
	if analyzeSQL != "" && analyzeFile != "" {
		return "", NewCLIError("--sql and --file are mutually exclusive", "Pass only one of them", nil)
	}
	switch {
	case analyzeSQL != "":
		return analyzeSQL, nil
	case analyzeFile == "-":
		return readAll(stdin)
	case analyzeFile != "":
		data, err := os.ReadFile(analyzeFile)
		if err != nil {
			return "", NewCLIError("cannot read SQL file", "Check the --file path", err)
		}
		return string(data), nil
	case !stdinIsTerminal():
		return readAll(stdin)
	}
	return "", application.ErrEmptySQL
}

func readAll(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func init() {
	analyzeConn.bind(analyzeCmd)
	analyzeCmd.Flags().StringVar(&analyzeSQL, "sql", "", "SQL statement to analyze")
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "Read the statement from a file (- for stdin)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the outcome as JSON")
	analyzeCmd.Flags().BoolVar(&analyzeRaw, "raw", false, "Print the backend report without structuring it")
	analyzeCmd.Flags().BoolVar(&analyzeCopy, "copy", false, "Copy the report to the clipboard")
	analyzeCmd.Flags().BoolVar(&analyzeExplainHelp, "explain-help", false, "Explain the EXPLAIN columns and exit")
	analyzeCmd.Flags().BoolVar(&analyzeNoExplain, "no-explain", false, "Hide the EXPLAIN table")
	RootCmd.AddCommand(analyzeCmd)
}
