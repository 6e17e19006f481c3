package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var (
	homeDir string
	verbose bool
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "sqlscore",
	Version: Version,
	Short:   "Score SQL statements against a remote analysis backend",
	Long: `sqlscore sends a SQL statement and database credentials to an analysis
backend, then shows the EXPLAIN plan and a rule-based score card:
the total score, every rule that matched, and what to change.

Saved data sources live in ~/.sqlscore (override with --home or SQLSCORE_HOME).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(verbose)
	},
}

// setupLogging installs the default logger. Only errors are shown unless verbose.
func setupLogging(verbose bool) {
	level := slog.LevelError
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func init() {
	RootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "Directory holding the .sqlscore folder (default $SQLSCORE_HOME or the user home)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log backend requests and parse diagnostics to stderr")
}

// commandContext returns the command's context, or Background when the
// command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
