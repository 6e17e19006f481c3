package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/sqlscore/internal/infrastructure/watch"
)

var (
	watchConn     connectionFlags
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch <file-or-dir>",
	Short: "Re-analyze SQL files whenever they change",
	Long: `Watch a .sql file, or every .sql file under a directory, and score the
statement again each time it is saved.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := args[0]
		info, err := os.Stat(target)
		if err != nil {
			return NewCLIError("cannot watch path", "Check that the file or directory exists", err)
		}

		services, err := loadServicesForHome()
		if err != nil {
			return err
		}
		conn, err := watchConn.resolve(services.Sources)
		if err != nil {
			return MapError(err)
		}
		conn, err = services.Analysis.ResolveConnection(conn)
		if err != nil {
			return MapError(err)
		}

		out := cmd.OutOrStdout()
		var mu sync.Mutex
		analyze := func(ctx context.Context, path, sql string) {
			mu.Lock()
			defer mu.Unlock()

			fmt.Fprintf(out, "\n%s\n", dimStyle.Render(fmt.Sprintf("── %s changed at %s", path, time.Now().Format("15:04:05"))))
			outcome, err := services.Analysis.Analyze(ctx, conn, sql)
			if err != nil {
				fmt.Fprintf(out, "%s %v\n", gradePoorStyle.Render("Analysis failed:"), MapError(err))
				return
			}
			renderOutcome(out, outcome, true)
		}

		ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()

		re := watch.NewReanalyzer(analyze, slog.Default())
		if !info.IsDir() {
			re.Seed(ctx, target)
		}
		if os.Getenv("SQLSCORE_WATCH_ONCE") == "true" {
			return nil
		}

		var filter *watch.PatternFilter
		if info.IsDir() {
			filter = watch.NewSQLFilter()
		}
		w, err := watch.NewFSWatcher(watchDebounce, filter, func(ev watch.ChangeEvent) {
			re.Handle(ctx, ev)
		})
		if err != nil {
			return err
		}
		if info.IsDir() {
			err = w.WatchRecursive(target)
		} else {
			err = w.WatchFile(target)
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "Watching %s for changes... (Ctrl+C to stop)\n", target)
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	watchConn.bind(watchCmd)
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "Quiet period before re-analyzing")
	RootCmd.AddCommand(watchCmd)
}
