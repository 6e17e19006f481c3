package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestParse_File(t *testing.T) {
	withHome(t, &backendStub{})
	file := filepath.Join(t.TempDir(), "report.txt")
	if err := os.WriteFile(file, []byte(sampleReport), 0600); err != nil {
		t.Fatal(err)
	}

	out := captureStdout(t, func() {
		if err := parseCmd.RunE(parseCmd, []string{file}); err != nil {
			t.Fatalf("parse: %v", err)
		}
	})
	if !strings.Contains(out, "abc123") || !strings.Contains(out, "缺少索引") {
		t.Errorf("output:\n%s", out)
	}
}

func TestParse_Stdin(t *testing.T) {
	withHome(t, &backendStub{})
	parseCmd.SetIn(strings.NewReader("nothing structured here"))
	t.Cleanup(func() { parseCmd.SetIn(nil) })

	out := captureStdout(t, func() {
		if err := parseCmd.RunE(parseCmd, []string{"-"}); err != nil {
			t.Fatalf("parse: %v", err)
		}
	})
	if !strings.Contains(out, "No rules matched") || !strings.Contains(out, "Score: 0") {
		t.Errorf("output:\n%s", out)
	}
}

func TestParse_MissingFile(t *testing.T) {
	withHome(t, &backendStub{})
	if err := parseCmd.RunE(parseCmd, []string{filepath.Join(t.TempDir(), "nope.txt")}); err == nil {
		t.Fatal("expected error")
	}
}

func TestConnect(t *testing.T) {
	withHome(t, &backendStub{})
	connectConn = connectionFlags{url: testURL, username: "app", password: "s3cret"}

	out := captureStdout(t, func() {
		if err := connectCmd.RunE(connectCmd, nil); err != nil {
			t.Fatalf("connect: %v", err)
		}
	})
	if !strings.Contains(out, "Connection OK") || !strings.Contains(out, "MySQL 8.0.36") {
		t.Errorf("output:\n%s", out)
	}
}

func TestConnect_JSON(t *testing.T) {
	withHome(t, &backendStub{})
	connectConn = connectionFlags{url: testURL, username: "app", password: "s3cret"}
	connectJSON = true

	out := captureStdout(t, func() {
		if err := connectCmd.RunE(connectCmd, nil); err != nil {
			t.Fatalf("connect: %v", err)
		}
	})
	if !strings.Contains(out, `"databaseProductName": "MySQL"`) {
		t.Errorf("output:\n%s", out)
	}
}

func TestHealth(t *testing.T) {
	withHome(t, &backendStub{health: 200})
	out := captureStdout(t, func() {
		if err := healthCmd.RunE(healthCmd, nil); err != nil {
			t.Fatalf("health: %v", err)
		}
	})
	if !strings.Contains(out, "OK") {
		t.Errorf("output: %s", out)
	}
}

func TestHealth_Unhealthy(t *testing.T) {
	withHome(t, &backendStub{health: 503})
	var err error
	out := captureStdout(t, func() {
		err = healthCmd.RunE(healthCmd, nil)
	})
	var cliErr *CLIError
	if !errors.As(err, &cliErr) || cliErr.ExitCode != ExitUnreachable {
		t.Fatalf("error = %v", err)
	}
	if !strings.Contains(out, "DOWN") {
		t.Errorf("output: %s", out)
	}
}

func TestConfig_SetAndShow(t *testing.T) {
	withHome(t, &backendStub{})
	t.Setenv("SQLSCORE_BACKEND_URL", "")

	captureStdout(t, func() {
		if err := configSetCmd.RunE(configSetCmd, []string{"backend.timeout", "45s"}); err != nil {
			t.Fatalf("config set: %v", err)
		}
	})
	out := captureStdout(t, func() {
		if err := configShowCmd.RunE(configShowCmd, nil); err != nil {
			t.Fatalf("config show: %v", err)
		}
	})
	if !strings.Contains(out, "timeout: 45s") || !strings.Contains(out, "url: http://localhost:8080") {
		t.Errorf("output:\n%s", out)
	}
}

func TestConfig_SetInvalid(t *testing.T) {
	withHome(t, &backendStub{})
	err := configSetCmd.RunE(configSetCmd, []string{"backend.max_attempts", "none"})
	var cliErr *CLIError
	if !errors.As(err, &cliErr) || cliErr.ExitCode != ExitUsage {
		t.Fatalf("error = %v", err)
	}
}

func TestWatch_Once(t *testing.T) {
	stub := &backendStub{report: sampleReport}
	withHome(t, stub)
	watchConn = connectionFlags{url: testURL, username: "app", password: "s3cret"}

	file := filepath.Join(t.TempDir(), "slow.sql")
	if err := os.WriteFile(file, []byte("select * from orders\n"), 0600); err != nil {
		t.Fatal(err)
	}

	out := captureStdout(t, func() {
		if err := watchCmd.RunE(watchCmd, []string{file}); err != nil {
			t.Fatalf("watch: %v", err)
		}
	})
	if !strings.Contains(out, "changed at") || !strings.Contains(out, "abc123") {
		t.Errorf("output:\n%s", out)
	}
	if stub.lastSQL != "select * from orders" {
		t.Errorf("backend got %q", stub.lastSQL)
	}
}

func TestWatch_Errors(t *testing.T) {
	withHome(t, &backendStub{})

	if err := watchCmd.RunE(watchCmd, []string{filepath.Join(t.TempDir(), "missing.sql")}); err == nil {
		t.Error("expected error for missing path")
	}

	file := filepath.Join(t.TempDir(), "q.sql")
	if err := os.WriteFile(file, []byte("select 1"), 0600); err != nil {
		t.Fatal(err)
	}
	err := watchCmd.RunE(watchCmd, []string{file})
	if err == nil || !strings.Contains(err.Error(), "no connection") {
		t.Errorf("expected missing connection error, got %v", err)
	}
}

func TestMCP_SkipStart(t *testing.T) {
	t.Setenv("SQLSCORE_SKIP_MCP_START", "true")
	if err := mcpCmd.RunE(mcpCmd, nil); err != nil {
		t.Fatalf("mcp: %v", err)
	}
}

func TestMCP_UnsupportedTransport(t *testing.T) {
	withHome(t, &backendStub{})
	prev := mcpTransport
	mcpTransport = "carrier-pigeon"
	t.Cleanup(func() { mcpTransport = prev })

	err := mcpCmd.RunE(mcpCmd, nil)
	var cliErr *CLIError
	if !errors.As(err, &cliErr) || cliErr.ExitCode != ExitUsage {
		t.Fatalf("error = %v", err)
	}
}

func TestGetHomeRoot(t *testing.T) {
	t.Cleanup(resetFlags)

	dir := t.TempDir()
	homeDir = dir
	if got, err := getHomeRoot(); err != nil || got != dir {
		t.Errorf("flag: %q, %v", got, err)
	}

	homeDir = ""
	t.Setenv(EnvHome, dir)
	if got, err := getHomeRoot(); err != nil || got != dir {
		t.Errorf("env: %q, %v", got, err)
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, nil, 0600); err != nil {
		t.Fatal(err)
	}
	homeDir = file
	if _, err := getHomeRoot(); err == nil {
		t.Error("expected error for file home")
	}
	homeDir = filepath.Join(dir, "missing")
	if _, err := getHomeRoot(); err == nil {
		t.Error("expected error for missing home")
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	want := []string{"analyze", "connect", "source", "parse", "watch", "dashboard", "health", "mcp", "config"}
	for _, name := range want {
		found := false
		for _, c := range RootCmd.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing subcommand %s", name)
		}
	}
}

func TestSetupLogging(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	setupLogging(false)
	if slog.Default().Enabled(context.Background(), slog.LevelWarn) {
		t.Error("warnings should be hidden without --verbose")
	}
	setupLogging(true)
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug should be enabled with --verbose")
	}
}

func TestCommandContext(t *testing.T) {
	if commandContext(&cobra.Command{}) == nil {
		t.Fatal("expected a background context")
	}
	ctx := context.WithValue(context.Background(), ctxKey{}, "x")
	cmd := &cobra.Command{}
	cmd.SetContext(ctx)
	if commandContext(cmd).Value(ctxKey{}) != "x" {
		t.Error("expected the command's own context")
	}
}

type ctxKey struct{}
