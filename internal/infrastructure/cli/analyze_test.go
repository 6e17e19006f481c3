package cli

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/felixgeelhaar/sqlscore/pkg/application"
)

func runAnalyze(t *testing.T) (string, error) {
	t.Helper()
	var err error
	out := captureStdout(t, func() {
		err = analyzeCmd.RunE(analyzeCmd, nil)
	})
	return out, err
}

func TestAnalyze_RendersScoreCard(t *testing.T) {
	stub := &backendStub{report: sampleReport}
	withHome(t, stub)
	analyzeConn = connectionFlags{url: testURL, username: "app", password: "s3cret"}
	analyzeSQL = "select * from orders"

	out, err := runAnalyze(t)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	for _, want := range []string{"abc123", "85", "performing well", "缺少索引", "为字段x添加索引", "[-10]", "orders", "10%"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if stub.lastSQL != "select * from orders" {
		t.Errorf("backend got %q", stub.lastSQL)
	}
}

func TestAnalyze_JSON(t *testing.T) {
	withHome(t, &backendStub{report: sampleReport})
	analyzeConn = connectionFlags{url: testURL, username: "app", password: "s3cret"}
	analyzeSQL = "select 1"
	analyzeJSON = true

	out, err := runAnalyze(t)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	var view application.OutcomeView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if !view.Parsed || view.Result.Score != 85 || view.Grade != "good" || len(view.Explain) != 1 {
		t.Errorf("view = %+v", view)
	}
}

func TestAnalyze_Raw(t *testing.T) {
	withHome(t, &backendStub{report: sampleReport})
	analyzeConn = connectionFlags{url: testURL, username: "app", password: "s3cret"}
	analyzeSQL = "select 1"
	analyzeRaw = true

	out, err := runAnalyze(t)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if strings.TrimSpace(out) != sampleReport {
		t.Errorf("raw output = %q", out)
	}
}

func TestAnalyze_ParseFailureShowsRawReport(t *testing.T) {
	report := "SQL 语句 ID：x1\n规则命中原因：\"缺少索引"
	withHome(t, &backendStub{report: report})
	analyzeConn = connectionFlags{url: testURL, username: "app", password: "s3cret"}
	analyzeSQL = "select 1"

	out, err := runAnalyze(t)
	if err != nil {
		t.Fatalf("parse failure must not fail the command: %v", err)
	}
	if !strings.Contains(out, report) {
		t.Errorf("expected raw report verbatim in:\n%s", out)
	}
	if strings.Contains(out, "Score:") {
		t.Errorf("did not expect a score card:\n%s", out)
	}
}

func TestAnalyze_UsesSavedSourceAndRemembersIt(t *testing.T) {
	stub := &backendStub{report: sampleReport}
	withHome(t, stub)
	addSource(t, "shop")

	analyzeConn = connectionFlags{source: "shop"}
	analyzeSQL = "select 1"
	if _, err := runAnalyze(t); err != nil {
		t.Fatalf("analyze with source: %v", err)
	}

	// The next run falls back to the remembered connection.
	analyzeConn.reset()
	analyzeSQL = "select 2"
	if _, err := runAnalyze(t); err != nil {
		t.Fatalf("analyze with remembered connection: %v", err)
	}
	if stub.lastSQL != "select 2" {
		t.Errorf("backend got %q", stub.lastSQL)
	}
}

func TestAnalyze_Errors(t *testing.T) {
	tests := []struct {
		name  string
		setup func()
		want  string
	}{
		{"no connection", func() { analyzeSQL = "select 1" }, "no connection configured"},
		{"no sql", func() {
			analyzeConn = connectionFlags{url: testURL, username: "app", password: "x"}
			stdinIsTerminal = func() bool { return true }
		}, "no SQL statement"},
		{"bad url", func() {
			analyzeConn = connectionFlags{url: "jdbc:oracle:thin:@db", username: "app", password: "x"}
			analyzeSQL = "select 1"
		}, "invalid url"},
		{"unknown source", func() {
			analyzeConn = connectionFlags{source: "nope"}
			analyzeSQL = "select 1"
		}, "data source not found"},
		{"both sql and file", func() {
			analyzeSQL, analyzeFile = "select 1", "q.sql"
		}, "mutually exclusive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withHome(t, &backendStub{report: sampleReport})
			prev := stdinIsTerminal
			t.Cleanup(func() { stdinIsTerminal = prev })
			tt.setup()

			_, err := runAnalyze(t)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %v, want containing %q", err, tt.want)
			}
			var cliErr *CLIError
			if !errors.As(err, &cliErr) {
				t.Errorf("expected CLIError, got %T", err)
			}
		})
	}
}

func TestAnalyze_BackendRejects(t *testing.T) {
	withHome(t, &backendStub{report: sampleReport, code: 500})
	analyzeConn = connectionFlags{url: testURL, username: "app", password: "s3cret"}
	analyzeSQL = "select 1"

	_, err := runAnalyze(t)
	var cliErr *CLIError
	if !errors.As(err, &cliErr) || !strings.Contains(cliErr.Message, "code 500") {
		t.Fatalf("error = %v", err)
	}
}

func TestAnalyze_CopyToClipboard(t *testing.T) {
	withHome(t, &backendStub{report: sampleReport})
	analyzeConn = connectionFlags{url: testURL, username: "app", password: "s3cret"}
	analyzeSQL = "select 1"
	analyzeCopy = true

	var copied string
	prev := copyToClipboard
	copyToClipboard = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { copyToClipboard = prev })

	if _, err := runAnalyze(t); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if copied != sampleReport {
		t.Errorf("copied = %q", copied)
	}
}

func TestAnalyze_ClipboardFailureIsNotFatal(t *testing.T) {
	withHome(t, &backendStub{report: sampleReport})
	analyzeConn = connectionFlags{url: testURL, username: "app", password: "s3cret"}
	analyzeSQL = "select 1"
	analyzeCopy = true

	prev := copyToClipboard
	copyToClipboard = func(string) error { return errors.New("no clipboard") }
	t.Cleanup(func() { copyToClipboard = prev })

	if _, err := runAnalyze(t); err != nil {
		t.Fatalf("clipboard failure must not fail the command: %v", err)
	}
}

func TestAnalyze_ExplainHelp(t *testing.T) {
	withHome(t, &backendStub{})
	analyzeExplainHelp = true

	out, err := runAnalyze(t)
	if err != nil {
		t.Fatalf("explain help: %v", err)
	}
	for _, want := range []string{"select_type", "possible_keys", "ALL"} {
		if !strings.Contains(out, want) {
			t.Errorf("guide missing %q", want)
		}
	}
}

func TestReadStatement(t *testing.T) {
	withHome(t, &backendStub{})
	prev := stdinIsTerminal
	t.Cleanup(func() { stdinIsTerminal = prev })

	file := filepath.Join(t.TempDir(), "q.sql")
	if err := os.WriteFile(file, []byte("select * from t"), 0600); err != nil {
		t.Fatal(err)
	}

	analyzeFile = file
	if got, err := readStatement(strings.NewReader("")); err != nil || got != "select * from t" {
		t.Errorf("file: %q, %v", got, err)
	}

	analyzeFile = "-"
	if got, err := readStatement(strings.NewReader("  select 2\n")); err != nil || got != "select 2" {
		t.Errorf("dash: %q, %v", got, err)
	}

	analyzeFile = ""
	stdinIsTerminal = func() bool { return false }
	if got, err := readStatement(strings.NewReader("select 3")); err != nil || got != "select 3" {
		t.Errorf("piped: %q, %v", got, err)
	}

	analyzeFile = filepath.Join(t.TempDir(), "missing.sql")
	if _, err := readStatement(strings.NewReader("")); err == nil {
		t.Error("expected error for missing file")
	}
}
