package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/felixgeelhaar/sqlscore/internal/infrastructure/config"
	"github.com/felixgeelhaar/sqlscore/pkg/infrastructure/backend"
)

const sampleReport = "SQL 语句 ID：abc123\n" +
	"SQL分析结果的分数为: 85\n" +
	"规则命中原因：\"缺少索引\"\n" +
	"规则命中，修改建议：\"为字段x添加索引\"\n" +
	"规则命中，减去分数 -10"

const testURL = "jdbc:mysql://db.local:3306/shop"

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatalf("read stdout: %v", err)
	}
	return buf.String()
}

// backendStub configures what the fake analysis backend answers.
type backendStub struct {
	report  string
	code    int
	health  int
	lastSQL string
}

// withHome points the CLI at a fresh home directory and a fake backend.
// All command flags are reset when the test ends.
func withHome(t *testing.T, stub *backendStub) string {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		code := stub.code
		if code == 0 {
			code = 200
		}
		var data any
		switch r.URL.Path {
		case backend.PathAnalyze:
			var req map[string]string
			_ = json.NewDecoder(r.Body).Decode(&req)
			stub.lastSQL = req["sql"]
			data = map[string]any{
				"scoreResult": stub.report,
				"explainResultList": []map[string]any{
					{"id": 1, "selectType": "SIMPLE", "table": "orders", "type": "ALL", "rows": "1200", "filtered": 10.0},
				},
			}
		case backend.PathTestConnection:
			data = map[string]any{"databaseProductName": "MySQL", "databaseVersion": "8.0.36", "userName": "app@%"}
		case backend.PathHealth:
			data = stub.health
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"code": code, "msg": "backend says no", "data": data})
	}))
	t.Cleanup(srv.Close)

	home := t.TempDir()
	homeDir = home
	t.Setenv(config.EnvBackendURL, srv.URL)
	t.Setenv("SQLSCORE_WATCH_ONCE", "true")
	t.Cleanup(resetFlags)
	return home
}

func resetFlags() {
	homeDir = ""
	verbose = false
	analyzeConn.reset()
	connectConn.reset()
	watchConn.reset()
	analyzeSQL, analyzeFile = "", ""
	analyzeJSON, analyzeRaw, analyzeCopy, analyzeExplainHelp, analyzeNoExplain = false, false, false, false, false
	connectJSON = false
	sourceName, sourceURL, sourceUsername, sourcePassword = "", "", "", ""
	sourceJSON, sourceReveal = false, false
	for _, name := range []string{"name", "url", "username", "password"} {
		if f := sourceEditCmd.Flags().Lookup(name); f != nil {
			f.Changed = false
		}
	}
}

// addSource saves a data source through the CLI.
func addSource(t *testing.T, name string) {
	t.Helper()
	sourceName, sourceURL, sourceUsername, sourcePassword = name, testURL, "app", "s3cret"
	defer func() { sourceName, sourceURL, sourceUsername, sourcePassword = "", "", "", "" }()
	captureStdout(t, func() {
		if err := sourceAddCmd.RunE(sourceAddCmd, nil); err != nil {
			t.Fatalf("source add: %v", err)
		}
	})
}
