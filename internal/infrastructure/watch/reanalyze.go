package watch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// AnalyzeFunc runs one analysis of the statement read from path.
type AnalyzeFunc func(ctx context.Context, path, sql string)

// Reanalyzer turns change events into analyses. Unchanged content, removed
// files and blank files are skipped.
type Reanalyzer struct {
	analyze AnalyzeFunc
	logger  *slog.Logger

	mu     sync.Mutex
	hashes map[string]string
}

func NewReanalyzer(analyze AnalyzeFunc, logger *slog.Logger) *Reanalyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reanalyzer{
		analyze: analyze,
		logger:  logger,
		hashes:  make(map[string]string),
	}
}

// Seed analyzes path once, as if it had just changed.
func (r *Reanalyzer) Seed(ctx context.Context, path string) {
	r.Handle(ctx, ChangeEvent{Path: path, ChangeType: "create"})
}

// Handle processes one change event.
func (r *Reanalyzer) Handle(ctx context.Context, ev ChangeEvent) {
	if ev.ChangeType == "remove" || ev.ChangeType == "rename" {
		r.forget(ev.Path)
		return
	}

	data, err := os.ReadFile(ev.Path)
	if err != nil {
		r.logger.Debug("skipping unreadable file", "path", ev.Path, "error", err)
		return
	}
	sql := strings.TrimSpace(string(data))
	if sql == "" {
		return
	}

	sum := sha256.Sum256([]byte(sql))
	hash := hex.EncodeToString(sum[:])

	r.mu.Lock()
	if r.hashes[ev.Path] == hash {
		r.mu.Unlock()
		return
	}
	r.hashes[ev.Path] = hash
	r.mu.Unlock()

	r.logger.Debug("statement changed", "path", ev.Path, "change", ev.ChangeType)
	r.analyze(ctx, ev.Path, sql)
}

func (r *Reanalyzer) forget(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.hashes, path)
}
