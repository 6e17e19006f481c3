package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/sqlscore/internal/infrastructure/wiring"
)

// EnvHome selects the directory holding the .sqlscore folder.
const EnvHome = "SQLSCORE_HOME"

func loadServices(root string) (*wiring.AppServices, error) {
	services, loadErr := wiring.BuildAppServices(root, slog.Default())
	if services == nil {
		return nil, fmt.Errorf("failed to build services: %w", loadErr)
	}
	if loadErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", loadErr)
	}
	return services, nil
}

// getHomeRoot resolves --home, then $SQLSCORE_HOME, then the user home directory.
func getHomeRoot() (string, error) {
	path := homeDir
	if path == "" {
		path = strings.TrimSpace(os.Getenv(EnvHome))
	}
	if path == "" {
		return os.UserHomeDir()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid home path %q: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("home path %q: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("home path %q is not a directory", abs)
	}
	return abs, nil
}

func loadServicesForHome() (*wiring.AppServices, error) {
	root, err := getHomeRoot()
	if err != nil {
		return nil, err
	}
	return loadServices(root)
}
