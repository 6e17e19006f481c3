package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/felixgeelhaar/sqlscore/pkg/domain/datasource"
)

const HomeDir = ".sqlscore"
const CatalogFile = "datasources.json"
const ConfigFile = "config.yaml"

// FilesystemRepository keeps sqlscore's local state in a dot-directory under root.
type FilesystemRepository struct {
	root        string
	retryConfig retry.Config
}

func NewFilesystemRepository(root string) *FilesystemRepository {
	return &FilesystemRepository{
		root: root,
		retryConfig: retry.Config{
			MaxAttempts:   3,
			InitialDelay:  10 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
		},
	}
}

// Root returns the directory that holds the .sqlscore folder.
func (r *FilesystemRepository) Root() string {
	return r.root
}

// ResolvePath ensures the path is within the .sqlscore directory and prevents traversal.
func (r *FilesystemRepository) ResolvePath(filename string) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("filename cannot be empty")
	}

	baseDir := filepath.Join(r.root, HomeDir)
	cleanPath := filepath.Clean(filepath.Join(baseDir, filename))

	// Only direct children of the base directory are allowed.
	if !strings.HasPrefix(cleanPath, baseDir) || filepath.Dir(cleanPath) != baseDir {
		return "", fmt.Errorf("invalid file path: %s", filename)
	}

	return cleanPath, nil
}

func (r *FilesystemRepository) Initialize() error {
	path := filepath.Join(r.root, HomeDir)
	// G301: Use 0700 for directories
	if err := os.MkdirAll(path, 0700); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", HomeDir, err)
	}
	return nil
}

func (r *FilesystemRepository) IsInitialized() bool {
	_, err := os.Stat(filepath.Join(r.root, HomeDir))
	return err == nil
}

// LoadCatalog reads the saved data sources. A missing file is an empty catalog.
func (r *FilesystemRepository) LoadCatalog() (*datasource.Catalog, error) {
	retryer := retry.New[*datasource.Catalog](r.retryConfig)

	return retryer.Do(context.Background(), func(ctx context.Context) (*datasource.Catalog, error) {
		path, err := r.ResolvePath(CatalogFile)
		if err != nil {
			return nil, err
		}

		// #nosec G304 -- Path is resolved and validated via ResolvePath
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			return &datasource.Catalog{Sources: []datasource.DataSource{}}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read data source catalog: %w", err)
		}

		var c datasource.Catalog
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("failed to unmarshal data source catalog: %w", err)
		}
		if c.Sources == nil {
			c.Sources = []datasource.DataSource{}
		}
		return &c, nil
	})
}

// SaveCatalog writes the catalog atomically, creating the directory on first use.
func (r *FilesystemRepository) SaveCatalog(c *datasource.Catalog) error {
	if c == nil {
		return fmt.Errorf("catalog is nil")
	}
	if err := r.Initialize(); err != nil {
		return err
	}

	path, err := r.ResolvePath(CatalogFile)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data source catalog: %w", err)
	}

	// G306: credentials live in this file, keep it 0600
	return AtomicWriteFile(path, data, 0600)
}
