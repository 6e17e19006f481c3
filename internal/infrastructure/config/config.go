// Package config loads and saves sqlscore's YAML settings.
package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/felixgeelhaar/sqlscore/pkg/storage"
	"gopkg.in/yaml.v3"
)

// EnvBackendURL overrides the configured backend URL.
const EnvBackendURL = "SQLSCORE_BACKEND_URL"

const (
	DefaultBackendURL  = "http://localhost:8080"
	DefaultTimeout     = 30 * time.Second
	DefaultMaxAttempts = 3

	// RetryDelay is the first backoff step between transport retries.
	RetryDelay = 500 * time.Millisecond
)

// Config is the content of .sqlscore/config.yaml.
type Config struct {
	Backend BackendConfig `yaml:"backend"`
}

// BackendConfig locates the analysis backend and bounds calls to it.
type BackendConfig struct {
	URL         string        `yaml:"url"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxAttempts int           `yaml:"max_attempts"`
}

func Default() *Config {
	return &Config{Backend: BackendConfig{
		URL:         DefaultBackendURL,
		Timeout:     DefaultTimeout,
		MaxAttempts: DefaultMaxAttempts,
	}}
}

// Load reads the config under root. A missing file yields the defaults.
// The environment override is applied last.
func Load(root string) (*Config, error) {
	cfg, err := LoadFile(root)
	if err != nil {
		return nil, err
	}
	if url := strings.TrimSpace(os.Getenv(EnvBackendURL)); url != "" {
		cfg.Backend.URL = url
	}
	return cfg, nil
}

// LoadFile reads the config under root without environment overrides.
func LoadFile(root string) (*Config, error) {
	repo := storage.NewFilesystemRepository(root)
	path, err := repo.ResolvePath(storage.ConfigFile)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.fillDefaults()
	return cfg, nil
}

func Save(root string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	repo := storage.NewFilesystemRepository(root)
	if err := repo.Initialize(); err != nil {
		return err
	}
	path, err := repo.ResolvePath(storage.ConfigFile)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return storage.AtomicWriteFile(path, data, 0600)
}

func (c *Config) fillDefaults() {
	if strings.TrimSpace(c.Backend.URL) == "" {
		c.Backend.URL = DefaultBackendURL
	}
	if c.Backend.Timeout <= 0 {
		c.Backend.Timeout = DefaultTimeout
	}
	if c.Backend.MaxAttempts < 1 {
		c.Backend.MaxAttempts = DefaultMaxAttempts
	}
}

var setters = map[string]func(*Config, string) error{
	"backend.url": func(c *Config, v string) error {
		v = strings.TrimSpace(v)
		if !strings.HasPrefix(v, "http://") && !strings.HasPrefix(v, "https://") {
			return fmt.Errorf("backend.url must start with http:// or https://")
		}
		c.Backend.URL = strings.TrimRight(v, "/")
		return nil
	},
	"backend.timeout": func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return fmt.Errorf("backend.timeout must be a positive duration such as 30s")
		}
		c.Backend.Timeout = d
		return nil
	},
	"backend.max_attempts": func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return fmt.Errorf("backend.max_attempts must be a positive integer")
		}
		c.Backend.MaxAttempts = n
		return nil
	},
}

// Set assigns a value by dotted key.
func (c *Config) Set(key, value string) error {
	set, ok := setters[key]
	if !ok {
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	return set(c, value)
}

// Keys lists the keys accepted by Set.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
