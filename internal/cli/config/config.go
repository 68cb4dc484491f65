package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/agrimarket/agrimarket/internal/storage"
)

const ConfigFileName = "agrimarket.yaml"

const (
	DefaultAPIURL  = "http://localhost:8080/api"
	DefaultTimeout = 30 * time.Second
)

// ErrConfigNotFound is returned by FindConfigFile when no project file exists
var ErrConfigNotFound = errors.New("agrimarket.yaml not found")

// Config represents the CLI configuration
type Config struct {
	APIURL  string        `yaml:"api_url"`
	Timeout time.Duration `yaml:"timeout"`
	// Offline skips the remote API for login and registration
	Offline bool          `yaml:"offline"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`

	// Path is the file the configuration was read from, if any
	Path string `yaml:"-"`
}

// StorageConfig selects where the session is persisted
type StorageConfig struct {
	Backend    string `yaml:"backend"`
	Path       string `yaml:"path"`
	Passphrase string `yaml:"passphrase"`
	RedisAddr  string `yaml:"redis_addr"`
}

// LogConfig holds logging-related configuration
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console, json
}

// DefaultConfig returns the configuration used when no file is present
func DefaultConfig() *Config {
	return &Config{
		APIURL:  DefaultAPIURL,
		Timeout: DefaultTimeout,
		Storage: StorageConfig{
			Backend:   storage.BackendDefault,
			RedisAddr: "localhost:6379",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// FindConfigFile searches for agrimarket.yaml in dir and its parents
func FindConfigFile(dir string) (string, error) {
	start := dir
	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("%w in %s or any parent directory", ErrConfigNotFound, start)
}

// Load reads a configuration file over the defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	cfg.Path = path

	return cfg, nil
}

// LoadFromDir resolves the configuration for a working directory: .env files
// in dir, then agrimarket.yaml found upward, then AGRIMARKET_* environment
// overrides. A missing file is not an error.
func LoadFromDir(dir string) (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(filepath.Join(dir, ".env"))
	_ = godotenv.Load(filepath.Join(dir, ".env.local"))

	cfg := DefaultConfig()
	if path, err := FindConfigFile(dir); err == nil {
		if cfg, err = Load(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromCurrentDir loads config for the current working directory
func LoadFromCurrentDir() (*Config, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	return LoadFromDir(currentDir)
}

func (c *Config) applyEnv() error {
	overrides := map[string]*string{
		"AGRIMARKET_API_URL":      &c.APIURL,
		"AGRIMARKET_STORAGE":      &c.Storage.Backend,
		"AGRIMARKET_STORAGE_PATH": &c.Storage.Path,
		"AGRIMARKET_PASSPHRASE":   &c.Storage.Passphrase,
		"AGRIMARKET_REDIS_ADDR":   &c.Storage.RedisAddr,
		"AGRIMARKET_LOG_LEVEL":    &c.Log.Level,
		"AGRIMARKET_LOG_FORMAT":   &c.Log.Format,
	}
	for name, field := range overrides {
		if v := os.Getenv(name); v != "" {
			*field = v
		}
	}

	if v := os.Getenv("AGRIMARKET_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid AGRIMARKET_TIMEOUT %q: %w", v, err)
		}
		c.Timeout = d
	}

	if v := os.Getenv("AGRIMARKET_OFFLINE"); v != "" {
		offline, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid AGRIMARKET_OFFLINE %q: %w", v, err)
		}
		c.Offline = offline
	}

	return nil
}

// Validate checks the values a command cannot run without
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("invalid api_url %q: must be an http or https URL", c.APIURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid timeout %s: must be positive", c.Timeout)
	}
	return nil
}

// Scope identifies the API host so sessions against different servers do
// not collide in shared backends
func (c *Config) Scope() string {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Host == "" {
		return "default"
	}
	return strings.ToLower(u.Host)
}

// StorageOptions maps the storage section onto repository options. dir is
// the per-user directory holding the session file or database.
func (c *Config) StorageOptions(dir string) storage.Options {
	return storage.Options{
		Backend:    c.Storage.Backend,
		Dir:        dir,
		Path:       c.Storage.Path,
		Passphrase: c.Storage.Passphrase,
		RedisAddr:  c.Storage.RedisAddr,
		Scope:      c.Scope(),
	}
}

// Save writes the configuration to a file
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
