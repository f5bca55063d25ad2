// Package config loads the server configuration from YAML with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Transports the server can run.
const (
	TransportHTTP  = "http"
	TransportStdio = "stdio"
)

// Engine kinds.
const (
	EngineLocal  = "local"
	EngineRemote = "remote"
)

// Log formats.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CYBERCHEF_MCP_"

// Config is the complete server configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Catalog CatalogConfig `yaml:"catalog"`
	Engine  EngineConfig  `yaml:"engine"`
	Recipe  RecipeConfig  `yaml:"recipe"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig configures the listener and transports.
type ServerConfig struct {
	Addr            string `yaml:"addr"`
	Transport       string `yaml:"transport"`
	SSEPath         string `yaml:"sse_path"`
	HTTPPath        string `yaml:"http_path"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

// CatalogConfig selects the operation catalog. An empty path uses the
// embedded default.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// EngineConfig selects the engine.
type EngineConfig struct {
	Kind    string `yaml:"kind"`
	URL     string `yaml:"url"`
	Timeout string `yaml:"timeout"`
}

// RecipeConfig configures shareable URLs.
type RecipeConfig struct {
	BaseURL string `yaml:"base_url"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			Transport:       TransportHTTP,
			SSEPath:         "/sse",
			HTTPPath:        "/mcp",
			ShutdownTimeout: "10s",
		},
		Engine: EngineConfig{
			Kind:    EngineLocal,
			Timeout: "30s",
		},
		Recipe: RecipeConfig{
			BaseURL: "https://gchq.github.io/CyberChef/",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: FormatJSON,
		},
	}
}

// Load reads a YAML file over the defaults and applies environment
// overrides. An empty path skips the file. A missing file is an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides(os.LookupEnv)
	return cfg, nil
}

// applyEnvOverrides applies CYBERCHEF_MCP_* variables.
func (c *Config) applyEnvOverrides(lookup func(string) (string, bool)) {
	overrides := []struct {
		key string
		dst *string
	}{
		{"ADDR", &c.Server.Addr},
		{"TRANSPORT", &c.Server.Transport},
		{"SSE_PATH", &c.Server.SSEPath},
		{"HTTP_PATH", &c.Server.HTTPPath},
		{"SHUTDOWN_TIMEOUT", &c.Server.ShutdownTimeout},
		{"CATALOG", &c.Catalog.Path},
		{"ENGINE", &c.Engine.Kind},
		{"ENGINE_URL", &c.Engine.URL},
		{"ENGINE_TIMEOUT", &c.Engine.Timeout},
		{"BASE_URL", &c.Recipe.BaseURL},
		{"LOG_LEVEL", &c.Logging.Level},
		{"LOG_FORMAT", &c.Logging.Format},
	}
	for _, o := range overrides {
		if v, ok := lookup(EnvPrefix + o.key); ok && v != "" {
			*o.dst = v
		}
	}
}

// GetShutdownTimeout returns the shutdown timeout as a duration.
func (c *Config) GetShutdownTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.ShutdownTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// GetEngineTimeout returns the engine timeout as a duration.
func (c *Config) GetEngineTimeout() time.Duration {
	d, err := time.ParseDuration(c.Engine.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// Validate reports every problem found, joined, each wrapping
// ErrInvalidConfig.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...)))
	}

	switch c.Server.Transport {
	case TransportHTTP:
		if c.Server.Addr == "" {
			bad("server.addr is required for the http transport")
		}
		if !strings.HasPrefix(c.Server.SSEPath, "/") {
			bad("server.sse_path must start with /: %q", c.Server.SSEPath)
		}
		if !strings.HasPrefix(c.Server.HTTPPath, "/") {
			bad("server.http_path must start with /: %q", c.Server.HTTPPath)
		}
		if c.Server.SSEPath == c.Server.HTTPPath {
			bad("server.sse_path and server.http_path must differ")
		}
	case TransportStdio:
	default:
		bad("server.transport must be %q or %q, got %q", TransportHTTP, TransportStdio, c.Server.Transport)
	}
	if err := checkDuration(c.Server.ShutdownTimeout); err != nil {
		bad("server.shutdown_timeout: %v", err)
	}

	switch c.Engine.Kind {
	case EngineLocal:
	case EngineRemote:
		if err := checkURL(c.Engine.URL); err != nil {
			bad("engine.url: %v", err)
		}
	default:
		bad("engine.kind must be %q or %q, got %q", EngineLocal, EngineRemote, c.Engine.Kind)
	}
	if err := checkDuration(c.Engine.Timeout); err != nil {
		bad("engine.timeout: %v", err)
	}

	if err := checkURL(c.Recipe.BaseURL); err != nil {
		bad("recipe.base_url: %v", err)
	}

	switch c.Logging.Format {
	case FormatJSON, FormatConsole:
	default:
		bad("logging.format must be %q or %q, got %q", FormatJSON, FormatConsole, c.Logging.Format)
	}

	return errors.Join(errs...)
}

// checkDuration requires a positive duration. Zero or negative timeouts
// would expire every request immediately.
func checkDuration(raw string) error {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return err
	}
	if d <= 0 {
		return fmt.Errorf("must be positive, got %s", raw)
	}
	return nil
}

func checkURL(raw string) error {
	if raw == "" {
		return errors.New("required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("host is required")
	}
	return nil
}

// Save writes c as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
