package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/trellis/internal/errors"
	"github.com/vango-dev/trellis/pkg/reactive"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "trellis.yaml"

	// DefaultPort is the default port of the serve command.
	DefaultPort = 3000

	// DefaultHost is the default host of the serve command.
	DefaultHost = "localhost"

	// DefaultTickInterval is the default interval of the demo ticker.
	DefaultTickInterval = time.Second

	// DefaultMetricsPath is where Prometheus metrics are exposed.
	DefaultMetricsPath = "/metrics"
)

// Config represents the complete trellis.yaml configuration.
type Config struct {
	// Runtime configures the reactive runtime.
	Runtime RuntimeConfig `yaml:"runtime,omitempty"`

	// Log configures structured logging.
	Log LogConfig `yaml:"log,omitempty"`

	// Render configures static HTML output.
	Render RenderConfig `yaml:"render,omitempty"`

	// Serve configures the remote rendering server.
	Serve ServeConfig `yaml:"serve,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// RuntimeConfig mirrors the reactive runtime options.
type RuntimeConfig struct {
	// Async batches updates until the next tick. Defaults to true.
	Async *bool `yaml:"async,omitempty"`

	// MaxUpdateCount bounds how often one watcher may run in a flush.
	MaxUpdateCount int `yaml:"maxUpdateCount,omitempty"`

	// Silent suppresses warnings.
	Silent bool `yaml:"silent,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `yaml:"level,omitempty"`

	// Format is text or json.
	Format string `yaml:"format,omitempty"`
}

// RenderConfig contains HTML serialization settings.
type RenderConfig struct {
	Pretty       bool   `yaml:"pretty,omitempty"`
	Indent       string `yaml:"indent,omitempty"`
	IncludeProps bool   `yaml:"includeProps,omitempty"`
}

// ServeConfig contains settings of the serve command.
type ServeConfig struct {
	Host string `yaml:"host,omitempty"`
	Port int    `yaml:"port,omitempty"`

	// TickInterval is how often the demo app updates its state.
	TickInterval time.Duration `yaml:"tickInterval,omitempty"`

	// MetricsPath is the route of the Prometheus handler; "-" disables it.
	MetricsPath string `yaml:"metricsPath,omitempty"`

	// AllowedOrigins lists websocket origins besides the serving host.
	AllowedOrigins []string `yaml:"allowedOrigins,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	async := true
	return &Config{
		Runtime: RuntimeConfig{
			Async:          &async,
			MaxUpdateCount: reactive.DefaultMaxUpdateCount,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Render: RenderConfig{
			Indent: "  ",
		},
		Serve: ServeConfig{
			Host:         DefaultHost,
			Port:         DefaultPort,
			TickInterval: DefaultTickInterval,
			MetricsPath:  DefaultMetricsPath,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for trellis.yaml in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E131").
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				Wrap(err)
		}
		return nil, errors.New("E131").Wrap(err)
	}

	cfg := New()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E131").
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			Wrap(err)
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.New("E131").Wrap(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E131").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Runtime.Async == nil {
		async := true
		c.Runtime.Async = &async
	}
	if c.Runtime.MaxUpdateCount == 0 {
		c.Runtime.MaxUpdateCount = reactive.DefaultMaxUpdateCount
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Render.Indent == "" {
		c.Render.Indent = "  "
	}
	if c.Serve.Host == "" {
		c.Serve.Host = DefaultHost
	}
	if c.Serve.Port == 0 {
		c.Serve.Port = DefaultPort
	}
	if c.Serve.TickInterval == 0 {
		c.Serve.TickInterval = DefaultTickInterval
	}
	if c.Serve.MetricsPath == "" {
		c.Serve.MetricsPath = DefaultMetricsPath
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Runtime.MaxUpdateCount < 0 {
		return invalid("runtime.maxUpdateCount must not be negative")
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return invalid(fmt.Sprintf("log.format %q must be text or json", c.Log.Format))
	}
	if c.Serve.Port < 0 || c.Serve.Port > 65535 {
		return invalid("serve.port must be between 0 and 65535")
	}
	if c.Serve.TickInterval < 0 {
		return invalid("serve.tickInterval must not be negative")
	}
	if p := c.Serve.MetricsPath; p != "" && p != "-" && !strings.HasPrefix(p, "/") {
		return invalid(fmt.Sprintf("serve.metricsPath %q must start with /", p))
	}
	return nil
}

func invalid(detail string) error {
	return errors.New("E130").WithDetail(detail)
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	name := c.Log.Level
	if name == "" {
		name = "info"
	}
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, invalid(fmt.Sprintf("log.level %q is not a level", c.Log.Level))
	}
	return level, nil
}

// RuntimeOptions returns the reactive options described by Runtime.
func (c *Config) RuntimeOptions() []reactive.Option {
	opts := []reactive.Option{reactive.WithSilent(c.Runtime.Silent)}
	if c.Runtime.Async != nil {
		opts = append(opts, reactive.WithAsync(*c.Runtime.Async))
	}
	if c.Runtime.MaxUpdateCount > 0 {
		opts = append(opts, reactive.WithMaxUpdateCount(c.Runtime.MaxUpdateCount))
	}
	return opts
}

// Address returns the listen address of the serve command.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Serve.Host, strconv.Itoa(c.Serve.Port))
}

// MetricsEnabled reports whether the serve command exposes metrics.
func (c *Config) MetricsEnabled() bool {
	return c.Serve.MetricsPath != "-"
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing trellis.yaml, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E131").
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadOrDefault loads the nearest trellis.yaml above dir, or returns the
// defaults when there is none.
func LoadOrDefault(dir string) (*Config, error) {
	root, err := FindProjectRoot(dir)
	if err != nil {
		return New(), nil
	}
	return Load(root)
}
