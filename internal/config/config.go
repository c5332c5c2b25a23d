// Package config loads, validates and persists emissionmission settings.
//
// Precedence, lowest to highest: built-in defaults, ~/.emissionmission/config.yaml
// (or $EMISSIONMISSION_HOME/config.yaml), environment variables, CLI flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values.
const (
	DefaultConfigVersion    = "1.0.0"
	DefaultOutputFormat     = "table"
	DefaultPrecision        = 2
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
	DefaultAddr             = "127.0.0.1:8080"
	DefaultReadTimeout      = 10 * time.Second
	DefaultWriteTimeout     = 30 * time.Second
	DefaultShutdownTimeout  = 10 * time.Second
	DefaultSessionTTL       = 3600
	DefaultCleanupInterval  = 5 * time.Minute
	DefaultProvider         = ProviderStatic
	DefaultModel            = "gemini-2.5-flash"
	DefaultTemperature      = 0.7
	DefaultMaxOutputTokens  = 100
	DefaultAssistantTimeout = 20 * time.Second
	DefaultReportFileName   = "emission_report.pdf"
	DefaultReportAuthor     = "EmissionMission"

	configFileName = "config.yaml"
	homeDirName    = ".emissionmission"
)

// Assistant providers.
const (
	ProviderGemini = "gemini"
	ProviderStatic = "static"
)

// Config is the full application configuration.
type Config struct {
	Version   string          `yaml:"version"`
	Output    OutputConfig    `yaml:"output"`
	Logging   LoggingConfig   `yaml:"logging"`
	Server    ServerConfig    `yaml:"server"`
	Session   SessionConfig   `yaml:"session"`
	Assistant AssistantConfig `yaml:"assistant"`
	Report    ReportConfig    `yaml:"report"`

	configPath string
}

// OutputConfig controls CLI rendering.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Precision     int    `yaml:"precision"`
}

// LoggingConfig controls the application logger.
type LoggingConfig struct {
	Level  string      `yaml:"level"`
	Format string      `yaml:"format"`
	File   string      `yaml:"file,omitempty"`
	Audit  AuditConfig `yaml:"audit"`
}

// AuditConfig controls the audit trail of calculations and exports.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	File    string `yaml:"file,omitempty"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// SessionConfig controls per-user result retention.
type SessionConfig struct {
	TTLSeconds      int           `yaml:"ttl_seconds"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

// AssistantConfig controls the chat assistant.
type AssistantConfig struct {
	Provider        string        `yaml:"provider"`
	Model           string        `yaml:"model"`
	Temperature     float32       `yaml:"temperature"`
	MaxOutputTokens int32         `yaml:"max_output_tokens"`
	Timeout         time.Duration `yaml:"timeout"`

	// APIKey is read from GEMINI_API_KEY only, never persisted.
	APIKey string `yaml:"-"`
}

// ReportConfig controls report export.
type ReportConfig struct {
	FileName string `yaml:"file_name"`
	Author   string `yaml:"author"`
}

// Default returns a Config populated with built-in defaults.
func Default() *Config {
	return &Config{
		Version: DefaultConfigVersion,
		Output: OutputConfig{
			DefaultFormat: DefaultOutputFormat,
			Precision:     DefaultPrecision,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Server: ServerConfig{
			Addr:            DefaultAddr,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Session: SessionConfig{
			TTLSeconds:      DefaultSessionTTL,
			CleanupInterval: DefaultCleanupInterval,
		},
		Assistant: AssistantConfig{
			Provider:        DefaultProvider,
			Model:           DefaultModel,
			Temperature:     DefaultTemperature,
			MaxOutputTokens: DefaultMaxOutputTokens,
			Timeout:         DefaultAssistantTimeout,
		},
		Report: ReportConfig{
			FileName: DefaultReportFileName,
			Author:   DefaultReportAuthor,
		},
	}
}

// New returns the effective configuration: defaults, overlaid with the
// config file when it exists, then environment variables.
// A malformed config file is ignored in favor of defaults; use Load to see
// the error.
func New() *Config {
	cfg := Default()
	path := DefaultConfigPath()
	cfg.configPath = path

	if loaded, err := Load(path); err == nil {
		cfg = loaded
	}
	cfg.ApplyEnv(os.LookupEnv)
	return cfg
}

// Load reads a config file onto defaults. Sections present in the file
// replace the defaults wholesale (see ShallowMergeYAML).
func Load(path string) (*Config, error) {
	cfg := Default()
	cfg.configPath = path
	if err := ShallowMergeYAML(cfg, path); err != nil {
		return nil, err
	}
	cfg.fillZeroes()
	return cfg, nil
}

// fillZeroes restores defaults for fields a partial section left empty.
func (c *Config) fillZeroes() {
	def := Default()
	if c.Version == "" {
		c.Version = def.Version
	}
	if c.Output.DefaultFormat == "" {
		c.Output.DefaultFormat = def.Output.DefaultFormat
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = def.Logging.Format
	}
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = def.Server.ReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = def.Server.WriteTimeout
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = def.Server.ShutdownTimeout
	}
	if c.Session.TTLSeconds == 0 {
		c.Session.TTLSeconds = def.Session.TTLSeconds
	}
	if c.Session.CleanupInterval == 0 {
		c.Session.CleanupInterval = def.Session.CleanupInterval
	}
	if c.Assistant.Provider == "" {
		c.Assistant.Provider = def.Assistant.Provider
	}
	if c.Assistant.Model == "" {
		c.Assistant.Model = def.Assistant.Model
	}
	if c.Assistant.MaxOutputTokens == 0 {
		c.Assistant.MaxOutputTokens = def.Assistant.MaxOutputTokens
	}
	if c.Assistant.Timeout == 0 {
		c.Assistant.Timeout = def.Assistant.Timeout
	}
	if c.Report.FileName == "" {
		c.Report.FileName = def.Report.FileName
	}
	if c.Report.Author == "" {
		c.Report.Author = def.Report.Author
	}
}

// ConfigPath returns the file this config is loaded from and saved to.
func (c *Config) ConfigPath() string {
	if c.configPath == "" {
		return DefaultConfigPath()
	}
	return c.configPath
}

// SetConfigPath overrides the file used by Save.
func (c *Config) SetConfigPath(path string) {
	c.configPath = path
}

// Save writes the config as YAML, creating the directory if needed.
func (c *Config) Save() error {
	path := c.ConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err = os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	return nil
}

// ErrConfigNotFound is returned by LoadStrict when no config file exists.
var ErrConfigNotFound = errors.New("configuration file not found")

// LoadStrict loads path, reporting a missing file as ErrConfigNotFound.
func LoadStrict(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("cannot access config path %s: %w", path, err)
	}
	return Load(path)
}
