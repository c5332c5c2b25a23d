package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// SupportedVersionConstraint is the range of config file versions this build reads.
const SupportedVersionConstraint = ">= 1.0.0, < 2.0.0"

// Minimum session TTL in seconds.
const MinSessionTTL = 60

// Validation errors.
var (
	ErrInvalidVersion      = errors.New("invalid config version")
	ErrUnsupportedVersion  = errors.New("unsupported config version")
	ErrInvalidOutputFormat = errors.New("invalid output format")
	ErrInvalidPrecision    = errors.New("precision must be between 0 and 6")
	ErrInvalidLogLevel     = errors.New("invalid log level")
	ErrInvalidLogFormat    = errors.New("invalid log format")
	ErrInvalidAddr         = errors.New("invalid server address")
	ErrInvalidTimeout      = errors.New("timeouts must be positive")
	ErrSessionTTLTooShort  = errors.New("session ttl below minimum")
	ErrInvalidProvider     = errors.New("invalid assistant provider")
	ErrInvalidTemperature  = errors.New("temperature must be between 0 and 2")
	ErrInvalidTokenBudget  = errors.New("max_output_tokens must be positive")
	ErrMissingAPIKey       = errors.New("gemini provider requires GEMINI_API_KEY")
	ErrInvalidReportName   = errors.New("report file name must end in .pdf")
)

//nolint:gochecknoglobals // lookup tables
var (
	validOutputFormats = map[string]bool{"table": true, "json": true, "ndjson": true}
	validLogLevels     = map[string]bool{
		"trace": true, "debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	validLogFormats = map[string]bool{"json": true, "text": true, "console": true}
)

const maxPrecision = 6

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	if err := c.ValidateVersion(); err != nil {
		return err
	}
	if !validOutputFormats[c.Output.DefaultFormat] {
		return fmt.Errorf("%w: %q (want table, json or ndjson)", ErrInvalidOutputFormat, c.Output.DefaultFormat)
	}
	if c.Output.Precision < 0 || c.Output.Precision > maxPrecision {
		return fmt.Errorf("%w: %d", ErrInvalidPrecision, c.Output.Precision)
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Logging.Format)
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if c.Session.TTLSeconds < MinSessionTTL {
		return fmt.Errorf("%w: %ds < %ds", ErrSessionTTLTooShort, c.Session.TTLSeconds, MinSessionTTL)
	}
	if err := c.Assistant.Validate(); err != nil {
		return err
	}
	if !strings.HasSuffix(strings.ToLower(c.Report.FileName), ".pdf") {
		return fmt.Errorf("%w: %q", ErrInvalidReportName, c.Report.FileName)
	}
	return nil
}

// ValidateVersion checks Version against SupportedVersionConstraint.
func (c *Config) ValidateVersion() error {
	v, err := semver.NewVersion(c.Version)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidVersion, c.Version, err)
	}
	constraint, err := semver.NewConstraint(SupportedVersionConstraint)
	if err != nil {
		return fmt.Errorf("parsing version constraint: %w", err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("%w: %s (supported %s)", ErrUnsupportedVersion, v, SupportedVersionConstraint)
	}
	return nil
}

// Validate checks the listen address and timeouts.
func (s ServerConfig) Validate() error {
	if _, _, err := net.SplitHostPort(s.Addr); err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidAddr, s.Addr, err)
	}
	if s.ReadTimeout <= 0 || s.WriteTimeout <= 0 || s.ShutdownTimeout <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}

// Validate checks provider settings. The gemini provider needs an API key.
func (a AssistantConfig) Validate() error {
	switch a.Provider {
	case ProviderStatic:
	case ProviderGemini:
		if a.APIKey == "" {
			return ErrMissingAPIKey
		}
	default:
		return fmt.Errorf("%w: %q (want %s or %s)", ErrInvalidProvider, a.Provider, ProviderGemini, ProviderStatic)
	}
	if a.Temperature < 0 || a.Temperature > 2 {
		return fmt.Errorf("%w: %g", ErrInvalidTemperature, a.Temperature)
	}
	if a.MaxOutputTokens <= 0 {
		return ErrInvalidTokenBudget
	}
	if a.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}
