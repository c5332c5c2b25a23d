package config_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/emissionmission/internal/config"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "table", cfg.Output.DefaultFormat)
	assert.Equal(t, 3600, cfg.Session.TTLSeconds)
	assert.Equal(t, 20*time.Second, cfg.Assistant.Timeout)
	assert.InDelta(t, 0.7, float64(cfg.Assistant.Temperature), 1e-6)
	assert.Equal(t, "emission_report.pdf", cfg.Report.FileName)
}

func TestNew_UsesHomeDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvGeminiKey, "")

	cfg := config.New()
	assert.Equal(t, filepath.Join(home, "config.yaml"), cfg.ConfigPath())
	assert.Equal(t, config.DefaultAddr, cfg.Server.Addr)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := config.Default()
	cfg.SetConfigPath(path)
	cfg.Server.Addr = "0.0.0.0:9999"
	cfg.Session.TTLSeconds = 120
	cfg.Assistant.APIKey = "secret"
	require.NoError(t, cfg.Save())

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9999", loaded.Server.Addr)
	assert.Equal(t, 120, loaded.Session.TTLSeconds)
	assert.Equal(t, config.DefaultReadTimeout, loaded.Server.ReadTimeout)
	assert.Empty(t, loaded.Assistant.APIKey, "API key is never persisted")
	assert.Equal(t, path, loaded.ConfigPath())
}

func TestLoad_PartialSectionFilled(t *testing.T) {
	path := writeOverlay(t, "assistant:\n  provider: static\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultModel, cfg.Assistant.Model)
	assert.Equal(t, int32(config.DefaultMaxOutputTokens), cfg.Assistant.MaxOutputTokens)
	require.NoError(t, cfg.Validate())
}

func TestLoadStrict_Missing(t *testing.T) {
	_, err := config.LoadStrict(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorIs(t, err, config.ErrConfigNotFound)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr error
	}{
		{name: "bad version", mutate: func(c *config.Config) { c.Version = "one" }, wantErr: config.ErrInvalidVersion},
		{name: "future version", mutate: func(c *config.Config) { c.Version = "2.1.0" }, wantErr: config.ErrUnsupportedVersion},
		{name: "output format", mutate: func(c *config.Config) { c.Output.DefaultFormat = "xml" }, wantErr: config.ErrInvalidOutputFormat},
		{name: "precision", mutate: func(c *config.Config) { c.Output.Precision = 9 }, wantErr: config.ErrInvalidPrecision},
		{name: "log level", mutate: func(c *config.Config) { c.Logging.Level = "loud" }, wantErr: config.ErrInvalidLogLevel},
		{name: "log format", mutate: func(c *config.Config) { c.Logging.Format = "xml" }, wantErr: config.ErrInvalidLogFormat},
		{name: "addr", mutate: func(c *config.Config) { c.Server.Addr = "localhost" }, wantErr: config.ErrInvalidAddr},
		{name: "timeout", mutate: func(c *config.Config) { c.Server.ReadTimeout = 0 }, wantErr: config.ErrInvalidTimeout},
		{name: "session ttl", mutate: func(c *config.Config) { c.Session.TTLSeconds = 59 }, wantErr: config.ErrSessionTTLTooShort},
		{name: "provider", mutate: func(c *config.Config) { c.Assistant.Provider = "gpt2" }, wantErr: config.ErrInvalidProvider},
		{name: "gemini needs key", mutate: func(c *config.Config) { c.Assistant.Provider = "gemini" }, wantErr: config.ErrMissingAPIKey},
		{name: "temperature", mutate: func(c *config.Config) { c.Assistant.Temperature = 3 }, wantErr: config.ErrInvalidTemperature},
		{name: "tokens", mutate: func(c *config.Config) { c.Assistant.MaxOutputTokens = 0 }, wantErr: config.ErrInvalidTokenBudget},
		{name: "report name", mutate: func(c *config.Config) { c.Report.FileName = "report.txt" }, wantErr: config.ErrInvalidReportName},
		{
			name: "gemini with key",
			mutate: func(c *config.Config) {
				c.Assistant.Provider = "gemini"
				c.Assistant.APIKey = "k"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		config.EnvLogLevel:   "DEBUG",
		config.EnvLogFormat:  "json",
		config.EnvAddr:       ":7070",
		config.EnvSessionTTL: "600",
		config.EnvGeminiKey:  "abc",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := config.Default()
	cfg.ApplyEnv(lookup)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, 600, cfg.Session.TTLSeconds)
	assert.Equal(t, "abc", cfg.Assistant.APIKey)
	assert.Equal(t, config.ProviderGemini, cfg.Assistant.Provider)
}

func TestApplyEnv_ExplicitProviderWins(t *testing.T) {
	env := map[string]string{
		config.EnvGeminiKey:  "abc",
		config.EnvProvider:   "static",
		config.EnvSessionTTL: "not-a-number",
	}
	cfg := config.Default()
	cfg.ApplyEnv(func(k string) (string, bool) { v, ok := env[k]; return v, ok })

	assert.Equal(t, config.ProviderStatic, cfg.Assistant.Provider)
	assert.Equal(t, config.DefaultSessionTTL, cfg.Session.TTLSeconds)
}

func TestApplyEnv_SessionTTL(t *testing.T) {
	tests := []struct {
		value string
		want  int
	}{
		{value: "900", want: 900},
		{value: "15m", want: 900},
		{value: "2h", want: 7200},
		{value: " 90s ", want: 90},
		{value: "30", want: 30},
		{value: "soon", want: config.DefaultSessionTTL},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			cfg := config.Default()
			cfg.ApplyEnv(func(k string) (string, bool) {
				if k == config.EnvSessionTTL {
					return tt.value, true
				}
				return "", false
			})
			assert.Equal(t, tt.want, cfg.Session.TTLSeconds)
		})
	}

	cfg := config.Default()
	cfg.ApplyEnv(func(k string) (string, bool) { return "30s", k == config.EnvSessionTTL })
	require.ErrorIs(t, cfg.Validate(), config.ErrSessionTTLTooShort)
}

func TestGlobalConfig(t *testing.T) {
	t.Setenv(config.EnvHome, t.TempDir())
	config.ResetGlobalConfigForTest()
	t.Cleanup(config.ResetGlobalConfigForTest)

	cfg := config.GetGlobalConfig()
	require.NotNil(t, cfg)
	assert.Same(t, cfg, config.GetGlobalConfig())
	assert.Equal(t, cfg.Output.DefaultFormat, config.GetDefaultOutputFormat())
	assert.Equal(t, cfg.Output.Precision, config.GetOutputPrecision())
}

func TestToLoggingConfig(t *testing.T) {
	lc := config.LoggingConfig{Level: "warn", Format: "json"}
	out := lc.ToLoggingConfig()
	assert.Equal(t, "stderr", out.Output)

	lc.File = "/tmp/em.log"
	out = lc.ToLoggingConfig()
	assert.Equal(t, "file", out.Output)
	assert.Equal(t, "/tmp/em.log", out.File)
}
