package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/rshade/emissionmission/internal/session"
)

// Environment variables.
const (
	EnvHome       = "EMISSIONMISSION_HOME"
	EnvLogLevel   = "EMISSIONMISSION_LOG_LEVEL"
	EnvLogFormat  = "EMISSIONMISSION_LOG_FORMAT"
	EnvAddr       = "EMISSIONMISSION_ADDR"
	EnvSessionTTL = "EMISSIONMISSION_SESSION_TTL"
	EnvProvider   = "EMISSIONMISSION_ASSISTANT"
	EnvGeminiKey  = "GEMINI_API_KEY"
)

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overlays environment variables onto c. The session TTL accepts
// seconds or a duration such as "15m"; unparseable values are ignored and
// out-of-range ones are left for Validate.
func (c *Config) ApplyEnv(lookup LookupFunc) {
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		c.Logging.Format = strings.ToLower(v)
	}
	if v, ok := lookup(EnvAddr); ok && v != "" {
		c.Server.Addr = v
	}
	if v, ok := lookup(EnvSessionTTL); ok && v != "" {
		if ttl, err := session.ParseTTLSeconds(v); err == nil {
			c.Session.TTLSeconds = ttl
		}
	}
	if v, ok := lookup(EnvProvider); ok && v != "" {
		c.Assistant.Provider = strings.ToLower(v)
	}
	if v, ok := lookup(EnvGeminiKey); ok && v != "" {
		c.Assistant.APIKey = v
		if _, set := lookup(EnvProvider); !set {
			c.Assistant.Provider = ProviderGemini
		}
	}
}

// HomeDir returns $EMISSIONMISSION_HOME or ~/.emissionmission.
func HomeDir() string {
	if home := os.Getenv(EnvHome); home != "" {
		return home
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return homeDirName
	}
	return filepath.Join(userHome, homeDirName)
}

// DefaultConfigPath returns the config file under HomeDir.
func DefaultConfigPath() string {
	return filepath.Join(HomeDir(), configFileName)
}

// LoadDotEnv loads .env from the working directory and from HomeDir.
// Variables already set in the environment win. Missing files are not errors.
func LoadDotEnv() []string {
	loaded := make([]string, 0, 2) //nolint:mnd // cwd + home
	for _, path := range []string{".env", filepath.Join(HomeDir(), ".env")} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err == nil {
			loaded = append(loaded, path)
		}
	}
	return loaded
}
