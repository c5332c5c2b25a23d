package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// GlobalConfig is the process-wide configuration.
var GlobalConfig *Config        //nolint:gochecknoglobals // singleton
var globalConfigMu sync.RWMutex //nolint:gochecknoglobals // guards GlobalConfig
var globalConfigInit bool       //nolint:gochecknoglobals // init flag

// InitGlobalConfig loads the global configuration once.
func InitGlobalConfig() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()

	if globalConfigInit {
		return
	}
	GlobalConfig = New()
	globalConfigInit = true
}

// ResetGlobalConfigForTest clears the global configuration.
func ResetGlobalConfigForTest() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()

	GlobalConfig = nil
	globalConfigInit = false
}

// GetGlobalConfig returns the global configuration, loading it if needed.
func GetGlobalConfig() *Config {
	InitGlobalConfig()
	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return GlobalConfig
}

// GetDefaultOutputFormat returns the configured default output format.
func GetDefaultOutputFormat() string {
	return GetGlobalConfig().Output.DefaultFormat
}

// GetOutputPrecision returns the configured decimal precision.
func GetOutputPrecision() int {
	return GetGlobalConfig().Output.Precision
}

// EnsureLogDir creates the parent directory of the configured log file.
func EnsureLogDir() error {
	cfg := GetGlobalConfig()
	if cfg.Logging.File == "" {
		return nil
	}
	logDir := filepath.Dir(cfg.Logging.File)
	if err := os.MkdirAll(logDir, 0o700); err != nil {
		return fmt.Errorf("failed to create log directory %q: %w", logDir, err)
	}
	return nil
}
