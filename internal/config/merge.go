package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Top-level YAML keys.
const (
	keyVersion   = "version"
	keyOutput    = "output"
	keyLogging   = "logging"
	keyServer    = "server"
	keySession   = "session"
	keyAssistant = "assistant"
	keyReport    = "report"
)

// knownTopLevelKeys lists the keys ShallowMergeYAML applies; others are ignored.
//
//nolint:gochecknoglobals // lookup table
var knownTopLevelKeys = map[string]bool{
	keyVersion:   true,
	keyOutput:    true,
	keyLogging:   true,
	keyServer:    true,
	keySession:   true,
	keyAssistant: true,
	keyReport:    true,
}

// ShallowMergeYAML loads a YAML file and replaces each top-level section of
// target that the file names. Sections the file omits are left unchanged.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}
	return MergeYAMLBytes(target, data)
}

// MergeYAMLBytes is ShallowMergeYAML for in-memory YAML.
func MergeYAMLBytes(target *Config, data []byte) error {
	var overlay map[string]yaml.Node
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML: %w", err)
	}

	for key, node := range overlay {
		if !knownTopLevelKeys[key] {
			continue
		}
		if err := unmarshalSection(target, key, &node); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}
	return nil
}

// unmarshalSection decodes into a zero value before assigning so a section
// is replaced, never merged field by field.
func unmarshalSection(target *Config, key string, node *yaml.Node) error {
	switch key {
	case keyVersion:
		var v string
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Version = v
	case keyOutput:
		var v OutputConfig
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Output = v
	case keyLogging:
		var v LoggingConfig
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Logging = v
	case keyServer:
		var v ServerConfig
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Server = v
	case keySession:
		var v SessionConfig
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Session = v
	case keyAssistant:
		var v AssistantConfig
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Assistant = v
	case keyReport:
		var v ReportConfig
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Report = v
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}
