package cli_test

import (
	"bytes"
	"testing"

	"github.com/rshade/emissionmission/internal/cli"
	"github.com/rshade/emissionmission/internal/config"
)

// setupCLITest isolates config and logging from the developer's machine and
// registers cleanup for global state. It returns the config home directory.
func setupCLITest(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvLogLevel, "error")
	t.Setenv(config.EnvProvider, "")
	t.Setenv(config.EnvGeminiKey, "")
	config.ResetGlobalConfigForTest()
	t.Cleanup(config.ResetGlobalConfigForTest)
	return home
}

// executeCmd runs the root command with args and returns combined output.
func executeCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}
