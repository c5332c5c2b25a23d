package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/emissionmission/internal/config"
	"github.com/rshade/emissionmission/internal/logging"
)

type countingCloser struct {
	err    error
	closed int
}

func (c *countingCloser) Close() error {
	c.closed++
	return c.err
}

type stubAudit struct {
	countingCloser
}

func (*stubAudit) Log(context.Context, logging.AuditEntry) {}
func (*stubAudit) Enabled() bool                          { return true }

func TestCleanupLogging(t *testing.T) {
	errAudit := errors.New("audit disk full")
	errFile := errors.New("log file busy")

	tests := []struct {
		name     string
		auditErr error
		fileErr  error
	}{
		{name: "both close cleanly"},
		{name: "audit close fails", auditErr: errAudit},
		{name: "log file close fails", fileErr: errFile},
		{name: "both fail", auditErr: errAudit, fileErr: errFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			audit := &stubAudit{countingCloser{err: tt.auditErr}}
			file := &countingCloser{err: tt.fileErr}
			cmd := &cobra.Command{}
			cmd.SetContext(logging.ContextWithAuditLogger(context.Background(), audit))

			err := cleanupLogging(cmd, file)

			assert.Equal(t, 1, audit.closed)
			assert.Equal(t, 1, file.closed)
			if tt.auditErr == nil && tt.fileErr == nil {
				require.NoError(t, err)
				return
			}
			if tt.auditErr != nil {
				require.ErrorIs(t, err, tt.auditErr)
			}
			if tt.fileErr != nil {
				require.ErrorIs(t, err, tt.fileErr)
			}
		})
	}
}

func TestCleanupLogging_NilLogResult(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())

	var result *logging.LogPathResult
	require.NoError(t, cleanupLogging(cmd, result))
}

func TestResolveLogging_DebugOverride(t *testing.T) {
	t.Setenv(config.EnvHome, t.TempDir())
	t.Setenv(config.EnvLogLevel, "warn")
	config.ResetGlobalConfigForTest()
	t.Cleanup(config.ResetGlobalConfigForTest)

	cmd := &cobra.Command{}
	cmd.Flags().Bool("debug", false, "")

	cfg := resolveLogging(cmd)
	assert.Equal(t, "warn", cfg.Level)

	require.NoError(t, cmd.Flags().Set("debug", "true"))
	cfg = resolveLogging(cmd)
	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, "console", cfg.Format)
	assert.Empty(t, cfg.File)
}
