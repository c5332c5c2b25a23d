package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" WARN "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("chatty"))
}

func TestNewLogger_TraceIDHook(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, Config{Level: "debug", Format: FormatJSON})

	ctx := ContextWithTraceID(context.Background(), "trace-123")
	logger.Info().Ctx(ctx).Msg("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "trace-123", line["trace_id"])
	assert.Equal(t, "hello", line["message"])
}

func TestNewLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, Config{Level: "warn", Format: FormatJSON})
	logger.Info().Msg("dropped")
	assert.Empty(t, buf.String())

	logger.Warn().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestNewLoggerWithPath_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "emissionmission.log")
	result := NewLoggerWithPath(Config{Level: "info", Format: FormatJSON, Output: OutputFile, File: path})
	t.Cleanup(func() { _ = result.Close() })

	require.True(t, result.UsingFile)
	assert.False(t, result.FallbackUsed)
	assert.Equal(t, path, result.FilePath)

	result.Logger.Info().Msg("to file")
	require.NoError(t, result.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestNewLoggerWithPath_Fallback(t *testing.T) {
	result := NewLoggerWithPath(Config{Output: OutputFile})
	assert.False(t, result.UsingFile)
	assert.True(t, result.FallbackUsed)
	assert.NotEmpty(t, result.FallbackReason)
	require.NoError(t, result.Close())
}

func TestPrintMessages(t *testing.T) {
	var buf bytes.Buffer
	PrintLogPathMessage(&buf, "/tmp/x.log")
	PrintFallbackWarning(&buf, "permission denied")
	out := buf.String()
	assert.Contains(t, out, "Logging to: /tmp/x.log")
	assert.Contains(t, out, "permission denied")
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := ComponentLogger(NewLogger(&buf, Config{Format: FormatJSON}), "server")
	ctx := logger.WithContext(context.Background())

	FromContext(ctx).Info().Msg("from ctx")
	assert.Contains(t, buf.String(), `"component":"server"`)

	// No logger in context is a disabled logger, never nil.
	assert.NotNil(t, FromContext(context.Background()))
}

func TestGetOrGenerateTraceID(t *testing.T) {
	ctx := ContextWithTraceID(context.Background(), "existing")
	assert.Equal(t, "existing", GetOrGenerateTraceID(ctx))

	t.Setenv(EnvTraceID, "from-env")
	assert.Equal(t, "from-env", GetOrGenerateTraceID(context.Background()))

	t.Setenv(EnvTraceID, "")
	id := GetOrGenerateTraceID(context.Background())
	assert.Len(t, id, 26)
	assert.NotEqual(t, id, GenerateTraceID())
}

func TestAuditLogger(t *testing.T) {
	var buf bytes.Buffer
	audit := NewAuditLogger(AuditLoggerConfig{Enabled: true, Writer: &buf})
	require.True(t, audit.Enabled())

	ctx := ContextWithAuditLogger(context.Background(), audit)
	entry := NewAuditEntry("calculate", "trace-1").
		WithParameters(map[string]string{"state": "Texas"}).
		WithSuccess(1191.2).
		WithDuration(time.Now())
	AuditLoggerFromContext(ctx).Log(ctx, *entry)

	line := strings.TrimSpace(buf.String())
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &decoded))
	assert.Equal(t, "calculate", decoded["command"])
	assert.Equal(t, true, decoded["success"])
	assert.InDelta(t, 1191.2, decoded["total_lbs"], 1e-9)
	assert.Equal(t, map[string]any{"state": "Texas"}, decoded["parameters"])
	require.NoError(t, audit.Close())
}

func TestAuditLogger_Disabled(t *testing.T) {
	audit := NewAuditLogger(AuditLoggerConfig{})
	assert.False(t, audit.Enabled())
	audit.Log(context.Background(), *NewAuditEntry("x", "").WithError("boom"))
	require.NoError(t, audit.Close())

	assert.False(t, AuditLoggerFromContext(context.Background()).Enabled())
}
