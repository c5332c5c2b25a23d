package logging

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// AuditEntry records one user-visible operation: a calculation, a report
// export, a chat request.
type AuditEntry struct {
	Timestamp  time.Time         `json:"timestamp"`
	TraceID    string            `json:"trace_id"`
	Command    string            `json:"command"`
	Parameters map[string]string `json:"parameters,omitempty"`
	Success    bool              `json:"success"`
	TotalLbs   float64           `json:"total_lbs,omitempty"`
	Error      string            `json:"error,omitempty"`
	DurationMS int64             `json:"duration_ms"`
}

// NewAuditEntry starts an entry for command.
func NewAuditEntry(command, traceID string) *AuditEntry {
	return &AuditEntry{
		Timestamp: time.Now().UTC(),
		TraceID:   traceID,
		Command:   command,
	}
}

// WithParameters attaches request parameters.
func (e *AuditEntry) WithParameters(params map[string]string) *AuditEntry {
	e.Parameters = params
	return e
}

// WithSuccess marks the entry successful with the computed total.
func (e *AuditEntry) WithSuccess(totalLbs float64) *AuditEntry {
	e.Success = true
	e.TotalLbs = totalLbs
	return e
}

// WithError marks the entry failed.
func (e *AuditEntry) WithError(msg string) *AuditEntry {
	e.Success = false
	e.Error = msg
	return e
}

// WithDuration sets the duration since start.
func (e *AuditEntry) WithDuration(start time.Time) *AuditEntry {
	e.DurationMS = time.Since(start).Milliseconds()
	return e
}

// AuditLogger writes audit entries.
type AuditLogger interface {
	Log(ctx context.Context, entry AuditEntry)
	Enabled() bool
	Close() error
}

// AuditLoggerConfig configures NewAuditLogger.
type AuditLoggerConfig struct {
	Enabled bool
	File    string
	// Writer is used instead of File when set.
	Writer io.Writer
}

// NewAuditLogger returns a JSON-lines audit logger, or a no-op logger when
// disabled or when the file cannot be opened.
func NewAuditLogger(cfg AuditLoggerConfig) AuditLogger {
	if !cfg.Enabled {
		return noopAuditLogger{}
	}
	if cfg.Writer != nil {
		return &jsonAuditLogger{logger: zerolog.New(cfg.Writer)}
	}
	if cfg.File == "" {
		return noopAuditLogger{}
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o750); err != nil {
		return noopAuditLogger{}
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return noopAuditLogger{}
	}
	return &jsonAuditLogger{logger: zerolog.New(f), closer: f}
}

type jsonAuditLogger struct {
	mu     sync.Mutex
	logger zerolog.Logger
	closer io.Closer
}

func (l *jsonAuditLogger) Log(_ context.Context, entry AuditEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ev := l.logger.Log().
		Time("timestamp", entry.Timestamp).
		Str("trace_id", entry.TraceID).
		Str("command", entry.Command).
		Bool("success", entry.Success).
		Int64("duration_ms", entry.DurationMS)
	if len(entry.Parameters) > 0 {
		params := zerolog.Dict()
		for k, v := range entry.Parameters {
			params.Str(k, v)
		}
		ev.Dict("parameters", params)
	}
	if entry.Success {
		ev.Float64("total_lbs", entry.TotalLbs)
	}
	if entry.Error != "" {
		ev.Str("error", entry.Error)
	}
	ev.Msg("audit")
}

func (l *jsonAuditLogger) Enabled() bool { return true }

func (l *jsonAuditLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closer == nil {
		return nil
	}
	err := l.closer.Close()
	l.closer = nil
	return err
}

type noopAuditLogger struct{}

func (noopAuditLogger) Log(context.Context, AuditEntry) {}
func (noopAuditLogger) Enabled() bool                   { return false }
func (noopAuditLogger) Close() error                    { return nil }

type auditLoggerKey struct{}

// ContextWithAuditLogger stores an audit logger in ctx.
func ContextWithAuditLogger(ctx context.Context, l AuditLogger) context.Context {
	return context.WithValue(ctx, auditLoggerKey{}, l)
}

// AuditLoggerFromContext returns the audit logger in ctx, or a no-op logger.
func AuditLoggerFromContext(ctx context.Context) AuditLogger {
	if ctx != nil {
		if l, ok := ctx.Value(auditLoggerKey{}).(AuditLogger); ok && l != nil {
			return l
		}
	}
	return noopAuditLogger{}
}
