package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/emissionmission/internal/config"
	"github.com/rshade/emissionmission/internal/logging"
)

// resolveLogging returns the configured logging section with the --debug
// override applied. Debug output always goes to stderr in console format.
func resolveLogging(cmd *cobra.Command) config.LoggingConfig {
	cfg := config.GetLoggingConfig()
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Level = "debug"
		cfg.Format = "console"
		cfg.File = ""
	}
	return cfg
}

// setupLogging builds the command logger and stores it, a trace ID and the
// audit logger in the command context. The returned result owns the log file.
func setupLogging(cmd *cobra.Command) logging.LogPathResult {
	cfg := resolveLogging(cmd)
	stderr := cmd.ErrOrStderr()

	if cfg.File != "" {
		if err := config.EnsureLogDir(); err != nil {
			_, _ = fmt.Fprintf(stderr, "Warning: could not create log directory: %v\n", err)
		}
	}

	result := logging.NewLoggerWithPath(cfg.ToLoggingConfig())
	logger = logging.ComponentLogger(result.Logger, "cli")
	switch {
	case result.UsingFile:
		logging.PrintLogPathMessage(stderr, result.FilePath)
	case result.FallbackUsed:
		logging.PrintFallbackWarning(stderr, result.FallbackReason)
	}

	audit := logging.NewAuditLogger(logging.AuditLoggerConfig{
		Enabled: cfg.Audit.Enabled,
		File:    cfg.Audit.File,
	})
	ctx := withCommandLogging(cmd.Context(), logger, audit)
	cmd.SetContext(ctx)

	logger.Info().Ctx(ctx).
		Str("command", cmd.CommandPath()).
		Bool("audit", audit.Enabled()).
		Msg("command started")

	return result
}

func withCommandLogging(ctx context.Context, l zerolog.Logger, audit logging.AuditLogger) context.Context {
	ctx = logging.ContextWithTraceID(ctx, logging.GetOrGenerateTraceID(ctx))
	ctx = l.WithContext(ctx)
	return logging.ContextWithAuditLogger(ctx, audit)
}

// cleanupLogging closes the audit logger and the log file. Both are closed
// even when one of them fails.
func cleanupLogging(cmd *cobra.Command, logFile io.Closer) error {
	var errs []error
	if err := logging.AuditLoggerFromContext(cmd.Context()).Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing audit log: %w", err))
	}
	if logFile != nil {
		if err := logFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing log file: %w", err))
		}
	}
	return errors.Join(errs...)
}
