package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rshade/emissionmission/internal/assistant"
	"github.com/rshade/emissionmission/internal/config"
	"github.com/rshade/emissionmission/internal/logging"
	"github.com/rshade/emissionmission/internal/server"
	"github.com/rshade/emissionmission/internal/session"
)

type serveParams struct {
	addr          string
	sessionTTL    string
	secureCookies bool
}

func newServeCmd() *cobra.Command {
	var params serveParams

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web form and JSON API",
		Long: `Serves the usage form at / and the JSON API under /api. Results are kept per
browser session in memory and expire after session.ttl_seconds. The server
shuts down gracefully on SIGINT or SIGTERM.`,
		Example: `  emissionmission serve
  emissionmission serve --addr 0.0.0.0:8080
  emissionmission serve --session-ttl 15m
  EMISSIONMISSION_SESSION_TTL=600 emissionmission serve`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, params)
		},
	}

	cmd.Flags().StringVar(&params.addr, "addr", config.GetGlobalConfig().Server.Addr, "listen address")
	cmd.Flags().StringVar(&params.sessionTTL, "session-ttl", "",
		"session lifetime in seconds or as a duration like 15m (default from config)")
	cmd.Flags().BoolVar(&params.secureCookies, "secure-cookies", false, "mark the session cookie Secure (behind TLS)")

	return cmd
}

func runServe(cmd *cobra.Command, params serveParams) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log := logging.FromContext(ctx)

	cfg := config.GetGlobalConfig()
	srvCfg := cfg.Server
	srvCfg.Addr = params.addr
	if err := srvCfg.Validate(); err != nil {
		return err
	}

	ttl, err := sessionTTL(cfg.Session.TTLSeconds, params.sessionTTL)
	if err != nil {
		return fmt.Errorf("session ttl: %w", err)
	}

	responder, err := assistant.New(ctx, cfg.Assistant)
	if err != nil {
		return fmt.Errorf("creating assistant: %w", err)
	}

	srv, err := server.New(server.Options{
		Addr:            srvCfg.Addr,
		ReadTimeout:     srvCfg.ReadTimeout,
		WriteTimeout:    srvCfg.WriteTimeout,
		ShutdownTimeout: srvCfg.ShutdownTimeout,
		CleanupInterval: cfg.Session.CleanupInterval,
		Store:           session.NewStore(ttl),
		Assistant:       responder,
		ReportAuthor:    cfg.Report.Author,
		SecureCookies:   params.secureCookies,
		Logger:          *log,
	})
	if err != nil {
		return err
	}

	log.Info().Ctx(ctx).Str("addr", srvCfg.Addr).Str("assistant", cfg.Assistant.Provider).
		Str("session_ttl", session.FormatDuration(ttl.Duration)).Msg("starting server")
	cmd.Printf("Serving on http://%s (Ctrl+C to stop)\n", srvCfg.Addr)

	return srv.Run(ctx)
}

// sessionTTL prefers the --session-ttl flag over the configured seconds.
func sessionTTL(configured int, flag string) (*session.TTLConfig, error) {
	if flag != "" {
		return session.ParseTTL(flag)
	}
	return session.NewTTLConfig(configured)
}
