package mcp

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/techsbuilds/pgsphere-customer/client"
	"github.com/techsbuilds/pgsphere-customer/client/localstate"
	"github.com/techsbuilds/pgsphere-customer/client/meal"
	"github.com/techsbuilds/pgsphere-customer/internal/config"
	"github.com/techsbuilds/pgsphere-customer/internal/logger"
	"github.com/techsbuilds/pgsphere-customer/mcp/internal/handlers"
)

const (
	serverName    = "pgportal-mcp-server"
	serverVersion = "0.1.0"

	shutdownTimeout = 10 * time.Second
	httpReadTimeout = 5 * time.Second
	httpIdleTimeout = 120 * time.Second
)

type toolRegisterer interface {
	RegisterTools(s *server.MCPServer) error
}

// NewServer builds the MCP server with every portal tool registered against
// c and its session s.
func NewServer(c *client.Client, s *client.Session) (*server.MCPServer, error) {
	srv := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
	)
	for name, h := range map[string]toolRegisterer{
		"meal":   handlers.NewMealHandler(s),
		"portal": handlers.NewPortalHandler(c),
	} {
		if err := h.RegisterTools(srv); err != nil {
			return nil, fmt.Errorf("register %s tools: %w", name, err)
		}
	}
	return srv, nil
}

// authenticate restores the CLI's saved login, falling back to
// PGPORTAL_EMAIL/PGPORTAL_PASSWORD, then to the development token when
// devMode is set.
func authenticate(ctx context.Context, cfg *config.Config, devMode bool) (*client.Client, error) {
	opts := []client.Option{
		client.WithHTTPTimeout(cfg.HTTPTimeout),
		client.WithDebugLogging(cfg.Debug),
		client.WithFetchRetries(cfg.FetchRetries),
		client.WithPolicy(meal.Policy{FailOpen: cfg.MealFailOpen, GateReselect: cfg.MealGateReselect}),
	}

	if st, err := localstate.Open(ctx, cfg.StateDir); err == nil {
		l, err := st.Load(ctx)
		_ = st.Close()
		if err == nil {
			log.Info().Str("user_id", l.UserID).Msg("Using saved login")
			return client.New(cfg.APIURL, append(opts, client.WithToken(l.Token))...)
		}
		if !errors.Is(err, localstate.ErrNoSession) {
			log.Warn().Err(err).Msg("Could not read saved login")
		}
	}

	if email, password := os.Getenv("PGPORTAL_EMAIL"), os.Getenv("PGPORTAL_PASSWORD"); email != "" && password != "" {
		c, err := client.New(cfg.APIURL, opts...)
		if err != nil {
			return nil, err
		}
		if _, err := c.Login(ctx, email, password); err != nil {
			_ = c.Close()
			return nil, err
		}
		return c, nil
	}

	if devMode {
		log.Warn().Msg("Using development token; only the dev backend accepts it")
		return client.NewWithDevMode(cfg.APIURL, opts...)
	}
	return nil, fmt.Errorf("%w: run `pgportal login` or set PGPORTAL_EMAIL and PGPORTAL_PASSWORD", client.ErrNotAuthenticated)
}

// RunMCPServer starts the MCP server on stdio or streamable HTTP.
func RunMCPServer() error {
	cfg, err := config.New()
	if err != nil {
		return err
	}

	var rawLogLevel string
	var devMode bool
	flag.StringVar(&cfg.APIURL, "api-url", cfg.APIURL, "Base URL of the PG portal backend")
	flag.StringVar(&rawLogLevel, "log-level", cfg.LogLevel, "Log level: debug|info|warn|error")
	flag.BoolVar(&devMode, "dev", false, "Fall back to the development token")
	flag.Parse()

	// stdout carries the stdio protocol, so logs go to stderr.
	log.Logger = logger.NewWithWriter(serverName, os.Stderr).With().Caller().Logger()
	zerolog.SetGlobalLevel(logger.ParseLevel(rawLogLevel))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
	pgClient, err := authenticate(ctx, cfg, devMode)
	cancel()
	if err != nil {
		log.Error().Stack().Err(err).Msg("Failed to create client")
		return err
	}
	defer func() { _ = pgClient.Close() }()

	session, err := pgClient.NewSession()
	if err != nil {
		return err
	}
	defer func() { _ = session.Close() }()

	ctx, cancel = context.WithTimeout(context.Background(), cfg.HTTPTimeout)
	if _, err := session.LoadMealConfig(ctx); err != nil {
		log.Warn().Err(err).Msg("Meal config unavailable; today's cutoffs follow the fail-open policy")
	}
	cancel()

	s, err := NewServer(pgClient, session)
	if err != nil {
		return err
	}

	if shouldUseStdio() {
		log.Info().Msg("Starting PG portal MCP server (stdio transport)")
		return server.ServeStdio(s)
	}

	log.Info().Str("addr", cfg.MCPAddr).Msg("Starting PG portal MCP server (Streamable HTTP)")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	shutdownComplete := make(chan struct{})

	streamSrv := server.NewStreamableHTTPServer(
		s,
		server.WithEndpointPath("/mcp"),
		server.WithHeartbeatInterval(30*time.Second),
	)
	mux := http.NewServeMux()
	mux.Handle("/mcp", streamSrv)
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:        cfg.MCPAddr,
		Handler:     mux,
		ReadTimeout: httpReadTimeout,
		// No write deadline: streaming responses stay open.
		WriteTimeout: 0,
		IdleTimeout:  httpIdleTimeout,
	}

	go func() {
		defer close(shutdownComplete)

		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Error during HTTP server shutdown")
		}
		if err := streamSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Error during MCP server shutdown")
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-shutdownComplete
	log.Info().Msg("MCP server shutdown complete")
	return nil
}

// shouldUseStdio picks stdio when forced by MCP_STDIO/MCP_HTTP or when stdin
// is not a terminal.
func shouldUseStdio() bool {
	if os.Getenv("MCP_STDIO") == "true" {
		return true
	}
	if os.Getenv("MCP_HTTP") == "true" {
		return false
	}
	if fileInfo, err := os.Stdin.Stat(); err == nil {
		return (fileInfo.Mode() & os.ModeCharDevice) == 0
	}
	return false
}
