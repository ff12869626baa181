package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/lalith-99/pgdesk/internal/api"
	"github.com/lalith-99/pgdesk/internal/cli"
	"github.com/lalith-99/pgdesk/internal/config"
	"github.com/lalith-99/pgdesk/internal/observ"
	"github.com/lalith-99/pgdesk/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// ---------------------------------------------------------------
	// 1. Load config
	// ---------------------------------------------------------------
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// ---------------------------------------------------------------
	// 2. Create logger
	// ---------------------------------------------------------------
	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	// ---------------------------------------------------------------
	// Root context
	//
	// Why signal.NotifyContext instead of context.Background()?
	//   - A CLI run is one short request chain, and the user may give
	//     up on it with Ctrl-C.
	//   - Cancelling the context aborts the HTTP call in flight. The
	//     stores see the cancelled context and drop any late result,
	//     so nothing half-applied is ever printed.
	// ---------------------------------------------------------------
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// ---------------------------------------------------------------
	// 3. Open the session store
	// ---------------------------------------------------------------
	tokens, closeTokens, err := openSessionStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	// Same cleanup pattern as any acquired resource: open it, then
	// immediately defer its release. For the file and memory backends
	// closeTokens is a no-op.
	defer closeTokens()
	sess := session.New(tokens, logger)

	// ---------------------------------------------------------------
	// 4. API client and commands
	//
	// The metrics registry is private to this run. Nothing scrapes a
	// CLI, so when PGDESK_METRICS_FILE is set the counters are written
	// out once at exit in the Prometheus text format, for a node
	// exporter textfile collector to pick up.
	// ---------------------------------------------------------------
	metrics := observ.NewMetrics()
	client := api.NewClient(cfg.APIURL, sess, logger, api.Options{
		Timeout: cfg.HTTPTimeout,
		Metrics: metrics,
	})

	logger.Debug("starting pgdesk",
		zap.String("api_url", cfg.APIURL),
		zap.String("session_backend", cfg.SessionBackend),
	)

	err = cli.New(sess, client, logger).RootCmd().ExecuteContext(ctx)

	if cfg.MetricsFile != "" {
		if werr := prometheus.WriteToTextfile(cfg.MetricsFile, metrics.Registry); werr != nil {
			logger.Warn("write metrics file", zap.String("path", cfg.MetricsFile), zap.Error(werr))
		}
	}
	return err
}

func openSessionStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (session.Store, func(), error) {
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		rdb, err := session.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := rdb.Close(); err != nil {
				logger.Warn("close redis", zap.Error(err))
			}
		}
		return session.NewRedisStore(rdb, cfg.SessionPrefix), closeFn, nil
	case config.SessionBackendMemory:
		return session.NewMemoryStore(), func() {}, nil
	default:
		logger.Debug("using session file", zap.String("path", cfg.SessionFile))
		return session.NewFileStore(cfg.SessionFile), func() {}, nil
	}
}
