package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/datalens/internal/config"
	"github.com/JonMunkholm/datalens/internal/core"
	"github.com/JonMunkholm/datalens/internal/logging"
	"github.com/JonMunkholm/datalens/internal/store"
	"github.com/JonMunkholm/datalens/internal/web"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Overload lets a local .env win over inherited variables.
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reports, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open report store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	limiter := core.NewUploadLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime)
	service := core.NewService(reports, limiter, core.Options{
		MaxFileSize:   cfg.Upload.MaxFileSize,
		UploadTimeout: cfg.Upload.Timeout,
		PreviewRows:   cfg.Report.PreviewRows,
		RecentLimit:   cfg.Report.RecentLimit,
	})
	server := web.NewServer(service, cfg)

	go service.StartRetentionScheduler(ctx, core.RetentionConfig{
		MaxAge:   cfg.Report.Retention,
		Interval: cfg.Report.PurgeInterval,
	})

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start(ctx) }()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", "error", err)
			os.Exit(1)
		}
		return
	case <-ctx.Done():
	}

	slog.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}

	slog.Info("waiting for analyses to complete", "active", limiter.ActiveCount())
	if err := limiter.WaitForDrain(shutdownCtx); err != nil {
		slog.Warn("analyses did not complete in time", "error", err)
	}
	slog.Info("server stopped")
}

// openStore returns the Postgres archive when DATABASE_URL is set and a
// bounded in-memory store otherwise.
func openStore(ctx context.Context, cfg *config.Config) (store.ReportStore, func(), error) {
	if !cfg.Database.Enabled() {
		slog.Info("no database configured, keeping reports in memory",
			"capacity", cfg.Report.MemoryCapacity)
		return store.NewMemoryStore(cfg.Report.MemoryCapacity), func() {}, nil
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, nil, err
	}
	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}

	pg := store.NewPostgresStore(pool)
	if err := pg.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	slog.Info("connected to database", "database", poolConfig.ConnConfig.Database)
	return pg, pool.Close, nil
}
