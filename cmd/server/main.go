package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Simplici0/digiquote/internal/config"
	"github.com/Simplici0/digiquote/internal/db"
	"github.com/Simplici0/digiquote/internal/logging"
	"github.com/Simplici0/digiquote/internal/migrations"
	"github.com/Simplici0/digiquote/internal/pricing"
	"github.com/Simplici0/digiquote/internal/seed"
	"github.com/Simplici0/digiquote/internal/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Logging())
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for _, key := range cfg.Missing() {
		logger.Warn("setting is not set", zap.String("key", key))
	}

	tables := pricing.DefaultTables()
	if cfg.TablesPath != "" {
		loaded, err := pricing.LoadTables(cfg.TablesPath)
		if err != nil {
			return err
		}
		tables = loaded
		logger.Info("coefficient tables loaded", zap.String("path", cfg.TablesPath))
	}

	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := migrations.Up(ctx, database); err != nil {
		return err
	}

	stats, err := seed.Run(ctx, database, seed.Config{
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
		Demo:          !cfg.IsProduction(),
		Tables:        tables,
	})
	if err != nil {
		return err
	}
	logger.Info("seed complete", zap.Int("inserts", stats.Inserts))

	auth := newAuthService(store.NewUsers(database), cfg.SessionSecret, cfg.IsProduction())
	srv := newServer(auth, store.NewProjects(database), tables, logger)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", httpServer.Addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
