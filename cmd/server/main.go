package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Simplici0/mouldquote/internal/auth"
	"github.com/Simplici0/mouldquote/internal/config"
	"github.com/Simplici0/mouldquote/internal/db"
	"github.com/Simplici0/mouldquote/internal/leads"
	"github.com/Simplici0/mouldquote/internal/logging"
	"github.com/Simplici0/mouldquote/internal/migrations"
	"github.com/Simplici0/mouldquote/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// No logger yet.
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.IsDev())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
	logger.Info("server shutdown gracefully")
}

// newSessions builds the cookie signer. Outside dev a secret is required; in
// dev a random one is generated, so sessions do not survive a restart.
func newSessions(cfg config.Config, logger *zap.Logger) (auth.Sessions, error) {
	secret := cfg.SessionSecret
	if secret == "" {
		if !cfg.IsDev() {
			return auth.Sessions{}, fmt.Errorf("SESSION_SECRET is required when APP_ENV=%s", cfg.AppEnv)
		}
		var err error
		if secret, err = auth.RandomSecret(); err != nil {
			return auth.Sessions{}, err
		}
		logger.Warn("SESSION_SECRET not set, using a random secret for this run")
	}
	return auth.NewSessions(secret, cfg.SessionTTL, !cfg.IsDev())
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	for _, name := range cfg.Missing() {
		logger.Warn("setting is not set", zap.String("name", name))
	}

	sessions, err := newSessions(cfg, logger)
	if err != nil {
		return err
	}

	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	version, err := migrations.Up(ctx, database)
	if err != nil {
		return err
	}
	logger.Info("database ready", zap.String("path", cfg.DBPath), zap.Int64("schema_version", version))

	stats, err := seed.Run(ctx, database, seed.Config{
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
	})
	if err != nil {
		return err
	}
	if stats.Inserts > 0 {
		logger.Info("seeded database", zap.Int("inserts", stats.Inserts))
	}

	srv := newServer(logger, auth.NewService(database), sessions, leads.NewStore(database))

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
