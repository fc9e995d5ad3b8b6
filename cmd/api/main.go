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

	"dudhiya-collection/internal/api"
	"dudhiya-collection/internal/config"
	"dudhiya-collection/internal/history"
	"dudhiya-collection/internal/reconcile"
	"dudhiya-collection/pkg/clients/dudhiya"
	"dudhiya-collection/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadEnv(os.Getenv("ENV_FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Must(logger.New(cfg.Server.Env)).With(zap.String("service", cfg.Server.AppName))
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	settings, err := config.LoadSettings(cfg.SettingsFile)
	if err != nil {
		return fmt.Errorf("load dairy settings: %w", err)
	}
	log.Info("dairy settings loaded",
		zap.String("file", cfg.SettingsFile),
		zap.Float64("base_snf", settings.BaseSNF),
		zap.String("rate_type", settings.RateType),
		zap.String("fat_snf_ratio", settings.FatSNFRatio))

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	store, err := history.Open(openCtx, cfg.History)
	cancel()
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn("failed to close history store", zap.Error(err))
		}
	}()
	log.Info("history store ready", zap.String("backend", cfg.History.Backend))

	deps := api.Deps{
		AppName:  cfg.Server.AppName,
		Env:      cfg.Server.Env,
		Settings: settings,
		History:  store,
		Logger:   log.Named("http"),
	}

	if cfg.Reconcile.Enabled() {
		client := dudhiya.NewCachedClient(dudhiya.NewClient(cfg.Backend.BaseURL, cfg.Backend.Token), cfg.Reconcile.CacheTTL)
		rec := reconcile.New(client, dudhiya.DefaultPageSize, log.Named("reconcile"))
		sched, err := reconcile.NewScheduler(rec, cfg.Reconcile.CronSchedule, cfg.Reconcile.Pages, cfg.Reconcile.Timezone, log.Named("scheduler"))
		if err != nil {
			return err
		}
		if err := sched.Start(); err != nil {
			return err
		}
		defer sched.Stop()
		deps.Reports = sched
	} else {
		log.Info("scheduled reconciliation disabled")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           api.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting API server", zap.String("addr", srv.Addr), zap.String("env", cfg.Server.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
