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

	"avyyan/internal/config"
	"avyyan/internal/infra"
	"avyyan/internal/repository"
	"avyyan/internal/router"
	"avyyan/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger. dev: pretty, prod: JSON
	if cfg.IsProduction() {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	if err := infra.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate schema")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Worker handlers are wired here (composition root) so the pool has
	// direct access to the mailer, breaker and sheet storage.
	mailer := infra.NewMailer(cfg)
	mailCB := infra.NewCircuitBreaker(infra.BreakerConfig{})
	dispatcher := worker.NewDispatcher(rdb)

	userRepo := repository.NewUserRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	allotmentRepo := repository.NewAllotmentRepository(db)
	salesOrderRepo := repository.NewSalesOrderRepository(db)

	emailWorker := worker.NewNotificationEmailWorker(notificationRepo, userRepo, mailer, mailCB, rdb)
	sheetWorker := worker.NewAllotmentSheetWorker(allotmentRepo, salesOrderRepo, cfg.SheetStoragePath, cfg.CompanyName)
	pool := worker.NewPool(rdb, map[string]worker.Handler{
		worker.QueueNotificationEmail: emailWorker,
		worker.QueueAllotmentSheet:    sheetWorker,
	}, cfg.WorkerPoolSize)
	cron := &worker.RetryCron{Notifications: notificationRepo, Worker: emailWorker, Breaker: mailCB}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router.New(cfg, db, rdb, mailCB, dispatcher),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return pool.Run(gctx) })
	g.Go(func() error { return cron.Run(gctx) })
	g.Go(func() error {
		log.Info().Msgf("Avyyan API listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	// Graceful shutdown on SIGINT / SIGTERM or when any component fails
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server…")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server exited with error")
		os.Exit(1)
	}
	log.Info().Msg("server exited")
}
