package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"laundromat/internal/config"
	"laundromat/internal/database"
	"laundromat/internal/httpapi"
	"laundromat/internal/infrastructure/cache"
	"laundromat/internal/infrastructure/receipt"
	"laundromat/internal/repo"
	"laundromat/internal/service"
	"laundromat/internal/worker"
	"laundromat/pkg/token"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	cfg := config.Load()

	db := database.NewPostgres()
	dbService := database.New(db)
	defer dbService.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := database.Bootstrap(ctx, db, cfg.AdminPassword); err != nil {
		logger.Error("bootstrap failed", "err", err)
		os.Exit(1)
	}

	userRepo := repo.NewUserRepo(db)
	serviceRepo := repo.NewServiceRepo(db)
	orderRepo := repo.NewOrderRepo(db)
	renderer := receipt.NewQRRenderer()

	var listCache service.Cache
	if cfg.RedisAddr != "" {
		rc := cache.New(cfg.RedisAddr, os.Getenv("LAUNDRY_REDIS_PASSWORD"), 0, 5*time.Minute)
		if err := rc.Ping(ctx); err != nil {
			logger.Warn("redis unreachable, caching disabled", "addr", cfg.RedisAddr, "err", err)
		} else {
			listCache = rc
			defer rc.Close()
		}
	}

	tokens := token.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(userRepo, tokens)
	catalogService := service.NewCatalogService(serviceRepo)
	orderService := service.NewOrderService(db, orderRepo, serviceRepo, userRepo, renderer, listCache, logger, cfg.StrictStatus)

	backfill := worker.NewReceiptBackfillWorker(db, orderRepo, renderer, cfg.BackfillInterval, logger)
	go backfill.Run(ctx)

	api := httpapi.NewServer(authService, catalogService, orderService, tokens, dbService, logger)
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: api.Handler(),
	}

	go func() {
		logger.Info("laundromat counter service listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "err", err)
	}
}
