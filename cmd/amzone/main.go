package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/Ad4rshS/am-zone/internal/api"
	"github.com/Ad4rshS/am-zone/internal/auth"
	"github.com/Ad4rshS/am-zone/internal/config"
	"github.com/Ad4rshS/am-zone/internal/events"
	"github.com/Ad4rshS/am-zone/internal/scraper"
	"github.com/Ad4rshS/am-zone/internal/store"
)

func main() {
	godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Document store
	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		logger.Error("failed to open store", "path", cfg.Store.Path, "error", err)
		os.Exit(1)
	}

	adminHash, err := auth.HashPassword(cfg.Auth.AdminPassword)
	if err != nil {
		logger.Error("failed to hash admin password", "error", err)
		os.Exit(1)
	}
	if err := st.SeedAdmin(cfg.Auth.AdminName, cfg.Auth.AdminEmail, adminHash); err != nil {
		logger.Error("failed to seed admin user", "error", err)
		os.Exit(1)
	}

	// Redis client for the event relay. The store outbox holds events while
	// Redis is down, so an unreachable Redis only degrades eventing.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, events will stay queued in the outbox", "error", err)
	}

	relay := events.NewRelay(st, redisClient, logger, events.RelayConfig{
		PollInterval: cfg.Redis.RelayPollInterval,
		BatchSize:    cfg.Redis.RelayBatchSize,
	})
	go func() {
		if err := relay.Start(ctx); err != nil && err != context.Canceled {
			logger.Error("relay stopped with error", "error", err)
		}
	}()

	// Services
	authSvc := auth.NewService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	fetcher := scraper.NewFetcher(time.Duration(cfg.Scraper.FetchTimeoutSeconds) * time.Second)
	scraperSvc := scraper.NewService(fetcher, logger)
	publisher := events.NewPublisher(st, cfg.Redis.Stream, logger)

	handlers := api.NewHandlers(st, authSvc, scraperSvc, publisher, logger)
	router := api.NewRouter(handlers, authSvc)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down server...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", "error", err)
		}
	}()

	logger.Info("server starting", "port", cfg.Server.Port, "store", cfg.Store.Path)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
