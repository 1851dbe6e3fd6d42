package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/citelink/citelink/internal/api"
	"github.com/citelink/citelink/internal/api/middleware"
	"github.com/citelink/citelink/internal/async"
	"github.com/citelink/citelink/internal/cache"
	"github.com/citelink/citelink/internal/config"
	"github.com/citelink/citelink/internal/corpus"
	"github.com/citelink/citelink/internal/events"
	"github.com/citelink/citelink/internal/graph"
	"github.com/citelink/citelink/internal/observability"
	"github.com/citelink/citelink/internal/queue"
	"github.com/citelink/citelink/pkg/citation"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, cfg.Observability.LogFormat)
	logger.Info("Starting Citelink API server")

	metrics := observability.NewMetrics()
	logger.Info("Metrics initialized")

	var store corpus.Store
	switch cfg.Corpus.Driver {
	case "memory", "":
		store = corpus.NewMemoryStore()
		logger.Info("Using in-memory corpus store")
	case "sqlite":
		store, err = corpus.NewSQLiteStore(cfg.Corpus.DSN)
		if err != nil {
			logger.Fatalf("Failed to initialize SQLite corpus store: %v", err)
		}
		logger.Infof("Using SQLite corpus store: %s", cfg.Corpus.DSN)
	case "postgres":
		store, err = corpus.NewPostgresStore(cfg.Corpus.DSN)
		if err != nil {
			logger.Fatalf("Failed to initialize Postgres corpus store: %v", err)
		}
		logger.Info("Using Postgres corpus store")
	default:
		logger.Fatalf("Unsupported corpus driver: %s", cfg.Corpus.Driver)
	}

	corpusCache, err := cache.NewCache(&cache.Config{
		Type:   cfg.Cache.Driver,
		TTL:    cfg.Cache.TTL,
		Addr:   cfg.Cache.Addr,
		DB:     cfg.Cache.DB,
		Prefix: cfg.Cache.Prefix,
	})
	if err != nil {
		logger.Fatalf("Failed to initialize cache: %v", err)
	}
	logger.Infof("Using %s cache", cfg.Cache.Driver)

	jobQueue, err := queue.NewQueue(&queue.QueueConfig{
		Driver:     cfg.Queue.Driver,
		URL:        cfg.Queue.URL,
		MaxRetries: cfg.Queue.MaxRetries,
		RetryDelay: cfg.Queue.RetryDelay,
	})
	if err != nil {
		logger.Fatalf("Failed to initialize queue: %v", err)
	}
	logger.Infof("Using %s queue", cfg.Queue.Driver)

	service := citation.NewService(cfg.Scoring)

	workerCount := cfg.Worker.Count
	if workerCount <= 0 {
		workerCount = 4
	}
	runner := async.NewRunner(jobQueue, service, workerCount)
	if err := runner.Start(workerCount); err != nil {
		logger.Fatalf("Failed to start worker pool: %v", err)
	}
	logger.Infof("Started %d async extraction workers", workerCount)

	citationGraph := graph.New()

	eventBus := events.NewBus(256)
	busCtx, stopBus := context.WithCancel(context.Background())
	eventBus.Start(busCtx)
	webhooks := events.NewWebhookManager(eventBus)
	logger.Info("Event bus started")

	authConfig := &middleware.AuthConfig{
		APIKeys:       make(map[string]string),
		JWTSecret:     cfg.Auth.JWTSecret,
		JWTExpiration: cfg.Auth.JWTExpiration,
	}
	logger.Info("Authentication configured")

	server := api.NewServer(store, corpusCache, jobQueue, service, runner, citationGraph, eventBus, webhooks, logger, metrics, authConfig)
	server.SetupRoutes()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		logger.Infof("Starting HTTP server on %s", serverAddr)
		if err := server.Start(serverAddr); err != nil {
			logger.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	if err := server.Shutdown(); err != nil {
		logger.Errorf("HTTP server forced to shutdown: %v", err)
	}

	stopBus()
	eventBus.Stop()

	if err := runner.Stop(cfg.Worker.ShutdownGrace); err != nil {
		logger.Errorf("Failed to stop worker pool: %v", err)
	}

	if err := jobQueue.Close(); err != nil {
		logger.Errorf("Failed to close queue: %v", err)
	}
	if err := corpusCache.Close(); err != nil {
		logger.Errorf("Failed to close cache: %v", err)
	}
	if err := store.Close(); err != nil {
		logger.Errorf("Failed to close corpus store: %v", err)
	}

	logger.Info("Server stopped")
}
