package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/story-forge/internal/config"
	"github.com/jwebster45206/story-forge/internal/logger"
	"github.com/jwebster45206/story-forge/internal/services/queue"
	"github.com/jwebster45206/story-forge/internal/storage"
	"github.com/jwebster45206/story-forge/internal/worker"
	"github.com/jwebster45206/story-forge/pkg/sanitize"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg)

	log.Info("Starting document worker",
		"environment", cfg.Environment,
		"redis_url", cfg.RedisURL,
		"data_dir", cfg.DataDir)

	queueClient, err := queue.NewClient(cfg.RedisURL, log)
	if err != nil {
		log.Error("Failed to connect to queue", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = queueClient.Close()
	}()

	store, err := storage.NewRedisStorage(cfg.RedisURL, cfg.DataDir, log)
	if err != nil {
		log.Error("Failed to create storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = store.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := store.WaitForConnection(ctx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}

	corrector := sanitize.NewCorrectorWithPasses(cfg.MaxCorrectionPasses)
	pipeline := sanitize.NewPipelineWithCorrector(corrector, log)
	processor := worker.NewDocumentProcessor(pipeline, store, log)

	documentQueue := queue.NewDocumentQueue(queueClient)
	w := worker.New(documentQueue, processor, queueClient.GetRedisClient(), log, "")

	// Graceful shutdown on SIGINT/SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("Shutdown signal received")
		w.Stop()
	}()

	if err := w.Start(); err != nil {
		log.Error("Worker exited with error", "error", err)
		os.Exit(1)
	}
}
