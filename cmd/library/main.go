package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/j3rr7/MusicBotRewrite/internal/config"
	"github.com/j3rr7/MusicBotRewrite/internal/library"
	"github.com/j3rr7/MusicBotRewrite/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Config{Level: "info"}).Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	log.Infof("Starting %s v%s", cfg.ServiceName, cfg.Version)
	if cfg.UseDatabase {
		log.Info("Storage backend: PostgreSQL")
	} else {
		log.Infof("Storage backend: in-memory (snapshot: %s)", cfg.SnapshotPath)
	}

	// Initialize library
	ctx := context.Background()
	lib, err := library.New(ctx, cfg, log)
	if err != nil {
		log.Fatalf("Failed to create library: %v", err)
	}

	log.Info("✅ Library is ready. Press CTRL-C to exit.")

	// Wait for interrupt signal
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	// Cleanup
	log.Info("Shutting down gracefully...")
	lib.Close()
	log.Info("Library stopped successfully")
}
