package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vaidashi/order-admin/internal/config"
	"github.com/vaidashi/order-admin/internal/database"
	"github.com/vaidashi/order-admin/internal/store"
	"github.com/vaidashi/order-admin/pkg/kafka"
	"github.com/vaidashi/order-admin/pkg/logger"
)

func main() {
	cfg, err := config.Load()

	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	l := logger.NewLogger(cfg.LogLevel)
	l.Info("Starting order store...", "storage", cfg.Storage)

	var repo store.OrderRepository
	var db *database.Database

	switch cfg.Storage {
	case "postgres":
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		db, err = database.New(ctx, cfg, l)
		cancel()

		if err != nil {
			l.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}

		if err := db.RunMigrations(); err != nil {
			l.Error("Failed to run database migrations", "error", err)
			os.Exit(1)
		}

		repo = store.NewPostgresOrderRepository(db, l)
	default:
		repo = store.NewMemoryOrderRepository()
	}

	var producer *kafka.Producer

	if len(cfg.Kafka.Brokers) > 0 {
		producer, err = kafka.NewProducer(cfg.Kafka.Brokers, l)

		if err != nil {
			// Events are best-effort; run without them.
			l.Warn("Failed to create Kafka producer, events disabled", "error", err)
			producer = nil
		}
	}

	publisher := store.NewEventPublisher(producer, cfg.Kafka.OrdersTopic, l)
	server := store.NewServer(cfg, repo, publisher, l)

	go func() {
		l.Info(fmt.Sprintf("Order store is starting on port %d", cfg.StorePort))

		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			l.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	l.Info("Shutting down order store...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		l.Error("Server forced to shutdown", "error", err)
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			l.Error("Error closing Kafka producer", "error", err)
		}
	}

	if db != nil {
		if err := db.Close(); err != nil {
			l.Error("Error closing database connection", "error", err)
		}
	}

	l.Info("Server exiting")
}
