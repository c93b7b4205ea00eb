package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go-leavetrack/internal/messaging/kafka"
	"go-leavetrack/internal/messaging/kafka/producer"
	"go-leavetrack/internal/shared/connection"

	"go.uber.org/zap"
)

type workerConfig struct {
	broker       string
	pollInterval time.Duration
	batchSize    int
}

func loadWorkerConfig() (workerConfig, error) {
	cfg := workerConfig{
		broker:       os.Getenv("KAFKA_BROKER"),
		pollInterval: 3 * time.Second,
		batchSize:    50,
	}
	if cfg.broker == "" {
		return cfg, fmt.Errorf("KAFKA_BROKER is required")
	}
	if v := os.Getenv("OUTBOX_POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("OUTBOX_POLL_INTERVAL: %w", err)
		}
		cfg.pollInterval = d
	}
	if v := os.Getenv("OUTBOX_BATCH_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return cfg, fmt.Errorf("OUTBOX_BATCH_SIZE must be a positive integer")
		}
		cfg.batchSize = n
	}
	return cfg, nil
}

// RunWorker starts the outbox relay: poll outbox_events, publish to Kafka,
// mark rows sent or failed. It blocks until SIGINT/SIGTERM.
func RunWorker() error {
	logger := zap.L().Named("app.worker")

	cfg, err := loadWorkerConfig()
	if err != nil {
		return err
	}

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.broker, 5)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	relay := producer.NewRelay(producer.RelayConfig{
		Repo:         kafka.NewOutboxRepository(sqlDB),
		Writer:       kafkaWriter,
		Logger:       logger,
		PollInterval: cfg.pollInterval,
		BatchSize:    cfg.batchSize,
	})
	go relay.Run(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()

	return nil
}
