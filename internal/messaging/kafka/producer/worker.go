package producer

import (
	"context"
	"time"

	"go-leavetrack/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type RelayConfig struct {
	Repo         kafka.OutboxRepository
	Writer       *kafkago.Writer
	Logger       *zap.Logger
	PollInterval time.Duration
	BatchSize    int
}

// Relay drains outbox_events: pending rows are published to Kafka and
// marked sent, publish failures are marked failed with the backoff recorded
// on the row itself.
type Relay struct {
	repo     kafka.OutboxRepository
	writer   *kafkago.Writer
	logger   *zap.Logger
	interval time.Duration
	batch    int
}

func NewRelay(cfg RelayConfig) *Relay {
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = 3 * time.Second
	}
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 50
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.L()
	}
	return &Relay{
		repo:     cfg.Repo,
		writer:   cfg.Writer,
		logger:   logger.Named("kafka.producer.relay"),
		interval: interval,
		batch:    batch,
	}
}

// Run polls until the context is cancelled.
func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("outbox relay started",
		zap.Duration("poll_interval", r.interval),
		zap.Int("batch_size", r.batch),
	)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("outbox relay stopped")
			return
		case <-ticker.C:
			if err := r.drainPending(ctx); err != nil {
				r.logger.Error("drain outbox failed", zap.Error(err))
			}
		}
	}
}

func (r *Relay) drainPending(ctx context.Context) error {
	events, err := r.repo.ListPending(ctx, r.batch)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}

	r.logger.Info("relaying outbox events", zap.Int("count", len(events)))

	for _, event := range events {
		if err := kafka.ValidateOutboxEvent(event); err != nil {
			r.logger.Warn("skipping invalid outbox event",
				zap.String("outbox_id", event.ID),
				zap.Error(err),
			)
			r.markFailed(ctx, event.ID, err)
			continue
		}

		if err := publishEvent(ctx, r.writer, event); err != nil {
			r.logger.Error("publish outbox event failed",
				zap.String("outbox_id", event.ID),
				zap.String("topic", event.Topic),
				zap.Error(err),
			)
			r.markFailed(ctx, event.ID, err)
			continue
		}

		if err := r.repo.MarkSent(ctx, event.ID); err != nil {
			r.logger.Error("mark outbox sent failed", zap.String("outbox_id", event.ID), zap.Error(err))
		}
	}
	return nil
}

func (r *Relay) markFailed(ctx context.Context, id string, cause error) {
	if err := r.repo.MarkFailed(ctx, id, cause.Error()); err != nil {
		r.logger.Error("mark outbox failed error", zap.String("outbox_id", id), zap.Error(err))
	}
}
