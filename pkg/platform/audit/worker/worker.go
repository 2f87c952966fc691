package worker

import (
	"context"
	"log/slog"
	"time"

	audit "demographics/pkg/platform/audit"
)

// Outbox hands out unpublished audit entries in claimed batches.
type Outbox interface {
	Relay(ctx context.Context, limit int, publish func(context.Context, []audit.OutboxEntry) error) (int, error)
}

// Producer writes a batch of entries to the event log.
type Producer interface {
	Publish(ctx context.Context, entries []audit.OutboxEntry) error
}

// Worker drains the audit outbox into the producer on a fixed interval.
type Worker struct {
	outbox   Outbox
	producer Producer
	logger   *slog.Logger
	interval time.Duration
	batch    int
}

type Option func(*Worker)

func WithInterval(d time.Duration) Option {
	return func(w *Worker) {
		if d > 0 {
			w.interval = d
		}
	}
}

func WithBatchSize(n int) Option {
	return func(w *Worker) {
		if n > 0 {
			w.batch = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		w.logger = logger
	}
}

func NewWorker(outbox Outbox, producer Producer, opts ...Option) *Worker {
	w := &Worker{
		outbox:   outbox,
		producer: producer,
		logger:   slog.Default(),
		interval: time.Second,
		batch:    100,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run relays until ctx is cancelled. Publish failures are logged and retried
// on the next tick.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		if _, err := w.Drain(ctx); err != nil && ctx.Err() == nil {
			w.logger.WarnContext(ctx, "audit outbox relay failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Drain relays full batches until the outbox runs dry and reports how many
// entries were published.
func (w *Worker) Drain(ctx context.Context) (int, error) {
	total := 0
	for {
		n, err := w.outbox.Relay(ctx, w.batch, w.producer.Publish)
		total += n
		if err != nil {
			return total, err
		}
		if n < w.batch {
			return total, nil
		}
	}
}
