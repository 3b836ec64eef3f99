package outbox

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Store provides access to pending outbox rows.
type Store interface {
	FetchPending(ctx context.Context, limit int) ([]Record, error)
	MarkSent(ctx context.Context, id int64) error
}

// Publisher delivers one record to the broker.
type Publisher interface {
	Publish(ctx context.Context, rec Record) error
}

const (
	defaultInterval  = time.Second
	defaultBatchSize = 100
)

// Relay polls the outbox and publishes pending records in insertion order.
// Publishing is at-least-once: a record is marked sent only after the
// publisher accepted it.
type Relay struct {
	store     Store
	publisher Publisher
	logger    zerolog.Logger
	interval  time.Duration
	batchSize int

	onPublished func()
}

type RelayOption func(*Relay)

// WithInterval overrides the poll interval.
func WithInterval(d time.Duration) RelayOption {
	return func(r *Relay) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithBatchSize overrides how many records are fetched per poll.
func WithBatchSize(n int) RelayOption {
	return func(r *Relay) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

// WithPublishedHook installs a callback invoked after each published record,
// used to feed the published-events counter.
func WithPublishedHook(fn func()) RelayOption {
	return func(r *Relay) {
		r.onPublished = fn
	}
}

func NewRelay(store Store, publisher Publisher, logger zerolog.Logger, opts ...RelayOption) *Relay {
	relay := &Relay{
		store:     store,
		publisher: publisher,
		logger:    logger,
		interval:  defaultInterval,
		batchSize: defaultBatchSize,
	}
	for _, opt := range opts {
		opt(relay)
	}
	return relay
}

// Run polls until the context is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := r.Drain(ctx); err != nil && ctx.Err() == nil {
				r.logger.Warn().Err(err).Msg("outbox drain failed")
			}
		}
	}
}

// Drain publishes everything currently pending. It stops at the first
// failing record so ordering per key is preserved across retries.
func (r *Relay) Drain(ctx context.Context) error {
	for {
		records, err := r.store.FetchPending(ctx, r.batchSize)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}

		for _, rec := range records {
			if err := r.publisher.Publish(ctx, rec); err != nil {
				return err
			}
			if err := r.store.MarkSent(ctx, rec.ID); err != nil {
				return err
			}
			if r.onPublished != nil {
				r.onPublished()
			}
		}

		if len(records) < r.batchSize {
			return nil
		}
	}
}
