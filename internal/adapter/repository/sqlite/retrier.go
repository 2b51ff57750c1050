package sqlite

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/infrastructure/metrics"
)

// Retrier re-runs operations that failed because the database was busy.
type Retrier struct {
	maxRetries      uint64
	initialInterval time.Duration
	maxInterval     time.Duration
	metrics         *metrics.Metrics
}

// NewRetrier creates a Retrier with default settings. m may be nil.
func NewRetrier(m *metrics.Metrics) *Retrier {
	return &Retrier{
		maxRetries:      5,
		initialInterval: 20 * time.Millisecond,
		maxInterval:     500 * time.Millisecond,
		metrics:         m,
	}
}

// Retry implements usecase.Retrier.
func (r *Retrier) Retry(ctx context.Context, operation func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialInterval
	b.MaxInterval = r.maxInterval

	return backoff.RetryNotify(func() error {
		err := operation()
		if err != nil && !domain.Retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(b, r.maxRetries), ctx), func(err error, wait time.Duration) {
		zerolog.Ctx(ctx).Warn().Err(err).Dur("wait", wait).Msg("sqlite busy, retrying")
		if r.metrics != nil {
			r.metrics.StorageRetries.WithLabelValues("busy").Inc()
		}
	})
}
