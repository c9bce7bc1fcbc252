package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// SQLSTATE codes worth another attempt for a single audit insert.
const (
	pgErrDeadlock             = "40P01"
	pgErrSerializationFailure = "40001"
	pgErrCannotConnectNow     = "57P03"
	pgErrConnectionFailure    = "08006"
	pgErrTooManyConnections   = "53300"
)

// RetryConfig bounds how hard an audit write is retried.
type RetryConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

// DefaultRetryConfig keeps audit retries well inside the audit write timeout.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      3,
		InitialInterval: 50 * time.Millisecond,
		MaxInterval:     500 * time.Millisecond,
		MaxElapsedTime:  2 * time.Second,
	}
}

// Retrier implements usecase.Retrier with exponential backoff on transient
// Postgres errors.
type Retrier struct {
	cfg    RetryConfig
	logger zerolog.Logger
}

func NewRetrier(cfg RetryConfig, logger zerolog.Logger) *Retrier {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &Retrier{cfg: cfg, logger: logger}
}

// Retry runs operation until it succeeds, fails permanently, exhausts MaxRetries
// or ctx is done.
func (r *Retrier) Retry(ctx context.Context, operation func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.cfg.InitialInterval
	b.MaxInterval = r.cfg.MaxInterval
	b.MaxElapsedTime = r.cfg.MaxElapsedTime

	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(r.cfg.MaxRetries)), ctx)

	attempt := 0
	return backoff.RetryNotify(func() error {
		err := operation()
		if err != nil && !isRetryableError(err) {
			return backoff.Permanent(err)
		}
		return err
	}, policy, func(err error, wait time.Duration) {
		attempt++
		r.logger.Warn().
			Err(err).
			Int("retry", attempt).
			Dur("backoff", wait).
			Msg("transient database error, retrying")
	})
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrDeadlock, pgErrSerializationFailure, pgErrCannotConnectNow,
			pgErrConnectionFailure, pgErrTooManyConnections:
			return true
		}
		return false
	}
	return pgconn.SafeToRetry(err)
}
