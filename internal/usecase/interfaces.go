package usecase

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

import (
	"context"
	"time"

	"github.com/iho/payinstr/internal/domain"
)

// AuditRepository defines data access for the instruction audit trail.
type AuditRepository interface {
	Create(ctx context.Context, record *domain.AuditRecord) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditRecord, error)
}

// Retrier retries an operation that failed with a transient error.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// OutcomeRecorder receives processing metrics.
type OutcomeRecorder interface {
	RecordOutcome(status, statusCode string, duration time.Duration)
	RecordAmount(currency string, amount int64)
	RecordAuditFailure()
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key so that the request may be retried.
	Release(ctx context.Context, key string) error
}

// SystemClock is the wall clock.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time {
	return time.Now()
}
