package usecase

import "time"

const (
	// AuditWriteTimeout bounds a single audit insert including retries.
	AuditWriteTimeout = 5 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour
	// IdempotencyInFlight marks a key whose first request has not finished yet.
	IdempotencyInFlight = "processing"

	// DefaultAuditPageSize is used when a listing does not specify a limit.
	DefaultAuditPageSize = 50
	// MaxAuditPageSize caps audit listings.
	MaxAuditPageSize = 500
)
