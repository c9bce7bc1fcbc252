package domain

import "errors"

var (
	// Auth errors
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")

	// Audit errors
	ErrAuditUnavailable = errors.New("audit trail unavailable")
)

// RejectionError is a typed rejection raised while matching an instruction.
// It carries the fields recovered before matching stopped so they can be echoed.
type RejectionError struct {
	Code   string
	Reason string

	Type     *Direction
	Amount   *int64
	Currency *string
}

func (e *RejectionError) Error() string {
	return e.Code + ": " + e.Reason
}

func reject(code, reason string) *RejectionError {
	return &RejectionError{Code: code, Reason: reason}
}

// apply copies the rejection onto r.
func (e *RejectionError) apply(r *Result) {
	r.Status = StatusFailed
	r.StatusCode = e.Code
	r.StatusReason = e.Reason
	r.Type = e.Type
	r.Amount = e.Amount
	r.Currency = e.Currency
}
