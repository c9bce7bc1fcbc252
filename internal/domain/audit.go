package domain

import "time"

// AuditRecord is the trail entry written for every processed instruction.
// It records the outcome only; balances are never stored.
type AuditRecord struct {
	ID            string
	RequestID     string // Request ID for tracing
	ClientID      string // Authenticated caller, empty when auth is disabled
	Instruction   string // Raw instruction text as received
	Type          *string
	Amount        *int64
	Currency      *string
	DebitAccount  *string
	CreditAccount *string
	ExecuteBy     *string
	Status        Status
	StatusCode    string
	CreatedAt     time.Time
}

// NewAuditRecord builds an audit entry from a Result.
func NewAuditRecord(id, instruction string, r *Result, at time.Time) *AuditRecord {
	rec := &AuditRecord{
		ID:            id,
		Instruction:   instruction,
		Amount:        r.Amount,
		Currency:      r.Currency,
		DebitAccount:  r.DebitAccount,
		CreditAccount: r.CreditAccount,
		ExecuteBy:     r.ExecuteBy,
		Status:        r.Status,
		StatusCode:    r.StatusCode,
		CreatedAt:     at,
	}
	if r.Type != nil {
		t := string(*r.Type)
		rec.Type = &t
	}
	return rec
}

// AuditFilter defines filters for querying audit records.
type AuditFilter struct {
	StatusCode string
	RequestID  string
	Since      *time.Time
	Limit      int
}
