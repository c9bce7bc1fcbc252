package dto

import (
	"time"

	"github.com/iho/payinstr/internal/domain"
)

// AuditRecordResponse represents an audit record in API responses.
type AuditRecordResponse struct {
	ID            string    `json:"id"`
	RequestID     string    `json:"request_id,omitempty"`
	ClientID      string    `json:"client_id,omitempty"`
	Instruction   string    `json:"instruction"`
	Type          *string   `json:"type"`
	Amount        *int64    `json:"amount"`
	Currency      *string   `json:"currency"`
	DebitAccount  *string   `json:"debit_account"`
	CreditAccount *string   `json:"credit_account"`
	ExecuteBy     *string   `json:"execute_by"`
	Status        string    `json:"status"`
	StatusCode    string    `json:"status_code"`
	CreatedAt     time.Time `json:"created_at"`
}

// AuditRecordFromDomain converts a domain audit record to response.
func AuditRecordFromDomain(rec *domain.AuditRecord) *AuditRecordResponse {
	return &AuditRecordResponse{
		ID:            rec.ID,
		RequestID:     rec.RequestID,
		ClientID:      rec.ClientID,
		Instruction:   rec.Instruction,
		Type:          rec.Type,
		Amount:        rec.Amount,
		Currency:      rec.Currency,
		DebitAccount:  rec.DebitAccount,
		CreditAccount: rec.CreditAccount,
		ExecuteBy:     rec.ExecuteBy,
		Status:        string(rec.Status),
		StatusCode:    rec.StatusCode,
		CreatedAt:     rec.CreatedAt,
	}
}

// AuditRecordsFromDomain converts domain audit records to responses.
func AuditRecordsFromDomain(records []*domain.AuditRecord) []*AuditRecordResponse {
	result := make([]*AuditRecordResponse, len(records))
	for i, rec := range records {
		result[i] = AuditRecordFromDomain(rec)
	}
	return result
}

// AuditListResponse wraps a page of audit records.
type AuditListResponse struct {
	Records []*AuditRecordResponse `json:"records"`
	Count   int                    `json:"count"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
