package postgres

import (
	"context"

	"github.com/iho/payinstr/internal/domain"
)

// NullAuditRepository discards audit records when no database is configured.
type NullAuditRepository struct{}

// NewNullAuditRepository creates a new NullAuditRepository.
func NewNullAuditRepository() *NullAuditRepository {
	return &NullAuditRepository{}
}

func (r *NullAuditRepository) Create(ctx context.Context, rec *domain.AuditRecord) error {
	return nil
}

func (r *NullAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditRecord, error) {
	return nil, domain.ErrAuditUnavailable
}
