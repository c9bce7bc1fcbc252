package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iho/payinstr/internal/domain"
)

// querier is the subset of *pgxpool.Pool used by the audit repository.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const insertAuditSQL = `
	INSERT INTO instruction_audit (
		id, request_id, client_id, instruction,
		type, amount, currency, debit_account, credit_account, execute_by,
		status, status_code, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
`

const selectAuditSQL = `
	SELECT id, request_id, client_id, instruction,
	       type, amount, currency, debit_account, credit_account, execute_by,
	       status, status_code, created_at
	FROM instruction_audit
`

// AuditRepository implements usecase.AuditRepository on PostgreSQL.
type AuditRepository struct {
	db querier
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db querier) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create inserts a new audit record
func (r *AuditRepository) Create(ctx context.Context, rec *domain.AuditRecord) error {
	_, err := r.db.Exec(ctx, insertAuditSQL,
		rec.ID,
		rec.RequestID,
		rec.ClientID,
		rec.Instruction,
		rec.Type,
		rec.Amount,
		rec.Currency,
		rec.DebitAccount,
		rec.CreditAccount,
		rec.ExecuteBy,
		string(rec.Status),
		rec.StatusCode,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit record: %w", err)
	}
	return nil
}

// List retrieves audit records with filtering, newest first
func (r *AuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditRecord, error) {
	query, args := buildListQuery(filter)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit records: %w", err)
	}
	defer rows.Close()

	var records []*domain.AuditRecord
	for rows.Next() {
		rec := &domain.AuditRecord{}
		var status string
		if err := rows.Scan(
			&rec.ID,
			&rec.RequestID,
			&rec.ClientID,
			&rec.Instruction,
			&rec.Type,
			&rec.Amount,
			&rec.Currency,
			&rec.DebitAccount,
			&rec.CreditAccount,
			&rec.ExecuteBy,
			&status,
			&rec.StatusCode,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit record: %w", err)
		}
		rec.Status = domain.Status(status)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit records: %w", err)
	}

	return records, nil
}

func buildListQuery(filter domain.AuditFilter) (string, []any) {
	var (
		conditions []string
		args       []any
	)

	add := func(column string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%s $%d", column, len(args)))
	}

	if filter.StatusCode != "" {
		add("status_code =", filter.StatusCode)
	}
	if filter.RequestID != "" {
		add("request_id =", filter.RequestID)
	}
	if filter.Since != nil {
		add("created_at >=", *filter.Since)
	}

	var b strings.Builder
	b.WriteString(selectAuditSQL)
	if len(conditions) > 0 {
		b.WriteString("\tWHERE ")
		b.WriteString(strings.Join(conditions, " AND "))
		b.WriteString("\n")
	}

	args = append(args, filter.Limit)
	fmt.Fprintf(&b, "\tORDER BY created_at DESC, id DESC\n\tLIMIT $%d", len(args))

	return b.String(), args
}
