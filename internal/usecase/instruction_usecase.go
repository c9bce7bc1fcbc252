package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/payinstr/internal/domain"
)

// InstructionUseCase parses, validates and resolves payment instructions.
type InstructionUseCase struct {
	auditRepo AuditRepository
	retrier   Retrier
	idGen     IDGenerator
	clock     Clock
	recorder  OutcomeRecorder
	logger    zerolog.Logger
}

// NewInstructionUseCase creates a new InstructionUseCase.
// recorder may be nil when metrics are not collected.
func NewInstructionUseCase(
	auditRepo AuditRepository,
	retrier Retrier,
	idGen IDGenerator,
	clock Clock,
	recorder OutcomeRecorder,
	logger zerolog.Logger,
) *InstructionUseCase {
	return &InstructionUseCase{
		auditRepo: auditRepo,
		retrier:   retrier,
		idGen:     idGen,
		clock:     clock,
		recorder:  recorder,
		logger:    logger,
	}
}

// ProcessInstructionInput represents one request to process an instruction.
type ProcessInstructionInput struct {
	// Instruction is nil when the field was absent or not a string.
	Instruction *string
	Accounts    []domain.Account
	RequestID   string
	ClientID    string
}

// ProcessInstruction runs the instruction through the pipeline. Rejections are
// reported in the Result; the audit trail never affects the outcome.
func (uc *InstructionUseCase) ProcessInstruction(ctx context.Context, input ProcessInstructionInput) *domain.Result {
	start := uc.clock.Now()

	result := domain.Process(input.Instruction, input.Accounts, domain.Today(start))

	uc.logOutcome(input, result)
	uc.record(result, uc.clock.Now().Sub(start))
	uc.audit(ctx, input, result, start)

	return result
}

func (uc *InstructionUseCase) logOutcome(input ProcessInstructionInput, r *domain.Result) {
	event := uc.logger.Debug()
	if r.Failed() {
		event = uc.logger.Info()
	}

	if r.Type != nil {
		event = event.Str("type", string(*r.Type))
	}

	event.
		Str("request_id", input.RequestID).
		Str("status", string(r.Status)).
		Str("status_code", r.StatusCode).
		Int("accounts", len(input.Accounts)).
		Msg("instruction processed")
}

func (uc *InstructionUseCase) record(r *domain.Result, d time.Duration) {
	if uc.recorder == nil {
		return
	}

	uc.recorder.RecordOutcome(string(r.Status), r.StatusCode, d)
	if r.Status == domain.StatusSuccessful && r.Amount != nil && r.Currency != nil {
		uc.recorder.RecordAmount(*r.Currency, *r.Amount)
	}
}

func (uc *InstructionUseCase) audit(ctx context.Context, input ProcessInstructionInput, r *domain.Result, at time.Time) {
	var instruction string
	if input.Instruction != nil {
		instruction = *input.Instruction
	}

	rec := domain.NewAuditRecord(uc.idGen.Generate(), instruction, r, at.UTC())
	rec.RequestID = input.RequestID
	rec.ClientID = input.ClientID

	ctx, cancel := context.WithTimeout(ctx, AuditWriteTimeout)
	defer cancel()

	err := uc.retrier.Retry(ctx, func() error {
		return uc.auditRepo.Create(ctx, rec)
	})
	if err != nil {
		uc.logger.Warn().
			Err(err).
			Str("request_id", input.RequestID).
			Str("audit_id", rec.ID).
			Msg("failed to write audit record")

		if uc.recorder != nil {
			uc.recorder.RecordAuditFailure()
		}
	}
}

// ListAuditInput represents input for listing audit records.
type ListAuditInput struct {
	StatusCode string
	RequestID  string
	Since      *time.Time
	Limit      int
}

// ListAudit lists audit records, newest first.
func (uc *InstructionUseCase) ListAudit(ctx context.Context, input ListAuditInput) ([]*domain.AuditRecord, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultAuditPageSize
	}
	if limit > MaxAuditPageSize {
		limit = MaxAuditPageSize
	}

	return uc.auditRepo.List(ctx, domain.AuditFilter{
		StatusCode: input.StatusCode,
		RequestID:  input.RequestID,
		Since:      input.Since,
		Limit:      limit,
	})
}
