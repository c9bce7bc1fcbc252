package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/payinstr/internal/domain"
	"github.com/iho/payinstr/internal/usecase"
	"github.com/iho/payinstr/internal/usecase/mocks"
)

var fixedNow = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

type fixture struct {
	auditRepo *mocks.MockAuditRepository
	retrier   *mocks.MockRetrier
	idGen     *mocks.MockIDGenerator
	clock     *mocks.MockClock
	recorder  *mocks.MockOutcomeRecorder
	uc        *usecase.InstructionUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := &fixture{
		auditRepo: mocks.NewMockAuditRepository(ctrl),
		retrier:   mocks.NewMockRetrier(ctrl),
		idGen:     mocks.NewMockIDGenerator(ctrl),
		clock:     mocks.NewMockClock(ctrl),
		recorder:  mocks.NewMockOutcomeRecorder(ctrl),
	}

	f.clock.EXPECT().Now().Return(fixedNow).AnyTimes()
	f.idGen.EXPECT().Generate().Return("audit-1").AnyTimes()
	f.retrier.EXPECT().Retry(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, operation func() error) error {
			return operation()
		},
	).AnyTimes()

	f.uc = usecase.NewInstructionUseCase(f.auditRepo, f.retrier, f.idGen, f.clock, f.recorder, zerolog.Nop())
	return f
}

func strPtr(s string) *string { return &s }

func TestInstructionUseCase_ProcessInstruction_Executes(t *testing.T) {
	f := newFixture(t)

	var audited *domain.AuditRecord
	f.auditRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, rec *domain.AuditRecord) error {
			audited = rec
			return nil
		},
	)
	f.recorder.EXPECT().RecordOutcome("successful", domain.CodeExecuted, gomock.Any())
	f.recorder.EXPECT().RecordAmount("USD", int64(500))

	result := f.uc.ProcessInstruction(context.Background(), usecase.ProcessInstructionInput{
		Instruction: strPtr("DEBIT 500 USD FROM ACCOUNT N90394 FOR CREDIT TO ACCOUNT N9122"),
		Accounts: []domain.Account{
			{ID: "N90394", Balance: 1000, Currency: "USD"},
			{ID: "N9122", Balance: 500, Currency: "USD"},
		},
		RequestID: "req-1",
		ClientID:  "client-1",
	})

	require.Equal(t, domain.CodeExecuted, result.StatusCode)
	assert.Equal(t, int64(500), result.Accounts[0].Balance)
	assert.Equal(t, int64(1000), result.Accounts[1].Balance)

	require.NotNil(t, audited)
	assert.Equal(t, "audit-1", audited.ID)
	assert.Equal(t, "req-1", audited.RequestID)
	assert.Equal(t, "client-1", audited.ClientID)
	assert.Equal(t, domain.StatusSuccessful, audited.Status)
	assert.Equal(t, fixedNow, audited.CreatedAt)
	require.NotNil(t, audited.Type)
	assert.Equal(t, "DEBIT", *audited.Type)
}

func TestInstructionUseCase_ProcessInstruction_UsesClockForScheduling(t *testing.T) {
	f := newFixture(t)

	f.auditRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	f.recorder.EXPECT().RecordOutcome("pending", domain.CodeScheduled, gomock.Any())

	result := f.uc.ProcessInstruction(context.Background(), usecase.ProcessInstructionInput{
		Instruction: strPtr("CREDIT 300 NGN TO ACCOUNT acc-002 FOR DEBIT FROM ACCOUNT acc-001 ON 2026-10-19"),
		Accounts: []domain.Account{
			{ID: "acc-001", Balance: 1000, Currency: "NGN"},
			{ID: "acc-002", Balance: 500, Currency: "NGN"},
		},
	})

	assert.Equal(t, domain.StatusPending, result.Status)
	assert.Equal(t, int64(1000), result.Accounts[0].Balance)
}

func TestInstructionUseCase_ProcessInstruction_AuditFailureDoesNotChangeResult(t *testing.T) {
	f := newFixture(t)

	f.auditRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))
	f.recorder.EXPECT().RecordOutcome("failed", domain.CodeMalformed, gomock.Any())
	f.recorder.EXPECT().RecordAuditFailure()

	result := f.uc.ProcessInstruction(context.Background(), usecase.ProcessInstructionInput{})

	assert.Equal(t, domain.StatusFailed, result.Status)
	assert.Equal(t, domain.CodeMalformed, result.StatusCode)
}

func TestInstructionUseCase_ProcessInstruction_NilRecorder(t *testing.T) {
	ctrl := gomock.NewController(t)
	auditRepo := mocks.NewMockAuditRepository(ctrl)
	retrier := mocks.NewMockRetrier(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)
	clock := mocks.NewMockClock(ctrl)

	clock.EXPECT().Now().Return(fixedNow).AnyTimes()
	idGen.EXPECT().Generate().Return("audit-2")
	retrier.EXPECT().Retry(gomock.Any(), gomock.Any()).Return(errors.New("gave up"))

	uc := usecase.NewInstructionUseCase(auditRepo, retrier, idGen, clock, nil, zerolog.Nop())

	result := uc.ProcessInstruction(context.Background(), usecase.ProcessInstructionInput{
		Instruction: strPtr("DEBIT 100.50 USD FROM ACCOUNT a FOR CREDIT TO ACCOUNT b"),
	})

	assert.Equal(t, domain.CodeInvalidAmount, result.StatusCode)
}

func TestInstructionUseCase_ListAudit(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{name: "default limit", limit: 0, wantLimit: usecase.DefaultAuditPageSize},
		{name: "explicit limit", limit: 10, wantLimit: 10},
		{name: "capped limit", limit: 10000, wantLimit: usecase.MaxAuditPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.auditRepo.EXPECT().List(gomock.Any(), domain.AuditFilter{
				StatusCode: "AC01",
				Limit:      tt.wantLimit,
			}).Return([]*domain.AuditRecord{{ID: "a1"}}, nil)

			records, err := f.uc.ListAudit(context.Background(), usecase.ListAuditInput{
				StatusCode: "AC01",
				Limit:      tt.limit,
			})

			require.NoError(t, err)
			assert.Len(t, records, 1)
		})
	}
}
