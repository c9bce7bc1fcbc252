package dto

import (
	"encoding/json"

	"github.com/iho/payinstr/internal/domain"
	"github.com/iho/payinstr/internal/usecase"
)

// AccountRequest is one account snapshot supplied with an instruction.
type AccountRequest struct {
	ID       string `json:"id"`
	Balance  int64  `json:"balance"`
	Currency string `json:"currency"`
}

// ProcessInstructionRequest represents a request to process a payment instruction.
type ProcessInstructionRequest struct {
	Accounts []*AccountRequest `json:"accounts"`
	// Instruction is kept raw so that a non-string value can be told apart from
	// a decoding failure.
	Instruction json.RawMessage `json:"instruction"`
}

// InstructionText returns the instruction string, or nil when the field is
// absent, null or not a JSON string.
func (r *ProcessInstructionRequest) InstructionText() *string {
	if len(r.Instruction) == 0 || string(r.Instruction) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(r.Instruction, &s); err != nil {
		return nil
	}
	return &s
}

// DomainAccounts converts the supplied accounts, preserving order and skipping
// null entries.
func (r *ProcessInstructionRequest) DomainAccounts() []domain.Account {
	accounts := make([]domain.Account, 0, len(r.Accounts))
	for _, a := range r.Accounts {
		if a == nil {
			continue
		}
		accounts = append(accounts, domain.Account{
			ID:       a.ID,
			Balance:  a.Balance,
			Currency: a.Currency,
		})
	}
	return accounts
}

// ToUseCaseInput converts to use case input.
func (r *ProcessInstructionRequest) ToUseCaseInput(requestID, clientID string) usecase.ProcessInstructionInput {
	return usecase.ProcessInstructionInput{
		Instruction: r.InstructionText(),
		Accounts:    r.DomainAccounts(),
		RequestID:   requestID,
		ClientID:    clientID,
	}
}
