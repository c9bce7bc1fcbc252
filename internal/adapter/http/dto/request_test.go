package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/payinstr/internal/domain"
)

func decodeRequest(t *testing.T, body string) ProcessInstructionRequest {
	t.Helper()

	var req ProcessInstructionRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return req
}

func TestProcessInstructionRequest_InstructionText(t *testing.T) {
	tests := []struct {
		name string
		body string
		want *string
	}{
		{"string", `{"instruction":"DEBIT 1 USD"}`, strPtr("DEBIT 1 USD")},
		{"empty string", `{"instruction":""}`, strPtr("")},
		{"absent", `{}`, nil},
		{"null", `{"instruction":null}`, nil},
		{"number", `{"instruction":42}`, nil},
		{"object", `{"instruction":{"type":"DEBIT"}}`, nil},
		{"array", `{"instruction":["DEBIT"]}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := decodeRequest(t, tt.body)
			assert.Equal(t, tt.want, req.InstructionText())
		})
	}
}

func TestProcessInstructionRequest_DomainAccounts(t *testing.T) {
	req := decodeRequest(t, `{
		"accounts": [
			{"id": "b", "balance": 10, "currency": "usd"},
			null,
			{"id": "a", "balance": 0, "currency": "USD"}
		]
	}`)

	assert.Equal(t, []domain.Account{
		{ID: "b", Balance: 10, Currency: "usd"},
		{ID: "a", Balance: 0, Currency: "USD"},
	}, req.DomainAccounts())
}

func TestProcessInstructionRequest_DomainAccountsEmpty(t *testing.T) {
	req := decodeRequest(t, `{"instruction":"x"}`)

	accounts := req.DomainAccounts()
	assert.NotNil(t, accounts)
	assert.Empty(t, accounts)
}

func TestProcessInstructionRequest_ToUseCaseInput(t *testing.T) {
	req := decodeRequest(t, `{"instruction":"CREDIT 5 NGN","accounts":[{"id":"x","balance":1,"currency":"NGN"}]}`)

	input := req.ToUseCaseInput("req-1", "client-9")
	require.NotNil(t, input.Instruction)
	assert.Equal(t, "CREDIT 5 NGN", *input.Instruction)
	assert.Len(t, input.Accounts, 1)
	assert.Equal(t, "req-1", input.RequestID)
	assert.Equal(t, "client-9", input.ClientID)
}

func strPtr(s string) *string { return &s }
