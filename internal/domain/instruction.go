package domain

import (
	"net/http"
	"strings"
)

// Direction is the side named first in an instruction.
type Direction string

const (
	DirectionDebit  Direction = "DEBIT"
	DirectionCredit Direction = "CREDIT"
)

// Status is the terminal outcome of processing an instruction.
type Status string

const (
	StatusFailed     Status = "failed"
	StatusPending    Status = "pending"
	StatusSuccessful Status = "successful"
)

// Status codes.
const (
	CodeMissingKeyword      = "SY01"
	CodeMalformed           = "SY03"
	CodeInvalidAmount       = "AM01"
	CodeCurrencyMismatch    = "CU01"
	CodeUnsupportedCurrency = "CU02"
	CodeInsufficientFunds   = "AC01"
	CodeSameAccount         = "AC02"
	CodeAccountNotFound     = "AC03"
	CodeInvalidAccountID    = "AC04"
	CodeInvalidDate         = "DT01"
	CodeExecuted            = "AP00"
	CodeScheduled           = "AP02"
)

// Status reasons.
const (
	ReasonMalformed         = "Malformed instruction"
	ReasonUnparseable       = "Malformed instruction: unable to parse keywords"
	ReasonInvalidAmount     = "Amount must be a positive integer"
	ReasonUnsupported       = "Unsupported currency. Only NGN, USD, GBP, and GHS are supported"
	ReasonCurrencyMismatch  = "Account currency mismatch"
	ReasonAccountNotFound   = "Account not found"
	ReasonSameAccount       = "Debit and credit accounts cannot be the same"
	ReasonInsufficientFunds = "Insufficient funds in debit account"
	ReasonInvalidDate       = "Invalid date format"
	ReasonExecuted          = "Transaction executed successfully"
	ReasonScheduled         = "Transaction scheduled for future execution"
)

// MaxAccountViews caps the accounts echoed in a Result.
const MaxAccountViews = 2

var supportedCurrencies = map[string]bool{
	"NGN": true,
	"USD": true,
	"GBP": true,
	"GHS": true,
}

// IsSupportedCurrency reports whether code, compared case-insensitively, can be transacted.
func IsSupportedCurrency(code string) bool {
	return supportedCurrencies[strings.ToUpper(code)]
}

// Instruction is a successfully parsed payment instruction.
type Instruction struct {
	Direction       Direction
	Amount          int64
	Currency        string
	DebitAccountID  string
	CreditAccountID string
	// ExecuteOn is the canonical YYYY-MM-DD date, empty when no ON clause was given.
	ExecuteOn string
}

// Account is a caller-supplied account snapshot.
type Account struct {
	ID       string
	Balance  int64
	Currency string
}

// AccountView is an account as reported back in a Result.
type AccountView struct {
	ID            string `json:"id"`
	Balance       int64  `json:"balance"`
	BalanceBefore int64  `json:"balance_before"`
	Currency      string `json:"currency"`
}

// Result is the outcome of processing one instruction.
type Result struct {
	Type          *Direction    `json:"type"`
	Amount        *int64        `json:"amount"`
	Currency      *string       `json:"currency"`
	DebitAccount  *string       `json:"debit_account"`
	CreditAccount *string       `json:"credit_account"`
	ExecuteBy     *string       `json:"execute_by"`
	Status        Status        `json:"status"`
	StatusReason  string        `json:"status_reason"`
	StatusCode    string        `json:"status_code"`
	Accounts      []AccountView `json:"accounts"`
}

// MalformedResult returns the generic SY03 rejection with nothing echoed.
func MalformedResult(reason string) *Result {
	return &Result{
		Status:       StatusFailed,
		StatusReason: reason,
		StatusCode:   CodeMalformed,
		Accounts:     []AccountView{},
	}
}

// HTTPStatusHint maps the outcome to 200 for accepted instructions and 400 otherwise.
func (r *Result) HTTPStatusHint() int {
	if r.Status == StatusSuccessful || r.Status == StatusPending {
		return http.StatusOK
	}
	return http.StatusBadRequest
}

// Failed reports whether the instruction was rejected.
func (r *Result) Failed() bool {
	return r.Status == StatusFailed
}

func (r *Result) echoInstruction(in *Instruction) {
	dir := in.Direction
	amount := in.Amount
	currency := in.Currency
	debit := in.DebitAccountID
	credit := in.CreditAccountID

	r.Type = &dir
	r.Amount = &amount
	r.Currency = &currency
	r.DebitAccount = &debit
	r.CreditAccount = &credit
	if in.ExecuteOn != "" {
		executeOn := in.ExecuteOn
		r.ExecuteBy = &executeOn
	}
}

func unchangedView(a Account) AccountView {
	return AccountView{
		ID:            a.ID,
		Balance:       a.Balance,
		BalanceBefore: a.Balance,
		Currency:      strings.ToUpper(a.Currency),
	}
}

// viewsFor walks accounts in request order and reports those whose id is in ids,
// up to MaxAccountViews. balanceOf computes the reported post balance.
func viewsFor(accounts []Account, ids []string, balanceOf func(Account) int64) []AccountView {
	views := []AccountView{}
	for _, a := range accounts {
		if len(views) >= MaxAccountViews {
			break
		}
		for _, id := range ids {
			if a.ID == id {
				view := unchangedView(a)
				view.Balance = balanceOf(a)
				views = append(views, view)
				break
			}
		}
	}
	return views
}

func unchangedBalance(a Account) int64 {
	return a.Balance
}
