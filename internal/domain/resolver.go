package domain

import (
	"errors"
	"math"
	"time"
)

// DateLayout is the canonical execution date format.
const DateLayout = "2006-01-02"

// Today returns the UTC calendar date of now in DateLayout.
func Today(now time.Time) string {
	return now.UTC().Format(DateLayout)
}

// Resolve decides the outcome of a validated instruction. A date later than today
// schedules it; otherwise it executes and the post balances are computed.
// Dates compare lexicographically, which is safe for the fixed-width layout.
func Resolve(in *Instruction, accounts []Account, today string) *Result {
	r := &Result{}
	r.echoInstruction(in)

	pair := []string{in.DebitAccountID, in.CreditAccountID}

	if in.ExecuteOn != "" && in.ExecuteOn > today {
		r.Status = StatusPending
		r.StatusCode = CodeScheduled
		r.StatusReason = ReasonScheduled
		r.Accounts = viewsFor(accounts, pair, unchangedBalance)
		return r
	}

	debit, _ := findAccount(accounts, in.DebitAccountID)
	credit, _ := findAccount(accounts, in.CreditAccountID)
	// Validate guarantees 0 <= amount <= debit balance, so only the credit side can overflow.
	if credit.Balance > math.MaxInt64-in.Amount {
		return MalformedResult(ReasonUnparseable)
	}
	debitAfter := debit.Balance - in.Amount
	creditAfter := credit.Balance + in.Amount

	r.Status = StatusSuccessful
	r.StatusCode = CodeExecuted
	r.StatusReason = ReasonExecuted
	r.Accounts = viewsFor(accounts, pair, func(a Account) int64 {
		if a.ID == in.DebitAccountID {
			return debitAfter
		}
		return creditAfter
	})
	return r
}

// Process runs the whole pipeline for one instruction. A nil instruction stands for
// an absent or non-string field. Every rejection is returned as a failed Result.
func Process(instruction *string, accounts []Account, today string) *Result {
	if instruction == nil || *instruction == "" {
		return MalformedResult(ReasonMalformed)
	}

	in, err := ParseInstruction(*instruction)
	if err != nil {
		return rejectionResult(err, accounts)
	}

	if r := Validate(in, accounts); r != nil {
		return r
	}

	return Resolve(in, accounts, today)
}

func rejectionResult(err error, accounts []Account) *Result {
	var rej *RejectionError
	if !errors.As(err, &rej) {
		return MalformedResult(ReasonMalformed)
	}

	r := &Result{Accounts: []AccountView{}}
	rej.apply(r)

	// The instruction currency is checked before accounts are resolved, so the
	// views come straight from the request.
	if rej.Code == CodeUnsupportedCurrency {
		for _, a := range accounts {
			if len(r.Accounts) >= MaxAccountViews {
				break
			}
			if a.ID != "" {
				r.Accounts = append(r.Accounts, unchangedView(a))
			}
		}
	}
	return r
}
