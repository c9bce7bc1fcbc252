package domain

import "strings"

// findAccount returns the first account with an exactly matching id.
func findAccount(accounts []Account, id string) (Account, bool) {
	for _, a := range accounts {
		if a.ID == id {
			return a, true
		}
	}
	return Account{}, false
}

// Validate runs the semantic checks on a parsed instruction in fixed order:
// existence, currency match, currency support, self-transfer, sufficient funds.
// It returns nil when the instruction may proceed to resolution, otherwise a failed
// Result whose accounts report unchanged balances.
func Validate(in *Instruction, accounts []Account) *Result {
	fail := func(code, reason string, views []AccountView) *Result {
		r := &Result{
			Status:       StatusFailed,
			StatusCode:   code,
			StatusReason: reason,
			Accounts:     views,
		}
		r.echoInstruction(in)
		return r
	}

	pair := []string{in.DebitAccountID, in.CreditAccountID}

	debit, debitFound := findAccount(accounts, in.DebitAccountID)
	credit, creditFound := findAccount(accounts, in.CreditAccountID)
	if !debitFound || !creditFound {
		return fail(CodeAccountNotFound, ReasonAccountNotFound, viewsFor(accounts, pair, unchangedBalance))
	}

	debitCurrency := strings.ToUpper(debit.Currency)
	creditCurrency := strings.ToUpper(credit.Currency)
	if debitCurrency != creditCurrency {
		return fail(CodeCurrencyMismatch, ReasonCurrencyMismatch, viewsFor(accounts, pair, unchangedBalance))
	}

	if !IsSupportedCurrency(debitCurrency) {
		return fail(CodeUnsupportedCurrency, ReasonUnsupported, viewsFor(accounts, pair, unchangedBalance))
	}

	if in.DebitAccountID == in.CreditAccountID {
		return fail(CodeSameAccount, ReasonSameAccount, []AccountView{unchangedView(debit)})
	}

	if debit.Balance < in.Amount {
		return fail(CodeInsufficientFunds, ReasonInsufficientFunds, viewsFor(accounts, pair, unchangedBalance))
	}

	return nil
}
