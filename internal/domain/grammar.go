package domain

import (
	"fmt"
	"strings"
)

const keywordOn = "ON"

type side int

const (
	noSide side = iota
	debitSide
	creditSide
)

// step is one fixed position of a template after the currency token:
// either a literal keyword or an account identifier.
type step struct {
	keyword string
	context string
	account side
}

var debitTemplate = []step{
	{keyword: "FROM"},
	{keyword: "ACCOUNT", context: "after FROM"},
	{account: debitSide},
	{keyword: "FOR"},
	{keyword: "CREDIT", context: "after FOR"},
	{keyword: "TO"},
	{keyword: "ACCOUNT", context: "before credit account"},
	{account: creditSide},
}

var creditTemplate = []step{
	{keyword: "TO"},
	{keyword: "ACCOUNT", context: "after TO"},
	{account: creditSide},
	{keyword: "FOR"},
	{keyword: "DEBIT", context: "after FOR"},
	{keyword: "FROM"},
	{keyword: "ACCOUNT", context: "before debit account"},
	{account: debitSide},
}

// cursor moves forward over tokens and never backtracks.
type cursor struct {
	tokens []string
	pos    int
}

// next consumes the current token; past the end it yields "".
func (c *cursor) next() string {
	if c.pos >= len(c.tokens) {
		c.pos++
		return ""
	}
	tok := c.tokens[c.pos]
	c.pos++
	return tok
}

func (c *cursor) peek() string {
	if c.pos >= len(c.tokens) {
		return ""
	}
	return c.tokens[c.pos]
}

// position is the 1-based position of the token about to be consumed.
func (c *cursor) position() int {
	return c.pos + 1
}

// ParseInstruction tokenizes and matches a raw instruction string.
func ParseInstruction(instruction string) (*Instruction, error) {
	return Parse(Tokenize(instruction))
}

// Parse matches tokens against the DEBIT or CREDIT template. A failure is always a
// *RejectionError; the first mismatch wins.
func Parse(tokens []string) (*Instruction, error) {
	if len(tokens) < MinTokens {
		return nil, reject(CodeMalformed, ReasonMalformed)
	}

	c := &cursor{tokens: tokens}

	var template []step
	direction := Direction(strings.ToUpper(c.next()))
	switch direction {
	case DirectionDebit:
		template = debitTemplate
	case DirectionCredit:
		template = creditTemplate
	default:
		return nil, reject(CodeMalformed, ReasonMalformed)
	}

	rej := func(code, reason string) *RejectionError {
		e := reject(code, reason)
		e.Type = &direction
		return e
	}

	amount, ok := ParseAmount(c.next())
	if !ok {
		return nil, rej(CodeInvalidAmount, ReasonInvalidAmount)
	}

	currency := strings.ToUpper(c.next())
	if !IsSupportedCurrency(currency) {
		e := rej(CodeUnsupportedCurrency, ReasonUnsupported)
		e.Amount = &amount
		e.Currency = &currency
		return nil, e
	}

	in := &Instruction{
		Direction: direction,
		Amount:    amount,
		Currency:  currency,
	}

	partial := func(code, reason string) *RejectionError {
		e := rej(code, reason)
		e.Amount = &amount
		e.Currency = &currency
		return e
	}

	for _, s := range template {
		pos := c.position()
		tok := c.next()

		if s.account == noSide {
			if strings.ToUpper(tok) != s.keyword {
				return nil, partial(CodeMissingKeyword, missingKeywordReason(s, pos))
			}
			continue
		}

		if !IsValidAccountID(tok) {
			name := "debit"
			if s.account == creditSide {
				name = "credit"
			}
			return nil, partial(CodeInvalidAccountID, "Invalid account ID format for "+name+" account")
		}

		if s.account == debitSide {
			in.DebitAccountID = tok
		} else {
			in.CreditAccountID = tok
		}
	}

	if strings.ToUpper(c.peek()) == keywordOn {
		c.next()
		date, ok := ParseExecutionDate(c.next())
		if !ok {
			return nil, partial(CodeInvalidDate, ReasonInvalidDate)
		}
		in.ExecuteOn = date
	}

	return in, nil
}

func missingKeywordReason(s step, pos int) string {
	if s.context != "" {
		return fmt.Sprintf("Missing required keyword %s %s at position %d", s.keyword, s.context, pos)
	}
	return fmt.Sprintf("Missing required keyword %s at position %d", s.keyword, pos)
}
