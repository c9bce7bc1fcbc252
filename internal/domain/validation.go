package domain

import (
	"strconv"
)

// Validation constants
const (
	dateLength    = 10
	dateSeparator = '-'
	maxMonth      = 12
	maxDay        = 31
)

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isAccountSymbol(ch byte) bool {
	return ch == '-' || ch == '.' || ch == '@'
}

// IsDigitString reports whether s is a non-empty run of ASCII decimal digits.
// Signs and decimal points are rejected.
func IsDigitString(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

// IsValidAccountID reports whether id is non-empty and built only from
// ASCII letters, digits, '-', '.' and '@'.
func IsValidAccountID(id string) bool {
	if id == "" {
		return false
	}
	for i := 0; i < len(id); i++ {
		ch := id[i]
		if !isLetter(ch) && !isDigit(ch) && !isAccountSymbol(ch) {
			return false
		}
	}
	return true
}

// ParseAmount parses a digit-only amount token.
func ParseAmount(s string) (int64, bool) {
	if !IsDigitString(s) {
		return 0, false
	}
	amount, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}

// ParseExecutionDate validates a YYYY-MM-DD token. Month must be 1-12 and day 1-31;
// day 31 is accepted for every month.
func ParseExecutionDate(s string) (string, bool) {
	if len(s) != dateLength || s[4] != dateSeparator || s[7] != dateSeparator {
		return "", false
	}

	yearField, monthField, dayField := s[0:4], s[5:7], s[8:10]
	if !IsDigitString(yearField) || !IsDigitString(monthField) || !IsDigitString(dayField) {
		return "", false
	}

	month, _ := strconv.Atoi(monthField)
	day, _ := strconv.Atoi(dayField)
	if month < 1 || month > maxMonth {
		return "", false
	}
	if day < 1 || day > maxDay {
		return "", false
	}

	return s, true
}
