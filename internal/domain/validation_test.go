package domain

import (
	"testing"
)

func TestIsDigitString(t *testing.T) {
	t.Parallel()

	valid := []string{"0", "7", "500", "000123", "99999999999999999999"}
	for _, s := range valid {
		if !IsDigitString(s) {
			t.Errorf("expected %q to be accepted", s)
		}
	}

	invalid := []string{"", "-100", "+100", "100.50", "1e3", "12a", " 1", "１２"}
	for _, s := range invalid {
		if IsDigitString(s) {
			t.Errorf("expected %q to be rejected", s)
		}
	}
}

func TestParseAmount(t *testing.T) {
	t.Parallel()

	t.Run("parses digits", func(t *testing.T) {
		amount, ok := ParseAmount("00500")
		if !ok || amount != 500 {
			t.Fatalf("expected 500, got %d ok=%v", amount, ok)
		}
	})

	t.Run("zero is allowed", func(t *testing.T) {
		amount, ok := ParseAmount("0")
		if !ok || amount != 0 {
			t.Fatalf("expected 0, got %d ok=%v", amount, ok)
		}
	})

	t.Run("overflow rejected", func(t *testing.T) {
		if _, ok := ParseAmount("99999999999999999999"); ok {
			t.Fatal("expected overflowing amount to be rejected")
		}
	})

	t.Run("decimal rejected", func(t *testing.T) {
		if _, ok := ParseAmount("100.50"); ok {
			t.Fatal("expected decimal amount to be rejected")
		}
	})
}

func TestIsValidAccountID(t *testing.T) {
	t.Parallel()

	valid := []string{"N90394", "acc-001", "abc@bank.com", "a", "A.B-C@1"}
	for _, id := range valid {
		if !IsValidAccountID(id) {
			t.Errorf("expected %q to be valid", id)
		}
	}

	invalid := []string{"", "acc_001", "acc#1", "acc/1", "ácc", "acc!", "acc\t1"}
	for _, id := range invalid {
		if IsValidAccountID(id) {
			t.Errorf("expected %q to be invalid", id)
		}
	}
}

func TestParseExecutionDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		ok    bool
	}{
		{"2999-12-31", true},
		{"2024-02-31", true},
		{"2023-02-29", true},
		{"2024-01-01", true},
		{"2024-13-01", false},
		{"2024-00-10", false},
		{"2024-01-00", false},
		{"2024-01-32", false},
		{"2024/01/01", false},
		{"2024-1-01", false},
		{"24-01-2024", false},
		{"2024-01-1a", false},
		{"abcd-01-01", false},
		{"", false},
	}

	for _, tt := range tests {
		date, ok := ParseExecutionDate(tt.input)
		if ok != tt.ok {
			t.Errorf("ParseExecutionDate(%q) ok = %v, want %v", tt.input, ok, tt.ok)
		}
		if ok && date != tt.input {
			t.Errorf("ParseExecutionDate(%q) = %q, want input echoed", tt.input, date)
		}
	}
}

// Fields are strictly numeric: a month like "1a" is not read as 1, so the date is
// rejected instead of being normalised to 2025-01-05.
func TestParseExecutionDate_RejectsPartlyNumericFields(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"2025-1a-05", "2025-01-5x", "202a-01-05"} {
		if date, ok := ParseExecutionDate(input); ok {
			t.Errorf("ParseExecutionDate(%q) = %q, want rejection", input, date)
		}
	}

	r := Process(strPtr("DEBIT 10 USD FROM ACCOUNT N90394 FOR CREDIT TO ACCOUNT N9122 ON 2025-1a-05"), usdPair(), testToday)
	if r.StatusCode != CodeInvalidDate {
		t.Errorf("expected %s for 2025-1a-05, got %s", CodeInvalidDate, r.StatusCode)
	}
}

func TestIsSupportedCurrency(t *testing.T) {
	t.Parallel()

	for _, c := range []string{"NGN", "usd", "Gbp", "ghs"} {
		if !IsSupportedCurrency(c) {
			t.Errorf("expected %s to be supported", c)
		}
	}
	for _, c := range []string{"EUR", "", "US", "USDT"} {
		if IsSupportedCurrency(c) {
			t.Errorf("expected %s to be unsupported", c)
		}
	}
}
