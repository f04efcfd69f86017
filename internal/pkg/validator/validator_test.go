package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	if _, ok := IsValidDate("2025-03-01"); !ok {
		t.Error("IsValidDate(2025-03-01) = false, want true")
	}
	invalid := []string{"2025-13-01", "01-03-2025", "2025-03-32", "", "yesterday"}
	for _, d := range invalid {
		if _, ok := IsValidDate(d); ok {
			t.Errorf("IsValidDate(%q) = true, want false", d)
		}
	}
}

func TestIsValidCurrency(t *testing.T) {
	valid := []string{"USD", "IDR", "NGN", "EUR"}
	invalid := []string{"usd", "US", "USDT", "", "U$D"}
	for _, c := range valid {
		if !IsValidCurrency(c) {
			t.Errorf("IsValidCurrency(%q) = false, want true", c)
		}
	}
	for _, c := range invalid {
		if IsValidCurrency(c) {
			t.Errorf("IsValidCurrency(%q) = true, want false", c)
		}
	}
}

func TestValidationErrorsToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "amount", Message: "must be positive"},
		{Field: "currency", Message: "is required"},
	}
	m := errs.ToMap()
	if len(m) != 2 || m["amount"] != "must be positive" || m["currency"] != "is required" {
		t.Errorf("ToMap() = %v", m)
	}
	if errs.Error() == "" {
		t.Error("Error() should render all fields")
	}
}
