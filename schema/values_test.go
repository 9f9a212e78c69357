package schema

import (
	"testing"
	"time"
)

func TestIsNull(t *testing.T) {
	for _, s := range []string{"", "  ", "NA", "NaN", "n/a", "NULL", "<nil>"} {
		if !IsNull(s) {
			t.Errorf("IsNull(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"0", "PG", "none"} {
		if IsNull(s) {
			t.Errorf("IsNull(%q) = true, want false", s)
		}
	}
}

func TestStripCurrency(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"$1,234.50", "1234.50"},
		{" $800,000,000.00 ", "800000000.00"},
		{"$ 1,000", "1000"},
		{"1,000 $", "1000"},
		{"42", "42"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := StripCurrency(tt.input); got != tt.expected {
			t.Errorf("StripCurrency(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestIsCurrencyText(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"$1,234.50", true},
		{"$3", true},
		{"$ 1,000", true},
		{"1234.50", false},
		{"$abc", false},
		{"USD", false},
	}
	for _, tt := range tests {
		if got := IsCurrencyText(tt.input); got != tt.expected {
			t.Errorf("IsCurrencyText(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2014, time.August, 1, 0, 0, 0, 0, time.UTC)
	for _, s := range []string{
		"2014-08-01",
		"08/01/2014",
		"8/1/2014",
		"Aug 1, 2014",
		"August 1, 2014",
		"1 Aug 2014",
		"01-Aug-14",
		"1-Aug-14",
		" Aug 1, 2014 ",
	} {
		got, err := ParseDate(s)
		if err != nil {
			t.Errorf("ParseDate(%q) error: %v", s, err)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("ParseDate(%q) = %v, want %v", s, got, want)
		}
	}

	for _, s := range []string{"", "2014", "yesterday", "2/20/15 2:03"} {
		if _, err := ParseDate(s); err == nil {
			t.Errorf("ParseDate(%q) should fail", s)
		}
	}
}

func TestDetectDateLayout(t *testing.T) {
	tests := []struct {
		samples []string
		layout  string
	}{
		{[]string{"Aug 1, 2014", "Dec 15, 1993"}, "Jan 2, 2006"},
		{[]string{"2014-08-01", "1993-12-15"}, "2006-01-02"},
		{[]string{"Aug 1, 2014", "1993-12-15"}, ""},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := detectDateLayout(tt.samples); got != tt.layout {
			t.Errorf("detectDateLayout(%v) = %q, want %q", tt.samples, got, tt.layout)
		}
	}
}
