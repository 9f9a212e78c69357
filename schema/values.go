package schema

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ============================================================================
// VALUE PARSING — nulls, numbers, currency text, dates
// ============================================================================

// NullValues are cell contents treated as missing.
var NullValues = []string{"", "NA", "NaN", "N/A", "n/a", "null", "NULL", "<nil>"}

// IsNull reports whether a raw cell is missing.
func IsNull(s string) bool {
	s = strings.TrimSpace(s)
	for _, n := range NullValues {
		if s == n {
			return true
		}
	}
	return false
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil
}

// currencyChars matches the characters stripped from currency text.
var currencyChars = regexp.MustCompile(`[$,]`)

// StripCurrency removes "$" and "," from a cell: "$1,234.50" → "1234.50".
// Space left between the sign and the digits ("$ 1,000") is trimmed too.
func StripCurrency(s string) string {
	return strings.TrimSpace(currencyChars.ReplaceAllString(s, ""))
}

// IsCurrencyText reports whether s is a "$"-prefixed amount such as "$1,234.50".
func IsCurrencyText(s string) bool {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "$") {
		return false
	}
	_, err := strconv.ParseFloat(StripCurrency(s), 64)
	return err == nil
}

// DateLayouts are the release date layouts accepted on load, most specific first.
var DateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"02-Jan-06",
	"2-Jan-06",
}

// ISODate is the layout dates are normalized to after parsing.
const ISODate = "2006-01-02"

// ParseDate parses s with the first matching layout in DateLayouts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// IsDate reports whether s parses with one of DateLayouts.
func IsDate(s string) bool {
	_, err := ParseDate(s)
	return err == nil
}

// detectDateLayout returns the layout matching every sample, or "" if none does.
func detectDateLayout(samples []string) string {
	for _, layout := range DateLayouts {
		ok := len(samples) > 0
		for _, s := range samples {
			if _, err := time.Parse(layout, strings.TrimSpace(s)); err != nil {
				ok = false
				break
			}
		}
		if ok {
			return layout
		}
	}
	return ""
}
