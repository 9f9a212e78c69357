package schema

import (
	"strings"
	"testing"

	"github.com/spektr-org/boxoffice/internal/testutil"
)

// ============================================================================
// DISCOVERY TESTS
// ============================================================================

func TestDiscoverBlockbustersCSV(t *testing.T) {
	config, err := DiscoverFromCSV(testutil.Blockbusters())
	if err != nil {
		t.Fatalf("DiscoverFromCSV failed: %v", err)
	}

	dimKeys := config.DimensionKeys()
	for _, key := range []string{"Genre_1", "Genre_2", "Genre_3", "rating", "studio", "year", "release_date", "_golden"} {
		assertContains(t, dimKeys, key, key+" should be a dimension")
	}

	measKeys := config.MeasureKeys()
	for _, key := range []string{"adjusted", "worldwide_gross", "imdb_rating", "length", "rank_in_year"} {
		assertContains(t, measKeys, key, key+" should be a measure")
	}

	skipped := make(map[string]SkippedColumn)
	for _, s := range config.SkippedColumns {
		skipped[s.Column] = s
	}
	for _, key := range []string{"_unit_id", "title", "poster_url", "worldwide_gross_gold"} {
		if _, ok := skipped[key]; !ok {
			t.Errorf("%s should be skipped, got skipped=%v", key, config.SkippedColumns)
		}
	}
	if !strings.Contains(skipped["poster_url"].Reason, "URL") {
		t.Errorf("poster_url reason = %q, want a URL reason", skipped["poster_url"].Reason)
	}
	if !skipped["title"].Recoverable {
		t.Error("title should be recoverable")
	}
	if skipped["worldwide_gross_gold"].Recoverable {
		t.Error("an all-empty column should not be recoverable")
	}

	if config.DiscoveredFrom != "CSV" || config.DiscoveredAt == "" {
		t.Errorf("discovery metadata not set: from=%q at=%q", config.DiscoveredFrom, config.DiscoveredAt)
	}
}

func TestDiscoverCurrencyMeasures(t *testing.T) {
	config, err := DiscoverFromCSV(testutil.Blockbusters())
	if err != nil {
		t.Fatalf("DiscoverFromCSV failed: %v", err)
	}

	currency := config.CurrencyColumns()
	if len(currency) != 2 {
		t.Fatalf("CurrencyColumns() = %v, want adjusted and worldwide_gross", currency)
	}
	assertContains(t, currency, "adjusted", "adjusted is currency text")
	assertContains(t, currency, "worldwide_gross", "worldwide_gross is currency text")

	for _, m := range config.Measures {
		switch m.Key {
		case "worldwide_gross":
			if m.Unit != "$" {
				t.Errorf("worldwide_gross unit = %q, want $", m.Unit)
			}
		case "imdb_rating":
			if m.IsCurrency || m.IsInteger {
				t.Errorf("imdb_rating should be a plain decimal measure, got %+v", m)
			}
		case "length":
			if !m.IsInteger {
				t.Error("length should be an integer measure")
			}
		}
	}
}

func TestDiscoverTemporalColumns(t *testing.T) {
	config, err := DiscoverFromCSV(testutil.Blockbusters())
	if err != nil {
		t.Fatalf("DiscoverFromCSV failed: %v", err)
	}

	year, ok := config.Dimension("year")
	if !ok {
		t.Fatal("year dimension missing")
	}
	if !year.IsTemporal || year.TemporalFormat != "yyyy" || year.IsDate {
		t.Errorf("year = %+v, want temporal yyyy and not a date", year)
	}

	release, ok := config.Dimension("release_date")
	if !ok {
		t.Fatal("release_date dimension missing")
	}
	if !release.IsDate || release.TemporalFormat != "Jan 2, 2006" {
		t.Errorf("release_date = %+v, want a date with layout \"Jan 2, 2006\"", release)
	}

	dates := config.DateColumns()
	if len(dates) != 1 || dates[0] != "release_date" {
		t.Errorf("DateColumns() = %v, want [release_date]", dates)
	}
}

func TestDiscoverWithRecovery(t *testing.T) {
	config, err := DiscoverFromCSV(testutil.Blockbusters(), DiscoverOptions{
		RecoverColumns: []string{"TITLE"},
		Name:           "Blockbusters with titles",
	})
	if err != nil {
		t.Fatalf("DiscoverFromCSV with recovery failed: %v", err)
	}
	if config.Name != "Blockbusters with titles" {
		t.Errorf("Name = %q", config.Name)
	}

	assertContains(t, config.DimensionKeys(), "title", "title should be recovered as dimension")
	for _, s := range config.SkippedColumns {
		if s.Column == "title" {
			t.Error("title should not be in skipped columns after recovery")
		}
	}
}

func TestDiscoverSampleSize(t *testing.T) {
	config, err := DiscoverFromCSV(testutil.Blockbusters(), DiscoverOptions{SampleSize: 3})
	if err != nil {
		t.Fatalf("DiscoverFromCSV failed: %v", err)
	}
	// Three unique titles in three rows is too few to call an identifier.
	for _, s := range config.SkippedColumns {
		if s.Column == "title" {
			t.Error("title is only an identifier above ten rows")
		}
	}
}

func TestDiscoverErrors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"empty input", ""},
		{"header only", "title,year\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DiscoverFromCSV(strings.NewReader(tt.csv)); err == nil {
				t.Errorf("expected an error for %s", tt.name)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"worldwide_gross", "Worldwide Gross"},
		{"Genre_1", "Genre 1"},
		{"_unit_id", "Unit Id"},
		{"rank-in-year", "Rank In Year"},
		{"Release Date", "Release Date"},
	}

	for _, tt := range tests {
		got := ToDisplayName(tt.input)
		if got != tt.expected {
			t.Errorf("ToDisplayName(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestDetectType(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   columnType
	}{
		{"currency", []string{"$1,000.00", "$25.50", "$3"}, typeCurrency},
		{"numeric", []string{"8.1", "7", "6.5"}, typeNumeric},
		{"dates", []string{"Aug 1, 2014", "May 25, 1977"}, typeDate},
		{"bools", []string{"true", "false", "FALSE"}, typeBool},
		{"strings", []string{"PG", "PG-13", "R"}, typeString},
		{"mostly numeric", []string{"1", "2", "3", "4", "n/a?"}, typeNumeric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectType(tt.values); got != tt.want {
				t.Errorf("detectType(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}

func TestLooksLikeYears(t *testing.T) {
	if !looksLikeYears([]string{"1975", "2014"}) {
		t.Error("1975 and 2014 are years")
	}
	if looksLikeYears([]string{"3", "3"}) {
		t.Error("single digits are not years")
	}
	if looksLikeYears([]string{"1975", "9999"}) {
		t.Error("9999 is out of range")
	}
}

// ============================================================================
// HELPERS
// ============================================================================

func assertContains(t *testing.T, slice []string, item string, msg string) {
	t.Helper()
	for _, s := range slice {
		if s == item {
			return
		}
	}
	t.Errorf("%s: %q not found in %v", msg, item, slice)
}
