package schema

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ============================================================================
// AUTO-DISCOVERY — Heuristic Column Classification
// ============================================================================
// Inspects raw CSV and generates a schema.Config automatically.
//
// Classification pipeline per column:
//   1. Sample values → detect type (currency, numeric, date, bool, string)
//   2. Type + cardinality → classify role (dimension, measure, skip)
//   3. Flag currency text ("$1,234.56") and date columns for cleaning
// ============================================================================

// DiscoverOptions controls discovery behavior.
type DiscoverOptions struct {
	SampleSize     int      // Max rows to inspect (0 = all). Default: 1000
	RecoverColumns []string // Force-include columns that were auto-skipped
	Name           string   // Dataset name override
	Delimiter      rune     // Field delimiter (0 = ',')
}

// DefaultDiscoverOptions returns sensible defaults.
func DefaultDiscoverOptions() DiscoverOptions {
	return DiscoverOptions{
		SampleSize: 1000,
	}
}

// DiscoverFromCSV generates a schema.Config by inspecting CSV data.
func DiscoverFromCSV(r io.Reader, opts ...DiscoverOptions) (*Config, error) {
	opt := DefaultDiscoverOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	if opt.Delimiter != 0 {
		reader.Comma = opt.Delimiter
	}

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	if len(headers) == 0 {
		return nil, errors.New("CSV has no columns")
	}

	var rows [][]string
	limit := opt.SampleSize
	if limit <= 0 {
		limit = 100000 // safety cap
	}

	for i := 0; i < limit; i++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Debug().Err(err).Int("row", i+1).Msg("🔍 discover: skipping malformed row")
			continue
		}
		rows = append(rows, row)
	}

	totalRows := len(rows)
	if totalRows == 0 {
		return nil, errors.New("CSV has no data rows")
	}

	recoverSet := make(map[string]bool)
	for _, col := range opt.RecoverColumns {
		recoverSet[strings.ToLower(col)] = true
	}

	config := &Config{
		Name:    opt.Name,
		Version: "1.0",
	}
	if config.Name == "" {
		config.Name = "Auto-discovered Dataset"
	}

	for i, header := range headers {
		col := analyzeColumn(header, i, rows, totalRows)
		recovered := recoverSet[strings.ToLower(col.key)]

		switch col.role {
		case roleDimension:
			config.Dimensions = append(config.Dimensions, col.toDimension())
		case roleMeasure:
			config.Measures = append(config.Measures, col.toMeasure())
		case roleSkipped:
			if recovered {
				config.Dimensions = append(config.Dimensions, col.toDimension())
				continue
			}
			config.SkippedColumns = append(config.SkippedColumns, SkippedColumn{
				Column:      col.key,
				Reason:      col.skipReason,
				Recoverable: col.recoverable,
			})
		}
	}

	config.DiscoveredFrom = "CSV"
	config.DiscoveredAt = time.Now().Format(time.RFC3339)

	log.Debug().
		Int("dimensions", len(config.Dimensions)).
		Int("measures", len(config.Measures)).
		Int("skipped", len(config.SkippedColumns)).
		Msg("🔍 discover: schema built")

	return config, nil
}

// ============================================================================
// COLUMN ANALYSIS
// ============================================================================

type columnRole int

const (
	roleDimension columnRole = iota
	roleMeasure
	roleSkipped
)

type columnType int

const (
	typeString columnType = iota
	typeNumeric
	typeCurrency
	typeDate
	typeBool
)

type columnAnalysis struct {
	header      string
	key         string
	index       int
	colType     columnType
	role        columnRole
	skipReason  string
	recoverable bool

	uniqueCount int
	totalCount  int
	nullCount   int
	sampleVals  []string

	isTemporal      bool
	temporalFormat  string
	hasDecimals     bool
	cardinalityHint string
}

// analyzeColumn inspects all values in a column and classifies it.
func analyzeColumn(header string, index int, rows [][]string, totalRows int) columnAnalysis {
	col := columnAnalysis{
		header:     header,
		key:        strings.TrimSpace(header),
		index:      index,
		totalCount: totalRows,
	}

	values := make([]string, 0, len(rows))
	uniqueSet := make(map[string]bool)

	for _, row := range rows {
		if index >= len(row) || IsNull(row[index]) {
			col.nullCount++
			continue
		}
		val := strings.TrimSpace(row[index])
		values = append(values, val)
		uniqueSet[val] = true
	}

	col.uniqueCount = len(uniqueSet)

	if len(values) == 0 {
		col.role = roleSkipped
		col.skipReason = "All values are empty/null"
		return col
	}

	col.sampleVals = collectSamples(uniqueSet, 10)
	col.colType = detectType(values)

	if col.colType == typeNumeric || col.colType == typeCurrency {
		for _, v := range values {
			if strings.Contains(v, ".") {
				col.hasDecimals = true
				break
			}
		}
	}

	switch col.colType {
	case typeDate:
		col.isTemporal = true
		col.temporalFormat = detectDateLayout(col.sampleVals)
	case typeNumeric:
		if looksLikeYears(values) {
			col.isTemporal = true
			col.temporalFormat = "yyyy"
		}
	}

	col.classifyRole(totalRows)

	switch {
	case col.uniqueCount <= 10:
		col.cardinalityHint = "low"
	case col.uniqueCount <= 100:
		col.cardinalityHint = "medium"
	default:
		col.cardinalityHint = "high"
	}

	return col
}

// classifyRole determines dimension vs measure vs skip.
func (col *columnAnalysis) classifyRole(totalRows int) {
	switch col.colType {

	case typeCurrency:
		// Currency text is always a measure once cleaned
		col.role = roleMeasure

	case typeNumeric:
		if col.isTemporal {
			col.role = roleDimension
			return
		}
		if col.uniqueCount == totalRows && totalRows > 10 && !col.hasDecimals {
			col.role = roleSkipped
			col.skipReason = "Unique per row — likely an ID column"
			return
		}
		if col.hasDecimals {
			col.role = roleMeasure
			return
		}
		// Few unique values at a low ratio → coded dimension (e.g. rank 1-10)
		uniqueRatio := float64(col.uniqueCount) / float64(totalRows)
		if col.uniqueCount < 20 && uniqueRatio < 0.3 {
			col.role = roleDimension
			return
		}
		col.role = roleMeasure

	case typeDate:
		col.role = roleDimension

	case typeBool:
		col.role = roleDimension

	case typeString:
		if looksLikeURLs(col.sampleVals) {
			col.role = roleSkipped
			col.skipReason = "URL column — not useful for grouping"
			col.recoverable = true
			return
		}
		if col.uniqueCount == totalRows && totalRows > 10 {
			col.role = roleSkipped
			col.skipReason = "Unique per row — likely an identifier"
			col.recoverable = true
			return
		}
		if col.uniqueCount > totalRows/2 && col.uniqueCount > 50 {
			col.role = roleSkipped
			col.skipReason = fmt.Sprintf("High cardinality (%d unique values) — not useful for grouping", col.uniqueCount)
			col.recoverable = true
			return
		}
		col.role = roleDimension
	}
}

// ============================================================================
// TYPE DETECTION
// ============================================================================

// detectType inspects values to determine column type.
// Requires 80%+ of non-null values to match for non-string types.
func detectType(values []string) columnType {
	if len(values) == 0 {
		return typeString
	}

	numCount, curCount, dateCount, boolCount := 0, 0, 0, 0
	for _, v := range values {
		if isNumeric(v) {
			numCount++
		}
		if IsCurrencyText(v) {
			curCount++
		}
		if IsDate(v) {
			dateCount++
		}
		if isBool(v) {
			boolCount++
		}
	}

	threshold := int(float64(len(values)) * 0.8)

	switch {
	case boolCount >= threshold:
		return typeBool
	case curCount >= threshold && curCount > 0:
		return typeCurrency
	case numCount >= threshold:
		return typeNumeric
	case dateCount >= threshold:
		return typeDate
	default:
		return typeString
	}
}

func isBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "false", "yes", "no":
		return true
	}
	return false
}

func looksLikeYears(values []string) bool {
	for _, v := range values {
		t, err := time.Parse("2006", v)
		if err != nil || t.Year() < 1850 || t.Year() > 2200 {
			return false
		}
	}
	return true
}

func looksLikeURLs(samples []string) bool {
	if len(samples) == 0 {
		return false
	}
	for _, s := range samples {
		if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
			return false
		}
	}
	return true
}

// ============================================================================
// CONVERSION HELPERS
// ============================================================================

func (col *columnAnalysis) toDimension() DimensionMeta {
	return DimensionMeta{
		Key:             col.key,
		DisplayName:     ToDisplayName(col.header),
		SampleValues:    col.sampleVals,
		Groupable:       true,
		Filterable:      true,
		IsTemporal:      col.isTemporal,
		TemporalFormat:  col.temporalFormat,
		IsDate:          col.colType == typeDate,
		CardinalityHint: col.cardinalityHint,
	}
}

func (col *columnAnalysis) toMeasure() MeasureMeta {
	m := DefaultMeasure(col.key, ToDisplayName(col.header))
	if col.colType == typeCurrency {
		m.IsCurrency = true
		m.Unit = "$"
	}
	m.IsInteger = !col.hasDecimals
	return m
}

// ============================================================================
// STRING UTILITIES
// ============================================================================

var titleCaser = cases.Title(language.English)

// ToDisplayName cleans a header for human display.
// "worldwide_gross" → "Worldwide Gross", "_unit_id" → "Unit Id".
func ToDisplayName(s string) string {
	s = strings.TrimSpace(s)
	if strings.Contains(s, " ") {
		return s
	}
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")
	return titleCaser.String(strings.Join(strings.Fields(s), " "))
}

// collectSamples picks up to maxSamples representative values, sorted.
func collectSamples(uniqueSet map[string]bool, maxSamples int) []string {
	samples := make([]string, 0, len(uniqueSet))
	for v := range uniqueSet {
		samples = append(samples, v)
	}
	sort.Strings(samples)

	if len(samples) > maxSamples {
		samples = samples[:maxSamples]
	}
	return samples
}
