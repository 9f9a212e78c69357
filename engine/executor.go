package engine

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
)

// ============================================================================
// EXECUTOR — Dispatcher + Placeholder Resolution
// ============================================================================
// Entry point: Execute(spec, view, opts...)
//
// Pipeline:
//   1. Validate keys against the view
//   2. Apply filters from QuerySpec → SubView
//   3. Group and aggregate
//   4. Dispatch to builder (chart / table / text)
//   5. Resolve reply template placeholders
//   6. Return Result
// ============================================================================

// ErrUnknownKey is returned when a QuerySpec names a dimension or measure the
// view does not expose.
var ErrUnknownKey = errors.New("unknown key")

// Execute runs a QuerySpec against a RecordView and returns a render-ready Result.
//
// Options:
//   - WithDefaultMeasure(key) — sets the measure when QuerySpec.Measure is empty
//   - WithUnit(measure, unit) — display unit for a measure
func Execute(spec QuerySpec, view RecordView, opts ...Option) (*Result, error) {
	cfg := applyOptions(opts)
	spec = NormalizeQuerySpec(spec)

	measure := spec.Measure
	if measure == "" {
		measure = cfg.DefaultMeasure
	}

	if view.Len() == 0 {
		return &Result{
			Success: true,
			Type:    "text",
			Title:   spec.Title,
			Reply:   "No data available to analyze.",
		}, nil
	}

	if err := validateKeys(spec, view, measure); err != nil {
		return nil, err
	}

	log.Debug().
		Int("records", view.Len()).
		Str("intent", spec.Intent).
		Str("aggregation", spec.Aggregation).
		Str("measure", measure).
		Strs("groupBy", spec.GroupBy).
		Msg("🔧 boxoffice: executing query")

	// 1. Apply filters → SubView
	filtered := ApplyFilters(view, spec.Filters)

	if filtered.Len() == 0 {
		return &Result{
			Success: true,
			Type:    "text",
			Title:   spec.Title,
			Reply:   "No records match the query filters.",
		}, nil
	}

	log.Debug().Int("kept", filtered.Len()).Int("from", view.Len()).Msg("🔧 boxoffice: filtered")

	unit := cfg.unitFor(measure, spec.Aggregation)

	// 2. Group and aggregate
	groups := GroupAndAggregate(filtered, spec.GroupBy, measure, spec.Aggregation, spec.SortBy, spec.Limit)

	// 3. Dispatch to builder
	result := &Result{
		Success:     true,
		Title:       spec.Title,
		DisplayUnit: unit,
		Groups:      groups,
	}

	switch spec.Intent {
	case "chart":
		result.Type = "chart"
		result.ChartConfig = BuildChart(spec, groups)
		if result.ChartConfig == nil {
			result.Type = "text"
			result.Reply = "Not enough data to generate a chart."
			return result, nil
		}

	case "table":
		result.Type = "table"
		result.TableData = BuildTable(spec, groups, filtered, measure, unit)

	default:
		result.Type = "text"
		result.Data = BuildText(spec, filtered, measure, unit)
	}

	// 4. Resolve reply template placeholders
	result.Reply = ResolvePlaceholders(spec.Reply, groups, filtered, measure, unit)

	return result, nil
}

// validateKeys checks GroupBy, filter and measure keys against the view.
func validateKeys(spec QuerySpec, view RecordView, measure string) error {
	dims := view.DimensionKeys()
	for _, d := range spec.GroupBy {
		if d == "decade" {
			continue
		}
		if !slices.Contains(dims, d) {
			return fmt.Errorf("group by %q: %w", d, ErrUnknownKey)
		}
	}
	for d := range spec.Filters.Dimensions {
		if !slices.Contains(dims, d) {
			return fmt.Errorf("filter on %q: %w", d, ErrUnknownKey)
		}
	}
	if spec.Aggregation != AggCount && !slices.Contains(view.MeasureKeys(), measure) {
		return fmt.Errorf("measure %q: %w", measure, ErrUnknownKey)
	}
	return nil
}

// ============================================================================
// PLACEHOLDER RESOLUTION
// ============================================================================

// ResolvePlaceholders substitutes computed values into the reply template.
//
// Supported: {total} {count} {avg} {max} {min} {top_category} {top_amount}
// {group_count}.
func ResolvePlaceholders(template string, groups []Group, view RecordView, measure string, unit string) string {
	if template == "" {
		return buildDefaultReply(view, groups)
	}

	count := view.Len()
	replacements := map[string]string{
		"{count}":       FormatInt(count),
		"{group_count}": FormatInt(len(groups)),
	}

	if CountMeasure(view, measure) > 0 {
		replacements["{total}"] = FormatCurrency(SumMeasure(view, measure), unit)
		replacements["{avg}"] = FormatCurrency(AvgMeasure(view, measure), unit)
		replacements["{max}"] = FormatCurrency(MaxMeasure(view, measure), unit)
		replacements["{min}"] = FormatCurrency(MinMeasure(view, measure), unit)
	}

	// Top group (highest value; first wins on ties; NaN never wins)
	if topGroup, ok := topValueGroup(groups); ok {
		replacements["{top_category}"] = topGroup.Label
		if unit == "" {
			replacements["{top_amount}"] = FormatNumber(RoundTo2(topGroup.Value))
		} else {
			replacements["{top_amount}"] = FormatCurrency(topGroup.Value, unit)
		}
	}

	result := template
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	return stripUnresolvedPlaceholders(result)
}

// ============================================================================
// QUERYSPEC NORMALIZATION
// ============================================================================

// NormalizeQuerySpec applies deterministic rules to fix inconsistent specs.
func NormalizeQuerySpec(spec QuerySpec) QuerySpec {
	changed := false

	// Rule 1: "list" aggregation must be a table
	if spec.Aggregation == AggList && spec.Intent != "table" {
		spec.Intent = "table"
		spec.Visualize = "table"
		changed = true
	}

	// Rule 2: Charts must have a groupBy dimension
	if spec.Intent == "chart" && len(spec.GroupBy) == 0 {
		spec.Intent = "text"
		spec.Visualize = "text"
		changed = true
	}

	// Rule 3: max/min with no groupBy → text
	if (spec.Aggregation == AggMax || spec.Aggregation == AggMin) && len(spec.GroupBy) == 0 && spec.Intent != "text" {
		spec.Intent = "text"
		spec.Visualize = "text"
		changed = true
	}

	if changed {
		log.Debug().
			Str("intent", spec.Intent).
			Strs("groupBy", spec.GroupBy).
			Str("aggregation", spec.Aggregation).
			Msg("🔧 NormalizeQuerySpec: adjusted")
	}

	return spec
}

// ============================================================================
// INTERNAL HELPERS
// ============================================================================

func topValueGroup(groups []Group) (Group, bool) {
	var top Group
	found := false
	for _, g := range groups {
		if math.IsNaN(g.Value) {
			continue
		}
		if !found || g.Value > top.Value {
			top, found = g, true
		}
	}
	return top, found
}

func buildDefaultReply(view RecordView, groups []Group) string {
	if view.Len() == 0 {
		return "No matching records found."
	}
	if len(groups) > 1 {
		return fmt.Sprintf("%s movies across %s groups.", FormatInt(view.Len()), FormatInt(len(groups)))
	}
	return fmt.Sprintf("%s movies.", FormatInt(view.Len()))
}

var placeholderRegex = regexp.MustCompile(`\{[a-z_]+\}`)

func stripUnresolvedPlaceholders(text string) string {
	if !placeholderRegex.MatchString(text) {
		return text
	}
	cleaned := placeholderRegex.ReplaceAllString(text, "")
	cleaned = strings.ReplaceAll(cleaned, "  ", " ")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.TrimRight(cleaned, " .—-–")
	if cleaned == "" {
		return text
	}
	return cleaned
}
