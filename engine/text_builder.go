package engine

import (
	"fmt"
	"strconv"
)

// ============================================================================
// TEXT BUILDER — Produces TextData for single-value queries
// ============================================================================

// BuildText produces a single aggregated value over the filtered records.
func BuildText(spec QuerySpec, view RecordView, measure string, unit string) *TextData {
	if view.Len() == 0 {
		return &TextData{
			Value:  "0",
			Unit:   unit,
			Period: DerivePeriod(view),
		}
	}

	var value float64
	switch spec.Aggregation {
	case AggCount:
		value = float64(view.Len())
	case AggAvg:
		value = AvgMeasure(view, measure)
	case AggMax:
		value = MaxMeasure(view, measure)
	case AggMin:
		value = MinMeasure(view, measure)
	default:
		value = SumMeasure(view, measure)
	}

	var formatted string
	if spec.Aggregation == AggCount {
		formatted = FormatInt(int(value))
	} else {
		formatted = FormatCurrency(value, unit)
	}

	return &TextData{
		Value:    formatted,
		RawValue: value,
		Unit:     unit,
		Period:   DerivePeriod(view),
		Count:    view.Len(),
	}
}

// ============================================================================
// PERIOD HELPER
// ============================================================================

// DerivePeriod builds a year range ("1975 – 2014") from the "year" dimension.
func DerivePeriod(view RecordView) string {
	if view.Len() == 0 {
		return "No data"
	}

	earliest, latest := 0, 0
	for i := 0; i < view.Len(); i++ {
		y, err := strconv.Atoi(view.Dimension(i, "year"))
		if err != nil {
			continue
		}
		if earliest == 0 || y < earliest {
			earliest = y
		}
		if y > latest {
			latest = y
		}
	}

	switch {
	case earliest == 0:
		return "All time"
	case earliest == latest:
		return strconv.Itoa(earliest)
	default:
		return fmt.Sprintf("%d – %d", earliest, latest)
	}
}
