package dataset

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-gota/gota/series"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/spektr-org/boxoffice/schema"
)

// ErrBadValue is returned when a cell cannot be converted during cleaning.
var ErrBadValue = errors.New("unparseable value")

// ParseCurrency converts currency text such as "$1,234.50" to 1234.5.
func ParseCurrency(s string) (float64, error) {
	d, err := decimal.NewFromString(schema.StripCurrency(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadValue, s)
	}
	return d.InexactFloat64(), nil
}

// CleanCurrency strips "$" and "," from each named column and retypes it as
// float. With no columns it cleans every currency measure in the schema.
// Missing cells stay missing.
func (t *Table) CleanCurrency(cols ...string) (*Table, error) {
	if len(cols) == 0 {
		cols = t.schema.CurrencyColumns()
	}

	out := t
	for _, col := range cols {
		s, err := out.Column(col)
		if err != nil {
			return nil, err
		}
		if s.Type() == series.Float || s.Type() == series.Int {
			continue
		}

		vals := make([]string, s.Len())
		for i := 0; i < s.Len(); i++ {
			e := s.Elem(i)
			if e.IsNA() {
				vals[i] = "NaN"
				continue
			}
			f, err := ParseCurrency(e.String())
			if err != nil {
				return nil, fmt.Errorf("column %s row %d: %w", col, i, err)
			}
			vals[i] = strconv.FormatFloat(f, 'f', -1, 64)
		}

		if out, err = out.mutate(series.New(vals, series.Float, col)); err != nil {
			return nil, err
		}
		log.Debug().Str("column", col).Msg("🧹 dataset: currency cleaned")
	}
	return out, nil
}
