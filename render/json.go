package render

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/spektr-org/boxoffice/dataset"
)

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// RowsJSON returns the rows of t as objects keyed by column name.
// Missing cells are null.
func RowsJSON(t *dataset.Table) []map[string]any {
	view := t.View()
	measures := make(map[string]bool)
	for _, m := range view.MeasureKeys() {
		measures[m] = true
	}

	out := make([]map[string]any, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		row := make(map[string]any, len(measures))
		for _, col := range t.Columns() {
			switch {
			case measures[col]:
				if v := view.Measure(i, col); !math.IsNaN(v) {
					row[col] = v
				} else {
					row[col] = nil
				}
			case view.Dimension(i, col) != "":
				row[col] = view.Dimension(i, col)
			default:
				row[col] = nil
			}
		}
		out = append(out, row)
	}
	return out
}
