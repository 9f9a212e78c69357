package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/rs/zerolog/log"

	"github.com/spektr-org/boxoffice/engine"
	"github.com/spektr-org/boxoffice/schema"
)

// ============================================================================
// TABLE — In-memory movie table backed by a gota DataFrame
// ============================================================================
// Every operation returns a new *Table; the receiver is never mutated.
// ============================================================================

var (
	// ErrMissingColumn is returned when the source file lacks a required column.
	ErrMissingColumn = errors.New("missing required column")
	// ErrUnknownColumn is returned when an operation names a column the table does not have.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrNotFound is returned by Loc when no row carries the key.
	ErrNotFound = errors.New("not found")
	// ErrNoIndex is returned by Loc on a table without an index column.
	ErrNoIndex = errors.New("table has no index")
	// ErrNoHeader is returned when the input has no header row.
	ErrNoHeader = errors.New("no header row")
)

// Table is the in-memory movie table.
type Table struct {
	df     dataframe.DataFrame
	schema schema.Config
	index  string
}

// LoadOption configures Load.
type LoadOption func(*loadConfig)

type loadConfig struct {
	schema    schema.Config
	delimiter rune
}

// WithSchema overrides the column schema (default schema.Blockbusters()).
func WithSchema(cfg schema.Config) LoadOption {
	return func(c *loadConfig) { c.schema = cfg }
}

// WithDelimiter sets the CSV field delimiter (default ',').
func WithDelimiter(r rune) LoadOption {
	return func(c *loadConfig) { c.delimiter = r }
}

// LoadFile opens path and loads it with Load.
func LoadFile(path string, opts ...LoadOption) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()
	return Load(f, opts...)
}

// Load reads CSV into a Table. Measure columns are typed from the schema,
// currency columns are kept as text until CleanCurrency, and date columns are
// parsed and normalized to ISO dates. Unknown columns keep gota's detected type.
// A header with no rows loads as an empty table.
func Load(r io.Reader, opts ...LoadOption) (*Table, error) {
	cfg := newLoadConfig(opts)
	reader := csv.NewReader(r)
	reader.Comma = cfg.delimiter
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return fromRecords(records, cfg)
}

// FromRecords builds a Table from string rows, header first, typed the same
// way as Load.
func FromRecords(records [][]string, opts ...LoadOption) (*Table, error) {
	return fromRecords(records, newLoadConfig(opts))
}

func fromRecords(records [][]string, cfg loadConfig) (*Table, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("failed to load records: %w", ErrNoHeader)
	}
	types := columnTypes(cfg.schema)
	if len(records) == 1 {
		return fromFrame(emptyFrame(records[0], types), cfg)
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.WithTypes(types),
		dataframe.NaNValues(schema.NullValues),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("failed to load records: %w", df.Err)
	}
	return fromFrame(df, cfg)
}

// emptyFrame builds a zero-row frame with the header's columns. Columns the
// schema does not type are strings.
func emptyFrame(header []string, types map[string]series.Type) dataframe.DataFrame {
	cols := make([]series.Series, len(header))
	for i, name := range header {
		t, ok := types[name]
		if !ok {
			t = series.String
		}
		cols[i] = series.New([]string{}, t, name)
	}
	return dataframe.New(cols...)
}

func newLoadConfig(opts []LoadOption) loadConfig {
	cfg := loadConfig{schema: schema.Blockbusters(), delimiter: ','}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func fromFrame(df dataframe.DataFrame, cfg loadConfig) (*Table, error) {
	var missing []string
	names := df.Names()
	for _, col := range cfg.schema.Required {
		if !slices.Contains(names, col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	t := &Table{df: df, schema: cfg.schema}
	for _, col := range cfg.schema.DateColumns() {
		if !t.HasColumn(col) {
			continue
		}
		var err error
		if t, err = t.parseDates(col); err != nil {
			return nil, err
		}
	}

	rows, cols := t.Shape()
	log.Debug().Int("rows", rows).Int("columns", cols).Msg("📊 dataset: loaded")
	return t, nil
}

// columnTypes maps schema columns to gota types. Currency text stays a string.
func columnTypes(cfg schema.Config) map[string]series.Type {
	types := make(map[string]series.Type)
	for _, d := range cfg.Dimensions {
		types[d.Key] = series.String
	}
	for _, m := range cfg.Measures {
		switch {
		case m.IsCurrency:
			types[m.Key] = series.String
		case m.IsInteger:
			types[m.Key] = series.Int
		default:
			types[m.Key] = series.Float
		}
	}
	// year is a dimension for grouping but an integer in the file
	if _, ok := types[schema.ColYear]; ok {
		types[schema.ColYear] = series.Int
	}
	return types
}

// parseDates normalizes a date column to ISO "2006-01-02" strings.
func (t *Table) parseDates(col string) (*Table, error) {
	s := t.df.Col(col)
	if s.Err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, col)
	}
	out := make([]string, s.Len())
	for i := 0; i < s.Len(); i++ {
		e := s.Elem(i)
		if e.IsNA() {
			out[i] = "NaN"
			continue
		}
		d, err := schema.ParseDate(e.String())
		if err != nil {
			return nil, fmt.Errorf("column %s row %d: %w", col, i, err)
		}
		out[i] = d.Format(schema.ISODate)
	}
	return t.mutate(series.New(out, series.String, col))
}

// ============================================================================
// SHAPE & ACCESS
// ============================================================================

// Shape returns (rows, columns).
func (t *Table) Shape() (int, int) { return t.df.Dims() }

// Len returns the row count.
func (t *Table) Len() int { return t.df.Nrow() }

// Columns returns the column names in file order.
func (t *Table) Columns() []string { return t.df.Names() }

// Schema returns the schema the table was loaded with.
func (t *Table) Schema() schema.Config { return t.schema }

// Index returns the index column set by IndexBy, or "".
func (t *Table) Index() string { return t.index }

// DataFrame exposes the underlying gota frame.
func (t *Table) DataFrame() dataframe.DataFrame { return t.df }

// HasColumn reports whether the table has a column.
func (t *Table) HasColumn(name string) bool {
	return slices.Contains(t.df.Names(), name)
}

// Column returns one column as a series.
func (t *Table) Column(name string) (series.Series, error) {
	if !t.HasColumn(name) {
		return series.Series{}, fmt.Errorf("%w: %s", ErrUnknownColumn, name)
	}
	return t.df.Col(name), nil
}

// Records returns the table as string rows, header first. Missing cells print "NaN".
func (t *Table) Records() [][]string { return t.df.Records() }

// ReleaseDate returns the parsed release date of row i.
func (t *Table) ReleaseDate(i int) (time.Time, bool) {
	if !t.HasColumn(schema.ColReleaseDate) || i < 0 || i >= t.Len() {
		return time.Time{}, false
	}
	e := t.df.Col(schema.ColReleaseDate).Elem(i)
	if e.IsNA() {
		return time.Time{}, false
	}
	d, err := time.Parse(schema.ISODate, e.String())
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// ============================================================================
// SELECTION
// ============================================================================

// Head returns the first n rows.
func (t *Table) Head(n int) *Table {
	return t.Slice(0, n)
}

// Tail returns the last n rows.
func (t *Table) Tail(n int) *Table {
	return t.Slice(t.Len()-n, t.Len())
}

// Slice returns rows [from, to), clamped to the table bounds.
func (t *Table) Slice(from, to int) *Table {
	from = max(from, 0)
	to = min(to, t.Len())
	if to < from {
		to = from
	}
	idx := make([]int, 0, to-from)
	for i := from; i < to; i++ {
		idx = append(idx, i)
	}
	return t.subset(idx)
}

// Select keeps the named columns in the given order.
func (t *Table) Select(cols ...string) (*Table, error) {
	for _, c := range cols {
		if !t.HasColumn(c) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, c)
		}
	}
	return t.derive(t.df.Select(cols))
}

// Drop removes one column. The column count drops by exactly one.
func (t *Table) Drop(col string) (*Table, error) {
	if !t.HasColumn(col) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, col)
	}
	out, err := t.derive(t.df.Drop(col))
	if err != nil {
		return nil, err
	}
	if out.index == col {
		out.index = ""
	}
	return out, nil
}

// FilterAny keeps rows where at least one of cols equals value.
func (t *Table) FilterAny(value string, cols ...string) (*Table, error) {
	filters := make([]dataframe.F, 0, len(cols))
	for _, c := range cols {
		if !t.HasColumn(c) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, c)
		}
		filters = append(filters, dataframe.F{Colname: c, Comparator: series.Eq, Comparando: value})
	}
	if t.Len() == 0 {
		return t, nil
	}
	return t.derive(t.df.Filter(filters...))
}

// SortBy orders rows by one column.
func (t *Table) SortBy(col string, desc bool) (*Table, error) {
	if !t.HasColumn(col) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, col)
	}
	order := dataframe.Sort(col)
	if desc {
		order = dataframe.RevSort(col)
	}
	return t.derive(t.df.Arrange(order))
}

// IndexBy sorts rows by col and makes it the lookup key for Loc.
func (t *Table) IndexBy(col string) (*Table, error) {
	out, err := t.SortBy(col, false)
	if err != nil {
		return nil, err
	}
	out.index = col
	return out, nil
}

// Loc returns the rows whose index column equals key.
func (t *Table) Loc(key string) (*Table, error) {
	if t.index == "" {
		return nil, ErrNoIndex
	}
	out, err := t.FilterAny(key, t.index)
	if err != nil {
		return nil, err
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("%s %q: %w", t.index, key, ErrNotFound)
	}
	return out, nil
}

// View exposes the table to the engine.
func (t *Table) View() engine.RecordView {
	return NewFrameView(t.df)
}

// ============================================================================
// INTERNAL
// ============================================================================

func (t *Table) subset(idx []int) *Table {
	return &Table{df: t.df.Subset(idx), schema: t.schema, index: t.index}
}

func (t *Table) derive(df dataframe.DataFrame) (*Table, error) {
	if df.Err != nil {
		return nil, df.Err
	}
	return &Table{df: df, schema: t.schema, index: t.index}, nil
}

func (t *Table) mutate(s series.Series) (*Table, error) {
	return t.derive(t.df.Mutate(s))
}
