// Package store persists a movie table to SQLite and reads it back.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-gota/gota/series"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/spektr-org/boxoffice/dataset"
	"github.com/spektr-org/boxoffice/schema"
)

// TableName is the SQLite table holding the movies.
const TableName = "movies"

// ErrEmpty is returned by Load when the database holds no movie table.
var ErrEmpty = errors.New("no movies table in database")

// Store is a SQLite-backed copy of a movie table.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	db, err := sql.Open("sqlite", filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save replaces the movies table with the contents of t in one transaction.
// Column types follow the table: int → INTEGER, float → REAL, else TEXT.
// Bools are stored as "true"/"false" text so they load back as bools.
// Missing cells are stored as NULL.
func (s *Store) Save(ctx context.Context, t *dataset.Table) (int, error) {
	df := t.DataFrame()
	names := df.Names()
	types := df.Types()

	defs := make([]string, len(names))
	for i, name := range names {
		defs[i] = quote(name) + " " + sqlType(types[i])
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quote(TableName)); err != nil {
		return 0, fmt.Errorf("drop table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", quote(TableName), strings.Join(defs, ", "))); err != nil {
		return 0, fmt.Errorf("create table: %w", err)
	}

	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = quote(name)
	}
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quote(TableName),
		strings.Join(quoted, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", "),
	)
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	cols := make([]series.Series, len(names))
	for i, name := range names {
		cols[i] = df.Col(name)
	}

	args := make([]any, len(names))
	for row := 0; row < df.Nrow(); row++ {
		for c, col := range cols {
			args[c] = cellValue(col.Elem(row), types[c])
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("insert row %d: %w", row, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	log.Debug().Int("rows", df.Nrow()).Str("table", TableName).Msg("💾 store: saved")
	return df.Nrow(), nil
}

// Load reads the movies table back into a dataset.Table. Columns dropped
// during cleaning are not required.
func (s *Store) Load(ctx context.Context) (*dataset.Table, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?", TableName).Scan(&n)
	if err != nil {
		return nil, fmt.Errorf("check table: %w", err)
	}
	if n == 0 {
		return nil, ErrEmpty
	}

	rows, err := s.db.QueryContext(ctx, "SELECT * FROM "+quote(TableName)+" ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("query movies: %w", err)
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	records := [][]string{header}

	cells := make([]sql.NullString, len(header))
	dest := make([]any, len(header))
	for i := range cells {
		dest[i] = &cells[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		rec := make([]string, len(cells))
		for i, c := range cells {
			if c.Valid {
				rec[i] = c.String
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	cfg := schema.Blockbusters()
	cfg.Required = slices.DeleteFunc(cfg.Required, func(c string) bool {
		return slices.Contains(cfg.Dropped, c)
	})
	return dataset.FromRecords(records, dataset.WithSchema(cfg))
}

// Count returns the number of stored movies.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT count(*) FROM "+quote(TableName)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count movies: %w", err)
	}
	return n, nil
}

func quote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func sqlType(t series.Type) string {
	switch t {
	case series.Int:
		return "INTEGER"
	case series.Float:
		return "REAL"
	default:
		return "TEXT"
	}
}

func cellValue(e series.Element, t series.Type) any {
	if e.IsNA() {
		return nil
	}
	switch t {
	case series.Int:
		if v, err := e.Int(); err == nil {
			return v
		}
	case series.Float:
		return e.Float()
	}
	return e.String()
}
