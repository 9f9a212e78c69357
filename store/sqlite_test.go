package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/boxoffice/analysis"
	"github.com/spektr-org/boxoffice/dataset"
	"github.com/spektr-org/boxoffice/engine"
	"github.com/spektr-org/boxoffice/internal/testutil"
	"github.com/spektr-org/boxoffice/schema"
	"github.com/spektr-org/boxoffice/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "movies.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func cleanedFixture(t *testing.T) *dataset.Table {
	t.Helper()
	raw, err := dataset.Load(testutil.Blockbusters())
	require.NoError(t, err)
	tbl, err := analysis.Clean(raw)
	require.NoError(t, err)
	return tbl
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := store.Open(context.Background(), "  ")
	assert.Error(t, err)
}

func TestLoad_Empty(t *testing.T) {
	_, err := openStore(t).Load(context.Background())
	assert.ErrorIs(t, err, store.ErrEmpty)
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	orig := cleanedFixture(t)

	n, err := s.Save(ctx, orig)
	require.NoError(t, err)
	assert.Equal(t, testutil.FixtureRows, n)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, testutil.FixtureRows, count)

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	back, err := analysis.Clean(loaded)
	require.NoError(t, err)

	rows, cols := back.Shape()
	origRows, origCols := orig.Shape()
	assert.Equal(t, origRows, rows)
	assert.Equal(t, origCols, cols)
	assert.Equal(t, orig.Info().Columns, back.Info().Columns)
	assert.Contains(t, back.Info().Columns, dataset.ColumnInfo{Name: "_golden", NonNull: testutil.FixtureRows, Dtype: "bool"})

	d, ok := back.ReleaseDate(0)
	require.True(t, ok)
	assert.Equal(t, "2014-08-01", d.Format(schema.ISODate))

	for _, spec := range []engine.QuerySpec{
		analysis.TopStudiosByAverageGrossSpec(5),
		analysis.TopGenresByGrossSpec(5),
		analysis.MoviesPerYearSpec(),
	} {
		want, err := analysis.Run(orig, spec)
		require.NoError(t, err)
		got, err := analysis.Run(back, spec)
		require.NoError(t, err)
		require.Len(t, got.Groups, len(want.Groups), spec.Title)
		for i := range want.Groups {
			assert.Equal(t, want.Groups[i].Key, got.Groups[i].Key, spec.Title)
			assert.InDelta(t, want.Groups[i].Value, got.Groups[i].Value, 1e-6, spec.Title)
		}
	}
}

func TestSave_Replaces(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	tbl := cleanedFixture(t)

	_, err := s.Save(ctx, tbl)
	require.NoError(t, err)
	_, err = s.Save(ctx, tbl.Head(3))
	require.NoError(t, err)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
