// Package testutil holds the shared blockbuster fixture used across package tests.
package testutil

import (
	"bytes"
	_ "embed"
	"io"
)

// BlockbustersCSV is a 13-row, 20-column sample of top_ten_movies_per_year_DFE.csv.
// Mrs. Doubtfire has no worldwide_gross; several rows have no Genre_2/Genre_3.
//
//go:embed testdata/blockbusters.csv
var BlockbustersCSV []byte

// Fixture shape before cleaning.
const (
	FixtureRows    = 13
	FixtureColumns = 20
)

// Blockbusters returns a fresh reader over BlockbustersCSV.
func Blockbusters() io.Reader {
	return bytes.NewReader(BlockbustersCSV)
}
