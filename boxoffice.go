// Package boxoffice explores the crowdsourced "blockbuster" movies dataset
// (top ten movies per year, 1975–2014).
//
// Usage:
//
//	import (
//	    "github.com/spektr-org/boxoffice/analysis"
//	    "github.com/spektr-org/boxoffice/dataset"
//	)
//
//	tbl, err := dataset.LoadFile("top_ten_movies_per_year_DFE.csv")
//	tbl, err = analysis.Clean(tbl)
//	result, err := analysis.TopStudiosByAverageGross(tbl, 5)
//
// The dataset package owns the in-memory table, the engine package owns
// grouping and aggregation, and the render package turns engine results into
// console tables and bar charts. Nothing here talks to the network.
package boxoffice
