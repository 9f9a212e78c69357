package dataset

import (
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/spektr-org/boxoffice/engine"
	"github.com/spektr-org/boxoffice/schema"
)

// Movie is one typed row of a cleaned table. Missing numbers are NaN.
type Movie struct {
	Title          string    `json:"title"`
	Year           int       `json:"year"`
	ReleaseDate    time.Time `json:"releaseDate"`
	Genre1         string    `json:"genre1"`
	Genre2         string    `json:"genre2,omitempty"`
	Genre3         string    `json:"genre3,omitempty"`
	Studio         string    `json:"studio"`
	Rating         string    `json:"rating"`
	IMDBRating     float64   `json:"imdbRating"`
	Length         float64   `json:"length"`
	RankInYear     float64   `json:"rankInYear"`
	Adjusted       float64   `json:"adjusted"`
	WorldwideGross float64   `json:"worldwideGross"`
}

// MarshalJSON writes missing (NaN) numbers as null.
func (m Movie) MarshalJSON() ([]byte, error) {
	type alias Movie
	num := func(v float64) *float64 {
		if math.IsNaN(v) {
			return nil
		}
		return &v
	}
	return json.Marshal(struct {
		alias
		IMDBRating     *float64 `json:"imdbRating"`
		Length         *float64 `json:"length"`
		RankInYear     *float64 `json:"rankInYear"`
		Adjusted       *float64 `json:"adjusted"`
		WorldwideGross *float64 `json:"worldwideGross"`
	}{alias(m), num(m.IMDBRating), num(m.Length), num(m.RankInYear), num(m.Adjusted), num(m.WorldwideGross)})
}

// Genres returns the non-empty genres in column order.
func (m Movie) Genres() []string {
	var out []string
	for _, g := range []string{m.Genre1, m.Genre2, m.Genre3} {
		if g != "" {
			out = append(out, g)
		}
	}
	return out
}

// Movies converts the table to typed rows. Currency columns must be cleaned
// first or they read as NaN.
func (t *Table) Movies() []Movie {
	v := NewFrameView(t.df)
	movies := make([]Movie, v.Len())
	for i := range movies {
		year, _ := strconv.Atoi(v.Dimension(i, schema.ColYear))
		rd, _ := t.ReleaseDate(i)
		movies[i] = Movie{
			Title:          v.Dimension(i, schema.ColTitle),
			Year:           year,
			ReleaseDate:    rd,
			Genre1:         v.Dimension(i, schema.ColGenre1),
			Genre2:         v.Dimension(i, schema.ColGenre2),
			Genre3:         v.Dimension(i, schema.ColGenre3),
			Studio:         v.Dimension(i, schema.ColStudio),
			Rating:         v.Dimension(i, schema.ColRating),
			IMDBRating:     v.Measure(i, schema.ColIMDBRating),
			Length:         v.Measure(i, schema.ColLength),
			RankInYear:     v.Measure(i, schema.ColRankInYear),
			Adjusted:       v.Measure(i, schema.ColAdjusted),
			WorldwideGross: v.Measure(i, schema.ColWorldwideGross),
		}
	}
	return movies
}

// MovieAdapter reads []Movie as an engine.RecordView under the source column names.
var MovieAdapter = engine.NewDomainAdapter[Movie]().
	Dimension(schema.ColTitle, func(m Movie) string { return m.Title }).
	Dimension(schema.ColYear, func(m Movie) string {
		if m.Year == 0 {
			return ""
		}
		return strconv.Itoa(m.Year)
	}).
	Dimension(schema.ColReleaseDate, func(m Movie) string {
		if m.ReleaseDate.IsZero() {
			return ""
		}
		return m.ReleaseDate.Format(schema.ISODate)
	}).
	Dimension(schema.ColGenre1, func(m Movie) string { return m.Genre1 }).
	Dimension(schema.ColGenre2, func(m Movie) string { return m.Genre2 }).
	Dimension(schema.ColGenre3, func(m Movie) string { return m.Genre3 }).
	Dimension(schema.ColStudio, func(m Movie) string { return m.Studio }).
	Dimension(schema.ColRating, func(m Movie) string { return m.Rating }).
	Measure(schema.ColIMDBRating, func(m Movie) float64 { return m.IMDBRating }).
	Measure(schema.ColLength, func(m Movie) float64 { return m.Length }).
	Measure(schema.ColRankInYear, func(m Movie) float64 { return m.RankInYear }).
	Measure(schema.ColAdjusted, func(m Movie) float64 { return m.Adjusted }).
	Measure(schema.ColWorldwideGross, func(m Movie) float64 { return m.WorldwideGross }).
	Measure(schema.ColYear, func(m Movie) float64 {
		if m.Year == 0 {
			return math.NaN()
		}
		return float64(m.Year)
	})
