package filter

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/bikeshare.report/internal/rental"
)

// Bin is one histogram bucket covering [Lower, Upper).
type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Histogram splits the rental counts of rows into n equal-width bins
// spanning [min, max+1). It returns nil for no rows or n < 1.
func Histogram(rows []rental.Record, n int) []Bin {
	if len(rows) == 0 || n < 1 {
		return nil
	}

	x := Counts(rows)
	sort.Float64s(x)
	lo, hi := x[0], x[len(x)-1]+1

	// stat.Histogram requires every value to be below the last divider.
	dividers := floats.Span(make([]float64, n+1), lo, hi)
	counts := stat.Histogram(nil, dividers, x, nil)

	bins := make([]Bin, n)
	for i := range bins {
		bins[i] = Bin{Lower: dividers[i], Upper: dividers[i+1], Count: int(counts[i])}
	}
	return bins
}

// Point is one sample of a count series.
type Point struct {
	Date  time.Time `json:"date"`
	Hour  int       `json:"hour"`
	Count int       `json:"cnt"`
}

// Series returns the (date, count) pairs of rows in table order.
func Series(rows []rental.Record) []Point {
	out := make([]Point, len(rows))
	for i, r := range rows {
		out[i] = Point{Date: r.Date, Hour: r.Hour, Count: r.Count}
	}
	return out
}
