package filter

import (
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/bikeshare.report/internal/rental"
)

// Result is the subset of a table matching a Spec, in table order.
type Result struct {
	Spec Spec            `json:"spec"`
	Rows []rental.Record `json:"rows"`
}

// Apply returns the records of t that satisfy spec, preserving table order.
// An empty result is a normal outcome, not an error.
func Apply(t *rental.Table, spec Spec) Result {
	res := Result{Spec: spec, Rows: []rental.Record{}}
	hourly := t.Hourly()
	t.Each(func(_ int, r rental.Record) bool {
		if spec.Match(r, hourly) {
			res.Rows = append(res.Rows, r)
		}
		return true
	})
	return res
}

// Len is the number of matching records.
func (r Result) Len() int {
	return len(r.Rows)
}

// Empty reports whether no record matched. Callers must check it before
// presenting a mean.
func (r Result) Empty() bool {
	return len(r.Rows) == 0
}

// Mean returns the arithmetic mean of Count over the subset. ok is false
// when the subset is empty and the mean is undefined.
func (r Result) Mean() (mean float64, ok bool) {
	if r.Empty() {
		return 0, false
	}
	return stat.Mean(Counts(r.Rows), nil), true
}

// Counts extracts the rental counts of rows as float64 values.
func Counts(rows []rental.Record) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = float64(r.Count)
	}
	return out
}
