// This file separates chart data preparation from go-echarts rendering.
package dashboard

import (
	"fmt"

	"github.com/banshee-data/bikeshare.report/internal/filter"
	"github.com/banshee-data/bikeshare.report/internal/rental"
)

// BarChartData holds prepared data for a category bar chart.
type BarChartData struct {
	Title    string    `json:"title"`
	Subtitle string    `json:"subtitle"`
	Series   string    `json:"series"`
	XName    string    `json:"x_name"`
	Labels   []string  `json:"labels"`
	Values   []float64 `json:"values"`
}

// LineChartData holds prepared data for a count-over-time line chart.
type LineChartData struct {
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle"`
	Labels   []string `json:"labels"`
	Counts   []int    `json:"counts"`
}

// Empty reports whether there is nothing to draw.
func (d *BarChartData) Empty() bool { return len(d.Labels) == 0 }

// Empty reports whether there is nothing to draw.
func (d *LineChartData) Empty() bool { return len(d.Labels) == 0 }

// PrepareGroupBars turns grouped means into bars, one per group, in
// group order.
func PrepareGroupBars(groups filter.Groups, key filter.GroupKey, title, subtitle string) *BarChartData {
	d := &BarChartData{
		Title:    title,
		Subtitle: subtitle,
		Series:   "mean rentals",
		XName:    string(key),
		Labels:   groups.Labels(),
		Values:   make([]float64, len(groups)),
	}
	for i, g := range groups {
		d.Values[i] = g.Mean
	}
	return d
}

// PrepareHistogramBars labels each bin by its count range.
func PrepareHistogramBars(bins []filter.Bin, title, subtitle string) *BarChartData {
	d := &BarChartData{
		Title:    title,
		Subtitle: subtitle,
		Series:   "rows",
		XName:    "rentals",
		Labels:   make([]string, len(bins)),
		Values:   make([]float64, len(bins)),
	}
	for i, b := range bins {
		d.Labels[i] = fmt.Sprintf("%.0f-%.0f", b.Lower, b.Upper)
		d.Values[i] = float64(b.Count)
	}
	return d
}

// PrepareSeriesLine plots count against date, or date and hour for hourly
// tables, in table order.
func PrepareSeriesLine(rows []rental.Record, hourly bool, title, subtitle string) *LineChartData {
	points := filter.Series(rows)
	d := &LineChartData{
		Title:    title,
		Subtitle: subtitle,
		Labels:   make([]string, len(points)),
		Counts:   make([]int, len(points)),
	}
	for i, p := range points {
		label := p.Date.Format(rental.DateLayout)
		if hourly {
			label += fmt.Sprintf(" %02d:00", p.Hour)
		}
		d.Labels[i] = label
		d.Counts[i] = p.Count
	}
	return d
}
