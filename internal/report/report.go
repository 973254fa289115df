// Package report renders the dashboard's charts to PNG files for offline
// use with gonum/plot.
package report

import (
	"errors"
	"fmt"
	"image/color"
	"path/filepath"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/bikeshare.report/internal/filter"
	"github.com/banshee-data/bikeshare.report/internal/fsutil"
	"github.com/banshee-data/bikeshare.report/internal/monitoring"
	"github.com/banshee-data/bikeshare.report/internal/rental"
	"github.com/banshee-data/bikeshare.report/internal/security"
)

var (
	// ErrNoRows is returned when there is nothing to plot.
	ErrNoRows = errors.New("report: table has no rows")
	// ErrNotDir is returned when the output path exists but is a file.
	ErrNotDir = errors.New("report: output path is not a directory")
)

const histogramBins = 20

// Exporter writes one PNG per chart into a directory.
type Exporter struct {
	fs     fsutil.FileSystem
	dir    string
	Width  vg.Length
	Height vg.Length
}

// NewExporter creates an exporter writing into dir through fsys. The
// caller validates dir.
func NewExporter(fsys fsutil.FileSystem, dir string) *Exporter {
	return &Exporter{fs: fsys, dir: dir, Width: 10 * vg.Inch, Height: 5 * vg.Inch}
}

// chart is one plot waiting to be written.
type chart struct {
	name string
	plot *plot.Plot
}

// Export draws the grouped means, the count series and the count
// histogram of t and returns the written paths in order. The hourly
// chart is only drawn for hourly tables.
func (e *Exporter) Export(t *rental.Table) ([]string, error) {
	if t.Len() == 0 {
		return nil, ErrNoRows
	}
	rows := t.Records()

	keys := []filter.GroupKey{filter.BySeason, filter.ByWeather, filter.ByMonth, filter.ByWeekday}
	if t.Hourly() {
		keys = append(keys, filter.ByHour)
	}

	colors := generateColors(len(keys) + 2)
	var charts []chart
	for i, key := range keys {
		p, err := groupPlot(filter.GroupMean(rows, key), key, colors[i])
		if err != nil {
			return nil, fmt.Errorf("plot %s means: %w", key, err)
		}
		charts = append(charts, chart{name: "mean_by_" + string(key), plot: p})
	}

	series, err := seriesPlot(rows, t.Hourly(), colors[len(keys)])
	if err != nil {
		return nil, fmt.Errorf("plot count series: %w", err)
	}
	charts = append(charts, chart{name: "count_series", plot: series})

	hist, err := histogramPlot(filter.Histogram(rows, histogramBins), colors[len(keys)+1])
	if err != nil {
		return nil, fmt.Errorf("plot count histogram: %w", err)
	}
	charts = append(charts, chart{name: "count_histogram", plot: hist})

	if e.fs.Exists(e.dir) {
		info, err := e.fs.Stat(e.dir)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.dir, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%w: %s", ErrNotDir, e.dir)
		}
	}
	if err := e.fs.MkdirAll(e.dir, 0755); err != nil {
		return nil, fmt.Errorf("create %s: %w", e.dir, err)
	}
	paths := make([]string, 0, len(charts))
	for _, c := range charts {
		path := filepath.Join(e.dir, security.SanitizeFilename(c.name)+".png")
		if err := e.save(c.plot, path); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	monitoring.Logf("exported %d charts for %d rows to %s", len(paths), t.Len(), e.dir)
	return paths, nil
}

func (e *Exporter) save(p *plot.Plot, path string) error {
	wt, err := p.WriterTo(e.Width, e.Height, "png")
	if err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	f, err := e.fs.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := wt.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func barPlot(title, xLabel, yLabel string, labels []string, values []float64, c color.Color) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel

	bars, err := plotter.NewBarChart(plotter.Values(values), vg.Points(18))
	if err != nil {
		return nil, err
	}
	bars.Color = c
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(labels...)
	return p, nil
}

func groupPlot(groups filter.Groups, key filter.GroupKey, c color.Color) (*plot.Plot, error) {
	values := make([]float64, len(groups))
	for i, g := range groups {
		values[i] = g.Mean
	}
	return barPlot("Mean rentals per "+string(key), string(key), "mean rentals", groups.Labels(), values, c)
}

func histogramPlot(bins []filter.Bin, c color.Color) (*plot.Plot, error) {
	labels := make([]string, len(bins))
	values := make([]float64, len(bins))
	for i, b := range bins {
		labels[i] = fmt.Sprintf("%.0f", b.Lower)
		values[i] = float64(b.Count)
	}
	p, err := barPlot("Distribution of rental counts", "rentals (bin start)", "rows", labels, values, c)
	if err != nil {
		return nil, err
	}
	p.X.Tick.Label.Rotation = 0.8
	p.X.Tick.Label.XAlign = -1
	return p, nil
}

// seriesPlot draws counts against time. Hourly rows are placed at their
// hour within the day.
func seriesPlot(rows []rental.Record, hourly bool, c color.Color) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Rentals over time"
	p.X.Label.Text = "date"
	p.Y.Label.Text = "rentals"
	p.X.Tick.Marker = plot.TimeTicks{Format: rental.DateLayout}

	pts := make(plotter.XYs, len(rows))
	for i, r := range rows {
		at := r.Date
		if hourly {
			at = at.Add(time.Duration(r.Hour) * time.Hour)
		}
		pts[i] = plotter.XY{X: float64(at.Unix()), Y: float64(r.Count)}
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.Color = c
	line.Width = vg.Points(1)
	p.Add(line)
	return p, nil
}
