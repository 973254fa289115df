package dashboard

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/bikeshare.report/internal/filter"
	"github.com/banshee-data/bikeshare.report/internal/httputil"
	"github.com/banshee-data/bikeshare.report/internal/rental"
)

const histogramBins = 20

func (ws *WebServer) initOpts(title string) opts.Initialization {
	return opts.Initialization{PageTitle: title, Width: "100%", Height: "480px", AssetsHost: ws.assetsHost}
}

// subtitleFor appends the no-data notice to an empty chart's subtitle.
func subtitleFor(subtitle string, empty bool) string {
	if empty {
		return subtitle + " (no data)"
	}
	return subtitle
}

func (ws *WebServer) renderBar(w http.ResponseWriter, d *BarChartData) {
	y := make([]opts.BarData, len(d.Values))
	for i, v := range d.Values {
		y[i] = opts.BarData{Value: v}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(ws.initOpts(d.Title)),
		charts.WithTitleOpts(opts.Title{Title: d.Title, Subtitle: subtitleFor(d.Subtitle, d.Empty())}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: d.XName, NameLocation: "middle", NameGap: 30}),
		charts.WithYAxisOpts(opts.YAxis{Name: d.Series}),
	)
	bar.SetXAxis(d.Labels).
		AddSeries(d.Series, y,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render chart: %v", err))
		return
	}
	httputil.WriteHTML(w, http.StatusOK, buf.Bytes())
}

func (ws *WebServer) renderLine(w http.ResponseWriter, d *LineChartData) {
	y := make([]opts.LineData, len(d.Counts))
	for i, c := range d.Counts {
		y[i] = opts.LineData{Value: c}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(ws.initOpts(d.Title)),
		charts.WithTitleOpts(opts.Title{Title: d.Title, Subtitle: subtitleFor(d.Subtitle, d.Empty())}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "date", NameLocation: "middle", NameGap: 30}),
		charts.WithYAxisOpts(opts.YAxis{Name: "rentals"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
	)
	line.SetXAxis(d.Labels).AddSeries("rentals", y)

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render chart: %v", err))
		return
	}
	httputil.WriteHTML(w, http.StatusOK, buf.Bytes())
}

// handleSeasonChart draws mean rentals per season over the whole table.
func (ws *WebServer) handleSeasonChart(w http.ResponseWriter, r *http.Request) {
	res := ws.apply("chart_season", filter.Spec{})
	ws.renderBar(w, PrepareGroupBars(res.Group(filter.BySeason), filter.BySeason, "Rentals per Season", ws.table.Source()))
}

// handleMonthChart draws the daily counts of one month.
func (ws *WebServer) handleMonthChart(w http.ResponseWriter, r *http.Request) {
	in := parseMonthInput(r.URL.Query())
	res := ws.apply("chart_month", in.Spec())
	title := "Rentals in " + rental.MonthName(in.Month)
	ws.renderLine(w, PrepareSeriesLine(res.Rows, ws.table.Hourly(), title, in.Spec().String()))
}

// handleDayChart draws the rows matching the day view's inputs.
func (ws *WebServer) handleDayChart(w http.ResponseWriter, r *http.Request) {
	in := parseDayInput(r.URL.Query(), ws.limits)
	res := ws.apply("chart_day", in.Spec())
	title := fmt.Sprintf("Daily rentals for %.1f°C and %.0f%% humidity", in.TempC, in.HumPct)
	subtitle := fmt.Sprintf("%s %d, ±%g°C, ±%g%%", rental.MonthName(in.Month), in.Day, in.TempRadiusC, in.HumRadiusPct)
	ws.renderLine(w, PrepareSeriesLine(res.Rows, ws.table.Hourly(), title, subtitle))
}

// handleWeatherChart draws mean rentals per weather label within a class.
func (ws *WebServer) handleWeatherChart(w http.ResponseWriter, r *http.Request) {
	in := parseWeatherInput(r.URL.Query())
	res := ws.apply("chart_weather", in.Spec())
	title := fmt.Sprintf("Rentals per Weather on %s days", in.Class)
	ws.renderBar(w, PrepareGroupBars(res.Group(filter.ByWeather), filter.ByWeather, title, in.Spec().String()))
}

// handleHourChart draws a histogram of counts at one hour of the day.
func (ws *WebServer) handleHourChart(w http.ResponseWriter, r *http.Request) {
	in := parseHourInput(r.URL.Query())
	title := fmt.Sprintf("Rentals at %02d:00", in.Hour)
	if !ws.table.Hourly() {
		ws.renderBar(w, PrepareHistogramBars(nil, title, "hourly data required"))
		return
	}
	res := ws.apply("chart_hour", in.Spec())
	ws.renderBar(w, PrepareHistogramBars(filter.Histogram(res.Rows, histogramBins), title, in.Spec().String()))
}

// handleGroupChart draws mean rentals over the whole table grouped by any
// supported key, e.g. /chart/groups?by=weekday.
func (ws *WebServer) handleGroupChart(w http.ResponseWriter, r *http.Request) {
	key, ok := filter.ParseGroupKey(r.URL.Query().Get("by"))
	if !ok {
		key = filter.BySeason
	}
	res := ws.apply("chart_groups", filter.Spec{})
	ws.renderBar(w, PrepareGroupBars(res.Group(key), key, "Rentals per "+string(key), ws.table.Source()))
}
