package dashboard

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/banshee-data/bikeshare.report/internal/filter"
	"github.com/banshee-data/bikeshare.report/internal/httputil"
	"github.com/banshee-data/bikeshare.report/internal/monitoring"
	"github.com/banshee-data/bikeshare.report/internal/rental"
	"github.com/banshee-data/bikeshare.report/internal/units"
)

// NoDataMessage is shown when a filter matches no rows.
const NoDataMessage = "No data matches the given parameters."

type navItem struct {
	Path, Label string
	Active      bool
}

var navigation = []navItem{
	{Path: "/", Label: "Overview"},
	{Path: "/season", Label: "Rentals by Season"},
	{Path: "/month", Label: "Rentals by Month"},
	{Path: "/day", Label: "Daily Rentals"},
	{Path: "/weather", Label: "Rentals by Weather"},
	{Path: "/hour", Label: "Rentals by Hour"},
}

type option struct {
	Value, Label string
	Selected     bool
}

func options(values, labels []string, selected string) []option {
	out := make([]option, len(values))
	for i, v := range values {
		out[i] = option{Value: v, Label: labels[i], Selected: v == selected}
	}
	return out
}

func monthOptions(selected int) []option {
	values := make([]string, 12)
	labels := make([]string, 12)
	for m := 1; m <= 12; m++ {
		values[m-1] = strconv.Itoa(m)
		labels[m-1] = rental.MonthName(m)
	}
	return options(values, labels, strconv.Itoa(selected))
}

// pageData is what every page template receives.
type pageData struct {
	Title    string
	Nav      []navItem
	Source   string
	Rows     int
	Hourly   bool
	Summary  string
	NoData   string
	Notice   string
	ChartURL string
	View     interface{}
}

func (ws *WebServer) newPage(title, path string) *pageData {
	nav := make([]navItem, len(navigation))
	copy(nav, navigation)
	for i := range nav {
		nav[i].Active = nav[i].Path == path
	}
	return &pageData{
		Title:  title,
		Nav:    nav,
		Source: ws.table.Source(),
		Rows:   ws.table.Len(),
		Hourly: ws.table.Hourly(),
	}
}

// summarize fills the mean line or the no-data message.
// summarize sets the summary line and chart of a filtered view. An empty
// subset gets the no-data message and no chart.
func (p *pageData) summarize(label string, res filter.Result, chartURL string) {
	mean, ok := res.Mean()
	if !ok {
		p.NoData = NoDataMessage
		return
	}
	p.Summary = FormatSummary(label, mean, res.Len())
	p.ChartURL = chartURL
}

// FormatSummary renders a mean with two decimals.
func FormatSummary(label string, mean float64, n int) string {
	return fmt.Sprintf("Average rentals %s: %.2f (%d rows)", label, mean, n)
}

func (ws *WebServer) render(w http.ResponseWriter, name string, data *pageData) {
	var buf bytes.Buffer
	if err := ws.templates.ExecuteTemplate(&buf, name, data); err != nil {
		monitoring.Logf("render %s: %v", name, err)
		http.Error(w, "Error rendering page: "+err.Error(), http.StatusInternalServerError)
		return
	}
	httputil.WriteHTML(w, http.StatusOK, buf.Bytes())
}

type recordRow struct {
	Date, Season, Weather string
	Hour                  int
	TempC, HumPct         string
	Casual, Registered    int
	Count                 int
}

type overviewView struct {
	Records            []recordRow
	Page, Pages        int
	PrevPage, NextPage int
}

func (ws *WebServer) handleOverview(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	size := ws.limits.PageSize
	pages := max(1, (ws.table.Len()+size-1)/size)
	page := clampInt(r.URL.Query(), "page", 1, 1, pages)

	records := ws.table.Page((page-1)*size, size)
	rows := make([]recordRow, len(records))
	for i, rec := range records {
		rows[i] = recordRow{
			Date:       rec.DateString(),
			Season:     rec.Season,
			Weather:    rec.Weather,
			Hour:       rec.Hour,
			TempC:      fmt.Sprintf("%.1f", units.NormalizedToCelsius(rec.Temp)),
			HumPct:     fmt.Sprintf("%.0f", units.NormalizedToPercent(rec.Hum)),
			Casual:     rec.Casual,
			Registered: rec.Registered,
			Count:      rec.Count,
		}
	}

	data := ws.newPage("Bike Rental Overview", "/")
	data.View = overviewView{
		Records:  rows,
		Page:     page,
		Pages:    pages,
		PrevPage: page - 1,
		NextPage: min(page+1, pages),
	}
	ws.render(w, "overview.html", data)
}

type seasonView struct {
	Seasons []option
}

func (ws *WebServer) handleSeason(w http.ResponseWriter, r *http.Request) {
	in := parseSeasonInput(r.URL.Query())
	res := ws.apply("season", in.Spec())

	data := ws.newPage("Rentals by Season", "/season")
	data.summarize("in "+in.Season, res, "/chart/season")
	names := rental.SeasonNames()
	data.View = seasonView{Seasons: options(names, names, in.Season)}
	ws.render(w, "season.html", data)
}

type monthView struct {
	Months []option
}

func (ws *WebServer) handleMonth(w http.ResponseWriter, r *http.Request) {
	in := parseMonthInput(r.URL.Query())
	res := ws.apply("month", in.Spec())

	data := ws.newPage("Rentals by Month", "/month")
	data.summarize("in "+rental.MonthName(in.Month), res,
		"/chart/month?"+url.Values{"month": {strconv.Itoa(in.Month)}}.Encode())
	data.View = monthView{Months: monthOptions(in.Month)}
	ws.render(w, "month.html", data)
}

type dayView struct {
	Input  DayInput
	Limits Limits
	Months []option
}

func (ws *WebServer) handleDay(w http.ResponseWriter, r *http.Request) {
	in := parseDayInput(r.URL.Query(), ws.limits)
	res := ws.apply("day", in.Spec())

	data := ws.newPage("Daily Rentals", "/day")
	data.summarize(fmt.Sprintf("on %s %d", rental.MonthName(in.Month), in.Day), res,
		"/chart/day?"+dayQuery(in).Encode())
	data.View = dayView{Input: in, Limits: ws.limits, Months: monthOptions(in.Month)}
	ws.render(w, "day.html", data)
}

func dayQuery(in DayInput) url.Values {
	return url.Values{
		"day":   {strconv.Itoa(in.Day)},
		"month": {strconv.Itoa(in.Month)},
		"temp":  {strconv.FormatFloat(in.TempC, 'f', -1, 64)},
		"hum":   {strconv.FormatFloat(in.HumPct, 'f', -1, 64)},
	}
}

type weatherView struct {
	Classes  []option
	Weathers []option
}

func (ws *WebServer) handleWeather(w http.ResponseWriter, r *http.Request) {
	in := parseWeatherInput(r.URL.Query())
	res := ws.apply("weather", in.Spec())

	label := "on " + string(in.Class) + " days"
	if in.Weather != allWeather {
		label += " with " + in.Weather + " weather"
	}
	data := ws.newPage("Rentals by Weather", "/weather")
	data.summarize(label, res,
		"/chart/weather?"+url.Values{"class": {string(in.Class)}, "weather": {in.Weather}}.Encode())
	classes := weatherClassNames()
	weathers := weatherOptions()
	data.View = weatherView{
		Classes:  options(classes, classes, string(in.Class)),
		Weathers: options(weathers, weathers, in.Weather),
	}
	ws.render(w, "weather.html", data)
}

type hourView struct {
	Hours []option
}

func (ws *WebServer) handleHour(w http.ResponseWriter, r *http.Request) {
	in := parseHourInput(r.URL.Query())

	data := ws.newPage("Rentals by Hour", "/hour")
	values := make([]string, 24)
	labels := make([]string, 24)
	for h := range values {
		values[h] = strconv.Itoa(h)
		labels[h] = fmt.Sprintf("%02d:00", h)
	}
	data.View = hourView{Hours: options(values, labels, strconv.Itoa(in.Hour))}

	if !ws.table.Hourly() {
		data.Notice = "The loaded dataset has one row per day; load an hourly file (with an hr column) to use this view."
		ws.render(w, "hour.html", data)
		return
	}
	res := ws.apply("hour", in.Spec())
	data.summarize(fmt.Sprintf("at %02d:00", in.Hour), res,
		"/chart/hour?"+url.Values{"hour": {strconv.Itoa(in.Hour)}}.Encode())
	ws.render(w, "hour.html", data)
}
