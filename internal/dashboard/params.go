package dashboard

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/banshee-data/bikeshare.report/internal/config"
	"github.com/banshee-data/bikeshare.report/internal/filter"
	"github.com/banshee-data/bikeshare.report/internal/rental"
	"github.com/banshee-data/bikeshare.report/internal/units"
)

// Limits are the bounds applied to form inputs, in display units.
type Limits struct {
	TempMinC, TempMaxC   float64
	HumMinPct, HumMaxPct float64
	TempRadiusC          float64
	HumRadiusPct         float64
	PageSize             int
}

// NewLimits derives input bounds from the config. With bounds_from_data
// the temperature and humidity bounds are the dataset extremes, widened to
// whole degrees and percent.
func NewLimits(cfg *config.DashboardConfig, t *rental.Table) Limits {
	l := Limits{
		TempMinC:     cfg.GetTempMinC(),
		TempMaxC:     cfg.GetTempMaxC(),
		HumMinPct:    cfg.GetHumMinPct(),
		HumMaxPct:    cfg.GetHumMaxPct(),
		TempRadiusC:  cfg.GetTempRadiusC(),
		HumRadiusPct: cfg.GetHumRadiusPct(),
		PageSize:     cfg.GetPageSize(),
	}
	if !cfg.GetBoundsFromData() {
		return l
	}
	if lo, hi, ok := t.Range(func(r rental.Record) float64 { return r.Temp }); ok {
		l.TempMinC = math.Floor(units.NormalizedToCelsius(lo))
		l.TempMaxC = math.Ceil(units.NormalizedToCelsius(hi))
	}
	if lo, hi, ok := t.Range(func(r rental.Record) float64 { return r.Hum }); ok {
		l.HumMinPct = math.Floor(units.NormalizedToPercent(lo))
		l.HumMaxPct = math.Ceil(units.NormalizedToPercent(hi))
	}
	return l
}

// clampInt reads an integer field. Missing or malformed input gives def;
// anything else is clamped to [lo, hi].
func clampInt(q url.Values, name string, def, lo, hi int) int {
	v, err := strconv.Atoi(strings.TrimSpace(q.Get(name)))
	if err != nil {
		v = def
	}
	return min(max(v, lo), hi)
}

// clampFloat is clampInt for decimal fields. NaN and infinities count as
// malformed.
func clampFloat(q url.Values, name string, def, lo, hi float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(q.Get(name)), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		v = def
	}
	return math.Min(math.Max(v, lo), hi)
}

// pick returns the field value when it is one of options, or options[0].
func pick(q url.Values, name string, options []string) string {
	v := q.Get(name)
	for _, o := range options {
		if v == o {
			return v
		}
	}
	return options[0]
}

// allWeather is the "no constraint" choice of the weather select.
const allWeather = "All"

// SeasonInput is the season view form.
type SeasonInput struct {
	Season string
}

func parseSeasonInput(q url.Values) SeasonInput {
	return SeasonInput{Season: pick(q, "season", rental.SeasonNames())}
}

func (in SeasonInput) Spec() filter.Spec {
	return filter.Spec{Season: filter.Ptr(in.Season)}
}

// MonthInput is the month view form.
type MonthInput struct {
	Month int
}

func parseMonthInput(q url.Values) MonthInput {
	return MonthInput{Month: clampInt(q, "month", 1, 1, 12)}
}

func (in MonthInput) Spec() filter.Spec {
	return filter.Spec{Month: filter.Ptr(in.Month)}
}

// DayInput is the day view form. Temperature is in °C and humidity in %.
type DayInput struct {
	Day, Month   int
	TempC        float64
	HumPct       float64
	TempRadiusC  float64
	HumRadiusPct float64
}

const (
	defaultDayTempC  = 20
	defaultDayHumPct = 50
)

func parseDayInput(q url.Values, l Limits) DayInput {
	return DayInput{
		Day:          clampInt(q, "day", 1, 1, 31),
		Month:        clampInt(q, "month", 1, 1, 12),
		TempC:        clampFloat(q, "temp", math.Min(math.Max(defaultDayTempC, l.TempMinC), l.TempMaxC), l.TempMinC, l.TempMaxC),
		HumPct:       clampFloat(q, "hum", math.Min(math.Max(defaultDayHumPct, l.HumMinPct), l.HumMaxPct), l.HumMinPct, l.HumMaxPct),
		TempRadiusC:  l.TempRadiusC,
		HumRadiusPct: l.HumRadiusPct,
	}
}

// Spec converts the display-unit bands to the dataset's normalized scale.
func (in DayInput) Spec() filter.Spec {
	return filter.Spec{
		Month:      filter.Ptr(in.Month),
		DayOfMonth: filter.Ptr(in.Day),
		TemperatureBand: &filter.Band{
			Center: units.CelsiusToNormalized(in.TempC),
			Radius: units.CelsiusDeltaToNormalized(in.TempRadiusC),
		},
		HumidityBand: &filter.Band{
			Center: units.PercentToNormalized(in.HumPct),
			Radius: units.PercentToNormalized(in.HumRadiusPct),
		},
	}
}

// WeatherInput is the weather view form. Weather is allWeather or a label.
type WeatherInput struct {
	Class   filter.WeatherClass
	Weather string
}

func weatherClassNames() []string {
	out := make([]string, len(filter.WeatherClasses))
	for i, c := range filter.WeatherClasses {
		out[i] = string(c)
	}
	return out
}

func weatherOptions() []string {
	return append([]string{allWeather}, rental.WeatherNames()...)
}

func parseWeatherInput(q url.Values) WeatherInput {
	return WeatherInput{
		Class:   filter.WeatherClass(pick(q, "class", weatherClassNames())),
		Weather: pick(q, "weather", weatherOptions()),
	}
}

func (in WeatherInput) Spec() filter.Spec {
	spec := filter.Spec{WeatherClass: filter.Ptr(in.Class)}
	if in.Weather != allWeather {
		spec.WeatherLabel = filter.Ptr(in.Weather)
	}
	return spec
}

// HourInput is the hour view form.
type HourInput struct {
	Hour int
}

func parseHourInput(q url.Values) HourInput {
	return HourInput{Hour: clampInt(q, "hour", 8, 0, 23)}
}

func (in HourInput) Spec() filter.Spec {
	return filter.Spec{Hour: filter.Ptr(in.Hour)}
}

// parseAPISpec reads raw normalized predicates for the JSON API. Unlike
// the forms, nothing is clamped: malformed numbers and out-of-domain
// values are all reported.
func parseAPISpec(q url.Values) (filter.Spec, error) {
	p := apiParser{q: q}
	spec := filter.Spec{
		Season:       p.text("season"),
		Month:        p.integer("month"),
		Weekday:      p.integer("weekday"),
		Hour:         p.integer("hour"),
		DayOfMonth:   p.integer("day"),
		Year:         p.integer("year"),
		WeatherLabel: p.text("weather"),
	}
	if c := p.text("class"); c != nil {
		spec.WeatherClass = filter.Ptr(filter.WeatherClass(*c))
	}
	spec.TemperatureBand = p.band("temp", "temp_radius")
	spec.HumidityBand = p.band("hum", "hum_radius")

	if err := p.err(); err != nil {
		return filter.Spec{}, err
	}
	return spec, spec.Validate()
}
