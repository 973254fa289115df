// Package filter selects rental records matching a set of predicates and
// summarizes them. Every function here is pure: the same table and Spec
// always give the same Result.
package filter

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/banshee-data/bikeshare.report/internal/rental"
)

// WeatherClass buckets days by normalized temperature.
type WeatherClass string

const (
	Hot    WeatherClass = "Hot"
	Normal WeatherClass = "Normal"
	Cold   WeatherClass = "Cold"
)

// Weather class thresholds on the normalized temperature scale.
// Hot is strictly above HotAbove, Cold strictly below ColdBelow, and Normal
// is the closed interval between them.
const (
	HotAbove  = 0.3
	ColdBelow = 0.1
)

// WeatherClasses lists the classes in display order.
var WeatherClasses = []WeatherClass{Hot, Normal, Cold}

// ParseWeatherClass accepts the exact class names.
func ParseWeatherClass(s string) (WeatherClass, bool) {
	for _, c := range WeatherClasses {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Contains reports whether a normalized temperature belongs to the class.
func (c WeatherClass) Contains(temp float64) bool {
	switch c {
	case Hot:
		return temp > HotAbove
	case Cold:
		return temp < ColdBelow
	case Normal:
		return temp >= ColdBelow && temp <= HotAbove
	default:
		return false
	}
}

// bandEpsilon absorbs rounding in Center±Radius so values on a bound
// stay inside the band.
const bandEpsilon = 1e-9

// Band is the inclusive range [Center-Radius, Center+Radius].
type Band struct {
	Center float64 `json:"center"`
	Radius float64 `json:"radius"`
}

// Contains reports whether v lies within the band, bounds included.
func (b Band) Contains(v float64) bool {
	return v >= b.Center-b.Radius-bandEpsilon && v <= b.Center+b.Radius+bandEpsilon
}

func (b Band) String() string {
	return fmt.Sprintf("[%g, %g]", b.Center-b.Radius, b.Center+b.Radius)
}

// Spec is one analysis request. A nil field imposes no constraint; all
// non-nil fields are combined with AND.
type Spec struct {
	Season          *string       `json:"season,omitempty"`
	Month           *int          `json:"month,omitempty"`
	Weekday         *int          `json:"weekday,omitempty"`
	Hour            *int          `json:"hour,omitempty"`
	DayOfMonth      *int          `json:"day,omitempty"`
	TemperatureBand *Band         `json:"temperature_band,omitempty"`
	HumidityBand    *Band         `json:"humidity_band,omitempty"`
	WeatherClass    *WeatherClass `json:"weather_class,omitempty"`
	Year            *int          `json:"year,omitempty"`
	WeatherLabel    *string       `json:"weather,omitempty"`
}

// Ptr returns a pointer to v, for filling Spec fields inline.
func Ptr[T any](v T) *T {
	return &v
}

// Match reports whether r satisfies every active predicate. hourly tells
// whether the record came from an hourly table; an Hour predicate never
// matches daily records.
func (s Spec) Match(r rental.Record, hourly bool) bool {
	if s.Season != nil && r.Season != *s.Season {
		return false
	}
	if s.Month != nil && r.Month != *s.Month {
		return false
	}
	if s.Weekday != nil && r.Weekday != *s.Weekday {
		return false
	}
	if s.Hour != nil && (!hourly || r.Hour != *s.Hour) {
		return false
	}
	if s.DayOfMonth != nil && r.DayOfMonth() != *s.DayOfMonth {
		return false
	}
	if s.TemperatureBand != nil && !s.TemperatureBand.Contains(r.Temp) {
		return false
	}
	if s.HumidityBand != nil && !s.HumidityBand.Contains(r.Hum) {
		return false
	}
	if s.WeatherClass != nil && !s.WeatherClass.Contains(r.Temp) {
		return false
	}
	if s.Year != nil && r.Year() != *s.Year {
		return false
	}
	if s.WeatherLabel != nil && r.Weather != *s.WeatherLabel {
		return false
	}
	return true
}

// IsEmpty reports whether no predicate is active.
func (s Spec) IsEmpty() bool {
	return s == Spec{}
}

// Validate reports values outside the domains of their fields. All
// problems are returned together.
func (s Spec) Validate() error {
	var result *multierror.Error

	if s.Season != nil {
		if _, ok := rental.SeasonCode(*s.Season); !ok {
			result = multierror.Append(result, fmt.Errorf("season %q is not one of %s", *s.Season, strings.Join(rental.SeasonNames(), ", ")))
		}
	}
	if s.WeatherLabel != nil {
		if _, ok := rental.WeatherCode(*s.WeatherLabel); !ok {
			result = multierror.Append(result, fmt.Errorf("weather %q is not one of %s", *s.WeatherLabel, strings.Join(rental.WeatherNames(), ", ")))
		}
	}
	result = checkRange(result, "month", s.Month, 1, 12)
	result = checkRange(result, "weekday", s.Weekday, 0, 6)
	result = checkRange(result, "hour", s.Hour, 0, 23)
	result = checkRange(result, "day", s.DayOfMonth, 1, 31)
	if s.TemperatureBand != nil && s.TemperatureBand.Radius < 0 {
		result = multierror.Append(result, fmt.Errorf("temperature radius must be non-negative, got %g", s.TemperatureBand.Radius))
	}
	if s.HumidityBand != nil && s.HumidityBand.Radius < 0 {
		result = multierror.Append(result, fmt.Errorf("humidity radius must be non-negative, got %g", s.HumidityBand.Radius))
	}
	if s.WeatherClass != nil {
		if _, ok := ParseWeatherClass(string(*s.WeatherClass)); !ok {
			result = multierror.Append(result, fmt.Errorf("weather class %q is not one of Hot, Normal, Cold", *s.WeatherClass))
		}
	}

	return result.ErrorOrNil()
}

func checkRange(result *multierror.Error, name string, v *int, lo, hi int) *multierror.Error {
	if v != nil && (*v < lo || *v > hi) {
		return multierror.Append(result, fmt.Errorf("%s must be between %d and %d, got %d", name, lo, hi, *v))
	}
	return result
}

// String lists the active predicates, e.g. "month=1 day=1 temp=[0.1, 0.3]".
func (s Spec) String() string {
	if s.IsEmpty() {
		return "all"
	}
	var parts []string
	if s.Season != nil {
		parts = append(parts, "season="+*s.Season)
	}
	if s.Year != nil {
		parts = append(parts, fmt.Sprintf("year=%d", *s.Year))
	}
	if s.Month != nil {
		parts = append(parts, fmt.Sprintf("month=%d", *s.Month))
	}
	if s.DayOfMonth != nil {
		parts = append(parts, fmt.Sprintf("day=%d", *s.DayOfMonth))
	}
	if s.Weekday != nil {
		parts = append(parts, fmt.Sprintf("weekday=%d", *s.Weekday))
	}
	if s.Hour != nil {
		parts = append(parts, fmt.Sprintf("hour=%d", *s.Hour))
	}
	if s.TemperatureBand != nil {
		parts = append(parts, "temp="+s.TemperatureBand.String())
	}
	if s.HumidityBand != nil {
		parts = append(parts, "hum="+s.HumidityBand.String())
	}
	if s.WeatherClass != nil {
		parts = append(parts, "class="+string(*s.WeatherClass))
	}
	if s.WeatherLabel != nil {
		parts = append(parts, "weather="+*s.WeatherLabel)
	}
	return strings.Join(parts, " ")
}
