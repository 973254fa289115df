// Package rental holds the bike-rental record model, the fixed code-to-label
// tables, and the CSV loader that produces an immutable Table.
package rental

// Season names
const (
	Spring = "Spring"
	Summer = "Summer"
	Fall   = "Fall"
	Winter = "Winter"
)

// Weather names
const (
	Clear     = "Clear"
	Mist      = "Mist"
	LightRain = "Light Rain"
	HeavyRain = "Heavy Rain"
)

// seasonNames and weatherNames are indexed by code-1. Never mutated.
var (
	seasonNames  = [...]string{Spring, Summer, Fall, Winter}
	weatherNames = [...]string{Clear, Mist, LightRain, HeavyRain}
)

var monthNames = [...]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var weekdayNames = [...]string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

// SeasonLabel returns the season name for a code in 1..4.
// Codes outside that range have no label.
func SeasonLabel(code int) (string, bool) {
	return lookup(seasonNames[:], code)
}

// WeatherLabel returns the weather name for a code in 1..4.
func WeatherLabel(code int) (string, bool) {
	return lookup(weatherNames[:], code)
}

// SeasonCode is the inverse of SeasonLabel.
func SeasonCode(label string) (int, bool) {
	return reverse(seasonNames[:], label)
}

// WeatherCode is the inverse of WeatherLabel.
func WeatherCode(label string) (int, bool) {
	return reverse(weatherNames[:], label)
}

// SeasonNames returns the season labels in code order.
func SeasonNames() []string {
	out := make([]string, len(seasonNames))
	copy(out, seasonNames[:])
	return out
}

// WeatherNames returns the weather labels in code order.
func WeatherNames() []string {
	out := make([]string, len(weatherNames))
	copy(out, weatherNames[:])
	return out
}

// MonthName returns the English month name for m in 1..12, or "" otherwise.
func MonthName(m int) string {
	name, _ := lookup(monthNames[:], m)
	return name
}

// WeekdayName returns the day name for the dataset's weekday encoding,
// where 0 is Sunday.
func WeekdayName(d int) string {
	name, _ := lookup(weekdayNames[:], d+1)
	return name
}

func lookup(names []string, code int) (string, bool) {
	if code < 1 || code > len(names) {
		return "", false
	}
	return names[code-1], true
}

func reverse(names []string, label string) (int, bool) {
	for i, n := range names {
		if n == label {
			return i + 1, true
		}
	}
	return 0, false
}
