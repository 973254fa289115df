// Package units converts between the dataset's normalized weather scales
// and the human units the dashboard accepts and displays.
package units

import "strings"

// Unit systems accepted by the JSON API. Metric means °C for temperature
// and % for humidity.
const (
	Normalized = "normalized"
	Metric     = "metric"
)

// ValidUnits contains all valid unit systems
var ValidUnits = []string{Normalized, Metric}

// IsValid checks if the given unit system is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return strings.Join(ValidUnits, ", ")
}
