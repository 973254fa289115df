package units

// The bike-sharing dataset stores temperature as (t - TempMinC) / (TempMaxC - TempMinC)
// and humidity as a fraction of 100%. Filtering always happens on these
// normalized values; conversion is done at the input and display boundary.
const (
	TempMinC = -8.0
	TempMaxC = 39.0
)

const tempSpanC = TempMaxC - TempMinC

// CelsiusToNormalized maps a temperature in °C to the dataset scale.
func CelsiusToNormalized(c float64) float64 {
	return (c - TempMinC) / tempSpanC
}

// NormalizedToCelsius maps a dataset temperature back to °C.
func NormalizedToCelsius(n float64) float64 {
	return n*tempSpanC + TempMinC
}

// CelsiusDeltaToNormalized converts a temperature difference (a band
// radius) without applying the offset.
func CelsiusDeltaToNormalized(dc float64) float64 {
	return dc / tempSpanC
}

// PercentToNormalized maps relative humidity in % to the dataset scale.
func PercentToNormalized(p float64) float64 {
	return p / 100
}

// NormalizedToPercent maps dataset humidity back to %.
func NormalizedToPercent(n float64) float64 {
	return n * 100
}

// ConvertTemperature converts a normalized temperature to the target unit
// system. Unknown systems return the normalized value.
func ConvertTemperature(normalized float64, targetUnits string) float64 {
	switch targetUnits {
	case Metric:
		return NormalizedToCelsius(normalized)
	default:
		return normalized
	}
}

// ConvertHumidity converts a normalized humidity to the target unit system.
func ConvertHumidity(normalized float64, targetUnits string) float64 {
	switch targetUnits {
	case Metric:
		return NormalizedToPercent(normalized)
	default:
		return normalized
	}
}
