package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/banshee-data/bikeshare.report/internal/config"
	"github.com/banshee-data/bikeshare.report/internal/filter"
	"github.com/banshee-data/bikeshare.report/internal/rental"
	"github.com/banshee-data/bikeshare.report/internal/units"
)

// filterFlags mirror the dashboard inputs. Temperatures are in °C and
// humidity in %; only flags given on the command line become predicates.
type filterFlags struct {
	season, weather, class    string
	month, weekday, hour, day int
	year                      int
	tempC, humPct             float64
	tempRadiusC, humRadiusPct float64
}

func (f *filterFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.season, "season", "", "Season: Spring, Summer, Fall or Winter")
	fs.StringVar(&f.weather, "weather", "", "Weather: Clear, Mist, Light Rain or Heavy Rain")
	fs.StringVar(&f.class, "class", "", "Temperature class: Hot, Normal or Cold")
	fs.IntVar(&f.month, "month", 0, "Month (1-12)")
	fs.IntVar(&f.weekday, "weekday", 0, "Weekday (0=Sunday)")
	fs.IntVar(&f.hour, "hour", 0, "Hour of day (hourly data only)")
	fs.IntVar(&f.day, "day", 0, "Day of month (1-31)")
	fs.IntVar(&f.year, "year", 0, "Calendar year")
	fs.Float64Var(&f.tempC, "temp", 0, "Temperature in °C")
	fs.Float64Var(&f.humPct, "hum", 0, "Relative humidity in %")
	fs.Float64Var(&f.tempRadiusC, "temp-radius", -1, "Temperature tolerance in °C (default temp_radius_c)")
	fs.Float64Var(&f.humRadiusPct, "hum-radius", -1, "Humidity tolerance in % (default hum_radius_pct)")
}

// spec builds the predicates for the flags that were set.
func (f *filterFlags) spec(fs *flag.FlagSet, cfg *config.DashboardConfig) filter.Spec {
	tempRadius, humRadius := cfg.GetTempRadiusC(), cfg.GetHumRadiusPct()
	if f.tempRadiusC >= 0 {
		tempRadius = f.tempRadiusC
	}
	if f.humRadiusPct >= 0 {
		humRadius = f.humRadiusPct
	}

	var spec filter.Spec
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "season":
			spec.Season = filter.Ptr(f.season)
		case "weather":
			spec.WeatherLabel = filter.Ptr(f.weather)
		case "class":
			spec.WeatherClass = filter.Ptr(filter.WeatherClass(f.class))
		case "month":
			spec.Month = filter.Ptr(f.month)
		case "weekday":
			spec.Weekday = filter.Ptr(f.weekday)
		case "hour":
			spec.Hour = filter.Ptr(f.hour)
		case "day":
			spec.DayOfMonth = filter.Ptr(f.day)
		case "year":
			spec.Year = filter.Ptr(f.year)
		case "temp":
			spec.TemperatureBand = &filter.Band{
				Center: units.CelsiusToNormalized(f.tempC),
				Radius: units.CelsiusDeltaToNormalized(tempRadius),
			}
		case "hum":
			spec.HumidityBand = &filter.Band{
				Center: units.PercentToNormalized(f.humPct),
				Radius: units.PercentToNormalized(humRadius),
			}
		}
	})
	return spec
}

// runSummary applies one filter and prints the row count and mean.
func runSummary(args []string, w io.Writer) error {
	var common commonFlags
	var ff filterFlags
	fs := flag.NewFlagSet("summary", flag.ContinueOnError)
	common.register(fs)
	ff.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := common.settings(fs)
	if err != nil {
		return err
	}
	spec := ff.spec(fs, cfg)
	if err := spec.Validate(); err != nil {
		return fmt.Errorf("invalid filter: %w", err)
	}

	table, err := rental.LoadFile(cfg.GetDataPath())
	if err != nil {
		return err
	}
	res := filter.Apply(table, spec)

	fmt.Fprintf(w, "filter: %s\n", spec)
	fmt.Fprintf(w, "rows: %d\n", res.Len())
	if mean, ok := res.Mean(); ok {
		fmt.Fprintf(w, "mean: %.2f\n", mean)
	} else {
		fmt.Fprintln(w, "mean: no data")
	}
	return nil
}
