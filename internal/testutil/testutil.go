// Package testutil provides shared test helpers and rental table fixtures.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/banshee-data/bikeshare.report/internal/rental"
)

// AssertStatusCode checks that the response status code matches expected.
func AssertStatusCode(t testing.TB, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status code = %d, want %d", got, want)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// Get serves a GET request for target through h and returns the recorder.
func Get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

// Day returns midnight UTC of the given date.
func Day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func record(instant int, date time.Time, season, weather int, temp, hum float64, cnt int) rental.Record {
	s, _ := rental.SeasonLabel(season)
	w, _ := rental.WeatherLabel(weather)
	return rental.Record{
		Instant:     instant,
		Date:        date,
		SeasonCode:  season,
		Season:      s,
		YearIndex:   date.Year() - 2011,
		Month:       int(date.Month()),
		Weekday:     int(date.Weekday()),
		WorkingDay:  date.Weekday() != time.Saturday && date.Weekday() != time.Sunday,
		WeatherCode: weather,
		Weather:     w,
		Temp:        temp,
		ATemp:       temp,
		Hum:         hum,
		Count:       cnt,
		Registered:  cnt * 4 / 5,
		Casual:      cnt - cnt*4/5,
	}
}

// DailyTable is a small daily dataset with known aggregates:
//
//	Winter: 100, 300          mean 200   (January)
//	Spring: 1000, 2000, 3000  mean 2000  (April)
//	Summer: 5000              mean 5000  (July)
//	Fall:   4000, 6000        mean 5000  (October, 2012)
//
// Weather: Clear 100, 1000, 3000, 5000, 6000; Mist 300, 2000; Light Rain 4000.
// January 1st is 0.2 normalized (about 1.4°C) at 0.5 humidity.
func DailyTable() *rental.Table {
	return rental.NewTable([]rental.Record{
		record(1, Day(2011, time.January, 1), 4, 1, 0.2, 0.5, 100),
		record(2, Day(2011, time.January, 2), 4, 2, 0.05, 0.9, 300),
		record(3, Day(2011, time.April, 10), 1, 1, 0.4, 0.6, 1000),
		record(4, Day(2011, time.April, 11), 1, 2, 0.45, 0.7, 2000),
		record(5, Day(2011, time.April, 12), 1, 1, 0.5, 0.4, 3000),
		record(6, Day(2011, time.July, 4), 2, 1, 0.8, 0.55, 5000),
		record(7, Day(2012, time.October, 1), 3, 3, 0.55, 0.85, 4000),
		record(8, Day(2012, time.October, 2), 3, 1, 0.6, 0.5, 6000),
	}, false, "daily-fixture")
}

// HourlyTable is one day of hourly rows: hour h has count 10*(h+1), and
// a second day repeats hour 8 with count 190, so hour 8 averages 140.
func HourlyTable() *rental.Table {
	var rows []rental.Record
	for h := 0; h < 24; h++ {
		r := record(h+1, Day(2011, time.January, 3), 4, 1, 0.3, 0.5, 10*(h+1))
		r.Hour = h
		rows = append(rows, r)
	}
	extra := record(25, Day(2011, time.January, 4), 4, 2, 0.3, 0.5, 190)
	extra.Hour = 8
	rows = append(rows, extra)
	return rental.NewTable(rows, true, "hourly-fixture")
}
