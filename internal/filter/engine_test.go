package filter

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/bikeshare.report/internal/rental"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func rec(month, day int, temp float64, cnt int) rental.Record {
	return rental.Record{Date: date(2011, time.Month(month), day), Month: month, Temp: temp, Count: cnt}
}

func TestApply_DayMonthTemperature(t *testing.T) {
	table := rental.NewTable([]rental.Record{
		rec(1, 1, 0.2, 100),
		rec(1, 1, 0.5, 50),
	}, false, "scenario")

	res := Apply(table, Spec{
		Month:           Ptr(1),
		DayOfMonth:      Ptr(1),
		TemperatureBand: &Band{Center: 0.2, Radius: 0.1},
	})

	require.Equal(t, 1, res.Len())
	assert.Equal(t, 100, res.Rows[0].Count)

	mean, ok := res.Mean()
	require.True(t, ok)
	assert.InDelta(t, 100.0, mean, 1e-9)
}

func TestApply_EmptySubset(t *testing.T) {
	table := rental.NewTable([]rental.Record{rec(1, 1, 0.2, 100)}, false, "scenario")

	res := Apply(table, Spec{Month: Ptr(7)})

	assert.True(t, res.Empty())
	assert.Equal(t, 0, res.Len())
	assert.NotNil(t, res.Rows, "empty result should still carry a non-nil slice")
	_, ok := res.Mean()
	assert.False(t, ok, "mean of an empty subset must be undefined")
}

func TestApply_EmptyTable(t *testing.T) {
	res := Apply(rental.NewTable(nil, false, ""), Spec{})
	assert.True(t, res.Empty())
}

func TestApply_WeatherClassHot(t *testing.T) {
	table := rental.NewTable([]rental.Record{
		rec(6, 1, 0.31, 10),
		rec(6, 2, 0.29, 20),
	}, false, "scenario")

	res := Apply(table, Spec{WeatherClass: Ptr(Hot)})

	require.Equal(t, 1, res.Len())
	assert.Equal(t, 0.31, res.Rows[0].Temp)
}

func TestWeatherClass_Contains(t *testing.T) {
	tests := []struct {
		class WeatherClass
		temp  float64
		want  bool
	}{
		{Hot, 0.3, false},
		{Hot, 0.3000001, true},
		{Cold, 0.1, false},
		{Cold, 0.0999, true},
		{Normal, 0.1, true},
		{Normal, 0.3, true},
		{Normal, 0.31, false},
		{Normal, 0.09, false},
		{WeatherClass("Tropical"), 0.5, false},
	}

	for _, tt := range tests {
		if got := tt.class.Contains(tt.temp); got != tt.want {
			t.Errorf("%s.Contains(%v) = %v, want %v", tt.class, tt.temp, got, tt.want)
		}
	}
}

func TestBand_Boundaries(t *testing.T) {
	b := Band{Center: 20, Radius: 1}

	assert.True(t, b.Contains(19))
	assert.True(t, b.Contains(21))
	assert.True(t, b.Contains(20))
	assert.False(t, b.Contains(18.999))
	assert.False(t, b.Contains(21.001))

	// 0.7+0.1 rounds to 0.7999999999999999 in float64.
	inexact := Band{Center: 0.7, Radius: 0.1}
	assert.True(t, inexact.Contains(0.6))
	assert.True(t, inexact.Contains(0.8))
	assert.False(t, inexact.Contains(0.8001))
	assert.False(t, inexact.Contains(0.5999))
}

func TestApply_InexactBandBounds(t *testing.T) {
	table := rental.NewTable([]rental.Record{
		rec(1, 1, 0.8, 1),
		rec(1, 2, 0.6, 2),
		rec(1, 3, 0.81, 3),
	}, false, "inexact")

	res := Apply(table, Spec{TemperatureBand: &Band{Center: 0.7, Radius: 0.1}})

	var got []int
	for _, r := range res.Rows {
		got = append(got, r.Count)
	}
	assert.Equal(t, []int{1, 2}, got)
}

func TestApply_TemperatureBandBoundaries(t *testing.T) {
	table := rental.NewTable([]rental.Record{
		rec(1, 1, 18.999, 1),
		rec(1, 2, 19, 2),
		rec(1, 3, 21, 3),
		rec(1, 4, 21.001, 4),
	}, false, "boundary")

	res := Apply(table, Spec{TemperatureBand: &Band{Center: 20, Radius: 1}})

	var got []int
	for _, r := range res.Rows {
		got = append(got, r.Count)
	}
	assert.Equal(t, []int{2, 3}, got)
}

func TestApply_HumidityBand(t *testing.T) {
	table := rental.NewTable([]rental.Record{
		{Hum: 0.5, Count: 1},
		{Hum: 0.7, Count: 2},
		{Hum: 0.71, Count: 3},
	}, false, "hum")

	res := Apply(table, Spec{HumidityBand: &Band{Center: 0.6, Radius: 0.1}})
	require.Equal(t, 2, res.Len())
	assert.Equal(t, 1, res.Rows[0].Count)
}

func TestApply_LabelsYearWeekday(t *testing.T) {
	table := rental.NewTable([]rental.Record{
		{Date: date(2011, 3, 5), Season: "Spring", Weather: "Clear", Weekday: 6, Count: 1},
		{Date: date(2012, 3, 5), Season: "Spring", Weather: "Mist", Weekday: 1, Count: 2},
		{Date: date(2012, 7, 5), Season: "Summer", Weather: "Clear", Weekday: 4, Count: 3},
	}, false, "labels")

	tests := []struct {
		name string
		spec Spec
		want []int
	}{
		{"season", Spec{Season: Ptr("Spring")}, []int{1, 2}},
		{"weather label", Spec{WeatherLabel: Ptr("Clear")}, []int{1, 3}},
		{"year", Spec{Year: Ptr(2012)}, []int{2, 3}},
		{"weekday", Spec{Weekday: Ptr(4)}, []int{3}},
		{"season and year", Spec{Season: Ptr("Spring"), Year: Ptr(2012)}, []int{2}},
		{"no predicates", Spec{}, []int{1, 2, 3}},
		{"unknown season", Spec{Season: Ptr("Monsoon")}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Apply(table, tt.spec)
			var got []int
			for _, r := range res.Rows {
				got = append(got, r.Count)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("counts mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApply_HourOnlyMatchesHourlyTables(t *testing.T) {
	rows := []rental.Record{
		{Hour: 8, Count: 10},
		{Hour: 9, Count: 20},
		{Hour: 8, Count: 30},
	}

	hourly := Apply(rental.NewTable(rows, true, "hour"), Spec{Hour: Ptr(8)})
	assert.Equal(t, 2, hourly.Len())
	mean, _ := hourly.Mean()
	assert.InDelta(t, 20.0, mean, 1e-9)

	daily := Apply(rental.NewTable(rows, false, "day"), Spec{Hour: Ptr(8)})
	assert.True(t, daily.Empty())
}

// randomTable builds a deterministic pseudo-random table for the
// soundness and completeness checks.
func randomTable(n int, seed int64) *rental.Table {
	rng := rand.New(rand.NewSource(seed))
	seasons := rental.SeasonNames()
	weathers := rental.WeatherNames()
	rows := make([]rental.Record, n)
	for i := range rows {
		m := rng.Intn(12) + 1
		s := rng.Intn(4)
		w := rng.Intn(4)
		rows[i] = rental.Record{
			Instant:     i + 1,
			Date:        date(2011+rng.Intn(2), time.Month(m), rng.Intn(28)+1),
			SeasonCode:  s + 1,
			Season:      seasons[s],
			Month:       m,
			Weekday:     rng.Intn(7),
			WeatherCode: w + 1,
			Weather:     weathers[w],
			Temp:        rng.Float64(),
			Hum:         rng.Float64(),
			Count:       rng.Intn(9000),
		}
	}
	return rental.NewTable(rows, false, "random")
}

func TestApply_SoundAndComplete(t *testing.T) {
	table := randomTable(500, 42)

	specs := []Spec{
		{},
		{Season: Ptr("Fall")},
		{Month: Ptr(3), Weekday: Ptr(2)},
		{TemperatureBand: &Band{Center: 0.5, Radius: 0.2}, HumidityBand: &Band{Center: 0.4, Radius: 0.3}},
		{WeatherClass: Ptr(Cold), WeatherLabel: Ptr("Mist")},
		{WeatherClass: Ptr(Normal), Year: Ptr(2012)},
		{Month: Ptr(2), DayOfMonth: Ptr(14)},
	}

	for _, spec := range specs {
		t.Run(spec.String(), func(t *testing.T) {
			res := Apply(table, spec)

			// every returned row satisfies the spec, in table order
			last := 0
			for _, r := range res.Rows {
				require.True(t, spec.Match(r, false), "unsound row %+v", r)
				require.Greater(t, r.Instant, last, "rows out of table order")
				last = r.Instant
			}

			// every satisfying row is returned
			want := 0
			table.Each(func(_ int, r rental.Record) bool {
				if spec.Match(r, false) {
					want++
				}
				return true
			})
			assert.Equal(t, want, res.Len())
		})
	}
}

func TestApply_Idempotent(t *testing.T) {
	table := randomTable(200, 7)
	spec := Spec{Season: Ptr("Summer"), TemperatureBand: &Band{Center: 0.6, Radius: 0.15}}

	first := Apply(table, spec)
	second := Apply(table, spec)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Apply is not idempotent (-first +second):\n%s", diff)
	}
	m1, ok1 := first.Mean()
	m2, ok2 := second.Mean()
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, m1, m2)
}

func TestApply_DoesNotMutateTable(t *testing.T) {
	table := randomTable(50, 3)
	before := table.Records()

	res := Apply(table, Spec{})
	res.Rows[0].Count = -1

	if diff := cmp.Diff(before, table.Records()); diff != "" {
		t.Errorf("table changed after Apply (-before +after):\n%s", diff)
	}
}
