package filter

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/banshee-data/bikeshare.report/internal/rental"
)

func TestGroupMean_WeatherLabels(t *testing.T) {
	rows := []rental.Record{
		{WeatherCode: 1, Weather: "Clear", Count: 10},
		{WeatherCode: 2, Weather: "Mist", Count: 30},
		{WeatherCode: 1, Weather: "Clear", Count: 20},
	}

	got := GroupMean(rows, ByWeather).Means()
	want := map[string]float64{"Clear": 15.0, "Mist": 30.0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("means mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupMean_SeasonOrderAndUnlabeled(t *testing.T) {
	rows := []rental.Record{
		{SeasonCode: 4, Season: "Winter", Count: 4},
		{SeasonCode: 1, Season: "Spring", Count: 1},
		{SeasonCode: 9, Season: "", Count: 1000},
		{SeasonCode: 3, Season: "Fall", Count: 3},
		{SeasonCode: 1, Season: "Spring", Count: 3},
	}

	groups := GroupMean(rows, BySeason)

	want := Groups{
		{Key: "Spring", Label: "Spring", Mean: 2, Count: 2},
		{Key: "Fall", Label: "Fall", Mean: 3, Count: 1},
		{Key: "Winter", Label: "Winter", Mean: 4, Count: 1},
	}
	if diff := cmp.Diff(want, groups); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"Spring", "Fall", "Winter"}, groups.Labels())
}

func TestGroupMean_NumericKeys(t *testing.T) {
	rows := []rental.Record{
		{Date: time.Date(2012, 2, 1, 0, 0, 0, 0, time.UTC), Month: 2, Weekday: 3, Hour: 17, Count: 200},
		{Date: time.Date(2011, 1, 1, 0, 0, 0, 0, time.UTC), Month: 1, Weekday: 6, Hour: 8, Count: 100},
		{Date: time.Date(2011, 1, 2, 0, 0, 0, 0, time.UTC), Month: 1, Weekday: 0, Hour: 8, Count: 300},
	}

	tests := []struct {
		key        GroupKey
		wantKeys   []string
		wantLabels []string
		wantMeans  []float64
	}{
		{ByMonth, []string{"1", "2"}, []string{"January", "February"}, []float64{200, 200}},
		{ByWeekday, []string{"0", "3", "6"}, []string{"Sunday", "Wednesday", "Saturday"}, []float64{300, 200, 100}},
		{ByHour, []string{"8", "17"}, []string{"08:00", "17:00"}, []float64{200, 200}},
		{ByYear, []string{"2011", "2012"}, []string{"2011", "2012"}, []float64{200, 200}},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			groups := GroupMean(rows, tt.key)
			var keys, labels []string
			var means []float64
			for _, g := range groups {
				keys = append(keys, g.Key)
				labels = append(labels, g.Label)
				means = append(means, g.Mean)
			}
			assert.Equal(t, tt.wantKeys, keys)
			assert.Equal(t, tt.wantLabels, labels)
			assert.Equal(t, tt.wantMeans, means)
		})
	}
}

func TestGroupMean_UnknownKeyAndEmpty(t *testing.T) {
	rows := []rental.Record{{Count: 1}}
	assert.Empty(t, GroupMean(rows, GroupKey("colour")))
	assert.Empty(t, GroupMean(nil, BySeason))
}

func TestResult_Group(t *testing.T) {
	table := rental.NewTable([]rental.Record{
		{Weather: "Clear", WeatherCode: 1, Temp: 0.5, Count: 10},
		{Weather: "Mist", WeatherCode: 2, Temp: 0.5, Count: 20},
		{Weather: "Clear", WeatherCode: 1, Temp: 0.05, Count: 99},
	}, false, "t")

	got := Apply(table, Spec{WeatherClass: Ptr(Hot)}).Group(ByWeather).Means()
	assert.Equal(t, map[string]float64{"Clear": 10, "Mist": 20}, got)
}

func TestParseGroupKey(t *testing.T) {
	for _, k := range GroupKeys {
		if got, ok := ParseGroupKey(string(k)); !ok || got != k {
			t.Errorf("ParseGroupKey(%q) = %q, %v", k, got, ok)
		}
	}
	if _, ok := ParseGroupKey("temp"); ok {
		t.Error("temp is not a group key")
	}
}
