package dashboard

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/banshee-data/bikeshare.report/internal/filter"
	"github.com/banshee-data/bikeshare.report/internal/testutil"
)

func TestPrepareGroupBars(t *testing.T) {
	rows := testutil.DailyTable().Records()
	d := PrepareGroupBars(filter.GroupMean(rows, filter.BySeason), filter.BySeason, "Rentals per Season", "fixture")

	want := &BarChartData{
		Title:    "Rentals per Season",
		Subtitle: "fixture",
		Series:   "mean rentals",
		XName:    "season",
		Labels:   []string{"Spring", "Summer", "Fall", "Winter"},
		Values:   []float64{2000, 5000, 5000, 200},
	}
	if diff := cmp.Diff(want, d); diff != "" {
		t.Errorf("PrepareGroupBars() mismatch (-want +got):\n%s", diff)
	}
}

func TestPrepareGroupBars_Empty(t *testing.T) {
	d := PrepareGroupBars(nil, filter.ByWeather, "t", "s")
	if !d.Empty() {
		t.Errorf("expected empty chart, got %d labels", len(d.Labels))
	}
}

func TestPrepareHistogramBars(t *testing.T) {
	bins := []filter.Bin{{Lower: 0, Upper: 50, Count: 3}, {Lower: 50, Upper: 100, Count: 1}}
	d := PrepareHistogramBars(bins, "Rentals at 08:00", "hour=8")

	if diff := cmp.Diff([]string{"0-50", "50-100"}, d.Labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{3, 1}, d.Values); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
	if d.Series != "rows" || d.XName != "rentals" {
		t.Errorf("series/x name = %q/%q", d.Series, d.XName)
	}
}

func TestPrepareSeriesLine(t *testing.T) {
	daily := filter.Apply(testutil.DailyTable(), filter.Spec{Month: filter.Ptr(1)})
	d := PrepareSeriesLine(daily.Rows, false, "January", "month=1")

	if diff := cmp.Diff([]string{"2011-01-01", "2011-01-02"}, d.Labels); diff != "" {
		t.Errorf("daily labels mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{100, 300}, d.Counts); diff != "" {
		t.Errorf("daily counts mismatch (-want +got):\n%s", diff)
	}

	hourly := filter.Apply(testutil.HourlyTable(), filter.Spec{Hour: filter.Ptr(8)})
	h := PrepareSeriesLine(hourly.Rows, true, "08:00", "hour=8")
	if diff := cmp.Diff([]string{"2011-01-03 08:00", "2011-01-04 08:00"}, h.Labels); diff != "" {
		t.Errorf("hourly labels mismatch (-want +got):\n%s", diff)
	}
}

func TestSubtitleFor(t *testing.T) {
	if got := subtitleFor("month=3", true); got != "month=3 (no data)" {
		t.Errorf("subtitleFor(empty) = %q", got)
	}
	if got := subtitleFor("month=3", false); got != "month=3" {
		t.Errorf("subtitleFor(non-empty) = %q", got)
	}
}
