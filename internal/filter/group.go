package filter

import (
	"fmt"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/bikeshare.report/internal/rental"
)

// GroupKey names the column records are partitioned by.
type GroupKey string

const (
	BySeason  GroupKey = "season"
	ByWeather GroupKey = "weather"
	ByMonth   GroupKey = "month"
	ByWeekday GroupKey = "weekday"
	ByHour    GroupKey = "hour"
	ByYear    GroupKey = "year"
)

// GroupKeys lists the supported keys.
var GroupKeys = []GroupKey{BySeason, ByWeather, ByMonth, ByWeekday, ByHour, ByYear}

// ParseGroupKey validates a key name.
func ParseGroupKey(s string) (GroupKey, bool) {
	for _, k := range GroupKeys {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Group is the mean rental count of one partition.
type Group struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Mean  float64 `json:"mean"`
	Count int     `json:"count"`
}

// Groups is ordered by the underlying code of the key (Spring before
// Summer, January before February, hour 0 before hour 1).
type Groups []Group

// Means returns the groups as a key → mean map.
func (g Groups) Means() map[string]float64 {
	out := make(map[string]float64, len(g))
	for _, grp := range g {
		out[grp.Key] = grp.Mean
	}
	return out
}

// Labels returns the display labels in order.
func (g Groups) Labels() []string {
	out := make([]string, len(g))
	for i, grp := range g {
		out[i] = grp.Label
	}
	return out
}

// GroupMean partitions rows by key and averages Count within each
// partition. Rows whose season or weather has no label are left out of
// label groupings. An unknown key yields no groups.
func GroupMean(rows []rental.Record, key GroupKey) Groups {
	type partition struct {
		key, label string
		counts     []float64
	}
	parts := make(map[int]*partition)

	for _, r := range rows {
		code, k, label, ok := groupOf(r, key)
		if !ok {
			continue
		}
		p, seen := parts[code]
		if !seen {
			p = &partition{key: k, label: label}
			parts[code] = p
		}
		p.counts = append(p.counts, float64(r.Count))
	}

	codes := make([]int, 0, len(parts))
	for c := range parts {
		codes = append(codes, c)
	}
	sort.Ints(codes)

	out := make(Groups, 0, len(codes))
	for _, c := range codes {
		p := parts[c]
		out = append(out, Group{
			Key:   p.key,
			Label: p.label,
			Mean:  stat.Mean(p.counts, nil),
			Count: len(p.counts),
		})
	}
	return out
}

// Group partitions the result rows by key.
func (r Result) Group(key GroupKey) Groups {
	return GroupMean(r.Rows, key)
}

func groupOf(r rental.Record, key GroupKey) (code int, k, label string, ok bool) {
	switch key {
	case BySeason:
		if r.Season == "" {
			return 0, "", "", false
		}
		return r.SeasonCode, r.Season, r.Season, true
	case ByWeather:
		if r.Weather == "" {
			return 0, "", "", false
		}
		return r.WeatherCode, r.Weather, r.Weather, true
	case ByMonth:
		return r.Month, strconv.Itoa(r.Month), rental.MonthName(r.Month), true
	case ByWeekday:
		return r.Weekday, strconv.Itoa(r.Weekday), rental.WeekdayName(r.Weekday), true
	case ByHour:
		return r.Hour, strconv.Itoa(r.Hour), fmt.Sprintf("%02d:00", r.Hour), true
	case ByYear:
		y := r.Year()
		return y, strconv.Itoa(y), strconv.Itoa(y), true
	default:
		return 0, "", "", false
	}
}
