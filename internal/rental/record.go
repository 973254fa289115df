package rental

import "time"

// DateLayout is the layout of the dteday column.
const DateLayout = "2006-01-02"

// Record is one row of the rental dataset: one day, or one hour in the
// hourly variant. Season and Weather are derived from their codes and are
// empty when the code has no mapping.
type Record struct {
	Instant     int       `json:"instant"`
	Date        time.Time `json:"date"`
	SeasonCode  int       `json:"season_code"`
	Season      string    `json:"season,omitempty"`
	YearIndex   int       `json:"yr"`
	Month       int       `json:"month"`
	Hour        int       `json:"hour"`
	Holiday     bool      `json:"holiday"`
	Weekday     int       `json:"weekday"`
	WorkingDay  bool      `json:"working_day"`
	WeatherCode int       `json:"weather_code"`
	Weather     string    `json:"weather,omitempty"`
	Temp        float64   `json:"temp"`
	ATemp       float64   `json:"atemp"`
	Hum         float64   `json:"hum"`
	Windspeed   float64   `json:"windspeed"`
	Casual      int       `json:"casual"`
	Registered  int       `json:"registered"`
	Count       int       `json:"cnt"`
}

// Year returns the calendar year of the record's date.
func (r Record) Year() int {
	return r.Date.Year()
}

// DayOfMonth returns the day component of the record's date.
func (r Record) DayOfMonth() int {
	return r.Date.Day()
}

// DateString formats the date the way it appears in the source file.
func (r Record) DateString() string {
	return r.Date.Format(DateLayout)
}

// Table is the loaded dataset. It is built once by the loader and never
// modified afterwards, so it may be shared between goroutines freely.
type Table struct {
	records []Record
	hourly  bool
	source  string
}

// NewTable wraps records in a Table. The slice is copied.
func NewTable(records []Record, hourly bool, source string) *Table {
	rs := make([]Record, len(records))
	copy(rs, records)
	return &Table{records: rs, hourly: hourly, source: source}
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// Records returns a copy of all records in file order.
func (t *Table) Records() []Record {
	if t == nil {
		return nil
	}
	out := make([]Record, len(t.records))
	copy(out, t.records)
	return out
}

// Each calls fn for every record in file order without copying the slice.
// Iteration stops early when fn returns false.
func (t *Table) Each(fn func(i int, r Record) bool) {
	if t == nil {
		return
	}
	for i, r := range t.records {
		if !fn(i, r) {
			return
		}
	}
}

// Page returns the records in [offset, offset+limit), clipped to the table.
func (t *Table) Page(offset, limit int) []Record {
	n := t.Len()
	if offset < 0 {
		offset = 0
	}
	if offset >= n || limit <= 0 {
		return []Record{}
	}
	end := offset + limit
	if end > n {
		end = n
	}
	out := make([]Record, end-offset)
	copy(out, t.records[offset:end])
	return out
}

// Hourly reports whether the source carried an hr column.
func (t *Table) Hourly() bool {
	return t != nil && t.hourly
}

// Source is the path (or label) the table was loaded from.
func (t *Table) Source() string {
	if t == nil {
		return ""
	}
	return t.source
}

// Range reports the minimum and maximum of a numeric field over the table.
// ok is false for an empty table.
func (t *Table) Range(field func(Record) float64) (lo, hi float64, ok bool) {
	if t == nil {
		return 0, 0, false
	}
	for i, r := range t.records {
		v := field(r)
		if i == 0 || v < lo {
			lo = v
		}
		if i == 0 || v > hi {
			hi = v
		}
	}
	return lo, hi, t.Len() > 0
}
