package rental

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/banshee-data/bikeshare.report/internal/fsutil"
	"github.com/banshee-data/bikeshare.report/internal/monitoring"
)

// Column names of the bike-sharing CSV files.
const (
	ColInstant    = "instant"
	ColDate       = "dteday"
	ColSeason     = "season"
	ColYear       = "yr"
	ColMonth      = "mnth"
	ColHour       = "hr"
	ColHoliday    = "holiday"
	ColWeekday    = "weekday"
	ColWorkingDay = "workingday"
	ColWeather    = "weathersit"
	ColTemp       = "temp"
	ColATemp      = "atemp"
	ColHum        = "hum"
	ColWindspeed  = "windspeed"
	ColCasual     = "casual"
	ColRegistered = "registered"
	ColCount      = "cnt"
)

// RequiredColumns must be present for the mappings and filters to resolve.
var RequiredColumns = []string{
	ColDate, ColSeason, ColYear, ColMonth, ColWeekday, ColWeather, ColTemp, ColHum, ColCount,
}

const (
	utf8BOM = "\uFEFF"
	// missingCell is what the frame stores for NA, NaN and <nil> cells.
	missingCell = "NaN"
)

// LoadFile reads a dataset from the local filesystem.
func LoadFile(path string) (*Table, error) {
	return Load(fsutil.OSFileSystem{}, path)
}

// Load reads and normalizes the CSV at path. Any failure is a *LoadError.
func Load(fsys fsutil.FileSystem, path string) (*Table, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return Parse(bytes.NewReader(data), path)
}

// Parse builds a Table from CSV content. source labels errors and the
// resulting table.
func Parse(r io.Reader, source string) (*Table, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, &LoadError{Path: source, Err: fmt.Errorf("read csv: %w", err)}
	}
	if len(rows) < 2 {
		return nil, &LoadError{Path: source, Err: ErrEmptyTable}
	}
	rows[0][0] = strings.TrimPrefix(rows[0][0], utf8BOM)

	df := dataframe.LoadRecords(rows,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return nil, &LoadError{Path: source, Err: fmt.Errorf("read csv: %w", df.Err)}
	}

	present := make(map[string]bool, df.Ncol())
	for _, name := range df.Names() {
		present[name] = true
	}
	for _, name := range RequiredColumns {
		if !present[name] {
			return nil, &LoadError{Path: source, Column: name, Err: ErrMissingColumn}
		}
	}

	cols := make(map[string][]string, len(present))
	for name := range present {
		cols[name] = df.Col(name).Records()
	}

	hourly := present[ColHour]
	n := df.Nrow()
	records := make([]Record, n)
	unlabeled := 0
	for i := 0; i < n; i++ {
		p := rowParser{source: source, row: i + 1, cols: cols, present: present}
		rec := p.record(hourly)
		if p.err != nil {
			return nil, p.err
		}
		if rec.Season == "" || rec.Weather == "" {
			unlabeled++
		}
		records[i] = rec
	}

	if unlabeled > 0 {
		monitoring.Logf("rental: %d rows in %s have a season or weather code without a label", unlabeled, source)
	}
	return &Table{records: records, hourly: hourly, source: source}, nil
}

// rowParser converts one CSV row, remembering the first error so the
// record can be assembled in a single expression.
type rowParser struct {
	source  string
	row     int
	cols    map[string][]string
	present map[string]bool
	err     error
}

func (p *rowParser) record(hourly bool) Record {
	rec := Record{
		Instant:     p.optInt(ColInstant),
		Date:        p.date(ColDate),
		SeasonCode:  p.intIn(ColSeason, math.MinInt, math.MaxInt),
		YearIndex:   p.intIn(ColYear, 0, math.MaxInt),
		Month:       p.intIn(ColMonth, 1, 12),
		Holiday:     p.optInt(ColHoliday) == 1,
		Weekday:     p.intIn(ColWeekday, 0, 6),
		WorkingDay:  p.optInt(ColWorkingDay) == 1,
		WeatherCode: p.intIn(ColWeather, math.MinInt, math.MaxInt),
		Temp:        p.float(ColTemp),
		ATemp:       p.optFloat(ColATemp),
		Hum:         p.float(ColHum),
		Windspeed:   p.optFloat(ColWindspeed),
		Casual:      p.optInt(ColCasual),
		Registered:  p.optInt(ColRegistered),
		Count:       p.intIn(ColCount, 0, math.MaxInt),
	}
	if hourly {
		rec.Hour = p.intIn(ColHour, 0, 23)
	}
	rec.Season, _ = SeasonLabel(rec.SeasonCode)
	rec.Weather, _ = WeatherLabel(rec.WeatherCode)
	return rec
}

func (p *rowParser) cell(col string) string {
	return strings.TrimSpace(p.cols[col][p.row-1])
}

func (p *rowParser) fail(col string, err error) {
	if p.err == nil {
		p.err = &LoadError{Path: p.source, Column: col, Row: p.row, Err: err}
	}
}

func (p *rowParser) intIn(col string, lo, hi int) int {
	raw := p.cell(col)
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(col, fmt.Errorf("%w: %q is not an integer", ErrInvalidValue, raw))
		return 0
	}
	if v < lo || v > hi {
		p.fail(col, fmt.Errorf("%w: %d outside [%d, %d]", ErrInvalidValue, v, lo, hi))
		return 0
	}
	return v
}

func (p *rowParser) absent(col string) bool {
	if !p.present[col] {
		return true
	}
	c := p.cell(col)
	return c == "" || c == missingCell
}

func (p *rowParser) optInt(col string) int {
	if p.absent(col) {
		return 0
	}
	return p.intIn(col, math.MinInt, math.MaxInt)
}

func (p *rowParser) float(col string) float64 {
	raw := p.cell(col)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(col, fmt.Errorf("%w: %q is not a number", ErrInvalidValue, raw))
		return 0
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		p.fail(col, fmt.Errorf("%w: %q is not a finite number", ErrInvalidValue, raw))
		return 0
	}
	return v
}

func (p *rowParser) optFloat(col string) float64 {
	if p.absent(col) {
		return 0
	}
	return p.float(col)
}

func (p *rowParser) date(col string) time.Time {
	raw := p.cell(col)
	d, err := time.Parse(DateLayout, raw)
	if err != nil {
		p.fail(col, fmt.Errorf("%w: %q is not a %s date", ErrInvalidValue, raw, DateLayout))
		return time.Time{}
	}
	return d
}
