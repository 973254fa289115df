package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/banshee-data/bikeshare.report/internal/monitoring"
	"github.com/banshee-data/bikeshare.report/internal/rental"
)

// MonthlyMean is the SQL-side mean of cnt for one month.
type MonthlyMean struct {
	Month int     `json:"month"`
	Label string  `json:"label"`
	Mean  float64 `json:"mean"`
	Count int     `json:"count"`
}

// DatasetInfo describes the table last imported.
type DatasetInfo struct {
	Source   string    `json:"source"`
	Hourly   bool      `json:"hourly"`
	RowCount int       `json:"row_count"`
	LoadedAt time.Time `json:"loaded_at"`
}

const insertRental = `INSERT INTO rentals (
	instant, dteday, season, season_label, yr, mnth, hr, holiday, weekday,
	workingday, weathersit, weather_label, temp, atemp, hum, windspeed,
	casual, registered, cnt
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// ImportTable replaces the mirror contents with t in one transaction and
// returns the number of rows written. now stamps the dataset row.
func (db *DB) ImportTable(ctx context.Context, t *rental.Table, now time.Time) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM rentals`); err != nil {
		return 0, fmt.Errorf("clear rentals: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertRental)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	var hour sql.NullInt64
	n := 0
	var execErr error
	t.Each(func(i int, r rental.Record) bool {
		hour = sql.NullInt64{Int64: int64(r.Hour), Valid: t.Hourly()}
		_, execErr = stmt.ExecContext(ctx,
			r.Instant, r.DateString(), r.SeasonCode, nullString(r.Season), r.YearIndex, r.Month,
			hour, r.Holiday, r.Weekday, r.WorkingDay, r.WeatherCode, nullString(r.Weather),
			r.Temp, r.ATemp, r.Hum, r.Windspeed, r.Casual, r.Registered, r.Count,
		)
		if execErr != nil {
			execErr = fmt.Errorf("insert row %d: %w", i+1, execErr)
			return false
		}
		n++
		return true
	})
	if execErr != nil {
		return 0, execErr
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO dataset (id, source, hourly, row_count, loaded_at) VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source = excluded.source, hourly = excluded.hourly,
			row_count = excluded.row_count, loaded_at = excluded.loaded_at`,
		t.Source(), t.Hourly(), n, now.UTC().Format(time.RFC3339),
	); err != nil {
		return 0, fmt.Errorf("record dataset: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	monitoring.Logf("debug mirror %s: imported %d rows from %s", db.path, n, t.Source())
	return n, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// MonthlyMeans returns the mean count per month, ordered by month.
func (db *DB) MonthlyMeans(ctx context.Context) ([]MonthlyMean, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT mnth, AVG(cnt), COUNT(*)
		FROM rentals
		GROUP BY mnth
		ORDER BY mnth`)
	if err != nil {
		return nil, fmt.Errorf("query monthly means: %w", err)
	}
	defer rows.Close()

	out := []MonthlyMean{}
	for rows.Next() {
		var m MonthlyMean
		if err := rows.Scan(&m.Month, &m.Mean, &m.Count); err != nil {
			return nil, fmt.Errorf("scan monthly mean: %w", err)
		}
		m.Label = rental.MonthName(m.Month)
		out = append(out, m)
	}
	return out, rows.Err()
}

// Dataset returns the metadata of the last import, or sql.ErrNoRows if
// nothing has been imported.
func (db *DB) Dataset(ctx context.Context) (*DatasetInfo, error) {
	var info DatasetInfo
	var loadedAt string
	err := db.QueryRowContext(ctx,
		`SELECT source, hourly, row_count, loaded_at FROM dataset WHERE id = 1`,
	).Scan(&info.Source, &info.Hourly, &info.RowCount, &loadedAt)
	if err != nil {
		return nil, err
	}
	info.LoadedAt, err = time.Parse(time.RFC3339, loadedAt)
	if err != nil {
		return nil, fmt.Errorf("parse loaded_at %q: %w", loadedAt, err)
	}
	return &info, nil
}
