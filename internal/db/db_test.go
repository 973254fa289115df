package db

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/bikeshare.report/internal/monitoring"
	"github.com/banshee-data/bikeshare.report/internal/rental"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	t.Cleanup(monitoring.SetLogger(nil))

	db, err := NewDB("")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testTable() *rental.Table {
	return rental.NewTable([]rental.Record{
		{Instant: 1, Date: day(2011, 1, 1), SeasonCode: 4, Season: "Winter", Month: 1, WeatherCode: 2, Weather: "Mist", Temp: 0.34, Hum: 0.8, Count: 985},
		{Instant: 2, Date: day(2011, 1, 2), SeasonCode: 4, Season: "Winter", Month: 1, WeatherCode: 2, Weather: "Mist", Temp: 0.36, Hum: 0.69, Count: 801},
		{Instant: 3, Date: day(2011, 2, 1), SeasonCode: 4, Season: "Winter", Month: 2, WeatherCode: 1, Weather: "Clear", Temp: 0.2, Hum: 0.44, Count: 1360},
		{Instant: 4, Date: day(2012, 7, 4), SeasonCode: 9, Month: 7, WeatherCode: 1, Weather: "Clear", YearIndex: 1, Temp: 0.8, Hum: 0.6, Count: 7000},
	}, false, "test.csv")
}

func TestNewDB_MigratesSchema(t *testing.T) {
	db := newTestDB(t)

	version, dirty, err := db.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)
	assert.Equal(t, MemoryPath, db.Path())

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM rentals`).Scan(&n))
	assert.Zero(t, n)
}

func TestMigrateDownAndUp(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.MigrateDown())
	version, _, err := db.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)

	_, err = db.Exec(`SELECT COUNT(*) FROM rentals`)
	assert.Error(t, err, "rentals should be gone after down migration")

	require.NoError(t, db.MigrateUp())
	require.NoError(t, db.MigrateUp(), "second up is a no-op")
}

func TestImportTable_MonthlyMeans(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	loadedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	n, err := db.ImportTable(ctx, testTable(), loadedAt)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	means, err := db.MonthlyMeans(ctx)
	require.NoError(t, err)
	assert.Equal(t, []MonthlyMean{
		{Month: 1, Label: "January", Mean: 893, Count: 2},
		{Month: 2, Label: "February", Mean: 1360, Count: 1},
		{Month: 7, Label: "July", Mean: 7000, Count: 1},
	}, means)

	info, err := db.Dataset(ctx)
	require.NoError(t, err)
	assert.Equal(t, "test.csv", info.Source)
	assert.False(t, info.Hourly)
	assert.Equal(t, 4, info.RowCount)
	assert.True(t, info.LoadedAt.Equal(loadedAt))

	// unmapped season is stored as NULL, not as an empty label
	var nulls int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM rentals WHERE season_label IS NULL`).Scan(&nulls))
	assert.Equal(t, 1, nulls)
}

func TestImportTable_Replaces(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, err := db.ImportTable(ctx, testTable(), time.Now())
	require.NoError(t, err)

	hourly := rental.NewTable([]rental.Record{
		{Date: day(2011, 1, 1), SeasonCode: 4, Season: "Winter", Month: 1, Hour: 5, WeatherCode: 1, Count: 2},
	}, true, "hour.csv")
	n, err := db.ImportTable(ctx, hourly, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var total, hr int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*), MAX(hr) FROM rentals`).Scan(&total, &hr))
	assert.Equal(t, 1, total)
	assert.Equal(t, 5, hr)

	info, err := db.Dataset(ctx)
	require.NoError(t, err)
	assert.True(t, info.Hourly)
}

func TestDataset_Empty(t *testing.T) {
	db := newTestDB(t)
	_, err := db.Dataset(context.Background())
	assert.True(t, errors.Is(err, sql.ErrNoRows), "got %v", err)
}

func TestNewDB_File(t *testing.T) {
	t.Cleanup(monitoring.SetLogger(nil))
	path := filepath.Join(t.TempDir(), "mirror.db")

	db, err := NewDB(path)
	require.NoError(t, err)
	_, err = db.ImportTable(context.Background(), testTable(), time.Now())
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// reopening runs migrations again without error and keeps the rows
	db, err = NewDB(path)
	require.NoError(t, err)
	defer db.Close()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM rentals`).Scan(&n))
	assert.Equal(t, 4, n)
}
