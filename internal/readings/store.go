// Package readings loads measured irradiance observations from a SQLite
// database so they can be classified against a modeled clear-sky series.
package readings

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Reading is one timestamped GHI observation in W/m².
type Reading struct {
	Time time.Time
	GHI  float64
}

// Store provides read access to archived irradiance readings.
type Store struct {
	db *sql.DB
}

// NewStore opens the SQLite database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	return &Store{db: db}, nil
}

// LoadGHI returns the station's solar irradiance readings in [from, to),
// ordered by time.
func (s *Store) LoadGHI(ctx context.Context, station string, from, to time.Time) ([]Reading, error) {
	query := `
		SELECT time, solarwatts
		FROM readings
		WHERE stationname = ? AND time >= ? AND time < ?
		  AND solarwatts IS NOT NULL
		ORDER BY time ASC
	`

	rows, err := s.db.QueryContext(ctx, query, station, from.UTC().Unix(), to.UTC().Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to query readings: %w", err)
	}
	defer rows.Close()

	var readings []Reading
	for rows.Next() {
		var ts int64
		var ghi float64
		if err := rows.Scan(&ts, &ghi); err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}
		readings = append(readings, Reading{Time: time.Unix(ts, 0).UTC(), GHI: ghi})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate readings: %w", err)
	}

	return readings, nil
}

// Stations returns the distinct station names present in the archive.
func (s *Store) Stations(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT stationname FROM readings ORDER BY stationname`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stations: %w", err)
	}
	defer rows.Close()

	var stations []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan station name: %w", err)
		}
		stations = append(stations, name)
	}
	return stations, rows.Err()
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Values extracts the GHI series from a set of readings.
func Values(readings []Reading) []float64 {
	values := make([]float64, len(readings))
	for i, r := range readings {
		values[i] = r.GHI
	}
	return values
}

// Interval infers the sampling interval from the first pair of readings.
// Returns 0 when fewer than two readings are present.
func Interval(readings []Reading) time.Duration {
	if len(readings) < 2 {
		return 0
	}
	return readings[1].Time.Sub(readings[0].Time)
}
