package config

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteProvider implements Provider for SQLite database configuration
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider creates a new SQLite configuration provider
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// LoadConfig loads the complete configuration from the SQLite database
func (s *SQLiteProvider) LoadConfig() (*Config, error) {
	config := &Config{}

	station, err := s.getStation()
	if err != nil {
		return nil, fmt.Errorf("failed to load station config: %w", err)
	}
	config.Station = *station

	detection, err := s.getDetection()
	if err != nil {
		return nil, fmt.Errorf("failed to load detection config: %w", err)
	}
	config.Detection = *detection

	query := `SELECT readings_path, listen_addr FROM settings WHERE id = 1`
	if err := s.db.QueryRow(query).Scan(&config.Database.Path, &config.HTTP.ListenAddr); err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	return config, nil
}

func (s *SQLiteProvider) getStation() (*StationConfig, error) {
	query := `
		SELECT name, latitude, longitude, altitude, turbidity
		FROM stations
		WHERE config_id = (SELECT id FROM configs WHERE name = 'default')
		LIMIT 1
	`

	var station StationConfig
	err := s.db.QueryRow(query).Scan(&station.Name, &station.Latitude,
		&station.Longitude, &station.Altitude, &station.Turbidity)
	if err != nil {
		return nil, fmt.Errorf("failed to query station: %w", err)
	}
	return &station, nil
}

func (s *SQLiteProvider) getDetection() (*DetectionConfig, error) {
	var detection DetectionConfig

	if err := s.db.QueryRow(`SELECT window_len FROM detection WHERE id = 1`).Scan(&detection.WindowLen); err != nil {
		return nil, fmt.Errorf("failed to query detection settings: %w", err)
	}

	rows, err := s.db.Query(`SELECT lower, upper FROM thresholds ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query thresholds: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var bounds [2]float64
		if err := rows.Scan(&bounds[0], &bounds[1]); err != nil {
			return nil, fmt.Errorf("failed to scan threshold: %w", err)
		}
		detection.Thresholds = append(detection.Thresholds, bounds)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate thresholds: %w", err)
	}

	return &detection, nil
}

// Close releases the database handle
func (s *SQLiteProvider) Close() error {
	return s.db.Close()
}
