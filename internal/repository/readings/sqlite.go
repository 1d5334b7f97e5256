package readings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	// Pure Go SQLite driver, registered as "sqlite".
	_ "modernc.org/sqlite"
)

// Reading is a single sensor sample. Readings are appended by an external
// sensor process and never updated or deleted here.
type Reading struct {
	// Timestamp is when the sample was taken.
	Timestamp time.Time
	// Temperature is the measured temperature in °C.
	Temperature float64
	// Humidity is the measured relative humidity, nil when the sensor reports none.
	Humidity *float64
}

// Repository defines the storage operations the monitor depends on.
type Repository interface {
	AverageTemperature(ctx context.Context, window time.Duration, now time.Time) (*float64, error)
	LastAlertAt(ctx context.Context) (*time.Time, error)
	RecordAlert(ctx context.Context, at time.Time, message string) error
	LatestReading(ctx context.Context) (*Reading, error)
}

// SQLiteRepository stores readings and alerts in a SQLite database file.
// Timestamps are persisted as Unix seconds to stay compatible with databases
// written by existing sensor deployments.
type SQLiteRepository struct {
	// db is the underlying SQLite connection pool.
	db *sql.DB
}

// errNoDatabasePath is returned when an empty database path is provided.
var errNoDatabasePath = errors.New("database path must be provided")

// Open opens (creating if necessary) the SQLite database at path
// and ensures the readings and alerts tables exist.
func Open(ctx context.Context, path string) (*SQLiteRepository, error) {
	if path == "" {
		return nil, errNoDatabasePath
	}

	db, err := sql.Open("sqlite", filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	r := &SQLiteRepository{db: db}
	if err = r.migrate(ctx); err != nil {
		_ = db.Close()

		return nil, err
	}

	return r, nil
}

// migrate creates the two tables when they do not exist yet.
// The sensor process may have created readings already; the statements are idempotent.
func (r *SQLiteRepository) migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS readings (
			timestamp   INTEGER NOT NULL,
			temperature REAL    NOT NULL,
			humidity    REAL
		)`,
		`CREATE TABLE IF NOT EXISTS alerts (
			alert_time INTEGER NOT NULL,
			message    TEXT    NOT NULL DEFAULT ''
		)`,
	}

	for _, statement := range statements {
		if _, err := r.db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("migrate schema: %w", err)
		}
	}

	return nil
}

// AverageTemperature returns the arithmetic mean of temperatures
// recorded in the trailing window ending at now, or nil when the window is empty.
func (r *SQLiteRepository) AverageTemperature(
	ctx context.Context,
	window time.Duration,
	now time.Time,
) (*float64, error) {
	cutoff := now.Add(-window).Unix()

	var avg sql.NullFloat64

	row := r.db.QueryRowContext(ctx,
		"SELECT AVG(temperature) FROM readings WHERE timestamp >= ?", cutoff)
	if err := row.Scan(&avg); err != nil {
		return nil, fmt.Errorf("query average temperature: %w", err)
	}

	if !avg.Valid {
		return nil, nil
	}

	return &avg.Float64, nil
}

// LastAlertAt returns the timestamp of the most recent alert, or nil when none exists.
func (r *SQLiteRepository) LastAlertAt(ctx context.Context) (*time.Time, error) {
	var last sql.NullInt64

	row := r.db.QueryRowContext(ctx, "SELECT MAX(alert_time) FROM alerts")
	if err := row.Scan(&last); err != nil {
		return nil, fmt.Errorf("query last alert: %w", err)
	}

	if !last.Valid {
		return nil, nil
	}

	at := time.Unix(last.Int64, 0)

	return &at, nil
}

// RecordAlert appends an alert row. Alerts are append-only;
// only the most recent one is ever consulted.
func (r *SQLiteRepository) RecordAlert(ctx context.Context, at time.Time, message string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO alerts(alert_time, message) VALUES (?, ?)", at.Unix(), message)
	if err != nil {
		return fmt.Errorf("record alert: %w", err)
	}

	return nil
}

// LatestReading returns the most recent sensor sample, or nil when the table is empty.
func (r *SQLiteRepository) LatestReading(ctx context.Context) (*Reading, error) {
	var (
		timestamp   int64
		temperature float64
		humidity    sql.NullFloat64
	)

	row := r.db.QueryRowContext(ctx,
		"SELECT timestamp, temperature, humidity FROM readings ORDER BY timestamp DESC LIMIT 1")

	err := row.Scan(&timestamp, &temperature, &humidity)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("query latest reading: %w", err)
	}

	reading := &Reading{
		Timestamp:   time.Unix(timestamp, 0),
		Temperature: temperature,
	}
	if humidity.Valid {
		reading.Humidity = &humidity.Float64
	}

	return reading, nil
}

// AppendReading inserts a sensor sample. The production writer is an external
// sensor process; this helper exists for seeding and tests.
func (r *SQLiteRepository) AppendReading(ctx context.Context, reading Reading) error {
	var humidity any
	if reading.Humidity != nil {
		humidity = *reading.Humidity
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO readings(timestamp, temperature, humidity) VALUES (?, ?, ?)",
		reading.Timestamp.Unix(), reading.Temperature, humidity)
	if err != nil {
		return fmt.Errorf("append reading: %w", err)
	}

	return nil
}

// Close releases the underlying database handle.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
