package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jgoulah/bikestats/pkg/models"
	_ "modernc.org/sqlite"
)

const timeLayout = "2006-01-02 15:04:05"

// DB wraps the database connection
type DB struct {
	conn *sql.DB
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// initSchema creates the necessary tables
func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS cities (
		name TEXT PRIMARY KEY,
		has_gender INTEGER NOT NULL DEFAULT 0,
		has_birth_year INTEGER NOT NULL DEFAULT 0,
		trips INTEGER NOT NULL DEFAULT 0,
		imported_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS trips (
		city TEXT NOT NULL,
		seq INTEGER NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT,
		duration REAL NOT NULL,
		start_station TEXT NOT NULL,
		end_station TEXT NOT NULL,
		user_type TEXT NOT NULL,
		gender TEXT,
		birth_year INTEGER,
		PRIMARY KEY (city, seq)
	);
	CREATE INDEX IF NOT EXISTS idx_trips_start_time ON trips(city, start_time);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// CityInfo describes a cached city
type CityInfo struct {
	Name       string
	Schema     models.Schema
	Trips      int
	ImportedAt time.Time
}

// ReplaceCity stores the trips of a city, replacing anything cached before
// The replacement happens in a single transaction
func (db *DB) ReplaceCity(ctx context.Context, city string, schema models.Schema, trips []models.Trip) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM trips WHERE city = ?`, city); err != nil {
		return fmt.Errorf("clearing trips: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO trips (city, seq, start_time, end_time, duration, start_station, end_station, user_type, gender, birth_year)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, trip := range trips {
		var endTime, gender sql.NullString
		var birthYear sql.NullInt64
		if !trip.EndTime.IsZero() {
			endTime = sql.NullString{String: trip.EndTime.Format(timeLayout), Valid: true}
		}
		if trip.Gender != "" {
			gender = sql.NullString{String: trip.Gender, Valid: true}
		}
		if trip.BirthYear != 0 {
			birthYear = sql.NullInt64{Int64: int64(trip.BirthYear), Valid: true}
		}

		_, err := stmt.ExecContext(ctx, city, i+1, trip.StartTime.Format(timeLayout), endTime,
			trip.DurationSeconds, trip.StartStation, trip.EndStation, trip.UserType, gender, birthYear)
		if err != nil {
			return fmt.Errorf("inserting trip %d: %w", i+1, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
	INSERT INTO cities (name, has_gender, has_birth_year, trips, imported_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(name) DO UPDATE SET
		has_gender = excluded.has_gender,
		has_birth_year = excluded.has_birth_year,
		trips = excluded.trips,
		imported_at = excluded.imported_at
	`, city, schema.HasGender, schema.HasBirthYear, len(trips), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("recording city: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// HasCity checks if trips have been imported for a city
func (db *DB) HasCity(ctx context.Context, city string) (bool, error) {
	var n int
	err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM cities WHERE name = ?`, city).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("querying city: %w", err)
	}
	return n > 0, nil
}

// Schema returns the optional-column flags recorded for a city
func (db *DB) Schema(ctx context.Context, city string) (models.Schema, error) {
	var schema models.Schema
	err := db.conn.QueryRowContext(ctx,
		`SELECT has_gender, has_birth_year FROM cities WHERE name = ?`, city,
	).Scan(&schema.HasGender, &schema.HasBirthYear)
	if err == sql.ErrNoRows {
		return schema, fmt.Errorf("city %q not imported", city)
	}
	if err != nil {
		return schema, fmt.Errorf("querying schema: %w", err)
	}
	return schema, nil
}

// ListTrips retrieves all trips for a city in their original order
func (db *DB) ListTrips(ctx context.Context, city string) ([]models.Trip, error) {
	query := `
	SELECT seq, start_time, end_time, duration, start_station, end_station, user_type, gender, birth_year
	FROM trips
	WHERE city = ?
	ORDER BY seq
	`

	rows, err := db.conn.QueryContext(ctx, query, city)
	if err != nil {
		return nil, fmt.Errorf("querying trips: %w", err)
	}
	defer rows.Close()

	var results []models.Trip
	for rows.Next() {
		var trip models.Trip
		var startTimeStr string
		var endTimeStr, gender sql.NullString
		var birthYear sql.NullInt64

		if err := rows.Scan(&trip.ID, &startTimeStr, &endTimeStr, &trip.DurationSeconds,
			&trip.StartStation, &trip.EndStation, &trip.UserType, &gender, &birthYear); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		trip.StartTime, err = time.Parse(timeLayout, startTimeStr)
		if err != nil {
			return nil, fmt.Errorf("parsing start_time: %w", err)
		}

		if endTimeStr.Valid && endTimeStr.String != "" {
			trip.EndTime, err = time.Parse(timeLayout, endTimeStr.String)
			if err != nil {
				return nil, fmt.Errorf("parsing end_time: %w", err)
			}
		}

		trip.Gender = gender.String
		trip.BirthYear = int(birthYear.Int64)

		results = append(results, trip)
	}

	return results, rows.Err()
}

// ListCities returns every cached city, ordered by name
func (db *DB) ListCities(ctx context.Context) ([]CityInfo, error) {
	rows, err := db.conn.QueryContext(ctx, `
	SELECT name, has_gender, has_birth_year, trips, imported_at
	FROM cities
	ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying cities: %w", err)
	}
	defer rows.Close()

	var results []CityInfo
	for rows.Next() {
		var info CityInfo
		var importedAt string
		if err := rows.Scan(&info.Name, &info.Schema.HasGender, &info.Schema.HasBirthYear, &info.Trips, &importedAt); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		info.ImportedAt, err = time.Parse(time.RFC3339, importedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing imported_at: %w", err)
		}
		results = append(results, info)
	}

	return results, rows.Err()
}
