// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package store persists recorded strikes in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	_ "modernc.org/sqlite" // Register driver

	"github.com/wneessen/lightning-locator/internal/estimate"
)

// ErrNotFound is returned when no strike with the requested ID exists.
var ErrNotFound = errors.New("strike not found")

// Strike is a recorded strike estimate.
type Strike struct {
	ID        uuid.UUID
	CreatedAt time.Time
	Result    estimate.Result

	Notes       string
	Place       string
	WeatherCode *int
	Daylight    bool
	Badge       string
}

// Store is a SQLite backed strike history.
type Store struct {
	db    *sql.DB
	clock clockwork.Clock
}

// Open opens or creates the database at path and runs the migrations. A nil clock uses
// the wall clock.
func Open(path string, clock clockwork.Clock) (*Store, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Single connection to avoid SQLITE_BUSY errors during concurrent writes
	db.SetMaxOpenConns(1)

	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	for _, pragma := range []string{"PRAGMA journal_mode=WAL;", "PRAGMA busy_timeout=5000;"} {
		if _, err = db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	s := &Store{db: db, clock: clock}
	if err = s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS strikes (
		id TEXT PRIMARY KEY,
		created_at INTEGER NOT NULL,
		origin_lat REAL NOT NULL,
		origin_lon REAL NOT NULL,
		target_lat REAL NOT NULL,
		target_lon REAL NOT NULL,
		bearing_deg REAL NOT NULL,
		distance_km REAL NOT NULL,
		distance_mi REAL NOT NULL,
		radius_km REAL NOT NULL,
		delay_ms INTEGER NOT NULL,
		gps_accuracy_m REAL NOT NULL DEFAULT 0,
		samples INTEGER NOT NULL DEFAULT 0,
		notes TEXT NOT NULL DEFAULT '',
		place TEXT NOT NULL DEFAULT '',
		weather_code INTEGER,
		daylight BOOLEAN NOT NULL DEFAULT 0,
		badge TEXT NOT NULL DEFAULT ''
	);`)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_strikes_created_at ON strikes (created_at);`)
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add persists the strike. A new ID and the creation time are assigned unless already set.
func (s *Store) Add(ctx context.Context, strike Strike) (Strike, error) {
	if strike.ID == uuid.Nil {
		id, err := uuid.NewRandom()
		if err != nil {
			return Strike{}, fmt.Errorf("failed to generate strike ID: %w", err)
		}
		strike.ID = id
	}
	if strike.CreatedAt.IsZero() {
		strike.CreatedAt = s.clock.Now()
	}

	var weatherCode sql.NullInt64
	if strike.WeatherCode != nil {
		weatherCode = sql.NullInt64{Int64: int64(*strike.WeatherCode), Valid: true}
	}
	r := strike.Result
	_, err := s.db.ExecContext(ctx, `INSERT INTO strikes (id, created_at, origin_lat, origin_lon,
		target_lat, target_lon, bearing_deg, distance_km, distance_mi, radius_km, delay_ms, gps_accuracy_m,
		samples, notes, place, weather_code, daylight, badge)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		strike.ID.String(), strike.CreatedAt.UnixNano(), r.Origin.Lat, r.Origin.Lon, r.Target.Lat,
		r.Target.Lon, r.BearingDeg, r.DistanceKm, r.DistanceMi, r.RadiusKm, r.Delay.Milliseconds(),
		r.GPSAccuracyM, r.Samples, strike.Notes, strike.Place, weatherCode, strike.Daylight, strike.Badge,
	)
	if err != nil {
		return Strike{}, fmt.Errorf("failed to insert strike: %w", err)
	}
	return strike, nil
}

const selectColumns = `SELECT id, created_at, origin_lat, origin_lon, target_lat, target_lon,
	bearing_deg, distance_km, distance_mi, radius_km, delay_ms, gps_accuracy_m, samples, notes, place,
	weather_code, daylight, badge FROM strikes`

// List returns up to limit strikes, newest first. A non-positive limit returns all strikes.
func (s *Store) List(ctx context.Context, limit int) ([]Strike, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query strikes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var strikes []Strike
	for rows.Next() {
		strike, err := scanStrike(rows)
		if err != nil {
			return nil, err
		}
		strikes = append(strikes, strike)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate strikes: %w", err)
	}
	return strikes, nil
}

// Get returns the strike with the given ID.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (Strike, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id.String())
	strike, err := scanStrike(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Strike{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return strike, err
}

// Count returns the number of recorded strikes.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM strikes`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count strikes: %w", err)
	}
	return count, nil
}

// Clear deletes all strikes and returns the number of deleted rows.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM strikes`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete strikes: %w", err)
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanStrike(row scanner) (Strike, error) {
	var (
		strike      Strike
		id          string
		createdAt   int64
		delayMs     int64
		weatherCode sql.NullInt64
		r           = &strike.Result
	)
	err := row.Scan(&id, &createdAt, &r.Origin.Lat, &r.Origin.Lon, &r.Target.Lat, &r.Target.Lon,
		&r.BearingDeg, &r.DistanceKm, &r.DistanceMi, &r.RadiusKm, &delayMs, &r.GPSAccuracyM, &r.Samples,
		&strike.Notes, &strike.Place, &weatherCode, &strike.Daylight, &strike.Badge)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Strike{}, err
		}
		return Strike{}, fmt.Errorf("failed to scan strike: %w", err)
	}

	strike.ID, err = uuid.Parse(id)
	if err != nil {
		return Strike{}, fmt.Errorf("failed to parse strike ID %q: %w", id, err)
	}
	strike.CreatedAt = time.Unix(0, createdAt)
	r.Delay = time.Duration(delayMs) * time.Millisecond
	if weatherCode.Valid {
		code := int(weatherCode.Int64)
		strike.WeatherCode = &code
	}
	return strike, nil
}

