package station

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"airstage/internal/config"
)

const profileSchema = `
CREATE TABLE IF NOT EXISTS station_profiles (
    station_id TEXT PRIMARY KEY,
    profile_json TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
`

// Store persists station profiles in SQLite, keyed by station id.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the profile database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "stations.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(profileSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create profile schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get fetches one profile by station id. A missing profile returns (nil, nil).
func (s *Store) Get(ctx context.Context, stationID string) (*Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT profile_json FROM station_profiles WHERE station_id = ?`, stationID)
	var body string
	if err := row.Scan(&body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	var profile Profile
	if err := json.Unmarshal([]byte(body), &profile); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", stationID, err)
	}
	return &profile, nil
}

// Save upserts a profile, refreshing its UpdatedAt stamp.
func (s *Store) Save(ctx context.Context, profile *Profile) error {
	if profile == nil {
		return errors.New("profile is nil")
	}
	if profile.StationID == "" {
		return errors.New("profile station id is empty")
	}
	now := time.Now().UTC()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	body, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO station_profiles (station_id, profile_json, created_at, updated_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT(station_id) DO UPDATE SET
             profile_json = excluded.profile_json,
             updated_at = excluded.updated_at`,
		profile.StationID,
		string(body),
		profile.CreatedAt.Format(time.RFC3339Nano),
		profile.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// GetOrCreate fetches a profile, seeding system defaults when the station has
// none yet.
func (s *Store) GetOrCreate(ctx context.Context, stationID string) (*Profile, error) {
	existing, err := s.Get(ctx, stationID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	profile := NewProfile(stationID)
	if err := s.Save(ctx, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// List returns every stored profile ordered by station id.
func (s *Store) List(ctx context.Context) ([]*Profile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT profile_json FROM station_profiles ORDER BY station_id`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*Profile
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		var profile Profile
		if err := json.Unmarshal([]byte(body), &profile); err != nil {
			return nil, fmt.Errorf("decode profile: %w", err)
		}
		profiles = append(profiles, &profile)
	}
	return profiles, rows.Err()
}

// Delete removes one profile by station id.
func (s *Store) Delete(ctx context.Context, stationID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM station_profiles WHERE station_id = ?`, stationID)
	if err != nil {
		return false, fmt.Errorf("delete profile: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}
