package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open connects to PostgreSQL through the pgx stdlib driver and verifies the
// connection with a ping.
func Open(ctx context.Context, databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// schema is applied at startup. Create-if-not-exists keeps restarts cheap;
// there is no migration tooling at this stage of the project.
var schema = []string{
	`CREATE EXTENSION IF NOT EXISTS postgis`,
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL DEFAULT 'operator',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS geofences (
		id         BIGSERIAL PRIMARY KEY,
		name       TEXT NOT NULL,
		risk_level TEXT NOT NULL DEFAULT 'low',
		area       geometry(Polygon, 4326) NOT NULL,
		active     BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE INDEX IF NOT EXISTS geofences_area_idx ON geofences USING GIST (area)`,
	`CREATE TABLE IF NOT EXISTS locations (
		id       BIGSERIAL PRIMARY KEY,
		user_id  BIGINT REFERENCES users(id),
		ts       TIMESTAMPTZ NOT NULL DEFAULT now(),
		position geometry(Point, 4326) NOT NULL,
		speed    INTEGER,
		source   TEXT NOT NULL DEFAULT 'web'
	)`,
	`CREATE INDEX IF NOT EXISTS locations_ts_idx ON locations (ts)`,
	`CREATE TABLE IF NOT EXISTS alerts (
		id          BIGSERIAL PRIMARY KEY,
		type        TEXT NOT NULL,
		user_id     BIGINT REFERENCES users(id),
		geofence_id BIGINT REFERENCES geofences(id),
		ts          TIMESTAMPTZ NOT NULL DEFAULT now(),
		position    geometry(Point, 4326),
		severity    INTEGER NOT NULL DEFAULT 1,
		status      TEXT NOT NULL DEFAULT 'new',
		details     JSONB
	)`,
	`CREATE INDEX IF NOT EXISTS alerts_geofence_ts_idx ON alerts (geofence_id, ts)`,
}

// EnsureSchema creates the PostGIS extension and all tables.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
