package geofence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"trailguard/internal/geo"
	"trailguard/pkg/sentinel"
	txcontext "trailguard/pkg/tx"
)

// PostgresStore persists geofences in PostGIS. Geometry is stored in SRID
// 4326; the containment test runs in the database.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostGIS-backed geofence store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Create(ctx context.Context, gf *Geofence) error {
	query := `
		INSERT INTO geofences (name, risk_level, area, active)
		VALUES ($1, $2, ST_GeomFromText($3, 4326), $4)
		RETURNING id
	`
	err := s.execer(ctx).QueryRowContext(ctx, query, gf.Name, string(gf.RiskLevel), gf.Ring.WKT(), gf.Active).
		Scan(&gf.ID)
	if err != nil {
		return fmt.Errorf("create geofence: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Geofence, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, `SELECT id, name, risk_level, active FROM geofences ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list geofences: %w", err)
	}
	defer rows.Close()

	var fences []Geofence
	for rows.Next() {
		var gf Geofence
		var risk string
		if err := rows.Scan(&gf.ID, &gf.Name, &risk, &gf.Active); err != nil {
			return nil, fmt.Errorf("scan geofence: %w", err)
		}
		gf.RiskLevel = RiskLevel(risk)
		fences = append(fences, gf)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list geofences: %w", err)
	}
	return fences, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	res, err := s.execer(ctx).ExecContext(ctx, `DELETE FROM geofences WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete geofence: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete geofence: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// ListGeoJSON serializes each geofence's geometry with ST_AsGeoJSON. Rows
// whose geometry does not produce valid JSON are skipped.
func (s *PostgresStore) ListGeoJSON(ctx context.Context) ([]GeoJSONRow, error) {
	rows, err := s.execer(ctx).QueryContext(ctx,
		`SELECT id, name, risk_level, ST_AsGeoJSON(area) FROM geofences ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list geofences geojson: %w", err)
	}
	defer rows.Close()

	var out []GeoJSONRow
	for rows.Next() {
		var row GeoJSONRow
		var risk string
		var geometry sql.NullString
		if err := rows.Scan(&row.ID, &row.Name, &risk, &geometry); err != nil {
			return nil, fmt.Errorf("scan geofence geojson: %w", err)
		}
		if !geometry.Valid || !json.Valid([]byte(geometry.String)) {
			continue
		}
		row.RiskLevel = RiskLevel(risk)
		row.Geometry = json.RawMessage(geometry.String)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list geofences geojson: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) FindActiveContaining(ctx context.Context, pt geo.Point) ([]Geofence, error) {
	query := `
		SELECT id, name, risk_level, active
		FROM geofences
		WHERE active = TRUE
		  AND ST_Intersects(area, ST_SetSRID(ST_MakePoint($1, $2), 4326))
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, pt.Lng, pt.Lat)
	if err != nil {
		return nil, fmt.Errorf("find containing geofences: %w", err)
	}
	defer rows.Close()

	var fences []Geofence
	for rows.Next() {
		var gf Geofence
		var risk string
		if err := rows.Scan(&gf.ID, &gf.Name, &risk, &gf.Active); err != nil {
			return nil, fmt.Errorf("scan geofence: %w", err)
		}
		gf.RiskLevel = RiskLevel(risk)
		fences = append(fences, gf)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find containing geofences: %w", err)
	}
	return fences, nil
}

var _ Store = (*PostgresStore)(nil)
