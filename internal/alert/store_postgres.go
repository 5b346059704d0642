package alert

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"trailguard/pkg/sentinel"
	txcontext "trailguard/pkg/tx"
)

// PostgresStore persists alerts in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed alert store.
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

func (s *PostgresStore) Create(ctx context.Context, a *Alert) error {
	var details []byte
	if a.Details != nil {
		var err error
		details, err = json.Marshal(a.Details)
		if err != nil {
			return fmt.Errorf("marshal alert details: %w", err)
		}
	}

	query := `
		INSERT INTO alerts (type, user_id, geofence_id, position, severity, status, details)
		VALUES ($1, $2, $3,
			CASE WHEN $4::text IS NULL THEN NULL ELSE ST_GeomFromText($4, 4326) END,
			$5, $6, $7)
		RETURNING id, ts
	`
	var pointWKT *string
	if a.Point != nil {
		wkt := a.Point.WKT()
		pointWKT = &wkt
	}
	if a.Status == "" {
		a.Status = StatusNew
	}
	err := s.execer(ctx).QueryRowContext(ctx, query,
		string(a.Type), a.UserID, a.GeofenceID, pointWKT, a.Severity, string(a.Status), nullableJSON(details),
	).Scan(&a.ID, &a.TS)
	if err != nil {
		return fmt.Errorf("create alert: %w", err)
	}
	return nil
}

func nullableJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}

func (s *PostgresStore) List(ctx context.Context, filter ListFilter) ([]Alert, error) {
	query := `SELECT a.id, a.type, a.user_id, a.geofence_id, a.ts, a.severity, a.status FROM alerts a`
	args := []any{}

	if filter.Risk != nil {
		args = append(args, *filter.Risk)
		query += fmt.Sprintf(` JOIN geofences g ON g.id = a.geofence_id AND g.risk_level = $%d`, len(args))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		query += fmt.Sprintf(` WHERE a.status = $%d`, len(args))
	}
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(` ORDER BY a.id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var alerts []Alert
	for rows.Next() {
		var a Alert
		var typ, status string
		if err := rows.Scan(&a.ID, &typ, &a.UserID, &a.GeofenceID, &a.TS, &a.Severity, &status); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		a.Type = Type(typ)
		a.Status = Status(status)
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	return alerts, nil
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, id int64, status Status) (*Alert, error) {
	query := `
		UPDATE alerts SET status = $1 WHERE id = $2
		RETURNING id, type, user_id, geofence_id, ts, severity, status
	`
	var a Alert
	var typ, st string
	err := s.execer(ctx).QueryRowContext(ctx, query, string(status), id).
		Scan(&a.ID, &typ, &a.UserID, &a.GeofenceID, &a.TS, &a.Severity, &st)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("update alert status: %w", err)
	}
	a.Type = Type(typ)
	a.Status = Status(st)
	return &a, nil
}

func (s *PostgresStore) HasRecentBreach(ctx context.Context, userID *int64, geofenceID int64, since time.Time) (bool, error) {
	// IS NOT DISTINCT FROM makes a NULL user id match NULL: anonymous ingests
	// dedupe against each other across callers.
	query := `
		SELECT EXISTS (
			SELECT 1 FROM alerts
			WHERE type = $1
			  AND user_id IS NOT DISTINCT FROM $2
			  AND geofence_id = $3
			  AND ts >= $4
			  AND status <> $5
		)
	`
	var exists bool
	err := s.execer(ctx).QueryRowContext(ctx, query,
		string(TypeGeofenceBreach), userID, geofenceID, since, string(StatusResolved),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check recent breach: %w", err)
	}
	return exists, nil
}

var _ Store = (*PostgresStore)(nil)
