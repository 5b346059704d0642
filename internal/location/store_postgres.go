package location

import (
	"context"
	"database/sql"
	"fmt"

	txcontext "trailguard/pkg/tx"
)

// PostgresStore persists locations in PostGIS.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostGIS-backed location store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Insert(ctx context.Context, loc *Location) error {
	query := `
		INSERT INTO locations (user_id, position, speed, source)
		VALUES ($1, ST_GeomFromText($2, 4326), $3, $4)
		RETURNING id, ts
	`
	err := s.execer(ctx).QueryRowContext(ctx, query,
		loc.UserID, loc.Point.WKT(), loc.Speed, string(loc.Source),
	).Scan(&loc.ID, &loc.TS)
	if err != nil {
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

var _ Store = (*PostgresStore)(nil)
