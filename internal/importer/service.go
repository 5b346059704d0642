// Package importer loads geofences and users from CSV uploads. Imports are
// row-by-row best effort: a bad row is recorded and skipped, and one commit
// applies everything that parsed.
package importer

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"trailguard/internal/auth"
	"trailguard/internal/geo"
	"trailguard/internal/geofence"
	"trailguard/internal/platform/metrics"
	dErrors "trailguard/pkg/domain-errors"
	"trailguard/pkg/sentinel"
	"trailguard/pkg/tx"
)

// GeofenceStore is the slice of the geofence store imports need.
type GeofenceStore interface {
	Create(ctx context.Context, gf *geofence.Geofence) error
}

// UserStore is the slice of the user store imports need.
type UserStore interface {
	Create(ctx context.Context, user *auth.User) error
	ByEmail(ctx context.Context, email string) (*auth.User, error)
}

// RowError records why one CSV row was rejected. Rows are numbered from 1,
// not counting the header.
type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// Result summarizes one import batch.
type Result struct {
	Created int        `json:"created"`
	Errors  []RowError `json:"errors"`
}

// Service runs CSV imports inside a single transaction per batch.
type Service struct {
	geofences GeofenceStore
	users     UserStore
	runner    tx.Runner
	metrics   *metrics.Metrics
}

// NewService constructs the import service.
func NewService(geofences GeofenceStore, users UserStore, runner tx.Runner, m *metrics.Metrics) *Service {
	return &Service{geofences: geofences, users: users, runner: runner, metrics: m}
}

// ImportGeofences reads `name,risk_level,coordinates` rows. The coordinates
// column holds a JSON array of [lng, lat] pairs. Imported zones start active.
func (s *Service) ImportGeofences(ctx context.Context, r io.Reader) (Result, error) {
	result := Result{Errors: []RowError{}}

	err := s.runner.RunInTx(ctx, func(ctx context.Context) error {
		return forEachRow(r, func(rowNum int, row map[string]string) error {
			name := row["name"]
			coordsStr := row["coordinates"]
			if name == "" || coordsStr == "" {
				result.Errors = append(result.Errors, RowError{Row: rowNum, Error: "missing name/coordinates"})
				return nil
			}

			riskStr := strings.ToLower(row["risk_level"])
			if riskStr == "" {
				riskStr = string(geofence.RiskLow)
			}
			risk, ok := geofence.ParseRiskLevel(riskStr)
			if !ok {
				result.Errors = append(result.Errors, RowError{Row: rowNum, Error: fmt.Sprintf("invalid risk level %q", riskStr)})
				return nil
			}

			var coords [][]float64
			if err := json.Unmarshal([]byte(coordsStr), &coords); err != nil {
				result.Errors = append(result.Errors, RowError{Row: rowNum, Error: "invalid coordinates"})
				return nil
			}
			ring, err := geo.RingFromCoordinates(coords)
			if err != nil {
				result.Errors = append(result.Errors, RowError{Row: rowNum, Error: err.Error()})
				return nil
			}

			gf := &geofence.Geofence{Name: name, RiskLevel: risk, Ring: ring, Active: true}
			if err := s.geofences.Create(ctx, gf); err != nil {
				return fmt.Errorf("import geofence row %d: %w", rowNum, err)
			}
			result.Created++
			return nil
		})
	})
	if err != nil {
		return Result{}, toImportError(err)
	}
	return result, nil
}

// ImportUsers reads `email,password,role` rows. Rows whose email already
// exists are skipped without being counted as created or failed. Role
// defaults to tourist.
func (s *Service) ImportUsers(ctx context.Context, r io.Reader) (Result, error) {
	result := Result{Errors: []RowError{}}

	err := s.runner.RunInTx(ctx, func(ctx context.Context) error {
		return forEachRow(r, func(rowNum int, row map[string]string) error {
			email := row["email"]
			password := row["password"]
			if email == "" || password == "" {
				result.Errors = append(result.Errors, RowError{Row: rowNum, Error: "missing email/password"})
				return nil
			}

			roleStr := row["role"]
			if roleStr == "" {
				roleStr = string(auth.RoleTourist)
			}
			role, ok := auth.ParseRole(roleStr)
			if !ok {
				result.Errors = append(result.Errors, RowError{Row: rowNum, Error: fmt.Sprintf("invalid role %q", roleStr)})
				return nil
			}

			_, err := s.users.ByEmail(ctx, email)
			if err == nil {
				return nil
			}
			if !errors.Is(err, sentinel.ErrNotFound) {
				return fmt.Errorf("import user row %d: %w", rowNum, err)
			}

			hashed, err := auth.HashPassword(password)
			if err != nil {
				result.Errors = append(result.Errors, RowError{Row: rowNum, Error: err.Error()})
				return nil
			}
			user := &auth.User{Email: email, PasswordHash: hashed, Role: role}
			if err := s.users.Create(ctx, user); err != nil {
				return fmt.Errorf("import user row %d: %w", rowNum, err)
			}
			result.Created++
			return nil
		})
	})
	if err != nil {
		return Result{}, toImportError(err)
	}
	s.metrics.AddUsersCreated(result.Created)
	return result, nil
}

// forEachRow streams CSV records as header-keyed maps. Ragged rows are
// tolerated; missing cells read as empty strings.
func forEachRow(r io.Reader, fn func(rowNum int, row map[string]string) error) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return dErrors.New(dErrors.CodeBadRequest, "invalid csv header")
	}

	rowNum := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return dErrors.New(dErrors.CodeBadRequest, "invalid csv body")
		}
		rowNum++

		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = strings.TrimSpace(record[i])
			}
		}
		if err := fn(rowNum, row); err != nil {
			return err
		}
	}
}

func toImportError(err error) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	return dErrors.New(dErrors.CodeInternal, err.Error())
}
