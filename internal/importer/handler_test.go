package importer_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"trailguard/internal/auth"
	"trailguard/internal/geofence"
	"trailguard/internal/importer"
	"trailguard/internal/platform/middleware"
	"trailguard/pkg/tx"
)

type staticAuthenticator map[string]*middleware.Identity

func (a staticAuthenticator) Authenticate(_ context.Context, token string) (*middleware.Identity, error) {
	ident, ok := a[token]
	if !ok {
		return nil, errors.New("could not validate credentials")
	}
	return ident, nil
}

func newImportRouter(t *testing.T) chi.Router {
	t.Helper()
	service := importer.NewService(geofence.NewMemory(), auth.NewMemory(), tx.Nop{}, nil)
	authn := staticAuthenticator{
		"admin-token":    {UserID: 1, Role: "admin"},
		"operator-token": {UserID: 2, Role: "operator"},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := chi.NewRouter()
	importer.NewHandler(service, authn, logger).Register(router)
	return router
}

func uploadCSV(t *testing.T, router http.Handler, path, token, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

const geofenceCSV = "name,risk_level,coordinates\n" +
	`zone a,high,"[[77.0,12.0],[78.0,12.0],[78.0,13.0],[77.0,13.0]]"` + "\n"

func TestImportGeofencesAsOperator(t *testing.T) {
	router := newImportRouter(t)
	rec := uploadCSV(t, router, "/imports/geofences", "operator-token", "zones.csv", geofenceCSV)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestImportRejectsNonCSVFilename(t *testing.T) {
	router := newImportRouter(t)
	rec := uploadCSV(t, router, "/imports/geofences", "admin-token", "zones.txt", geofenceCSV)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-csv filename, got %d", rec.Code)
	}
}

func TestImportUsersAdminOnly(t *testing.T) {
	router := newImportRouter(t)
	usersCSV := "email,password,role\nalice@example.com,pw,tourist\n"

	rec := uploadCSV(t, router, "/imports/users", "operator-token", "users.csv", usersCSV)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for operator importing users, got %d", rec.Code)
	}

	rec = uploadCSV(t, router, "/imports/users", "admin-token", "users.csv", usersCSV)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin importing users, got %d", rec.Code)
	}
}

func TestImportRequiresFile(t *testing.T) {
	router := newImportRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/imports/geofences", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without file, got %d", rec.Code)
	}
}
