package location_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"trailguard/internal/alert"
	"trailguard/internal/geofence"
	"trailguard/internal/location"
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

func newIngestRouter(t *testing.T) chi.Router {
	t.Helper()
	geofences := geofence.NewMemory()
	if _, err := geofence.NewService(geofences).Create(context.Background(), "zone", geofence.RiskHigh, [][][]float64{{
		{77.55, 12.93}, {77.65, 12.93}, {77.65, 13.01}, {77.55, 13.01}, {77.55, 12.93},
	}}); err != nil {
		t.Fatalf("failed to create geofence: %v", err)
	}

	service := location.NewService(location.NewMemory(), geofences, alert.NewMemory(geofences), tx.Nop{}, nil)
	authn := staticAuthenticator{
		"tourist-token": {UserID: 1, Role: "tourist"},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := chi.NewRouter()
	location.NewHandler(service, authn, logger).Register(router)
	return router
}

func TestIngestRequiresAuth(t *testing.T) {
	router := newIngestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/locations/ingest", bytes.NewReader([]byte(`{"lat":1,"lng":1}`)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestIngestReturnsCreatedAlerts(t *testing.T) {
	router := newIngestRouter(t)
	body, _ := json.Marshal(map[string]any{"user_id": 1, "lat": 12.9716, "lng": 77.5946})
	req := httptest.NewRequest(http.MethodPost, "/locations/ingest", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer tourist-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var out []alert.Response
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(out) != 1 || out[0].Severity != 2 || out[0].Status != "new" {
		t.Fatalf("unexpected alerts: %+v", out)
	}
}

func TestIngestOutsideZonesReturnsEmptyList(t *testing.T) {
	router := newIngestRouter(t)
	body, _ := json.Marshal(map[string]any{"lat": 40.0, "lng": -74.0})
	req := httptest.NewRequest(http.MethodPost, "/locations/ingest", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer tourist-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := bytes.TrimSpace(rec.Body.Bytes()); string(body) != "[]" {
		t.Fatalf("expected empty JSON array, got %s", body)
	}
}

func TestIngestInvalidSource(t *testing.T) {
	router := newIngestRouter(t)
	body, _ := json.Marshal(map[string]any{"lat": 12.9716, "lng": 77.5946, "source": "telegraph"})
	req := httptest.NewRequest(http.MethodPost, "/locations/ingest", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer tourist-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid source, got %d", rec.Code)
	}
}
