package auth

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func newAuthRouter() chi.Router {
	service := NewService(NewMemory(), NewTokenIssuer("test-secret"), nil)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := chi.NewRouter()
	NewHandler(service, logger).Register(router)
	return router
}

func postJSON(t *testing.T, router http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRegisterAndLoginFlow(t *testing.T) {
	router := newAuthRouter()

	rec := postJSON(t, router, "/auth/register", map[string]string{
		"email":    "alice@example.com",
		"password": "hunter2",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 registering, got %d: %s", rec.Code, rec.Body.String())
	}

	var user struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&user); err != nil {
		t.Fatalf("failed to decode register response: %v", err)
	}
	if user.Role != "operator" {
		t.Fatalf("expected default role operator, got %q", user.Role)
	}

	rec = postJSON(t, router, "/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "hunter2",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 logging in, got %d: %s", rec.Code, rec.Body.String())
	}

	var token struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&token); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	if token.AccessToken == "" {
		t.Fatal("expected access_token in response")
	}
	if token.TokenType != "bearer" {
		t.Fatalf("expected token_type bearer, got %q", token.TokenType)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	router := newAuthRouter()
	payload := map[string]string{"email": "bob@example.com", "password": "pw"}

	if rec := postJSON(t, router, "/auth/register", payload); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on first register, got %d", rec.Code)
	}
	rec := postJSON(t, router, "/auth/register", payload)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on duplicate register, got %d", rec.Code)
	}
}

func TestRegisterInvalidRole(t *testing.T) {
	router := newAuthRouter()
	rec := postJSON(t, router, "/auth/register", map[string]string{
		"email":    "carol@example.com",
		"password": "pw",
		"role":     "superuser",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid role, got %d", rec.Code)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	router := newAuthRouter()
	postJSON(t, router, "/auth/register", map[string]string{"email": "dan@example.com", "password": "pw"})

	rec := postJSON(t, router, "/auth/login", map[string]string{"email": "dan@example.com", "password": "wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad credentials, got %d", rec.Code)
	}
}
