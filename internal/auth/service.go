package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"golang.org/x/crypto/bcrypt"

	"trailguard/internal/platform/config"
	"trailguard/internal/platform/metrics"
	"trailguard/internal/platform/middleware"
	dErrors "trailguard/pkg/domain-errors"
	"trailguard/pkg/sentinel"
)

// Service implements registration, login, and bearer-token authentication.
type Service struct {
	store   Store
	tokens  *TokenIssuer
	metrics *metrics.Metrics
}

// NewService constructs the auth service.
func NewService(store Store, tokens *TokenIssuer, m *metrics.Metrics) *Service {
	return &Service{store: store, tokens: tokens, metrics: m}
}

// HashPassword produces a salted bcrypt hash. Exported so the CSV importer
// hashes imported passwords the same way.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Register creates a user with a hashed password. Duplicate emails fail with a
// conflict translated to bad_request, matching the public API contract.
func (s *Service) Register(ctx context.Context, email, password string, role Role) (*User, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "invalid email")
	}
	if password == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "password is required")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &User{Email: email, PasswordHash: hash, Role: role}
	if err := s.store.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeBadRequest, "email already registered")
		}
		return nil, err
	}
	s.metrics.IncrementUsersCreated()
	return user, nil
}

// Login verifies credentials and issues an access token. Unknown emails and
// hash mismatches are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.store.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}
	return s.tokens.GenerateAccessToken(user.ID, config.AccessTokenTTL)
}

// Authenticate resolves a bearer token to a stored user. Implements
// middleware.Authenticator.
func (s *Service) Authenticate(ctx context.Context, token string) (*middleware.Identity, error) {
	userID, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "could not validate credentials")
	}
	user, err := s.store.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "could not validate credentials")
		}
		return nil, err
	}
	return &middleware.Identity{UserID: user.ID, Email: user.Email, Role: string(user.Role)}, nil
}
