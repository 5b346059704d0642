package auth

import "context"

// Store persists users. Implementations return pkg/sentinel errors for
// factual states (ErrNotFound, ErrConflict on duplicate email).
type Store interface {
	Create(ctx context.Context, user *User) error
	ByEmail(ctx context.Context, email string) (*User, error)
	ByID(ctx context.Context, id int64) (*User, error)
}
