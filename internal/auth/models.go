package auth

import "time"

// Role gates endpoint access. Membership checks are exact-match against an
// explicit set per endpoint; there is no hierarchy.
type Role string

const (
	RoleTourist  Role = "tourist"
	RoleOperator Role = "operator"
	RolePolice   Role = "police"
	RoleAdmin    Role = "admin"
)

// ParseRole validates a role string.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleTourist, RoleOperator, RolePolice, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

// User is a stored account. Users are created at registration or import and
// never deleted in-flow.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}
