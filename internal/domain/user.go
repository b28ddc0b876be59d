package domain

import (
	"context"
	"errors"
)

// User is the authenticated caller, as carried in a bearer token.
// Accounts themselves are managed by the identity service.
type User struct {
	ID    string
	Email string
	Role  Role
}

// Role represents a user's access level
type Role string

const (
	// RoleAdmin may freeze, unfreeze, close and release
	RoleAdmin Role = "admin"

	// RoleOperator may open escrow accounts and settle contributions
	RoleOperator Role = "operator"

	// RoleMember may contribute and view balances
	RoleMember Role = "member"
)

var validRoles = map[Role]bool{
	RoleAdmin:    true,
	RoleOperator: true,
	RoleMember:   true,
}

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	return validRoles[r]
}

// Satisfies reports whether r grants at least min.
func (r Role) Satisfies(min Role) bool {
	switch min {
	case RoleAdmin:
		return r == RoleAdmin
	case RoleOperator:
		return r == RoleAdmin || r == RoleOperator
	default:
		return r.IsValid()
	}
}

// Authentication errors
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInsufficientRole = errors.New("insufficient role for this operation")
)

type userContextKey struct{}

// ContextWithUser returns ctx carrying user.
func ContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext extracts the authenticated user, if any.
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userContextKey{}).(*User)
	return user, ok && user != nil
}

// ActorFromContext returns the acting user id, or "system" for background work.
func ActorFromContext(ctx context.Context) string {
	if user, ok := UserFromContext(ctx); ok {
		return user.ID
	}
	return "system"
}
