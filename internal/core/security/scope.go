// Package security provides authorization and base-level access control.
package security

import (
	"context"
	"fmt"

	"logitrack/internal/core/apperror"
	appctx "logitrack/internal/core/context"
)

// Role is the caller's position in the chain of command.
type Role string

const (
	RoleAdmin            Role = "admin"
	RoleBaseCommander    Role = "base_commander"
	RoleLogisticsOfficer Role = "logistics_officer"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleBaseCommander, RoleLogisticsOfficer:
		return true
	}
	return false
}

// AccessScope defines the boundaries of data visibility for the current request.
type AccessScope struct {
	// UserID is the authenticated user
	UserID string

	// Role drives base filtering and write permissions
	Role Role

	// HomeBaseID is the base a commander (or officer) belongs to
	HomeBaseID *int64
}

// NewAccessScope creates AccessScope from context.
func NewAccessScope(ctx context.Context) *AccessScope {
	user := appctx.GetUser(ctx)
	if user == nil {
		return &AccessScope{}
	}

	return &AccessScope{
		UserID:     user.UserID,
		Role:       Role(user.Role),
		HomeBaseID: user.BaseID,
	}
}

// IsAdmin reports whether scope bypasses base filtering.
func (s *AccessScope) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// ResolveBase turns the base requested by the caller into the base every
// query of the request must be restricted to. A nil result means "all bases".
//
// A base commander is always pinned to the home base, whatever was asked.
// Only an admin may choose an arbitrary base. Any other cross-base request
// is rejected instead of being silently rescoped.
func (s *AccessScope) ResolveBase(requested *int64) (*int64, error) {
	switch s.Role {
	case RoleAdmin:
		return requested, nil

	case RoleBaseCommander:
		if s.HomeBaseID == nil {
			return nil, apperror.NewForbidden("base commander has no home base assigned").
				WithDetail("role", string(s.Role))
		}
		home := *s.HomeBaseID
		return &home, nil

	case RoleLogisticsOfficer:
		if requested == nil {
			return nil, nil
		}
		if s.HomeBaseID != nil && *s.HomeBaseID == *requested {
			return requested, nil
		}
		return nil, s.crossBaseError(*requested)
	}

	return nil, apperror.NewForbidden("unknown role").WithDetail("role", string(s.Role))
}

// CanWriteBase checks whether the caller may record movements at baseID.
func (s *AccessScope) CanWriteBase(baseID int64) error {
	switch s.Role {
	case RoleAdmin, RoleLogisticsOfficer:
		return nil
	case RoleBaseCommander:
		if s.HomeBaseID != nil && *s.HomeBaseID == baseID {
			return nil
		}
		return s.crossBaseError(baseID)
	}
	return apperror.NewForbidden("unknown role").WithDetail("role", string(s.Role))
}

// CanWriteEither passes when the caller may write at least one of the two bases.
// Transfers touch two bases and a commander only needs to own one side.
func (s *AccessScope) CanWriteEither(a, b int64) error {
	if err := s.CanWriteBase(a); err == nil {
		return nil
	}
	return s.CanWriteBase(b)
}

// RequireRole returns a forbidden error unless the scope holds one of roles.
func (s *AccessScope) RequireRole(roles ...Role) error {
	for _, r := range roles {
		if s.Role == r {
			return nil
		}
	}
	return apperror.NewForbidden("insufficient permissions").
		WithDetail("role", string(s.Role)).
		WithDetail("required", roles)
}

func (s *AccessScope) crossBaseError(baseID int64) *apperror.AppError {
	return apperror.NewForbidden(fmt.Sprintf("access to base %d denied", baseID)).
		WithDetail("role", string(s.Role)).
		WithDetail("base_id", baseID)
}

// --- Context-based scope access ---

type scopeKey struct{}

// WithScope adds AccessScope to context.
func WithScope(ctx context.Context, scope *AccessScope) context.Context {
	return context.WithValue(ctx, scopeKey{}, scope)
}

// GetScope returns AccessScope from context.
func GetScope(ctx context.Context) *AccessScope {
	if v, ok := ctx.Value(scopeKey{}).(*AccessScope); ok {
		return v
	}
	return NewAccessScope(ctx)
}
