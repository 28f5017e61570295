package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/venkateshdh/gotours-backend/pkg/db/models"
	"github.com/venkateshdh/gotours-backend/pkg/enums"
)

type contextKey string

const (
	ctxPrincipal contextKey = "principal"
)

// PrincipalFromContext returns the authenticated user, or nil when the
// request is anonymous.
func PrincipalFromContext(ctx context.Context) *models.User {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxPrincipal).(*models.User); ok {
		return v
	}
	return nil
}

// UserIDFromContext returns the authenticated user's id, or uuid.Nil.
func UserIDFromContext(ctx context.Context) uuid.UUID {
	if p := PrincipalFromContext(ctx); p != nil {
		return p.ID
	}
	return uuid.Nil
}

// RoleFromContext returns the authenticated user's role, or the empty role.
func RoleFromContext(ctx context.Context) enums.Role {
	if p := PrincipalFromContext(ctx); p != nil {
		return p.Role
	}
	return ""
}

// WithPrincipal injects the authenticated user into the context.
func WithPrincipal(ctx context.Context, user *models.User) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxPrincipal, user)
}
