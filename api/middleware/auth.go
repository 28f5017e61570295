package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/venkateshdh/gotours-backend/api/responses"
	pkgauth "github.com/venkateshdh/gotours-backend/pkg/auth"
	"github.com/venkateshdh/gotours-backend/pkg/config"
	"github.com/venkateshdh/gotours-backend/pkg/db"
	"github.com/venkateshdh/gotours-backend/pkg/db/models"
	pkgerrors "github.com/venkateshdh/gotours-backend/pkg/errors"
	"github.com/venkateshdh/gotours-backend/pkg/logger"
)

// TokenCookieName is the cookie the auth controller sets next to the JSON
// token, so browser clients stay logged in without storing the JWT
// themselves.
const TokenCookieName = "jwt"

// PrincipalLoader resolves the live account behind a token. Deactivated
// accounts resolve to a not-found error.
type PrincipalLoader interface {
	FindActiveByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Protect validates the request's JWT, loads the live principal and seeds
// the context. The token may travel as a bearer header or as the jwt cookie.
func Protect(cfg config.JWTConfig, users PrincipalLoader, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "you are not logged in! please log in to get access."))
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token. please log in again!"))
				return
			}

			user, err := users.FindActiveByID(r.Context(), claims.UserID)
			if err != nil {
				translated := db.Translate(err, "user")
				if typed := pkgerrors.As(translated); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "the user belonging to this token does no longer exist."))
					return
				}
				responses.WriteError(r.Context(), logg, w, translated)
				return
			}

			if claims.IssuedAt != nil && user.PasswordChangedAfter(claims.IssuedAt.Time) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user recently changed password! please log in again."))
				return
			}

			ctx := WithPrincipal(r.Context(), user)
			if logg != nil {
				ctx = logg.WithUserID(ctx, user.ID.String())
				ctx = logg.WithFields(ctx, map[string]any{"actor_role": string(user.Role)})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		if token := strings.TrimSpace(raw[7:]); token != "" {
			return token
		}
	}
	if cookie, err := r.Cookie(TokenCookieName); err == nil {
		return strings.TrimSpace(cookie.Value)
	}
	return ""
}
