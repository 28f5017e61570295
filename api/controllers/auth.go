package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/venkateshdh/gotours-backend/api/middleware"
	"github.com/venkateshdh/gotours-backend/api/responses"
	"github.com/venkateshdh/gotours-backend/api/validators"
	"github.com/venkateshdh/gotours-backend/internal/auth"
	"github.com/venkateshdh/gotours-backend/pkg/config"
	"github.com/venkateshdh/gotours-backend/pkg/logger"
)

type signupPayload struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

type loginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type forgotPasswordPayload struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordPayload struct {
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

type updatePasswordPayload struct {
	PasswordCurrent string `json:"passwordCurrent" validate:"required"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// setTokenCookie mirrors the token into an http-only cookie so browser
// clients never touch the JWT directly.
func setTokenCookie(w http.ResponseWriter, token string, jwtCfg config.JWTConfig, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    token,
		Expires:  time.Now().Add(jwtCfg.CookieTTL()),
		HttpOnly: true,
		Secure:   secure,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})
}

func writeSession(w http.ResponseWriter, status int, session *auth.Session, jwtCfg config.JWTConfig, secure bool) {
	setTokenCookie(w, session.Token, jwtCfg, secure)
	responses.WriteToken(w, status, session.Token, map[string]any{"user": session.User})
}

// Signup registers a new account and logs it straight in.
func Signup(svc auth.Service, jwtCfg config.JWTConfig, secureCookies bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload signupPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.Signup(r.Context(), auth.SignupInput{
			Name:            payload.Name,
			Email:           payload.Email,
			Password:        payload.Password,
			PasswordConfirm: payload.PasswordConfirm,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeSession(w, http.StatusCreated, session, jwtCfg, secureCookies)
	}
}

// Login authenticates email/password credentials.
func Login(svc auth.Service, jwtCfg config.JWTConfig, secureCookies bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload loginPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.Login(r.Context(), payload.Email, payload.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeSession(w, http.StatusOK, session, jwtCfg, secureCookies)
	}
}

// Logout expires the jwt cookie.
func Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     middleware.TokenCookieName,
			Value:    "",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HttpOnly: true,
			Path:     "/",
		})
		responses.WriteSuccess(w, nil)
	}
}

// ForgotPassword triggers the reset email. The reset link points back at
// this API's reset route.
func ForgotPassword(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload forgotPasswordPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		scheme := "https"
		if r.TLS == nil {
			scheme = "http"
		}
		resetURLBase := fmt.Sprintf("%s://%s/api/v1/users/resetPassword", scheme, r.Host)

		if err := svc.ForgotPassword(r.Context(), payload.Email, resetURLBase); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"message": "token sent to email!"})
	}
}

// ResetPassword consumes a reset token from the path and sets a new
// password, logging the user in.
func ResetPassword(svc auth.Service, jwtCfg config.JWTConfig, secureCookies bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload resetPasswordPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.ResetPassword(r.Context(), chi.URLParam(r, "token"), payload.Password, payload.PasswordConfirm)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeSession(w, http.StatusOK, session, jwtCfg, secureCookies)
	}
}

// UpdateMyPassword rotates the authenticated user's password after checking
// the current one.
func UpdateMyPassword(svc auth.Service, jwtCfg config.JWTConfig, secureCookies bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload updatePasswordPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.UpdatePassword(r.Context(), middleware.UserIDFromContext(r.Context()),
			payload.PasswordCurrent, payload.Password, payload.PasswordConfirm)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeSession(w, http.StatusOK, session, jwtCfg, secureCookies)
	}
}
