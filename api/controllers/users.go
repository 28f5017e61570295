package controllers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/venkateshdh/gotours-backend/api/crud"
	"github.com/venkateshdh/gotours-backend/api/middleware"
	"github.com/venkateshdh/gotours-backend/api/responses"
	"github.com/venkateshdh/gotours-backend/api/validators"
	"github.com/venkateshdh/gotours-backend/internal/users"
	"github.com/venkateshdh/gotours-backend/pkg/db/models"
	"github.com/venkateshdh/gotours-backend/pkg/enums"
	pkgerrors "github.com/venkateshdh/gotours-backend/pkg/errors"
	"github.com/venkateshdh/gotours-backend/pkg/listing"
	"github.com/venkateshdh/gotours-backend/pkg/logger"
)

func userResource() listing.Resource {
	return listing.Resource{
		Filterable: map[string]string{
			"name":  "name",
			"email": "email",
			"role":  "role",
		},
		Sortable: map[string]string{
			"name":      "name",
			"email":     "email",
			"createdAt": "created_at",
		},
		Selectable: map[string]string{
			"name":  "name",
			"email": "email",
			"photo": "photo",
			"role":  "role",
		},
		DefaultSort: "created_at DESC",
	}
}

type adminUpdateUserPayload struct {
	Name            *string `json:"name"`
	Email           *string `json:"email" validate:"omitempty,email"`
	Photo           *string `json:"photo"`
	Role            *string `json:"role" validate:"omitempty,oneof=user guide lead-guide admin"`
	Active          *bool   `json:"active"`
	Password        *string `json:"password"`
	PasswordConfirm *string `json:"passwordConfirm"`
}

type updateMePayload struct {
	Name            *string `json:"name"`
	Email           *string `json:"email" validate:"omitempty,email"`
	Photo           *string `json:"photo"`
	Password        *string `json:"password"`
	PasswordConfirm *string `json:"passwordConfirm"`
}

const passwordRouteHint = "this route is not for password updates. please use /updateMyPassword."

// UserDescriptor wires the admin user collection into the generic CRUD
// handlers. Deactivated accounts stay hidden from every read.
func UserDescriptor() crud.Descriptor[models.User] {
	return crud.Descriptor[models.User]{
		Singular: "user",
		Resource: userResource(),
		Scope: func(tx *gorm.DB, _ *http.Request) *gorm.DB {
			return tx.Where("active = ?", true)
		},
		UpdatesFromRequest: func(r *http.Request) (map[string]any, error) {
			var payload adminUpdateUserPayload
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				return nil, err
			}
			if payload.Password != nil || payload.PasswordConfirm != nil {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, passwordRouteHint)
			}

			updates := map[string]any{}
			if payload.Name != nil {
				updates["name"] = *payload.Name
			}
			if payload.Email != nil {
				updates["email"] = *payload.Email
			}
			if payload.Photo != nil {
				updates["photo"] = *payload.Photo
			}
			if payload.Role != nil {
				role, err := enums.ParseRole(*payload.Role)
				if err != nil {
					return nil, pkgerrors.New(pkgerrors.CodeValidation, "role is either: user, guide, lead-guide, admin")
				}
				updates["role"] = string(role)
			}
			if payload.Active != nil {
				updates["active"] = *payload.Active
			}
			return updates, nil
		},
	}
}

// SignupInstead answers the admin create-user route, which is deliberately
// not implemented.
func SignupInstead(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), logg, w,
			pkgerrors.New(pkgerrors.CodeNotFound, "this route is not defined! please use /signup instead"))
	}
}

// GetMe returns the authenticated user's own profile.
func GetMe(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := svc.Me(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

// UpdateMe edits the authenticated user's own profile fields. Password
// material travels through the dedicated password route only.
func UpdateMe(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload updateMePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.Password != nil || payload.PasswordConfirm != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, passwordRouteHint))
			return
		}

		user, err := svc.UpdateMe(r.Context(), middleware.UserIDFromContext(r.Context()), users.UpdateMeInput{
			Name:  payload.Name,
			Email: payload.Email,
			Photo: payload.Photo,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

// DeleteMe soft-deletes the authenticated user's account.
func DeleteMe(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeactivateMe(r.Context(), middleware.UserIDFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
