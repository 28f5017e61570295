package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/venkateshdh/gotours-backend/api/crud"
	"github.com/venkateshdh/gotours-backend/api/middleware"
	"github.com/venkateshdh/gotours-backend/api/responses"
	"github.com/venkateshdh/gotours-backend/api/validators"
	"github.com/venkateshdh/gotours-backend/internal/reviews"
	"github.com/venkateshdh/gotours-backend/pkg/db/models"
	"github.com/venkateshdh/gotours-backend/pkg/listing"
	"github.com/venkateshdh/gotours-backend/pkg/logger"
)

func reviewResource() listing.Resource {
	return listing.Resource{
		Filterable: map[string]string{
			"rating": "rating",
		},
		Sortable: map[string]string{
			"rating":    "rating",
			"createdAt": "created_at",
		},
		Selectable: map[string]string{
			"review": "review",
			"rating": "rating",
		},
		DefaultSort: "created_at DESC",
	}
}

type createReviewPayload struct {
	Review string     `json:"review" validate:"required"`
	Rating int        `json:"rating" validate:"required,gte=1,lte=5"`
	Tour   *uuid.UUID `json:"tour"`
}

type updateReviewPayload struct {
	Review *string `json:"review"`
	Rating *int    `json:"rating" validate:"omitempty,gte=1,lte=5"`
}

// ReviewDescriptor wires review reads into the generic handlers. The
// collection nests under a tour: /tours/{tourId}/reviews narrows to that
// tour's reviews.
func ReviewDescriptor() crud.Descriptor[models.Review] {
	return crud.Descriptor[models.Review]{
		Singular:     "review",
		Resource:     reviewResource(),
		Preloads:     []string{"Author"},
		NestedParam:  "tourId",
		NestedColumn: "tour_id",
	}
}

// CreateReview submits a review as the authenticated user. The tour comes
// from the nested route when present, otherwise from the body.
func CreateReview(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createReviewPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tourID := uuid.Nil
		if payload.Tour != nil {
			tourID = *payload.Tour
		}
		if raw := chi.URLParam(r, "tourId"); raw != "" {
			parsed, err := validators.ParseUUIDParam(raw, "tourId")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			tourID = parsed
		}

		review, err := svc.Create(r.Context(), middleware.UserIDFromContext(r.Context()), reviews.CreateInput{
			TourID: tourID,
			Review: payload.Review,
			Rating: payload.Rating,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, review)
	}
}

// UpdateReview edits a review. Only its author or an admin may do so.
func UpdateReview(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateReviewPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		review, err := svc.Update(r.Context(), middleware.PrincipalFromContext(r.Context()), id, reviews.UpdateInput{
			Review: payload.Review,
			Rating: payload.Rating,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, review)
	}
}

// DeleteReview removes a review. Only its author or an admin may do so.
func DeleteReview(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), middleware.PrincipalFromContext(r.Context()), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
