// Package controllers wires HTTP endpoints onto the domain services. Each
// constructor returns a closure over its dependencies, so routing stays a
// pure wiring concern.
package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/venkateshdh/gotours-backend/api/crud"
	"github.com/venkateshdh/gotours-backend/api/responses"
	"github.com/venkateshdh/gotours-backend/api/validators"
	"github.com/venkateshdh/gotours-backend/internal/tours"
	"github.com/venkateshdh/gotours-backend/pkg/db/models"
	"github.com/venkateshdh/gotours-backend/pkg/enums"
	pkgerrors "github.com/venkateshdh/gotours-backend/pkg/errors"
	"github.com/venkateshdh/gotours-backend/pkg/listing"
	"github.com/venkateshdh/gotours-backend/pkg/logger"
	"github.com/venkateshdh/gotours-backend/pkg/types"
)

// tourResource declares the static query allow-lists for the tour
// collection. Anything a client sends outside these maps is ignored.
func tourResource() listing.Resource {
	return listing.Resource{
		Filterable: map[string]string{
			"name":            "name",
			"duration":        "duration",
			"maxGroupSize":    "max_group_size",
			"difficulty":      "difficulty",
			"ratingsAverage":  "ratings_average",
			"ratingsQuantity": "ratings_quantity",
			"price":           "price",
		},
		Sortable: map[string]string{
			"name":            "name",
			"duration":        "duration",
			"ratingsAverage":  "ratings_average",
			"ratingsQuantity": "ratings_quantity",
			"price":           "price",
			"createdAt":       "created_at",
		},
		Selectable: map[string]string{
			"name":            "name",
			"slug":            "slug",
			"duration":        "duration",
			"maxGroupSize":    "max_group_size",
			"difficulty":      "difficulty",
			"ratingsAverage":  "ratings_average",
			"ratingsQuantity": "ratings_quantity",
			"price":           "price",
			"summary":         "summary",
			"imageCover":      "image_cover",
		},
		DefaultSort: "created_at DESC",
	}
}

type tourLocationPayload struct {
	Coordinates []float64 `json:"coordinates" validate:"required,len=2"`
	Address     string    `json:"address"`
	Description string    `json:"description"`
	Day         int       `json:"day" validate:"omitempty,gte=1"`
}

type createTourPayload struct {
	Name          string               `json:"name" validate:"required,min=10,max=40"`
	Duration      int                  `json:"duration" validate:"required,gte=1"`
	MaxGroupSize  int                  `json:"maxGroupSize" validate:"required,gte=1"`
	Difficulty    string               `json:"difficulty" validate:"required,oneof=easy medium difficult"`
	Price         float64              `json:"price" validate:"required,gt=0"`
	PriceDiscount *float64             `json:"priceDiscount" validate:"omitempty,gt=0"`
	Summary       string               `json:"summary" validate:"required"`
	Description   string               `json:"description"`
	ImageCover    string               `json:"imageCover" validate:"required"`
	Images        []string             `json:"images"`
	SecretTour    bool                 `json:"secretTour"`
	StartLocation *tourLocationPayload `json:"startLocation" validate:"required"`
	StartDates    []time.Time          `json:"startDates"`
	Locations     []tourLocationPayload `json:"locations" validate:"omitempty,dive"`
}

type updateTourPayload struct {
	Name          *string  `json:"name" validate:"omitempty,min=10,max=40"`
	Duration      *int     `json:"duration" validate:"omitempty,gte=1"`
	MaxGroupSize  *int     `json:"maxGroupSize" validate:"omitempty,gte=1"`
	Difficulty    *string  `json:"difficulty" validate:"omitempty,oneof=easy medium difficult"`
	Price         *float64 `json:"price" validate:"omitempty,gt=0"`
	PriceDiscount *float64 `json:"priceDiscount" validate:"omitempty,gt=0"`
	Summary       *string  `json:"summary"`
	Description   *string  `json:"description"`
	ImageCover    *string  `json:"imageCover"`
	Images        []string `json:"images"`
	SecretTour    *bool    `json:"secretTour"`
}

func pointFromPayload(loc tourLocationPayload) (types.GeographyPoint, error) {
	if len(loc.Coordinates) != 2 {
		return types.GeographyPoint{}, pkgerrors.New(pkgerrors.CodeValidation, "coordinates must be [lng, lat]")
	}
	// GeoJSON order: longitude first.
	return types.NewGeographyPoint(loc.Coordinates[1], loc.Coordinates[0]), nil
}

func tourFromCreatePayload(payload createTourPayload) (*models.Tour, error) {
	if payload.PriceDiscount != nil && *payload.PriceDiscount >= payload.Price {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount price should be below regular price")
	}
	difficulty, err := enums.ParseDifficulty(payload.Difficulty)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "difficulty is either: easy, medium, difficult")
	}
	start, err := pointFromPayload(*payload.StartLocation)
	if err != nil {
		return nil, err
	}

	tour := models.Tour{
		Name:         payload.Name,
		Slug:         tours.Slugify(payload.Name),
		Duration:     payload.Duration,
		MaxGroupSize: payload.MaxGroupSize,
		Difficulty:   difficulty,
		Price:        decimal.NewFromFloat(payload.Price),
		Summary:      payload.Summary,
		Description:  payload.Description,
		ImageCover:   payload.ImageCover,
		Images:       datatypes.JSONSlice[string](payload.Images),
		SecretTour:   payload.SecretTour,
		StartLocation: models.GeoLocation{
			Point:       start,
			Address:     payload.StartLocation.Address,
			Description: payload.StartLocation.Description,
		},
	}
	if payload.PriceDiscount != nil {
		discount := decimal.NewFromFloat(*payload.PriceDiscount)
		tour.PriceDiscount = &discount
	}
	for _, startsAt := range payload.StartDates {
		tour.StartDates = append(tour.StartDates, models.TourStartDate{StartsAt: startsAt})
	}
	for _, loc := range payload.Locations {
		point, err := pointFromPayload(loc)
		if err != nil {
			return nil, err
		}
		tour.Locations = append(tour.Locations, models.TourLocation{
			GeoLocation: models.GeoLocation{
				Point:       point,
				Address:     loc.Address,
				Description: loc.Description,
			},
			Day: loc.Day,
		})
	}
	return &tour, nil
}

func tourUpdatesFromPayload(payload updateTourPayload) (map[string]any, error) {
	updates := map[string]any{}
	if payload.Name != nil {
		updates["name"] = *payload.Name
		updates["slug"] = tours.Slugify(*payload.Name)
	}
	if payload.Duration != nil {
		updates["duration"] = *payload.Duration
	}
	if payload.MaxGroupSize != nil {
		updates["max_group_size"] = *payload.MaxGroupSize
	}
	if payload.Difficulty != nil {
		difficulty, err := enums.ParseDifficulty(*payload.Difficulty)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "difficulty is either: easy, medium, difficult")
		}
		updates["difficulty"] = string(difficulty)
	}
	if payload.Price != nil {
		updates["price"] = decimal.NewFromFloat(*payload.Price)
	}
	if payload.PriceDiscount != nil {
		updates["price_discount"] = decimal.NewFromFloat(*payload.PriceDiscount)
	}
	if payload.Summary != nil {
		updates["summary"] = *payload.Summary
	}
	if payload.Description != nil {
		updates["description"] = *payload.Description
	}
	if payload.ImageCover != nil {
		updates["image_cover"] = *payload.ImageCover
	}
	if payload.Images != nil {
		updates["images"] = datatypes.JSONSlice[string](payload.Images)
	}
	if payload.SecretTour != nil {
		updates["secret_tour"] = *payload.SecretTour
	}
	return updates, nil
}

// TourDescriptor wires the tour collection into the generic CRUD handlers.
// Secret tours are invisible to every read path.
func TourDescriptor() crud.Descriptor[models.Tour] {
	return crud.Descriptor[models.Tour]{
		Singular: "tour",
		Resource: tourResource(),
		Preloads:       []string{"StartDates", "Locations", "Guides"},
		DetailPreloads: []string{"Reviews.Author"},
		Scope: func(tx *gorm.DB, _ *http.Request) *gorm.DB {
			return tx.Where("secret_tour = ?", false)
		},
		NewFromRequest: func(r *http.Request) (*models.Tour, error) {
			var payload createTourPayload
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				return nil, err
			}
			return tourFromCreatePayload(payload)
		},
		UpdatesFromRequest: func(r *http.Request) (map[string]any, error) {
			var payload updateTourPayload
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				return nil, err
			}
			return tourUpdatesFromPayload(payload)
		},
	}
}

// AliasTopTours presets the query string for the "top 5 cheap" shortcut
// route before handing off to the regular listing handler.
func AliasTopTours(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		q.Set("limit", "5")
		q.Set("sort", "-ratingsAverage,price")
		q.Set("fields", "name,price,ratingsAverage,summary,difficulty")
		r.URL.RawQuery = q.Encode()
		next(w, r)
	}
}

// TourStats answers the difficulty-bucketed aggregate report.
func TourStats(svc tours.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

// MonthlyPlan answers the per-month departure report for the year path
// parameter.
func MonthlyPlan(svc tours.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, err := validators.ParsePathInt(chi.URLParam(r, "year"), "year")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		plan, err := svc.MonthlyPlan(r.Context(), year)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, len(plan), plan)
	}
}

// ToursWithin lists tours whose start point lies inside the given radius of
// a center expressed as "lat,lng".
func ToursWithin(svc tours.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		distance, err := validators.ParsePathFloat(chi.URLParam(r, "distance"), "distance")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		lat, lng, err := validators.ParseLatLng(chi.URLParam(r, "latlng"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		unit, err := enums.ParseDistanceUnit(chi.URLParam(r, "unit"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unit is either: mi, km"))
			return
		}

		found, err := svc.ToursWithin(r.Context(), lat, lng, distance, unit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, len(found), found)
	}
}

// TourDistances reports the distance from a center point to every tour start
// location, in the requested unit.
func TourDistances(svc tours.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lat, lng, err := validators.ParseLatLng(chi.URLParam(r, "latlng"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		unit, err := enums.ParseDistanceUnit(chi.URLParam(r, "unit"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unit is either: mi, km"))
			return
		}

		distances, err := svc.Distances(r.Context(), lat, lng, unit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, len(distances), distances)
	}
}
