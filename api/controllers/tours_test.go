package controllers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venkateshdh/gotours-backend/internal/tours"
	"github.com/venkateshdh/gotours-backend/pkg/db/models"
	"github.com/venkateshdh/gotours-backend/pkg/enums"
	"github.com/venkateshdh/gotours-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "controllers-test", Output: io.Discard})
}

// routeRequest injects chi URL params the way the router would.
func routeRequest(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

type stubTours struct {
	statsErr error

	withinLat, withinLng, withinDistance float64
	withinUnit                           enums.DistanceUnit

	distancesUnit enums.DistanceUnit
}

func (s *stubTours) Stats(context.Context) ([]tours.StatsRow, error) {
	if s.statsErr != nil {
		return nil, s.statsErr
	}
	return []tours.StatsRow{{Difficulty: "EASY", NumTours: 3, AvgPrice: 397}}, nil
}

func (s *stubTours) MonthlyPlan(_ context.Context, year int) ([]tours.MonthlyPlanRow, error) {
	return []tours.MonthlyPlanRow{{Month: 6, NumTourStarts: 2}}, nil
}

func (s *stubTours) ToursWithin(_ context.Context, lat, lng, distance float64, unit enums.DistanceUnit) ([]models.Tour, error) {
	s.withinLat, s.withinLng, s.withinDistance, s.withinUnit = lat, lng, distance, unit
	return []models.Tour{{Name: "The Sea Explorer"}}, nil
}

func (s *stubTours) Distances(_ context.Context, lat, lng float64, unit enums.DistanceUnit) ([]tours.TourDistance, error) {
	s.distancesUnit = unit
	return []tours.TourDistance{{Name: "The Sea Explorer", Distance: 12.5}}, nil
}

func TestAliasTopToursPresetsQuery(t *testing.T) {
	var captured *http.Request
	handler := AliasTopTours(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/tours/top-5-cheap", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, captured)
	q := captured.URL.Query()
	assert.Equal(t, "5", q.Get("limit"))
	assert.Equal(t, "-ratingsAverage,price", q.Get("sort"))
	assert.Equal(t, "name,price,ratingsAverage,summary,difficulty", q.Get("fields"))
}

func TestTourStats(t *testing.T) {
	handler := TourStats(&stubTours{}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/tours/tour-stats", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "EASY")
}

func TestToursWithinParsesPathParams(t *testing.T) {
	svc := &stubTours{}
	handler := ToursWithin(svc, testLogger())

	req := routeRequest(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{
		"distance": "250",
		"latlng":   "34.111745,-118.113491",
		"unit":     "mi",
	})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.InDelta(t, 34.111745, svc.withinLat, 1e-9)
	assert.InDelta(t, -118.113491, svc.withinLng, 1e-9)
	assert.InDelta(t, 250, svc.withinDistance, 1e-9)
	assert.Equal(t, enums.DistanceUnitMiles, svc.withinUnit)
}

func TestToursWithinRejectsBadInput(t *testing.T) {
	handler := ToursWithin(&stubTours{}, testLogger())

	for name, params := range map[string]map[string]string{
		"bad distance": {"distance": "far", "latlng": "34,-118", "unit": "mi"},
		"bad latlng":   {"distance": "250", "latlng": "34", "unit": "mi"},
		"bad unit":     {"distance": "250", "latlng": "34,-118", "unit": "furlong"},
	} {
		req := routeRequest(httptest.NewRequest(http.MethodGet, "/", nil), params)
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		assert.Equal(t, http.StatusBadRequest, resp.Code, name)
	}
}

func TestTourDistances(t *testing.T) {
	svc := &stubTours{}
	handler := TourDistances(svc, testLogger())

	req := routeRequest(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{
		"latlng": "34.111745,-118.113491",
		"unit":   "km",
	})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, enums.DistanceUnitKilometers, svc.distancesUnit)
	assert.Contains(t, resp.Body.String(), "12.5")
}

func TestTourFromCreatePayload(t *testing.T) {
	payload := createTourPayload{
		Name:         "The Forest Hiker",
		Duration:     5,
		MaxGroupSize: 25,
		Difficulty:   "easy",
		Price:        397,
		Summary:      "Breathtaking hike",
		ImageCover:   "tour-1-cover.jpg",
		StartLocation: &tourLocationPayload{
			Coordinates: []float64{-115.570154, 51.178456},
			Description: "Banff, CAN",
		},
	}

	tour, err := tourFromCreatePayload(payload)
	require.NoError(t, err)
	assert.Equal(t, "the-forest-hiker", tour.Slug)
	assert.Equal(t, enums.DifficultyEasy, tour.Difficulty)
	assert.InDelta(t, 51.178456, tour.StartLocation.Point.Lat, 1e-9)
	assert.InDelta(t, -115.570154, tour.StartLocation.Point.Lng, 1e-9)

	discount := 500.0
	payload.PriceDiscount = &discount
	_, err = tourFromCreatePayload(payload)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "below regular price")
}

func TestTourUpdatesRegenerateSlug(t *testing.T) {
	name := "The Park Camper"
	updates, err := tourUpdatesFromPayload(updateTourPayload{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "The Park Camper", updates["name"])
	assert.Equal(t, "the-park-camper", updates["slug"])

	bad := "extreme"
	_, err = tourUpdatesFromPayload(updateTourPayload{Difficulty: &bad})
	require.Error(t, err)
}
