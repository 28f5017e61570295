package tours

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/venkateshdh/gotours-backend/pkg/db/models"
	"github.com/venkateshdh/gotours-backend/pkg/enums"
	pkgerrors "github.com/venkateshdh/gotours-backend/pkg/errors"
)

type stubToursRepo struct {
	stats []StatsRow
	plan  []MonthlyPlanRow

	radiusMeters   float64
	radiusLat      float64
	radiusLng      float64
	withinResult   []models.Tour
	distMultiplier float64
	distResult     []TourDistance
}

func (s *stubToursRepo) Stats(ctx context.Context) ([]StatsRow, error) {
	return s.stats, nil
}

func (s *stubToursRepo) MonthlyPlan(ctx context.Context, year int) ([]MonthlyPlanRow, error) {
	return s.plan, nil
}

func (s *stubToursRepo) FindWithinRadius(ctx context.Context, lat, lng, meters float64) ([]models.Tour, error) {
	s.radiusLat, s.radiusLng, s.radiusMeters = lat, lng, meters
	return s.withinResult, nil
}

func (s *stubToursRepo) DistancesFrom(ctx context.Context, lat, lng, multiplier float64) ([]TourDistance, error) {
	s.distMultiplier = multiplier
	return s.distResult, nil
}

func TestToursWithinConvertsUnits(t *testing.T) {
	repo := &stubToursRepo{}
	svc, err := NewService(repo)
	require.NoError(t, err)

	_, err = svc.ToursWithin(context.Background(), 34.1, -118.1, 200, enums.DistanceUnitMiles)
	require.NoError(t, err)
	require.InDelta(t, 200*1609.344, repo.radiusMeters, 0.001)
	require.InDelta(t, 34.1, repo.radiusLat, 1e-9)
	require.InDelta(t, -118.1, repo.radiusLng, 1e-9)

	_, err = svc.ToursWithin(context.Background(), 34.1, -118.1, 200, enums.DistanceUnitKilometers)
	require.NoError(t, err)
	require.InDelta(t, 200000, repo.radiusMeters, 0.001)
}

func TestToursWithinValidation(t *testing.T) {
	svc, err := NewService(&stubToursRepo{})
	require.NoError(t, err)

	_, err = svc.ToursWithin(context.Background(), 34.1, -118.1, 0, enums.DistanceUnitMiles)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.ToursWithin(context.Background(), 34.1, -118.1, 10, enums.DistanceUnit("furlong"))
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestDistancesPicksMultiplier(t *testing.T) {
	repo := &stubToursRepo{}
	svc, err := NewService(repo)
	require.NoError(t, err)

	_, err = svc.Distances(context.Background(), 34.1, -118.1, enums.DistanceUnitMiles)
	require.NoError(t, err)
	require.InDelta(t, 0.000621371, repo.distMultiplier, 1e-12)

	_, err = svc.Distances(context.Background(), 34.1, -118.1, enums.DistanceUnitKilometers)
	require.NoError(t, err)
	require.InDelta(t, 0.001, repo.distMultiplier, 1e-12)
}

func TestMonthlyPlanValidatesYear(t *testing.T) {
	svc, err := NewService(&stubToursRepo{})
	require.NoError(t, err)

	_, err = svc.MonthlyPlan(context.Background(), 99)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.MonthlyPlan(context.Background(), 2026)
	require.NoError(t, err)
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"The Forest Hiker":      "the-forest-hiker",
		"  Sea  Explorer!  ":    "sea-explorer",
		"Café & Crème":          "caf-cr-me",
		"climbing-101":          "climbing-101",
		"---Already--Sluggy---": "already-sluggy",
	}
	for input, want := range cases {
		require.Equal(t, want, Slugify(input), "input %q", input)
	}
}
