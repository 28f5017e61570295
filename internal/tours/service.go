package tours

import (
	"context"
	"fmt"

	"github.com/venkateshdh/gotours-backend/pkg/db"
	"github.com/venkateshdh/gotours-backend/pkg/db/models"
	"github.com/venkateshdh/gotours-backend/pkg/enums"
	pkgerrors "github.com/venkateshdh/gotours-backend/pkg/errors"
)

const (
	metersPerMile      = 1609.344
	metersPerKilometer = 1000.0

	milesPerMeter      = 0.000621371
	kilometersPerMeter = 0.001
)

type toursRepository interface {
	Stats(ctx context.Context) ([]StatsRow, error)
	MonthlyPlan(ctx context.Context, year int) ([]MonthlyPlanRow, error)
	FindWithinRadius(ctx context.Context, lat, lng, meters float64) ([]models.Tour, error)
	DistancesFrom(ctx context.Context, lat, lng, multiplier float64) ([]TourDistance, error)
}

// Service exposes the reporting and geospatial tour surface.
type Service interface {
	Stats(ctx context.Context) ([]StatsRow, error)
	MonthlyPlan(ctx context.Context, year int) ([]MonthlyPlanRow, error)
	ToursWithin(ctx context.Context, lat, lng, distance float64, unit enums.DistanceUnit) ([]models.Tour, error)
	Distances(ctx context.Context, lat, lng float64, unit enums.DistanceUnit) ([]TourDistance, error)
}

type service struct {
	repo toursRepository
}

// NewService builds the tour reporting service.
func NewService(repo toursRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("tours repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Stats(ctx context.Context) ([]StatsRow, error) {
	rows, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, db.Translate(err, "tour")
	}
	return rows, nil
}

func (s *service) MonthlyPlan(ctx context.Context, year int) ([]MonthlyPlanRow, error) {
	if year < 1900 || year > 2200 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "please provide a valid year")
	}
	rows, err := s.repo.MonthlyPlan(ctx, year)
	if err != nil {
		return nil, db.Translate(err, "tour")
	}
	return rows, nil
}

func (s *service) ToursWithin(ctx context.Context, lat, lng, distance float64, unit enums.DistanceUnit) ([]models.Tour, error) {
	if distance <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "distance must be positive")
	}
	if !unit.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit is either: mi, km")
	}

	meters := distance * metersPerKilometer
	if unit == enums.DistanceUnitMiles {
		meters = distance * metersPerMile
	}

	rows, err := s.repo.FindWithinRadius(ctx, lat, lng, meters)
	if err != nil {
		return nil, db.Translate(err, "tour")
	}
	return rows, nil
}

func (s *service) Distances(ctx context.Context, lat, lng float64, unit enums.DistanceUnit) ([]TourDistance, error) {
	if !unit.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit is either: mi, km")
	}

	multiplier := kilometersPerMeter
	if unit == enums.DistanceUnitMiles {
		multiplier = milesPerMeter
	}

	rows, err := s.repo.DistancesFrom(ctx, lat, lng, multiplier)
	if err != nil {
		return nil, db.Translate(err, "tour")
	}
	return rows, nil
}
