package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/venkateshdh/gotours-backend/pkg/config"
	"github.com/venkateshdh/gotours-backend/pkg/db/models"
	"github.com/venkateshdh/gotours-backend/pkg/enums"
	"github.com/venkateshdh/gotours-backend/pkg/logger"
	"github.com/venkateshdh/gotours-backend/pkg/security"
	"github.com/venkateshdh/gotours-backend/pkg/types"
)

// Fixture file names the importer looks for inside the data directory.
const (
	ToursFile   = "tours.json"
	UsersFile   = "users.json"
	ReviewsFile = "reviews.json"
)

// locationFixture carries a point as [lng, lat], GeoJSON order.
type locationFixture struct {
	Coordinates []float64 `json:"coordinates"`
	Address     string    `json:"address"`
	Description string    `json:"description"`
	Day         int       `json:"day"`
}

type tourFixture struct {
	ID              uuid.UUID         `json:"id"`
	Name            string            `json:"name"`
	Slug            string            `json:"slug"`
	Duration        int               `json:"duration"`
	MaxGroupSize    int               `json:"maxGroupSize"`
	Difficulty      string            `json:"difficulty"`
	RatingsAverage  float64           `json:"ratingsAverage"`
	RatingsQuantity int               `json:"ratingsQuantity"`
	Price           float64           `json:"price"`
	PriceDiscount   *float64          `json:"priceDiscount"`
	Summary         string            `json:"summary"`
	Description     string            `json:"description"`
	ImageCover      string            `json:"imageCover"`
	Images          []string          `json:"images"`
	SecretTour      bool              `json:"secretTour"`
	StartDates      []time.Time       `json:"startDates"`
	StartLocation   locationFixture   `json:"startLocation"`
	Locations       []locationFixture `json:"locations"`
	Guides          []uuid.UUID       `json:"guides"`
}

type userFixture struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Photo    string    `json:"photo"`
	Role     string    `json:"role"`
	Password string    `json:"password"`
}

type reviewFixture struct {
	Review string    `json:"review"`
	Rating int       `json:"rating"`
	Tour   uuid.UUID `json:"tour"`
	User   uuid.UUID `json:"user"`
}

// Service loads development fixtures into the database and wipes them again.
type Service struct {
	db    *gorm.DB
	pwCfg config.PasswordConfig
	logg  *logger.Logger
}

// NewService builds the fixture importer.
func NewService(db *gorm.DB, pwCfg config.PasswordConfig, logg *logger.Logger) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{db: db, pwCfg: pwCfg, logg: logg}, nil
}

// Import reads the fixture files from dir and inserts them in dependency
// order: users, then tours, then reviews. Missing files are skipped. Rating
// aggregates are recomputed for every tour that received reviews.
func (s *Service) Import(ctx context.Context, dir string) error {
	users, err := s.importUsers(ctx, dir)
	if err != nil {
		return err
	}
	tours, err := s.importTours(ctx, dir)
	if err != nil {
		return err
	}
	reviews, err := s.importReviews(ctx, dir)
	if err != nil {
		return err
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"users":   users,
		"tours":   tours,
		"reviews": reviews,
	}), "importer.loaded")
	return nil
}

// Delete wipes all fixture-managed tables. Review and tour child rows go
// first so foreign keys never block the sweep.
func (s *Service) Delete(ctx context.Context) error {
	tables := []string{
		"reviews",
		"tour_guides",
		"tour_start_dates",
		"tour_locations",
		"tours",
		"users",
	}
	for _, table := range tables {
		if err := s.db.WithContext(ctx).Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("wiping %s: %w", table, err)
		}
	}
	s.logg.Info(ctx, "importer.deleted")
	return nil
}

func (s *Service) importUsers(ctx context.Context, dir string) (int, error) {
	var fixtures []userFixture
	found, err := readFixture(dir, UsersFile, &fixtures)
	if err != nil || !found {
		return 0, err
	}
	for _, f := range fixtures {
		role, err := enums.ParseRole(f.Role)
		if err != nil {
			return 0, fmt.Errorf("user %q: %w", f.Email, err)
		}
		hash, err := security.HashPassword(f.Password, s.pwCfg)
		if err != nil {
			return 0, fmt.Errorf("user %q: %w", f.Email, err)
		}
		user := models.User{
			ID:           f.ID,
			Name:         f.Name,
			Email:        f.Email,
			Photo:        f.Photo,
			Role:         role,
			PasswordHash: hash,
			Active:       true,
		}
		if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
			return 0, fmt.Errorf("user %q: %w", f.Email, err)
		}
	}
	return len(fixtures), nil
}

func (s *Service) importTours(ctx context.Context, dir string) (int, error) {
	var fixtures []tourFixture
	found, err := readFixture(dir, ToursFile, &fixtures)
	if err != nil || !found {
		return 0, err
	}
	for _, f := range fixtures {
		tour, err := tourFromFixture(f)
		if err != nil {
			return 0, fmt.Errorf("tour %q: %w", f.Name, err)
		}
		// Guides reference users inserted above, so only the join rows
		// are written here.
		if err := s.db.WithContext(ctx).Omit("Guides.*").Create(tour).Error; err != nil {
			return 0, fmt.Errorf("tour %q: %w", f.Name, err)
		}
	}
	return len(fixtures), nil
}

func (s *Service) importReviews(ctx context.Context, dir string) (int, error) {
	var fixtures []reviewFixture
	found, err := readFixture(dir, ReviewsFile, &fixtures)
	if err != nil || !found {
		return 0, err
	}
	touched := map[uuid.UUID]struct{}{}
	for i, f := range fixtures {
		review := models.Review{
			Review: f.Review,
			Rating: f.Rating,
			TourID: f.Tour,
			UserID: f.User,
		}
		if err := s.db.WithContext(ctx).Create(&review).Error; err != nil {
			return 0, fmt.Errorf("review %d: %w", i, err)
		}
		touched[f.Tour] = struct{}{}
	}
	for tourID := range touched {
		if err := s.recalcTourRatings(ctx, tourID); err != nil {
			return 0, err
		}
	}
	return len(fixtures), nil
}

func (s *Service) recalcTourRatings(ctx context.Context, tourID uuid.UUID) error {
	return s.db.WithContext(ctx).Exec(`
		UPDATE tours
		SET ratings_quantity = agg.cnt,
		    ratings_average  = agg.avg
		FROM (
			SELECT COUNT(*)                                      AS cnt,
			       COALESCE(ROUND(AVG(rating)::numeric, 1), 4.5) AS avg
			FROM reviews
			WHERE tour_id = ?
		) agg
		WHERE tours.id = ?`, tourID, tourID).Error
}

func tourFromFixture(f tourFixture) (*models.Tour, error) {
	difficulty, err := enums.ParseDifficulty(f.Difficulty)
	if err != nil {
		return nil, err
	}
	start, err := pointFromFixture(f.StartLocation)
	if err != nil {
		return nil, fmt.Errorf("start location: %w", err)
	}

	tour := models.Tour{
		ID:              f.ID,
		Name:            f.Name,
		Slug:            f.Slug,
		Duration:        f.Duration,
		MaxGroupSize:    f.MaxGroupSize,
		Difficulty:      difficulty,
		RatingsAverage:  f.RatingsAverage,
		RatingsQuantity: f.RatingsQuantity,
		Price:           decimal.NewFromFloat(f.Price),
		Summary:         f.Summary,
		Description:     f.Description,
		ImageCover:      f.ImageCover,
		Images:          datatypes.JSONSlice[string](f.Images),
		SecretTour:      f.SecretTour,
		StartLocation: models.GeoLocation{
			Point:       start,
			Address:     f.StartLocation.Address,
			Description: f.StartLocation.Description,
		},
	}
	if f.PriceDiscount != nil {
		discount := decimal.NewFromFloat(*f.PriceDiscount)
		tour.PriceDiscount = &discount
	}
	for _, startsAt := range f.StartDates {
		tour.StartDates = append(tour.StartDates, models.TourStartDate{StartsAt: startsAt})
	}
	for i, loc := range f.Locations {
		point, err := pointFromFixture(loc)
		if err != nil {
			return nil, fmt.Errorf("location %d: %w", i, err)
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
	for _, guideID := range f.Guides {
		tour.Guides = append(tour.Guides, models.User{ID: guideID})
	}
	return &tour, nil
}

func pointFromFixture(loc locationFixture) (types.GeographyPoint, error) {
	if len(loc.Coordinates) != 2 {
		return types.GeographyPoint{}, fmt.Errorf("coordinates must be [lng, lat]")
	}
	return types.NewGeographyPoint(loc.Coordinates[1], loc.Coordinates[0]), nil
}

// readFixture decodes dir/name into out. Returns found=false when the file
// does not exist.
func readFixture(dir, name string, out any) (bool, error) {
	raw, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("reading %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("parsing %s: %w", name, err)
	}
	return true, nil
}
