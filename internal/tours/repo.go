package tours

import (
	"context"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/venkateshdh/gotours-backend/pkg/db/models"
)

// StatsRow aggregates the catalogue per difficulty, limited to well-rated
// tours.
type StatsRow struct {
	Difficulty string  `json:"difficulty"`
	NumTours   int     `json:"numTours"`
	NumRatings int     `json:"numRatings"`
	AvgRating  float64 `json:"avgRating"`
	AvgPrice   float64 `json:"avgPrice"`
	MinPrice   float64 `json:"minPrice"`
	MaxPrice   float64 `json:"maxPrice"`
}

// MonthlyPlanRow counts tour starts per calendar month of a year.
type MonthlyPlanRow struct {
	Month         int            `json:"month"`
	NumTourStarts int            `json:"numTourStarts"`
	Tours         pq.StringArray `gorm:"type:text[]" json:"tours"`
}

// TourDistance pairs a tour with its distance from a reference point.
type TourDistance struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Distance float64   `json:"distance"`
}

// Repository exposes tour persistence operations that fall outside the
// generic CRUD surface.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a tour repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Stats aggregates per-difficulty figures over tours rated 4.5 or better.
func (r *Repository) Stats(ctx context.Context) ([]StatsRow, error) {
	var rows []StatsRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT UPPER(difficulty)            AS difficulty,
		       COUNT(*)                     AS num_tours,
		       SUM(ratings_quantity)        AS num_ratings,
		       AVG(ratings_average)         AS avg_rating,
		       AVG(price)                   AS avg_price,
		       MIN(price)                   AS min_price,
		       MAX(price)                   AS max_price
		FROM tours
		WHERE ratings_average >= 4.5 AND secret_tour = FALSE
		GROUP BY UPPER(difficulty)
		ORDER BY avg_price`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// MonthlyPlan counts departures per month of the given year, busiest month
// first.
func (r *Repository) MonthlyPlan(ctx context.Context, year int) ([]MonthlyPlanRow, error) {
	var rows []MonthlyPlanRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT EXTRACT(MONTH FROM d.starts_at)::int AS month,
		       COUNT(*)                             AS num_tour_starts,
		       ARRAY_AGG(t.name ORDER BY t.name)    AS tours
		FROM tour_start_dates d
		JOIN tours t ON t.id = d.tour_id
		WHERE EXTRACT(YEAR FROM d.starts_at)::int = ? AND t.secret_tour = FALSE
		GROUP BY EXTRACT(MONTH FROM d.starts_at)
		ORDER BY num_tour_starts DESC, month ASC`, year).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindWithinRadius returns tours starting within the given radius (meters)
// of the point.
func (r *Repository) FindWithinRadius(ctx context.Context, lat, lng, meters float64) ([]models.Tour, error) {
	var rows []models.Tour
	err := r.db.WithContext(ctx).
		Where("secret_tour = ?", false).
		Where("start_point IS NOT NULL").
		Where("ST_DWithin(start_point, ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography, ?)", lng, lat, meters).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DistancesFrom lists every tour's start distance from the point, nearest
// first. The multiplier converts from meters to the caller's unit.
func (r *Repository) DistancesFrom(ctx context.Context, lat, lng, multiplier float64) ([]TourDistance, error) {
	var rows []TourDistance
	err := r.db.WithContext(ctx).Raw(`
		SELECT id,
		       name,
		       ST_Distance(start_point, ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography) * ? AS distance
		FROM tours
		WHERE start_point IS NOT NULL AND secret_tour = FALSE
		ORDER BY distance ASC`, lng, lat, multiplier).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
