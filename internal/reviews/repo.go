package reviews

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/venkateshdh/gotours-backend/pkg/db/models"
)

// Repository exposes review persistence plus the tour rating rollup.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a review repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new review row.
func (r *Repository) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

// FindByID loads a review together with its author.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).Preload("Author").First(&review, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// Update applies a column map to a review row.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Review, error) {
	tx := r.db.WithContext(ctx).Model(&models.Review{}).Where("id = ?", id).Updates(updates)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(ctx, id)
}

// Delete removes a review row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tx := r.db.WithContext(ctx).Delete(&models.Review{}, "id = ?", id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// TourExists reports whether a non-secret tour with the id exists.
func (r *Repository) TourExists(ctx context.Context, tourID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Tour{}).
		Where("id = ? AND secret_tour = ?", tourID, false).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// RecalcTourRatings rewrites the tour's rating aggregates from its live
// reviews. A tour with no reviews falls back to the 4.5/0 defaults.
func (r *Repository) RecalcTourRatings(ctx context.Context, tourID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE tours
		SET ratings_quantity = agg.cnt,
		    ratings_average  = agg.avg
		FROM (
			SELECT COUNT(*)                                         AS cnt,
			       COALESCE(ROUND(AVG(rating)::numeric, 1), 4.5)    AS avg
			FROM reviews
			WHERE tour_id = ?
		) agg
		WHERE tours.id = ?`, tourID, tourID).Error
}
