package reviews

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/venkateshdh/gotours-backend/pkg/db"
	"github.com/venkateshdh/gotours-backend/pkg/db/models"
	"github.com/venkateshdh/gotours-backend/pkg/enums"
	pkgerrors "github.com/venkateshdh/gotours-backend/pkg/errors"
)

type reviewsRepository interface {
	Create(ctx context.Context, review *models.Review) (*models.Review, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
	TourExists(ctx context.Context, tourID uuid.UUID) (bool, error)
	RecalcTourRatings(ctx context.Context, tourID uuid.UUID) error
}

// CreateInput carries a new review submission.
type CreateInput struct {
	TourID uuid.UUID
	Review string
	Rating int
}

// UpdateInput carries a partial review edit. Nil fields are left untouched.
type UpdateInput struct {
	Review *string
	Rating *int
}

// Service wraps review mutations so every write is followed by a tour
// rating recomputation.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*models.Review, error)
	Update(ctx context.Context, actor *models.User, reviewID uuid.UUID, input UpdateInput) (*models.Review, error)
	Delete(ctx context.Context, actor *models.User, reviewID uuid.UUID) error
}

type service struct {
	repo reviewsRepository
}

// NewService builds the review service.
func NewService(repo reviewsRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reviews repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*models.Review, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.TourID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "review must belong to a tour")
	}
	text := strings.TrimSpace(input.Review)
	if text == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "review can not be empty!")
	}
	if err := validRating(input.Rating); err != nil {
		return nil, err
	}

	exists, err := s.repo.TourExists(ctx, input.TourID)
	if err != nil {
		return nil, db.Translate(err, "tour")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no tour found with that ID")
	}

	review, err := s.repo.Create(ctx, &models.Review{
		Review: text,
		Rating: input.Rating,
		TourID: input.TourID,
		UserID: userID,
	})
	if err != nil {
		return nil, db.Translate(err, "review")
	}
	if err := s.repo.RecalcTourRatings(ctx, input.TourID); err != nil {
		return nil, db.Translate(err, "tour")
	}
	return review, nil
}

func (s *service) Update(ctx context.Context, actor *models.User, reviewID uuid.UUID, input UpdateInput) (*models.Review, error) {
	existing, err := s.loadForActor(ctx, actor, reviewID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Review != nil {
		text := strings.TrimSpace(*input.Review)
		if text == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "review can not be empty!")
		}
		updates["review"] = text
	}
	if input.Rating != nil {
		if err := validRating(*input.Rating); err != nil {
			return nil, err
		}
		updates["rating"] = *input.Rating
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no updatable fields provided")
	}

	review, err := s.repo.Update(ctx, reviewID, updates)
	if err != nil {
		return nil, db.Translate(err, "review")
	}
	if err := s.repo.RecalcTourRatings(ctx, existing.TourID); err != nil {
		return nil, db.Translate(err, "tour")
	}
	return review, nil
}

func (s *service) Delete(ctx context.Context, actor *models.User, reviewID uuid.UUID) error {
	existing, err := s.loadForActor(ctx, actor, reviewID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, reviewID); err != nil {
		return db.Translate(err, "review")
	}
	if err := s.repo.RecalcTourRatings(ctx, existing.TourID); err != nil {
		return db.Translate(err, "tour")
	}
	return nil
}

// loadForActor fetches the review and enforces that only its author or an
// admin may mutate it.
func (s *service) loadForActor(ctx context.Context, actor *models.User, reviewID uuid.UUID) (*models.Review, error) {
	if actor == nil || actor.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	review, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, db.Translate(err, "review")
	}
	if actor.Role != enums.RoleAdmin && review.UserID != actor.ID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "you do not have permission to perform this action")
	}
	return review, nil
}

func validRating(rating int) error {
	if rating < 1 || rating > 5 {
		return pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1.0 and 5.0")
	}
	return nil
}
