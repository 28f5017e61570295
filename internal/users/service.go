package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/venkateshdh/gotours-backend/pkg/db"
	"github.com/venkateshdh/gotours-backend/pkg/db/models"
	pkgerrors "github.com/venkateshdh/gotours-backend/pkg/errors"
)

type usersRepository interface {
	FindActiveByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.User, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// UpdateMeInput carries the self-service profile fields. Anything else a
// client sends never reaches the database.
type UpdateMeInput struct {
	Name  *string
	Email *string
	Photo *string
}

// Service exposes the self-service account surface.
type Service interface {
	Me(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateMe(ctx context.Context, userID uuid.UUID, input UpdateMeInput) (*models.User, error)
	DeactivateMe(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	repo usersRepository
}

// NewService builds the account service.
func NewService(repo usersRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	user, err := s.repo.FindActiveByID(ctx, userID)
	if err != nil {
		return nil, db.Translate(err, "user")
	}
	return user, nil
}

func (s *service) UpdateMe(ctx context.Context, userID uuid.UUID, input UpdateMeInput) (*models.User, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		updates["name"] = name
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "email cannot be empty")
		}
		updates["email"] = email
	}
	if input.Photo != nil {
		updates["photo"] = strings.TrimSpace(*input.Photo)
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no updatable fields provided")
	}

	user, err := s.repo.UpdateProfile(ctx, userID, updates)
	if err != nil {
		return nil, db.Translate(err, "user")
	}
	return user, nil
}

func (s *service) DeactivateMe(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if err := s.repo.Deactivate(ctx, userID); err != nil {
		return db.Translate(err, "user")
	}
	return nil
}
