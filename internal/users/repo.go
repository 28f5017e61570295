package users

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/venkateshdh/gotours-backend/pkg/db/models"
)

// Repository exposes user persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a user repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user row.
func (r *Repository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindActiveByID returns a non-deactivated user by id.
func (r *Repository) FindActiveByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindActiveByEmail returns a non-deactivated user by email.
func (r *Repository) FindActiveByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		First(&user, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByValidResetTokenHash returns the user holding an unexpired reset
// token digest.
func (r *Repository) FindByValidResetTokenHash(ctx context.Context, digest string, now time.Time) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Where("password_reset_token = ?", digest).
		Where("password_reset_expires > ?", now).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Save persists the full user row.
func (r *Repository) Save(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// UpdateProfile applies a column map to the user row.
func (r *Repository) UpdateProfile(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.User, error) {
	tx := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindActiveByID(ctx, id)
}

// Deactivate soft-deletes the account. The row stays for audit but stops
// resolving on login and token checks.
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	tx := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("active", false)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ClearResetToken wipes reset token state after use or failure.
func (r *Repository) ClearResetToken(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(map[string]any{
		"password_reset_token":   nil,
		"password_reset_expires": nil,
	}).Error
}
