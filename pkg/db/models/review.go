package models

import (
	"time"

	"github.com/google/uuid"
)

// Review holds one user's rating of one tour. The (user, tour) pair is unique
// so a user can never review the same tour twice.
type Review struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Review string    `gorm:"type:text;not null" json:"review"`
	Rating int       `gorm:"not null" json:"rating"`

	TourID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_tour,priority:2" json:"tour"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_tour,priority:1" json:"user"`

	Author *User `gorm:"foreignKey:UserID" json:"author,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}
