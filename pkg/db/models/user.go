package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/venkateshdh/gotours-backend/pkg/enums"
)

// User represents the canonical identity entity. Password material and the
// soft-delete flag never serialize.
type User struct {
	ID    uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name  string     `gorm:"type:text;not null" json:"name"`
	Email string     `gorm:"type:text;not null;uniqueIndex" json:"email"`
	Photo string     `gorm:"type:text" json:"photo,omitempty"`
	Role  enums.Role `gorm:"type:text;not null;default:'user'" json:"role"`

	PasswordHash         string     `gorm:"column:password_hash;not null" json:"-"`
	PasswordChangedAt    *time.Time `gorm:"column:password_changed_at" json:"-"`
	PasswordResetToken   *string    `gorm:"column:password_reset_token" json:"-"`
	PasswordResetExpires *time.Time `gorm:"column:password_reset_expires" json:"-"`

	Active bool `gorm:"column:active;not null;default:true" json:"-"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

// PasswordChangedAfter reports whether the stored password was rotated after
// the supplied token issuance time.
func (u *User) PasswordChangedAfter(issuedAt time.Time) bool {
	if u == nil || u.PasswordChangedAt == nil {
		return false
	}
	return u.PasswordChangedAt.After(issuedAt)
}
