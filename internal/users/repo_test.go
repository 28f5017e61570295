package users

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/venkateshdh/gotours-backend/pkg/db/models"
	"github.com/venkateshdh/gotours-backend/pkg/enums"
)

func openUsersDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Exec(
		`CREATE TABLE users (
			id TEXT PRIMARY KEY, name TEXT, email TEXT, photo TEXT, role TEXT,
			password_hash TEXT, password_changed_at DATETIME,
			password_reset_token TEXT, password_reset_expires DATETIME,
			active BOOLEAN, created_at DATETIME, updated_at DATETIME)`,
	).Error)
	return db
}

func seedUser(t *testing.T, db *gorm.DB, user *models.User) *models.User {
	t.Helper()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Role == "" {
		user.Role = enums.RoleUser
	}
	// GORM substitutes the model's default for zero-value fields on Create
	// and backfills the struct, so persist the intended active flag with a
	// column-level update afterwards.
	active := user.Active
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Model(user).Update("active", active).Error)
	user.Active = active
	return user
}

func TestFindByValidResetTokenHash(t *testing.T) {
	db := openUsersDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	digest := "a3f1c2d4e5"
	expires := time.Now().Add(10 * time.Minute)
	active := seedUser(t, db, &models.User{
		Name:                 "Lourdes",
		Email:                "lourdes@example.com",
		PasswordHash:         "hash",
		PasswordResetToken:   &digest,
		PasswordResetExpires: &expires,
		Active:               true,
	})

	found, err := repo.FindByValidResetTokenHash(ctx, digest, time.Now())
	require.NoError(t, err)
	require.Equal(t, active.ID, found.ID)

	// expired token digest never matches
	_, err = repo.FindByValidResetTokenHash(ctx, digest, time.Now().Add(time.Hour))
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFindByValidResetTokenHashSkipsDeactivated(t *testing.T) {
	db := openUsersDB(t)
	repo := NewRepository(db)

	digest := "feedbeef01"
	expires := time.Now().Add(10 * time.Minute)
	seedUser(t, db, &models.User{
		Name:                 "Max",
		Email:                "max@example.com",
		PasswordHash:         "hash",
		PasswordResetToken:   &digest,
		PasswordResetExpires: &expires,
		Active:               false,
	})

	_, err := repo.FindByValidResetTokenHash(context.Background(), digest, time.Now())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFindActiveByEmailNormalizesAndFilters(t *testing.T) {
	db := openUsersDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedUser(t, db, &models.User{Name: "Kate", Email: "kate@example.com", PasswordHash: "hash", Active: true})
	seedUser(t, db, &models.User{Name: "Gone", Email: "gone@example.com", PasswordHash: "hash", Active: false})

	found, err := repo.FindActiveByEmail(ctx, "  Kate@Example.com ")
	require.NoError(t, err)
	require.Equal(t, "Kate", found.Name)

	_, err = repo.FindActiveByEmail(ctx, "gone@example.com")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
