package importer

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/venkateshdh/gotours-backend/pkg/config"
	"github.com/venkateshdh/gotours-backend/pkg/enums"
	"github.com/venkateshdh/gotours-backend/pkg/logger"
	"github.com/venkateshdh/gotours-backend/pkg/security"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "importer-test", Output: io.Discard})
}

func fastPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	}
}

func openImporterDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE users (
			id TEXT PRIMARY KEY, name TEXT, email TEXT, photo TEXT, role TEXT,
			password_hash TEXT, password_changed_at DATETIME,
			password_reset_token TEXT, password_reset_expires DATETIME,
			active BOOLEAN, created_at DATETIME, updated_at DATETIME)`,
		`CREATE TABLE tours (id TEXT PRIMARY KEY, name TEXT)`,
		`CREATE TABLE tour_start_dates (id TEXT, tour_id TEXT, starts_at DATETIME)`,
		`CREATE TABLE tour_locations (id TEXT, tour_id TEXT, point TEXT, address TEXT, description TEXT, day INTEGER)`,
		`CREATE TABLE tour_guides (tour_id TEXT, user_id TEXT)`,
		`CREATE TABLE reviews (id TEXT, review TEXT, rating INTEGER, tour_id TEXT, user_id TEXT)`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func writeFixture(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestImportUsersHashesPasswords(t *testing.T) {
	db := openImporterDB(t)
	svc, err := NewService(db, fastPasswordConfig(), testLogger())
	require.NoError(t, err)

	dir := t.TempDir()
	userID := uuid.New()
	writeFixture(t, dir, UsersFile, `[
		{"id":"`+userID.String()+`","name":"Ada","email":"ada@example.com","role":"guide","password":"pass1234"}
	]`)

	require.NoError(t, svc.Import(context.Background(), dir))

	var row struct {
		Email        string
		Role         string
		PasswordHash string
		Active       bool
	}
	require.NoError(t, db.Table("users").Where("id = ?", userID).Take(&row).Error)
	assert.Equal(t, "ada@example.com", row.Email)
	assert.Equal(t, "guide", row.Role)
	assert.True(t, row.Active)
	assert.NotEqual(t, "pass1234", row.PasswordHash)

	ok, err := security.VerifyPassword("pass1234", row.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestImportSkipsMissingFiles(t *testing.T) {
	db := openImporterDB(t)
	svc, err := NewService(db, fastPasswordConfig(), testLogger())
	require.NoError(t, err)

	require.NoError(t, svc.Import(context.Background(), t.TempDir()))
}

func TestImportRejectsUnknownRole(t *testing.T) {
	db := openImporterDB(t)
	svc, err := NewService(db, fastPasswordConfig(), testLogger())
	require.NoError(t, err)

	dir := t.TempDir()
	writeFixture(t, dir, UsersFile, `[
		{"id":"`+uuid.NewString()+`","name":"Eve","email":"eve@example.com","role":"owner","password":"pass1234"}
	]`)

	err = svc.Import(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "eve@example.com")
}

func TestDeleteWipesAllTables(t *testing.T) {
	db := openImporterDB(t)
	svc, err := NewService(db, fastPasswordConfig(), testLogger())
	require.NoError(t, err)

	require.NoError(t, db.Exec(`INSERT INTO users (id, name) VALUES (?, ?)`, uuid.NewString(), "Ada").Error)
	require.NoError(t, db.Exec(`INSERT INTO tours (id, name) VALUES (?, ?)`, uuid.NewString(), "Forest Hiker").Error)
	require.NoError(t, db.Exec(`INSERT INTO reviews (id, review, rating) VALUES (?, ?, ?)`, uuid.NewString(), "great", 5).Error)

	require.NoError(t, svc.Delete(context.Background()))

	for _, table := range []string{"users", "tours", "reviews"} {
		var count int64
		require.NoError(t, db.Table(table).Count(&count).Error)
		assert.Zero(t, count, table)
	}
}

func TestTourFromFixtureMapsGeoJSONOrder(t *testing.T) {
	discount := 397.0
	fixture := tourFixture{
		ID:           uuid.New(),
		Name:         "The Sea Explorer",
		Slug:         "the-sea-explorer",
		Duration:     7,
		MaxGroupSize: 15,
		Difficulty:   "medium",
		Price:        497,
		PriceDiscount: &discount,
		Summary:      "Exploring the jaw-dropping US east coast by foot and by boat",
		ImageCover:   "tour-2-cover.jpg",
		StartLocation: locationFixture{
			Coordinates: []float64{-80.185942, 25.774772},
			Address:     "Miami, USA",
			Description: "Miami",
		},
		Locations: []locationFixture{
			{Coordinates: []float64{-80.128473, 25.781842}, Description: "Lummus Park Beach", Day: 1},
		},
		Guides: []uuid.UUID{uuid.New()},
	}

	tour, err := tourFromFixture(fixture)
	require.NoError(t, err)
	assert.Equal(t, enums.DifficultyMedium, tour.Difficulty)
	assert.InDelta(t, 25.774772, tour.StartLocation.Point.Lat, 1e-9)
	assert.InDelta(t, -80.185942, tour.StartLocation.Point.Lng, 1e-9)
	require.NotNil(t, tour.PriceDiscount)
	assert.Equal(t, "397", tour.PriceDiscount.String())
	require.Len(t, tour.Locations, 1)
	assert.Equal(t, 1, tour.Locations[0].Day)
	require.Len(t, tour.Guides, 1)
	assert.Equal(t, fixture.Guides[0], tour.Guides[0].ID)

	fixture.StartLocation.Coordinates = []float64{1}
	_, err = tourFromFixture(fixture)
	require.Error(t, err)

	fixture.StartLocation.Coordinates = []float64{-80.185942, 25.774772}
	fixture.Difficulty = "impossible"
	_, err = tourFromFixture(fixture)
	require.Error(t, err)
}
