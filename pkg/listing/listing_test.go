package listing_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/venkateshdh/gotours-backend/pkg/listing"
)

type trip struct {
	ID       uint `gorm:"primaryKey"`
	Name     string
	Price    float64
	Rating   float64
	Duration int
}

func tripResource() listing.Resource {
	return listing.Resource{
		Filterable: map[string]string{
			"name":     "name",
			"price":    "price",
			"rating":   "rating",
			"duration": "duration",
		},
		Sortable: map[string]string{
			"name":   "name",
			"price":  "price",
			"rating": "rating",
		},
		Selectable: map[string]string{
			"name":  "name",
			"price": "price",
		},
		DefaultSort: "id DESC",
	}
}

func newListingDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&trip{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	seed := []trip{
		{Name: "forest", Price: 397, Rating: 4.7, Duration: 5},
		{Name: "sea", Price: 497, Rating: 4.8, Duration: 7},
		{Name: "city", Price: 997, Rating: 4.5, Duration: 9},
		{Name: "park", Price: 1497, Rating: 3.9, Duration: 10},
	}
	if err := conn.Create(&seed).Error; err != nil {
		t.Fatalf("failed to seed: %v", err)
	}
	return conn
}

func queryValues(t *testing.T, raw string) url.Values {
	t.Helper()
	values, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return values
}

func TestApplyFilters_EqualityAndOperators(t *testing.T) {
	db := newListingDB(t)

	var out []trip
	tx := listing.ApplyFilters(db.Model(&trip{}), queryValues(t, "duration=5"), tripResource())
	require.NoError(t, tx.Find(&out).Error)
	require.Len(t, out, 1)
	require.Equal(t, "forest", out[0].Name)

	out = nil
	tx = listing.ApplyFilters(db.Model(&trip{}), queryValues(t, "price[gte]=497&rating[gt]=4"), tripResource())
	require.NoError(t, tx.Find(&out).Error)
	require.Len(t, out, 2)
}

func TestApplyFilters_IgnoresUnknownKeysAndOperators(t *testing.T) {
	db := newListingDB(t)

	var out []trip
	tx := listing.ApplyFilters(db.Model(&trip{}), queryValues(t, "hack=1&price[bogus]=10&page=3"), tripResource())
	require.NoError(t, tx.Find(&out).Error)
	require.Len(t, out, 4)
}

func TestApplySort(t *testing.T) {
	db := newListingDB(t)

	var out []trip
	tx := listing.ApplySort(db.Model(&trip{}), "-price,name", tripResource())
	require.NoError(t, tx.Find(&out).Error)
	require.Equal(t, "park", out[0].Name)
	require.Equal(t, "forest", out[len(out)-1].Name)
}

func TestApplySort_DefaultWhenNothingSurvives(t *testing.T) {
	db := newListingDB(t)

	var out []trip
	tx := listing.ApplySort(db.Model(&trip{}), "nope,-whatever", tripResource())
	require.NoError(t, tx.Find(&out).Error)
	// default sort is id DESC, so the last inserted row comes first
	require.Equal(t, "park", out[0].Name)
}

func TestApplyFields(t *testing.T) {
	db := newListingDB(t)

	var out []trip
	tx := listing.ApplyFields(db.Model(&trip{}), "name,price,secret", tripResource())
	require.NoError(t, tx.Find(&out).Error)
	require.NotEmpty(t, out)
	require.NotEmpty(t, out[0].Name)
	require.Zero(t, out[0].Duration)
}

func TestApplyFields_KeepsID(t *testing.T) {
	db := newListingDB(t)

	var out []trip
	tx := listing.ApplyFields(db.Model(&trip{}), "name,price", tripResource())
	require.NoError(t, tx.Find(&out).Error)
	require.NotEmpty(t, out)
	for _, row := range out {
		require.NotZero(t, row.ID)
	}
}

func TestResolvePage(t *testing.T) {
	page := listing.ResolvePage(queryValues(t, "page=3&limit=10"))
	require.Equal(t, 3, page.Number)
	require.Equal(t, 10, page.Limit)
	require.Equal(t, 20, page.Offset)

	page = listing.ResolvePage(queryValues(t, ""))
	require.Equal(t, listing.DefaultPage, page.Number)
	require.Equal(t, listing.DefaultLimit, page.Limit)
	require.Equal(t, 0, page.Offset)

	page = listing.ResolvePage(queryValues(t, "page=zero&limit=-5"))
	require.Equal(t, listing.DefaultPage, page.Number)
	require.Equal(t, listing.DefaultLimit, page.Limit)
}

func TestApply_EndToEnd(t *testing.T) {
	db := newListingDB(t)

	var out []trip
	tx, page := listing.Apply(db.Model(&trip{}), queryValues(t, "price[lte]=997&sort=price&page=1&limit=2"), tripResource())
	require.NoError(t, tx.Find(&out).Error)
	require.Equal(t, 2, page.Limit)
	require.Len(t, out, 2)
	require.Equal(t, "forest", out[0].Name)
	require.Equal(t, "sea", out[1].Name)
}
