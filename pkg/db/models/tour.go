package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/venkateshdh/gotours-backend/pkg/enums"
	"github.com/venkateshdh/gotours-backend/pkg/types"
)

// GeoLocation is an embeddable PostGIS point with its display metadata.
type GeoLocation struct {
	Point       types.GeographyPoint `gorm:"column:point;type:geography(Point,4326)" json:"coordinates"`
	Address     string               `gorm:"column:address;type:text" json:"address,omitempty"`
	Description string               `gorm:"column:description;type:text" json:"description,omitempty"`
}

// Tour is the primary catalog entity. Rating aggregates are derived from
// reviews and only written by the review domain service.
type Tour struct {
	ID   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name string    `gorm:"type:text;not null;uniqueIndex" json:"name"`
	Slug string    `gorm:"type:text;index" json:"slug"`

	Duration     int              `gorm:"not null" json:"duration"`
	MaxGroupSize int              `gorm:"column:max_group_size;not null" json:"maxGroupSize"`
	Difficulty   enums.Difficulty `gorm:"type:text;not null" json:"difficulty"`

	RatingsAverage  float64 `gorm:"column:ratings_average;not null;default:4.5" json:"ratingsAverage"`
	RatingsQuantity int     `gorm:"column:ratings_quantity;not null;default:0" json:"ratingsQuantity"`

	Price         decimal.Decimal  `gorm:"type:numeric(10,2);not null" json:"price"`
	PriceDiscount *decimal.Decimal `gorm:"type:numeric(10,2)" json:"priceDiscount,omitempty"`

	Summary     string `gorm:"type:text;not null" json:"summary"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	ImageCover string                      `gorm:"column:image_cover;type:text;not null" json:"imageCover"`
	Images     datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"images"`

	// Secret tours are excluded from every default read path.
	SecretTour bool `gorm:"column:secret_tour;not null;default:false" json:"-"`

	StartLocation GeoLocation `gorm:"embedded;embeddedPrefix:start_" json:"startLocation"`

	StartDates []TourStartDate `gorm:"foreignKey:TourID;constraint:OnDelete:CASCADE" json:"startDates,omitempty"`
	Locations  []TourLocation  `gorm:"foreignKey:TourID;constraint:OnDelete:CASCADE" json:"locations,omitempty"`
	Guides     []User          `gorm:"many2many:tour_guides" json:"guides,omitempty"`
	Reviews    []Review        `gorm:"foreignKey:TourID;constraint:OnDelete:CASCADE" json:"reviews,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

// DurationWeeks mirrors the catalog's derived duration-in-weeks display field.
func (t *Tour) DurationWeeks() int {
	if t == nil {
		return 0
	}
	return (t.Duration + 3) / 7
}

// TourStartDate is one scheduled departure of a tour.
type TourStartDate struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"-"`
	TourID   uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	StartsAt time.Time `gorm:"column:starts_at;not null" json:"startsAt"`
}

// TourLocation is a waypoint along a tour's itinerary.
type TourLocation struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"-"`
	TourID uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	GeoLocation
	Day int `gorm:"not null" json:"day"`
}
