package validators

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	pkgerrors "github.com/venkateshdh/gotours-backend/pkg/errors"
)

// ParseUUIDParam validates a URL path parameter as a UUID.
func ParseUUIDParam(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid identifier").WithDetails(map[string]any{"field": field})
	}
	return id, nil
}

// ParsePathInt validates a URL path parameter as an integer.
func ParsePathInt(raw, field string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "path parameter must be numeric").WithDetails(map[string]any{"field": field})
	}
	return value, nil
}

// ParsePathFloat validates a URL path parameter as a number.
func ParsePathFloat(raw, field string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "path parameter must be numeric").WithDetails(map[string]any{"field": field})
	}
	return value, nil
}

// ParseLatLng splits a "lat,lng" path segment into coordinates.
func ParseLatLng(raw string) (lat, lng float64, err error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return 0, 0, pkgerrors.New(pkgerrors.CodeValidation, "please provide latitude and longitude in the format lat,lng")
	}
	lat, latErr := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lng, lngErr := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if latErr != nil || lngErr != nil {
		return 0, 0, pkgerrors.New(pkgerrors.CodeValidation, "please provide latitude and longitude in the format lat,lng")
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return 0, 0, pkgerrors.New(pkgerrors.CodeValidation, "latitude or longitude out of range")
	}
	return lat, lng, nil
}
