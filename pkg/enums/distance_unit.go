package enums

import "fmt"

// DistanceUnit selects the unit for geo-distance endpoints.
type DistanceUnit string

const (
	DistanceUnitMiles      DistanceUnit = "mi"
	DistanceUnitKilometers DistanceUnit = "km"
)

// String implements fmt.Stringer.
func (u DistanceUnit) String() string {
	return string(u)
}

// IsValid reports whether the value is a known DistanceUnit.
func (u DistanceUnit) IsValid() bool {
	return u == DistanceUnitMiles || u == DistanceUnitKilometers
}

// ParseDistanceUnit converts raw input into a DistanceUnit.
func ParseDistanceUnit(value string) (DistanceUnit, error) {
	switch DistanceUnit(value) {
	case DistanceUnitMiles:
		return DistanceUnitMiles, nil
	case DistanceUnitKilometers:
		return DistanceUnitKilometers, nil
	}
	return "", fmt.Errorf("unit is either: mi, km, got %q", value)
}
