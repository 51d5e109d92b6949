package models

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidCoordinate is returned when a latitude or longitude is outside the WGS 84 range.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// GeoPoint represents a geographical point defined by its latitude and longitude in degrees.
// A GeoPoint is a value: copy it, never mutate a shared one.
type GeoPoint struct {
	Latitude  float64 `json:"lat"` // Latitude of the point, [-90, 90].
	Longitude float64 `json:"lon"` // Longitude of the point, [-180, 180].
}

// NewGeoPoint validates the given latitude and longitude and returns the point.
func NewGeoPoint(lat, lon float64) (GeoPoint, error) {
	p := GeoPoint{Latitude: lat, Longitude: lon}
	if err := p.Validate(); err != nil {
		return GeoPoint{}, err
	}

	return p, nil
}

// Validate reports ErrInvalidCoordinate when the point is outside the valid bounds.
func (p GeoPoint) Validate() error {
	if math.IsNaN(p.Latitude) || p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v out of range [-90, 90]", ErrInvalidCoordinate, p.Latitude)
	}
	if math.IsNaN(p.Longitude) || p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v out of range [-180, 180]", ErrInvalidCoordinate, p.Longitude)
	}

	return nil
}

// String formats the point as "lat,lon".
func (p GeoPoint) String() string {
	return strconv.FormatFloat(p.Latitude, 'f', 6, 64) + "," + strconv.FormatFloat(p.Longitude, 'f', 6, 64)
}

// ParseGeoPoint parses a "lat,lon" string such as "59.8586,17.6389".
func ParseGeoPoint(s string) (GeoPoint, error) {
	const pair = 2

	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != pair {
		return GeoPoint{}, fmt.Errorf("%w: expected \"lat,lon\", got %q", ErrInvalidCoordinate, s)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return GeoPoint{}, fmt.Errorf("%w: invalid latitude %q", ErrInvalidCoordinate, parts[0])
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return GeoPoint{}, fmt.Errorf("%w: invalid longitude %q", ErrInvalidCoordinate, parts[1])
	}

	return NewGeoPoint(lat, lon)
}
