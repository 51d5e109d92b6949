package models

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// BoundingBox is a rectangular area between two corners.
type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// ParseBoundingBox parses "minLon,minLat,maxLon,maxLat", the order used by Nominatim viewboxes.
func ParseBoundingBox(s string) (BoundingBox, error) {
	const corners = 4

	parts := strings.Split(s, ",")
	if len(parts) != corners {
		return BoundingBox{}, fmt.Errorf("%w: expected \"minLon,minLat,maxLon,maxLat\", got %q",
			ErrInvalidCoordinate, s)
	}

	vals := make([]float64, corners)
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return BoundingBox{}, fmt.Errorf("%w: invalid bounding box value %q", ErrInvalidCoordinate, part)
		}
		vals[i] = v
	}

	box := BoundingBox{MinLon: vals[0], MinLat: vals[1], MaxLon: vals[2], MaxLat: vals[3]}
	if err := box.Validate(); err != nil {
		return BoundingBox{}, err
	}

	return box, nil
}

// Validate checks both corners and their ordering.
func (b BoundingBox) Validate() error {
	if err := (GeoPoint{Latitude: b.MinLat, Longitude: b.MinLon}).Validate(); err != nil {
		return err
	}
	if err := (GeoPoint{Latitude: b.MaxLat, Longitude: b.MaxLon}).Validate(); err != nil {
		return err
	}
	if b.MinLat > b.MaxLat || b.MinLon > b.MaxLon {
		return fmt.Errorf("%w: bounding box corners are swapped", ErrInvalidCoordinate)
	}

	return nil
}

// Contains reports whether p lies inside the box, edges included.
func (b BoundingBox) Contains(p GeoPoint) bool {
	return p.Latitude >= b.MinLat && p.Latitude <= b.MaxLat &&
		p.Longitude >= b.MinLon && p.Longitude <= b.MaxLon
}

// BiasRegion narrows geocoding to a single deployment area, e.g. one city.
type BiasRegion struct {
	Name      string       // Name is matched against place names, e.g. "Uppsala".
	Qualifier string       // Qualifier is appended to place names, e.g. "Uppsala, Sweden".
	Bounds    *BoundingBox // Bounds is forwarded to providers that accept a viewport.
}

// Qualify appends the region qualifier unless the place name already mentions the region.
func (r *BiasRegion) Qualify(placeName string) string {
	placeName = strings.TrimSpace(placeName)
	if r == nil || r.Qualifier == "" {
		return placeName
	}

	name := r.Name
	if name == "" {
		name = r.Qualifier
	}
	if strings.Contains(strings.ToLower(placeName), strings.ToLower(name)) {
		return placeName
	}

	return placeName + ", " + r.Qualifier
}

// Terms lists the region name and each comma separated part of the qualifier, deduplicated
// ignoring case. A query naming only these is not naming a place inside the region.
func (r *BiasRegion) Terms() []string {
	if r == nil {
		return nil
	}

	var terms []string
	for _, part := range append([]string{r.Name}, strings.Split(r.Qualifier, ",")...) {
		part = strings.TrimSpace(part)
		if part == "" || slices.ContainsFunc(terms, func(t string) bool { return strings.EqualFold(t, part) }) {
			continue
		}
		terms = append(terms, part)
	}

	return terms
}
