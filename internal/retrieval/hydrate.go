package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/UnknownOlympus/haven/internal/models"
)

// MetadataHydrator decodes facilities from the flattened metadata stored next to
// each vector (coordinates_lat, coordinates_lng, comma separated facilities, ...).
type MetadataHydrator struct {
	log *slog.Logger
}

// NewMetadataHydrator creates a MetadataHydrator.
func NewMetadataHydrator(log *slog.Logger) *MetadataHydrator {
	return &MetadataHydrator{log: log}
}

// Hydrate implements Hydrator.
func (h *MetadataHydrator) Hydrate(ctx context.Context, hits []Hit) ([]models.Facility, error) {
	facilities := make([]models.Facility, 0, len(hits))
	for _, hit := range hits {
		facility, err := DecodeFacility(hit.ID, hit.Payload)
		if err != nil {
			h.log.WarnContext(ctx, "Skipping undecodable hit", "id", hit.ID, "error", err)
			continue
		}
		facilities = append(facilities, facility)
	}

	return facilities, nil
}

// DecodeFacility builds a facility from flattened metadata. Coordinates are required.
func DecodeFacility(id string, metadata map[string]any) (models.Facility, error) {
	lat, latOK := number(metadata, "coordinates_lat", "latitude", "lat")
	lon, lonOK := number(metadata, "coordinates_lng", "coordinates_lon", "longitude", "lon")
	if !latOK || !lonOK {
		return models.Facility{}, fmt.Errorf("%w: missing coordinates", models.ErrInvalidCoordinate)
	}

	point, err := models.NewGeoPoint(lat, lon)
	if err != nil {
		return models.Facility{}, err
	}

	capacity, _ := number(metadata, "capacity")
	accessible, _ := metadata["accessible"].(bool)
	accessibility := text(metadata, "accessibility_features")

	return models.Facility{
		ID:          id,
		Name:        text(metadata, "name"),
		Address:     text(metadata, "address"),
		Capacity:    int(capacity),
		Coordinates: point,
		District:    text(metadata, "district"),
		Accessible:  accessible || accessibility != "",
		Features:    splitList(text(metadata, "facilities")),
		Description: text(metadata, "description"),
	}, nil
}

func text(metadata map[string]any, key string) string {
	s, _ := metadata[key].(string)
	return strings.TrimSpace(s)
}

func number(metadata map[string]any, keys ...string) (float64, bool) {
	for _, key := range keys {
		switch v := metadata[key].(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		case json.Number:
			if f, err := v.Float64(); err == nil {
				return f, true
			}
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return f, true
			}
		}
	}

	return 0, false
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}

	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}

	return items
}

// FacilitySource looks facilities up by id; missing ids are simply absent from the result.
type FacilitySource interface {
	FacilitiesByIDs(ctx context.Context, ids []string) ([]models.Facility, error)
}

// CatalogHydrator resolves hits against the facility catalog.
type CatalogHydrator struct {
	source FacilitySource
	log    *slog.Logger
}

// NewCatalogHydrator creates a CatalogHydrator.
func NewCatalogHydrator(source FacilitySource, log *slog.Logger) *CatalogHydrator {
	return &CatalogHydrator{source: source, log: log}
}

// Hydrate implements Hydrator.
func (h *CatalogHydrator) Hydrate(ctx context.Context, hits []Hit) ([]models.Facility, error) {
	if len(hits) == 0 {
		return []models.Facility{}, nil
	}

	ids := make([]string, len(hits))
	for i, hit := range hits {
		ids[i] = hit.ID
	}

	found, err := h.source.FacilitiesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load facilities: %w", err)
	}

	byID := make(map[string]models.Facility, len(found))
	for _, f := range found {
		byID[f.ID] = f
	}

	facilities := make([]models.Facility, 0, len(hits))
	for _, id := range ids {
		f, ok := byID[id]
		if !ok {
			h.log.WarnContext(ctx, "Index returned unknown facility", "id", id)
			continue
		}
		facilities = append(facilities, f)
	}

	return facilities, nil
}

// MemoryCatalog is a FacilitySource over a fixed facility list.
type MemoryCatalog struct {
	byID map[string]models.Facility
}

// NewMemoryCatalog creates a MemoryCatalog.
func NewMemoryCatalog(facilities []models.Facility) *MemoryCatalog {
	byID := make(map[string]models.Facility, len(facilities))
	for _, f := range facilities {
		byID[f.ID] = f
	}

	return &MemoryCatalog{byID: byID}
}

// FacilitiesByIDs implements FacilitySource.
func (c *MemoryCatalog) FacilitiesByIDs(_ context.Context, ids []string) ([]models.Facility, error) {
	facilities := make([]models.Facility, 0, len(ids))
	for _, id := range ids {
		if f, ok := c.byID[id]; ok {
			facilities = append(facilities, f)
		}
	}

	return facilities, nil
}
