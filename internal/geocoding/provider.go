package geocoding

import (
	"context"
	"strings"

	"github.com/UnknownOlympus/haven/internal/models"
)

// Provider is an interface that defines a method for geocoding a place name.
// The Geocode method takes a context, a place name and an optional bounding box that
// results should be biased to, and returns the resolved place or an error.
// Implementations make exactly one outbound request per call.
type Provider interface {
	Geocode(ctx context.Context, query string, bounds *models.BoundingBox) (*models.Place, error)
}

// primaryLanguage returns the first tag of a comma-separated language list.
func primaryLanguage(languages string) string {
	first, _, _ := strings.Cut(languages, ",")
	return strings.ToLower(strings.TrimSpace(first))
}
