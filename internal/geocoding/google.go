package geocoding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/haven/internal/models"
	"googlemaps.github.io/maps"
)

// GoogleProvider is a struct that holds the client for Google Maps API
// and a logger for logging purposes.
type GoogleProvider struct {
	client   GoogleAPIClient // client is the Google Maps API client
	language string          // language of formatted addresses, empty for the API default
	log      *slog.Logger    // log is the logger for logging operations
}

type GoogleAPIClient interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// ErrEmptyResponse is returned when the Google Maps API responds with an empty result.
var ErrEmptyResponse = errors.New("get empty response from Google Maps API")

// NewGoogleProvider initializes a new GoogleProvider with the given client and logger.
// Google accepts a single language, so only the first tag of languages is used.
func NewGoogleProvider(client GoogleAPIClient, languages string, log *slog.Logger) *GoogleProvider {
	return &GoogleProvider{client: client, language: primaryLanguage(languages), log: log}
}

// Geocode resolves a place name using the Google Maps Geocoding API. When bounds are given
// they are passed as the request viewport so that matches inside it are preferred.
// If the place cannot be geocoded or the response is empty, it returns an error.
func (gp *GoogleProvider) Geocode(ctx context.Context, query string, bounds *models.BoundingBox) (*models.Place, error) {
	gp.log.DebugContext(ctx, "Geocoding using Google Maps", "query", query)

	req := maps.GeocodingRequest{Address: query, Language: gp.language}
	if bounds != nil {
		req.Bounds = &maps.LatLngBounds{
			NorthEast: maps.LatLng{Lat: bounds.MaxLat, Lng: bounds.MaxLon},
			SouthWest: maps.LatLng{Lat: bounds.MinLat, Lng: bounds.MinLon},
		}
	}

	geocodeResponse, err := gp.client.Geocode(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("failed to geocode place: %w", err)
	}

	if len(geocodeResponse) == 0 {
		return nil, ErrEmptyResponse
	}
	result := geocodeResponse[0]
	coords := result.Geometry.Location

	return &models.Place{
		Point:       models.GeoPoint{Latitude: coords.Lat, Longitude: coords.Lng},
		DisplayName: result.FormattedAddress,
	}, nil
}
