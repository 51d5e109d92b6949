package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/haven/internal/models"
	"golang.org/x/time/rate"
)

// visicomURLFormat takes the response language, one of uk, en, ru.
const visicomURLFormat = "https://api.visicom.ua/data-api/5.0/%s/geocode.json"

// visicomCandidates is how many features are requested when a bounding box must be honoured.
const visicomCandidates = 5

// VisicomProvider implements geocoding using Visicom API.
type VisicomProvider struct {
	client  HTTPClient    // HTTP client for making requests
	baseURL string        // Base URL for the Visicom API
	apiKey  string        // API key with geocoding access
	log     *slog.Logger  // Logger for logging operations
	limiter *rate.Limiter // Rate limiter
}

// Common errors for Visicom provider.
var (
	ErrVisicomEmptyResponse = errors.New("visicom API returned empty response")
	ErrVisicomEmptyAddress  = errors.New("visicom provider got empty place name")
	ErrVisicomInvalidCoords = errors.New("visicom API returned invalid coordinates")
	ErrVisicomUnauthorized  = errors.New("visicom API unauthorized (invalid API key)")
)

type visicomFeature struct {
	Centroid struct {
		Coordinates []float64 `json:"coordinates"` // [lon, lat]
	} `json:"geo_centroid"`
	Properties struct {
		Name string `json:"name"`
	} `json:"properties"`
}

// visicomResponse is a single Feature for limit=1 and a FeatureCollection otherwise.
type visicomResponse struct {
	Type     string           `json:"type"`
	Features []visicomFeature `json:"features"`
	visicomFeature
}

func (r visicomResponse) features() []visicomFeature {
	if len(r.Features) > 0 {
		return r.Features
	}
	if len(r.Centroid.Coordinates) > 0 {
		return []visicomFeature{r.visicomFeature}
	}

	return nil
}

// VisicomURL returns the geocoding endpoint for the first language in languages
// that Visicom serves, English when there is none.
func VisicomURL(languages string) string {
	lang := "en"
	for _, tag := range strings.Split(languages, ",") {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "uk" || tag == "en" || tag == "ru" {
			lang = tag
			break
		}
	}

	return fmt.Sprintf(visicomURLFormat, lang)
}

// NewVisicomProvider creates a new Visicom geocoding provider.
func NewVisicomProvider(apiKey, language string, rateLimit int, log *slog.Logger) *VisicomProvider {
	const timeout = 10

	return NewVisicomProviderWithClient(
		&http.Client{Timeout: timeout * time.Second},
		apiKey,
		language,
		rate.NewLimiter(rate.Limit(rateLimit), rateLimit),
		log,
	)
}

// NewVisicomProviderWithClient allows injecting custom HTTP client.
func NewVisicomProviderWithClient(
	client HTTPClient,
	apiKey string,
	language string,
	limiter *rate.Limiter,
	log *slog.Logger,
) *VisicomProvider {
	return &VisicomProvider{
		client:  client,
		baseURL: VisicomURL(language),
		apiKey:  apiKey,
		log:     log,
		limiter: limiter,
	}
}

// Geocode converts a place name into geographic coordinates using Visicom API.
// Visicom has no viewport parameter: with bounds, several features are requested and
// the first one inside the box wins, falling back to the best match overall.
func (vp *VisicomProvider) Geocode(
	ctx context.Context,
	query string,
	bounds *models.BoundingBox,
) (*models.Place, error) {
	if err := vp.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	vp.log.DebugContext(ctx, "Geocoding using Visicom", "query", query)

	if query == "" {
		return nil, ErrVisicomEmptyAddress
	}

	reqURL, err := url.Parse(vp.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	limit := 1
	if bounds != nil {
		limit = visicomCandidates
	}

	params := reqURL.Query()
	params.Set("text", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("key", vp.apiKey)
	reqURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := vp.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute geocoding request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// continue
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrVisicomUnauthorized
	default:
		body, _ := io.ReadAll(resp.Body)
		vp.log.ErrorContext(ctx, "Visicom API error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("visicom API returned status %d: %s", resp.StatusCode, string(body))
	}

	var result visicomResponse
	if err = json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode visicom response: %w", err)
	}

	features := result.features()
	if len(features) == 0 {
		return nil, ErrVisicomEmptyResponse
	}

	place, err := pickVisicomFeature(features, bounds)
	if err != nil {
		return nil, err
	}

	vp.log.InfoContext(ctx, "Visicom found result", "query", query, "point", place.Point.String())

	return place, nil
}

func pickVisicomFeature(features []visicomFeature, bounds *models.BoundingBox) (*models.Place, error) {
	const coordsListLength = 2

	var first *models.Place
	for _, f := range features {
		coords := f.Centroid.Coordinates
		if len(coords) != coordsListLength {
			continue
		}

		place := &models.Place{
			Point:       models.GeoPoint{Latitude: coords[1], Longitude: coords[0]},
			DisplayName: f.Properties.Name,
		}
		if bounds == nil || bounds.Contains(place.Point) {
			return place, nil
		}
		if first == nil {
			first = place
		}
	}

	if first == nil {
		return nil, ErrVisicomInvalidCoords
	}

	return first, nil
}
