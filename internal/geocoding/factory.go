package geocoding

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"googlemaps.github.io/maps"
)

// ProviderType represents the type of geocoding provider.
type ProviderType string

const (
	// ProviderTypeGoogle represents Google Maps geocoding provider.
	ProviderTypeGoogle ProviderType = "google"
	// ProviderTypeNominatim represents OpenStreetMap Nominatim geocoding provider.
	ProviderTypeNominatim ProviderType = "nominatim"
	// ProviderTypeVisicom represents Visicom Maps geocoding provider.
	ProviderTypeVisicom ProviderType = "visicom"
)

// Default request rates, in requests per second, when the configuration sets none.
const (
	nominatimFairUseRate = 1
	visicomDefaultRate   = 5
)

var (
	// ErrUnsupportedProvider is returned for an unknown provider type.
	ErrUnsupportedProvider = errors.New("unsupported provider type")
	// ErrMissingAPIKey is returned when a keyed provider is configured without a key.
	ErrMissingAPIKey = errors.New("API key is required")
)

// ProviderConfig holds configuration for creating a geocoding provider.
type ProviderConfig struct {
	Type      ProviderType // Type of provider to create
	APIKey    string       // API key (used by Google and Visicom providers)
	RateLimit int          // Rate limit for requests per second, 0 for the provider default
	Language  string       // Preferred result languages, e.g. "sv,en"
	Logger    *slog.Logger // Logger for the provider
}

type providerBuilder struct {
	needsKey bool
	build    func(config ProviderConfig) (Provider, error)
}

var builders = map[ProviderType]providerBuilder{
	ProviderTypeGoogle:    {needsKey: true, build: buildGoogle},
	ProviderTypeNominatim: {build: buildNominatim},
	ProviderTypeVisicom:   {needsKey: true, build: buildVisicom},
}

// ParseProviderType maps a configuration value such as "Nominatim" onto a ProviderType.
func ParseProviderType(s string) (ProviderType, error) {
	t := ProviderType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := builders[t]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedProvider, s)
	}

	return t, nil
}

// NewProvider creates a geocoding provider based on the provided configuration.
//
// Supported provider types:
// - "google": Google Maps Geocoding API (requires API key)
// - "nominatim": OpenStreetMap Nominatim API (free, no API key required, 1 req/s)
// - "visicom": Visicom Data API (requires API key)
func NewProvider(config ProviderConfig) (Provider, error) {
	b, ok := builders[config.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, config.Type)
	}
	if b.needsKey && config.APIKey == "" {
		return nil, fmt.Errorf("%w for %s provider", ErrMissingAPIKey, config.Type)
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return b.build(config)
}

func buildGoogle(config ProviderConfig) (Provider, error) {
	clientOpts := []maps.ClientOption{
		maps.WithAPIKey(config.APIKey),
	}

	if config.RateLimit > 0 {
		clientOpts = append(clientOpts, maps.WithRateLimit(config.RateLimit))
	}

	client, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	return NewGoogleProvider(client, config.Language, config.Logger), nil
}

func buildNominatim(config ProviderConfig) (Provider, error) {
	if config.RateLimit <= 0 || config.RateLimit > nominatimFairUseRate {
		config.RateLimit = nominatimFairUseRate
	}

	return NewNominatimProvider(config.Language, config.RateLimit, config.Logger), nil
}

func buildVisicom(config ProviderConfig) (Provider, error) {
	if config.RateLimit <= 0 {
		config.RateLimit = visicomDefaultRate
		config.Logger.Warn("Rate limit for Visicom API not set, set a default value", "value", config.RateLimit)
	}

	return NewVisicomProvider(config.APIKey, config.Language, config.RateLimit, config.Logger), nil
}
