package config_test

import (
	"testing"
	"time"

	"github.com/UnknownOlympus/haven/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_MustLoadFromEnv(t *testing.T) {
	t.Setenv("HAVEN_ENV", "local")
	t.Setenv("HAVEN_PROVIDER_TYPE", "google")
	t.Setenv("HAVEN_PROVIDER_KEY", "testAPIKey")
	t.Setenv("HAVEN_PROVIDER_RATE_LIMIT", "25")
	t.Setenv("HAVEN_GEOCODE_TIMEOUT", "5s")
	t.Setenv("HAVEN_RETRIEVER_TYPE", "BLEVE")
	t.Setenv("HAVEN_DEFAULT_RADIUS_KM", "1.5")
	t.Setenv("HAVEN_DEFAULT_COUNT", "3")
	t.Setenv("HAVEN_VALKEY_ADDR", "valkey:6379")
	t.Setenv("HAVEN_SESSION_TTL", "1h")
	t.Setenv("HAVEN_QUERY_EXPANSION", "false")
	t.Setenv("DB_HOST", "testHost")
	t.Setenv("DB_PORT", "12345")
	t.Setenv("DB_USERNAME", "admin")
	t.Setenv("DB_PASSWORD", "adminpass")
	t.Setenv("DB_NAME", "testName")

	cfg := config.MustLoad()

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "testHost", cfg.Database.Host)
	assert.Equal(t, "12345", cfg.Database.Port)
	assert.Equal(t, "admin", cfg.Database.User)
	assert.Equal(t, "adminpass", cfg.Database.Password)
	assert.Equal(t, "testName", cfg.Database.Name)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "google", cfg.Geocoder.ProviderType)
	assert.Equal(t, "testAPIKey", cfg.Geocoder.APIKey)
	assert.Equal(t, 25, cfg.Geocoder.RateLimit)
	assert.Equal(t, 5*time.Second, cfg.Geocoder.Timeout)
	assert.Equal(t, config.RetrieverBleve, cfg.Retriever.Type)
	assert.InDelta(t, 1.5, cfg.Search.DefaultRadiusKm, 1e-9)
	assert.Equal(t, 3, cfg.Search.DefaultCount)
	assert.Equal(t, "valkey:6379", cfg.Session.ValkeyAddr)
	assert.Equal(t, time.Hour, cfg.Session.TTL)
	assert.False(t, cfg.Search.ExpandLandmarks)
}

func TestMustLoad_Defaults(t *testing.T) {
	cfg := config.MustLoad()

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 8081, cfg.APIPort)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "nominatim", cfg.Geocoder.ProviderType)
	assert.Equal(t, "sv,en", cfg.Geocoder.Language)
	assert.Equal(t, 10*time.Second, cfg.Geocoder.Timeout)
	assert.Equal(t, "Uppsala", cfg.Geocoder.Region.Name)
	assert.Equal(t, "Uppsala, Sweden", cfg.Geocoder.Region.Qualifier)
	require.NotNil(t, cfg.Geocoder.Region.Bounds)
	assert.InDelta(t, 17.45, cfg.Geocoder.Region.Bounds.MinLon, 1e-9)
	assert.InDelta(t, 59.95, cfg.Geocoder.Region.Bounds.MaxLat, 1e-9)
	assert.Equal(t, config.RetrieverVectorDB, cfg.Retriever.Type)
	assert.Equal(t, config.HydrateMetadata, cfg.Retriever.Hydrate)
	assert.Equal(t, "uppsala_shelters", cfg.Retriever.Collection)
	assert.Equal(t, 15*time.Second, cfg.Retriever.Timeout)
	assert.InDelta(t, 3.0, cfg.Search.DefaultRadiusKm, 1e-9)
	assert.Equal(t, 5, cfg.Search.DefaultCount)
	assert.Equal(t, 20, cfg.Search.MaxCount)
	assert.Equal(t, 3, cfg.Search.OverFetch)
	assert.True(t, cfg.Search.ExpandLandmarks)
	assert.Empty(t, cfg.Session.ValkeyAddr)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "5432", cfg.Database.Port)
}

func TestMustLoad_Panics(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		panic string
	}{
		{
			name:  "monitoring port",
			key:   "HAVEN_HEALTH_PORT",
			value: "error_value",
			panic: "failed to parse port for monitoring server from configuration",
		},
		{
			name:  "api port",
			key:   "HAVEN_API_PORT",
			value: "error_value",
			panic: "failed to parse port for api server from configuration",
		},
		{
			name:  "geocode timeout",
			key:   "HAVEN_GEOCODE_TIMEOUT",
			value: "ten seconds",
			panic: "failed to parse geocode timeout from configuration",
		},
		{
			name:  "rate limit",
			key:   "HAVEN_PROVIDER_RATE_LIMIT",
			value: "fast",
			panic: "failed to parse provider rate limit, must be an integer",
		},
		{
			name:  "radius",
			key:   "HAVEN_DEFAULT_RADIUS_KM",
			value: "far",
			panic: "failed to parse default radius, must be a number",
		},
		{
			name:  "non-positive radius",
			key:   "HAVEN_DEFAULT_RADIUS_KM",
			value: "0",
			panic: "default radius must be positive",
		},
		{
			name:  "count",
			key:   "HAVEN_DEFAULT_COUNT",
			value: "0",
			panic: "default count must be positive",
		},
		{
			name:  "max count",
			key:   "HAVEN_MAX_COUNT",
			value: "2",
			panic: "max count must not be lower than the default count",
		},
		{
			name:  "bounding box",
			key:   "HAVEN_REGION_BBOX",
			value: "17.85,59.75,17.45,59.95",
			panic: "failed to parse region bounding box, expected minLon,minLat,maxLon,maxLat",
		},
		{
			name:  "retriever type",
			key:   "HAVEN_RETRIEVER_TYPE",
			value: "elastic",
			panic: "unsupported retriever type, must be vectordb or bleve",
		},
		{
			name:  "hydration",
			key:   "HAVEN_VECTORDB_HYDRATE",
			value: "cache",
			panic: "unsupported hydration strategy, must be metadata or catalog",
		},
		{
			name:  "query expansion",
			key:   "HAVEN_QUERY_EXPANSION",
			value: "sometimes",
			panic: "failed to parse query expansion flag, must be a boolean",
		},
		{
			name:  "session ttl",
			key:   "HAVEN_SESSION_TTL",
			value: "forever",
			panic: "failed to parse session ttl from configuration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			assert.PanicsWithValue(t, tt.panic, func() {
				config.MustLoad()
			})
		})
	}
}
