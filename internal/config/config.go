package config

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/haven/internal/models"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Retriever backends.
const (
	RetrieverVectorDB = "vectordb"
	RetrieverBleve    = "bleve"
)

// Hydration strategies for vector DB hits.
const (
	HydrateMetadata = "metadata"
	HydrateCatalog  = "catalog"
)

// Config holds the configuration settings for the search service.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - Port: The port for the monitoring server (/healthz, /metrics).
// - APIPort: The port for the public HTTP API.
// - RequestTimeout: Upper bound for a single API request.
// - Geocoder: Provider selection and the bias region.
// - Retriever: Semantic index selection.
// - Search: Session defaults and pool sizing.
// - Session: Session store settings.
// - Database: Configuration settings for the PostgreSQL catalog.
type Config struct {
	Env            string          // Env is the current environment: local, development, production.
	Port           int             // Port is the monitoring server port.
	APIPort        int             // APIPort is the public API port.
	RequestTimeout time.Duration   // RequestTimeout bounds one API request.
	Geocoder       GeocoderConfig  // Geocoder holds the geocoding provider configuration.
	Retriever      RetrieverConfig // Retriever holds the semantic index configuration.
	Search         SearchConfig    // Search holds the session defaults.
	Session        SessionConfig   // Session holds the session store configuration.
	Database       PostgresConfig  // Database holds the postgres database configuration.
}

// GeocoderConfig selects and tunes the geocoding provider.
type GeocoderConfig struct {
	ProviderType string        // ProviderType is one of google, nominatim, visicom.
	APIKey       string        // APIKey is required by Google and Visicom.
	RateLimit    int           // RateLimit in requests per second; 0 keeps the provider default.
	Language     string        // Language is the preferred result language list, e.g. "sv,en".
	Timeout      time.Duration // Timeout bounds a single provider call.
	Region       models.BiasRegion
}

// RetrieverConfig selects the semantic index.
type RetrieverConfig struct {
	Type           string        // Type is vectordb or bleve.
	VectorDBURL    string        // VectorDBURL is the base URL of the vector database service.
	Collection     string        // Collection is the vector DB collection holding facility chunks.
	Hydrate        string        // Hydrate is metadata or catalog.
	Timeout        time.Duration // Timeout bounds one retrieval call.
	EmbeddingHost  string        // EmbeddingHost is an OpenAI-compatible embeddings endpoint.
	EmbeddingModel string        // EmbeddingModel enables client-side query embeddings when set.
	EmbeddingToken string
}

// SearchConfig holds session defaults and pool sizing.
type SearchConfig struct {
	DefaultRadiusKm float64
	DefaultCount    int
	MaxCount        int
	OverFetch       int
	ExpandLandmarks bool // ExpandLandmarks appends landmark surroundings to retrieval text.
}

// SessionConfig configures the session store. An empty ValkeyAddr selects the in-memory store.
type SessionConfig struct {
	ValkeyAddr string
	TTL        time.Duration
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string // Host is the database server address.
	Port     string // Port is the database server port.
	User     string // User is the database user.
	Password string // Password is the database user's password.
	Name     string // Name is the name of the database.
}

// MustLoad reads .env and HAVEN_* environment variables and returns a Config.
// It panics on malformed or inconsistent values.
func MustLoad() *Config {
	_ = godotenv.Load()

	v := newViper()

	cfg := &Config{
		Env:            v.GetString("env"),
		Port:           mustInt(v, "health.port", "failed to parse port for monitoring server from configuration"),
		APIPort:        mustInt(v, "api.port", "failed to parse port for api server from configuration"),
		RequestTimeout: mustDuration(v, "request.timeout", "failed to parse request timeout from configuration"),
		Geocoder: GeocoderConfig{
			ProviderType: v.GetString("provider.type"),
			APIKey:       v.GetString("provider.key"),
			RateLimit:    mustInt(v, "provider.rate_limit", "failed to parse provider rate limit, must be an integer"),
			Language:     v.GetString("provider.language"),
			Timeout:      mustDuration(v, "geocode.timeout", "failed to parse geocode timeout from configuration"),
			Region: models.BiasRegion{
				Name:      v.GetString("region.name"),
				Qualifier: v.GetString("region.qualifier"),
			},
		},
		Retriever: RetrieverConfig{
			Type:           strings.ToLower(v.GetString("retriever.type")),
			VectorDBURL:    v.GetString("vectordb.url"),
			Collection:     v.GetString("vectordb.collection"),
			Hydrate:        strings.ToLower(v.GetString("vectordb.hydrate")),
			Timeout:        mustDuration(v, "retrieval.timeout", "failed to parse retrieval timeout from configuration"),
			EmbeddingHost:  v.GetString("embedding.host"),
			EmbeddingModel: v.GetString("embedding.model"),
			EmbeddingToken: v.GetString("embedding.token"),
		},
		Search: SearchConfig{
			DefaultRadiusKm: mustFloat(v, "default.radius_km", "failed to parse default radius, must be a number"),
			DefaultCount:    mustInt(v, "default.count", "failed to parse default count, must be an integer"),
			MaxCount:        mustInt(v, "max.count", "failed to parse max count, must be an integer"),
			OverFetch:       mustInt(v, "overfetch.factor", "failed to parse over-fetch factor, must be an integer"),
			ExpandLandmarks: mustBool(v, "query.expansion", "failed to parse query expansion flag, must be a boolean"),
		},
		Session: SessionConfig{
			ValkeyAddr: v.GetString("valkey.addr"),
			TTL:        mustDuration(v, "session.ttl", "failed to parse session ttl from configuration"),
		},
		Database: PostgresConfig{
			Host:     v.GetString("db.host"),
			Port:     v.GetString("db.port"),
			User:     v.GetString("db.username"),
			Password: v.GetString("db.password"),
			Name:     v.GetString("db.name"),
		},
	}

	if bbox := strings.TrimSpace(v.GetString("region.bbox")); bbox != "" {
		box, err := models.ParseBoundingBox(bbox)
		if err != nil {
			panic("failed to parse region bounding box, expected minLon,minLat,maxLon,maxLat")
		}
		cfg.Geocoder.Region.Bounds = &box
	}

	cfg.validate()

	return cfg
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("env", "production")
	v.SetDefault("health.port", "8080")
	v.SetDefault("api.port", "8081")
	v.SetDefault("request.timeout", "30s")
	v.SetDefault("provider.type", "nominatim")
	v.SetDefault("provider.key", "")
	v.SetDefault("provider.rate_limit", "0")
	v.SetDefault("provider.language", "sv,en")
	v.SetDefault("geocode.timeout", "10s")
	v.SetDefault("region.name", "Uppsala")
	v.SetDefault("region.qualifier", "Uppsala, Sweden")
	v.SetDefault("region.bbox", "17.45,59.75,17.85,59.95")
	v.SetDefault("retriever.type", RetrieverVectorDB)
	v.SetDefault("vectordb.url", "http://localhost:8000")
	v.SetDefault("vectordb.collection", "uppsala_shelters")
	v.SetDefault("vectordb.hydrate", HydrateMetadata)
	v.SetDefault("retrieval.timeout", "15s")
	v.SetDefault("embedding.host", "")
	v.SetDefault("embedding.model", "")
	v.SetDefault("embedding.token", "")
	v.SetDefault("default.radius_km", "3")
	v.SetDefault("default.count", "5")
	v.SetDefault("max.count", "20")
	v.SetDefault("overfetch.factor", "3")
	v.SetDefault("query.expansion", "true")
	v.SetDefault("valkey.addr", "")
	v.SetDefault("session.ttl", "24h")

	// HAVEN_PROVIDER_RATE_LIMIT -> provider.rate_limit
	v.SetEnvPrefix("HAVEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Database variables are shared with the catalog loader and carry no prefix.
	_ = v.BindEnv("db.host", "DB_HOST")
	_ = v.BindEnv("db.port", "DB_PORT")
	_ = v.BindEnv("db.username", "DB_USERNAME")
	_ = v.BindEnv("db.password", "DB_PASSWORD")
	_ = v.BindEnv("db.name", "DB_NAME")
	v.SetDefault("db.port", "5432")

	return v
}

func (c *Config) validate() {
	switch c.Retriever.Type {
	case RetrieverVectorDB, RetrieverBleve:
	default:
		panic("unsupported retriever type, must be vectordb or bleve")
	}
	switch c.Retriever.Hydrate {
	case HydrateMetadata, HydrateCatalog:
	default:
		panic("unsupported hydration strategy, must be metadata or catalog")
	}
	if math.IsNaN(c.Search.DefaultRadiusKm) || math.IsInf(c.Search.DefaultRadiusKm, 0) || c.Search.DefaultRadiusKm <= 0 {
		panic("default radius must be positive")
	}
	if c.Search.DefaultCount <= 0 {
		panic("default count must be positive")
	}
	if c.Search.MaxCount < c.Search.DefaultCount {
		panic("max count must not be lower than the default count")
	}
}

func mustInt(v *viper.Viper, key, msg string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		panic(msg)
	}

	return n
}

func mustBool(v *viper.Viper, key, msg string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		panic(msg)
	}

	return b
}

func mustFloat(v *viper.Viper, key, msg string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v.GetString(key)), 64)
	if err != nil {
		panic(msg)
	}

	return f
}

func mustDuration(v *viper.Viper, key, msg string) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		panic(msg)
	}

	return d
}
