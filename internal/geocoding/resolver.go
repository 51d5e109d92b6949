package geocoding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/UnknownOlympus/haven/internal/metrics"
	"github.com/UnknownOlympus/haven/internal/models"
)

// Resolver timeouts.
const (
	DefaultTimeout = 10 * time.Second
	MaxTimeout     = 30 * time.Second
)

// ErrGeocodeFailed wraps every failure returned by Resolve: provider timeout,
// "not found" or transport errors.
var ErrGeocodeFailed = errors.New("geocoding failed")

// Resolver turns an extracted place name into coordinates. It qualifies the name with the
// bias region, bounds the provider call with a timeout and never retries.
type Resolver struct {
	log          *slog.Logger
	provider     Provider
	providerName string
	bias         *models.BiasRegion
	timeout      time.Duration
	metrics      *metrics.Metrics
}

// NewResolver creates a Resolver. A zero timeout selects DefaultTimeout; timeouts above
// MaxTimeout are capped. bias may be nil.
func NewResolver(
	log *slog.Logger,
	provider Provider,
	providerName string,
	bias *models.BiasRegion,
	timeout time.Duration,
	metrics *metrics.Metrics,
) *Resolver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if timeout > MaxTimeout {
		timeout = MaxTimeout
	}

	return &Resolver{
		log:          log,
		provider:     provider,
		providerName: providerName,
		bias:         bias,
		timeout:      timeout,
		metrics:      metrics,
	}
}

// Resolve makes at most one provider call. Every error it returns wraps ErrGeocodeFailed.
func (r *Resolver) Resolve(ctx context.Context, placeName string) (*models.Place, error) {
	placeName = strings.TrimSpace(placeName)
	if placeName == "" {
		return nil, fmt.Errorf("%w: empty place name", ErrGeocodeFailed)
	}

	query := r.bias.Qualify(placeName)
	var bounds *models.BoundingBox
	if r.bias != nil {
		bounds = r.bias.Bounds
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	startTime := time.Now()
	place, err := r.provider.Geocode(ctx, query, bounds)
	r.metrics.GeocodeSeconds.WithLabelValues(r.providerName).Observe(time.Since(startTime).Seconds())

	if err != nil {
		status := failureStatus(err)
		r.metrics.GeocodeRequests.WithLabelValues(r.providerName, status).Inc()
		r.log.WarnContext(ctx, "Failed to geocode place",
			"place", placeName, "query", query, "status", status, "error", err)

		return nil, fmt.Errorf("%w: %q: %w", ErrGeocodeFailed, placeName, err)
	}

	if place == nil {
		r.metrics.GeocodeRequests.WithLabelValues(r.providerName, "not_found").Inc()
		return nil, fmt.Errorf("%w: %q: provider returned no place", ErrGeocodeFailed, placeName)
	}

	if err = place.Point.Validate(); err != nil {
		r.metrics.GeocodeRequests.WithLabelValues(r.providerName, "error").Inc()
		return nil, fmt.Errorf("%w: %q: %w", ErrGeocodeFailed, placeName, err)
	}

	r.metrics.GeocodeRequests.WithLabelValues(r.providerName, "success").Inc()

	resolved := *place
	if resolved.DisplayName == "" {
		resolved.DisplayName = placeName
	}

	r.log.InfoContext(ctx, "Geocoded place",
		"place", placeName, "lat", resolved.Point.Latitude, "lon", resolved.Point.Longitude,
		"display_name", resolved.DisplayName)

	return &resolved, nil
}

func failureStatus(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, ErrEmptyResponse),
		errors.Is(err, ErrNominatimEmptyResponse),
		errors.Is(err, ErrVisicomEmptyResponse):
		return "not_found"
	default:
		return "error"
	}
}
