package api

import (
	"context"
	"log/slog"

	"github.com/UnknownOlympus/haven/internal/models"
	"github.com/UnknownOlympus/haven/internal/service"
	"github.com/UnknownOlympus/haven/internal/session"
)

// Searcher runs one search turn.
type Searcher interface {
	Search(ctx context.Context, req service.Request) (*service.Response, error)
}

// PlaceResolver resolves a place name to a point. Every failure, including provider
// outages and timeouts, means the place could not be located.
type PlaceResolver interface {
	Resolve(ctx context.Context, placeName string) (*models.Place, error)
}

// FacilityCounter reports the catalog size.
type FacilityCounter interface {
	CountFacilities(ctx context.Context) (int, error)
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Search   Searcher
	Geocoder PlaceResolver
	Catalog  FacilityCounter // Catalog is nil when no catalog database is configured.
	Sessions session.Store
	Locks    *session.Locker
	Log      *slog.Logger
}
