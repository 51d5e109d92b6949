package repository

import (
	"context"
	"log/slog"

	"github.com/UnknownOlympus/haven/internal/models"
	"github.com/jackc/pgx/v5"
)

// Database is the subset of pgxpool.Pool used by the repository.
type Database interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// Repository reads the facility catalog. It never writes to it.
type Repository struct {
	db  Database
	log *slog.Logger
}

type Interface interface {
	FacilitiesByIDs(ctx context.Context, ids []string) ([]models.Facility, error)
	ListFacilities(ctx context.Context) ([]models.Facility, error)
	CountFacilities(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
}

// NewRepository creates a new instance of Repository with the provided Database.
// It returns a pointer to the newly created Repository.
func NewRepository(db Database, log *slog.Logger) *Repository {
	return &Repository{db: db, log: log}
}
