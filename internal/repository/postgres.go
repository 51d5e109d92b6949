package repository

import (
	"context"
	"fmt"

	"github.com/UnknownOlympus/haven/internal/models"
	"github.com/jackc/pgx/v5"
)

const facilityColumns = `
		SELECT
			id, name, address, capacity, latitude, longitude,
			COALESCE(district, ''), accessible, COALESCE(features, '{}'), COALESCE(description, '')
		FROM public.facilities`

// FacilitiesByIDs returns the facilities with the given ids. Unknown ids and rows
// without coordinates are absent from the result; order is unspecified.
func (r *Repository) FacilitiesByIDs(ctx context.Context, ids []string) ([]models.Facility, error) {
	query := facilityColumns + `
		WHERE
			id = ANY($1)
			AND latitude IS NOT NULL AND longitude IS NOT NULL;
	`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query facilities by id: %w", err)
	}

	return r.scanFacilities(ctx, rows)
}

// ListFacilities returns every facility with coordinates, ordered by id.
func (r *Repository) ListFacilities(ctx context.Context) ([]models.Facility, error) {
	query := facilityColumns + `
		WHERE latitude IS NOT NULL AND longitude IS NOT NULL
		ORDER BY id ASC;
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query facilities: %w", err)
	}

	return r.scanFacilities(ctx, rows)
}

// CountFacilities returns the number of catalog records.
func (r *Repository) CountFacilities(ctx context.Context) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM public.facilities;`

	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count facilities: %w", err)
	}

	return count, nil
}

// Ping checks the catalog connection.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *Repository) scanFacilities(ctx context.Context, rows pgx.Rows) ([]models.Facility, error) {
	defer rows.Close()

	facilities := []models.Facility{}
	for rows.Next() {
		var (
			f        models.Facility
			lat, lon float64
		)
		if errScan := rows.Scan(
			&f.ID, &f.Name, &f.Address, &f.Capacity, &lat, &lon,
			&f.District, &f.Accessible, &f.Features, &f.Description,
		); errScan != nil {
			return nil, fmt.Errorf("failed to scan facility: %w", errScan)
		}

		point, err := models.NewGeoPoint(lat, lon)
		if err != nil {
			r.log.WarnContext(ctx, "Skipping facility with invalid coordinates", "id", f.ID, "error", err)
			continue
		}
		f.Coordinates = point

		facilities = append(facilities, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	r.log.DebugContext(ctx, "Loaded facilities from catalog", "count", len(facilities))

	return facilities, nil
}
