package repository_test

import (
	"log/slog"
	"regexp"
	"testing"

	"github.com/UnknownOlympus/haven/internal/models"
	"github.com/UnknownOlympus/haven/internal/repository"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var facilityRowColumns = []string{
	"id", "name", "address", "capacity", "latitude", "longitude",
	"district", "accessible", "features", "description",
}

const (
	byIDsQuery = `id = ANY($1)`
	listQuery  = `ORDER BY id ASC;`
	countQuery = `SELECT COUNT(*) FROM public.facilities;`
)

func TestFacilitiesByIDs(t *testing.T) {
	t.Parallel()
	logger := slog.Default()
	ctx := t.Context()
	ids := []string{"centrum-1", "flogsta-1"}

	t.Run("error - query facilities", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectQuery(regexp.QuoteMeta(byIDsQuery)).
			WithArgs(ids).
			WillReturnError(assert.AnError)

		facilities, err := repo.FacilitiesByIDs(ctx, ids)

		require.Nil(t, facilities)
		require.ErrorContains(t, err, "failed to query facilities by id")
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - scan facility", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectQuery(regexp.QuoteMeta(byIDsQuery)).
			WithArgs(ids).
			WillReturnRows(
				pgxmock.NewRows(facilityRowColumns).AddRow(
					"centrum-1", "Stationen", "Kungsgatan 12", "many", 59.8586, 17.6389,
					"Centrum", true, []string{}, "",
				),
			)

		facilities, err := repo.FacilitiesByIDs(ctx, ids)

		require.Nil(t, facilities)
		require.ErrorContains(t, err, "failed to scan facility")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - rows error", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectQuery(regexp.QuoteMeta(byIDsQuery)).
			WithArgs(ids).
			WillReturnRows(
				pgxmock.NewRows(facilityRowColumns).AddRow(
					"centrum-1", "Stationen", "Kungsgatan 12", 120, 59.8586, 17.6389,
					"Centrum", true, []string{}, "",
				).RowError(1, assert.AnError),
			)

		facilities, err := repo.FacilitiesByIDs(ctx, ids)

		require.Nil(t, facilities)
		require.ErrorContains(t, err, "failed to read row")
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - skips invalid coordinates", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectQuery(regexp.QuoteMeta(byIDsQuery)).
			WithArgs(ids).
			WillReturnRows(
				pgxmock.NewRows(facilityRowColumns).
					AddRow(
						"centrum-1", "Stationen", "Kungsgatan 12", 120, 59.8586, 17.6389,
						"Centrum", true, []string{"toalett", "vatten"}, "Under parkeringshuset",
					).
					AddRow(
						"flogsta-1", "Flogsta", "Flogstavägen 5", 80, 159.0, 17.5870,
						"Flogsta", false, []string{}, "",
					),
			)

		facilities, err := repo.FacilitiesByIDs(ctx, ids)

		require.NoError(t, err)
		require.Len(t, facilities, 1)
		assert.Equal(t, models.Facility{
			ID:          "centrum-1",
			Name:        "Stationen",
			Address:     "Kungsgatan 12",
			Capacity:    120,
			Coordinates: models.GeoPoint{Latitude: 59.8586, Longitude: 17.6389},
			District:    "Centrum",
			Accessible:  true,
			Features:    []string{"toalett", "vatten"},
			Description: "Under parkeringshuset",
		}, facilities[0])
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListFacilities(t *testing.T) {
	t.Parallel()
	logger := slog.Default()
	ctx := t.Context()

	t.Run("error - query facilities", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectQuery(regexp.QuoteMeta(listQuery)).WillReturnError(assert.AnError)

		facilities, err := repo.ListFacilities(ctx)

		require.Nil(t, facilities)
		require.ErrorContains(t, err, "failed to query facilities")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - empty catalog", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectQuery(regexp.QuoteMeta(listQuery)).WillReturnRows(pgxmock.NewRows(facilityRowColumns))

		facilities, err := repo.ListFacilities(ctx)

		require.NoError(t, err)
		assert.NotNil(t, facilities)
		assert.Empty(t, facilities)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCountFacilities(t *testing.T) {
	t.Parallel()
	logger := slog.Default()
	ctx := t.Context()

	t.Run("error - count facilities", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectQuery(regexp.QuoteMeta(countQuery)).WillReturnError(assert.AnError)

		count, err := repo.CountFacilities(ctx)

		assert.Zero(t, count)
		require.ErrorContains(t, err, "failed to count facilities")
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - count facilities", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectQuery(regexp.QuoteMeta(countQuery)).
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(42))

		count, err := repo.CountFacilities(ctx)

		require.NoError(t, err)
		assert.Equal(t, 42, count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPing(t *testing.T) {
	t.Parallel()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := repository.NewRepository(mock, slog.Default())

	mock.ExpectPing().WillReturnError(assert.AnError)

	require.ErrorIs(t, repo.Ping(t.Context()), assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}
