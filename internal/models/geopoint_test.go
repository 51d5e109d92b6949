package models_test

import (
	"testing"

	"github.com/UnknownOlympus/haven/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeoPoint(t *testing.T) {
	t.Run("valid point", func(t *testing.T) {
		p, err := models.NewGeoPoint(59.8586, 17.6389)

		require.NoError(t, err)
		assert.InDelta(t, 59.8586, p.Latitude, 1e-9)
		assert.InDelta(t, 17.6389, p.Longitude, 1e-9)
	})

	t.Run("bounds are inclusive", func(t *testing.T) {
		_, err := models.NewGeoPoint(-90, 180)
		require.NoError(t, err)
		_, err = models.NewGeoPoint(90, -180)
		require.NoError(t, err)
	})

	t.Run("latitude out of range", func(t *testing.T) {
		_, err := models.NewGeoPoint(90.0001, 0)

		require.ErrorIs(t, err, models.ErrInvalidCoordinate)
		assert.Contains(t, err.Error(), "latitude")
	})

	t.Run("longitude out of range", func(t *testing.T) {
		_, err := models.NewGeoPoint(0, -181)

		require.ErrorIs(t, err, models.ErrInvalidCoordinate)
		assert.Contains(t, err.Error(), "longitude")
	})
}

func TestParseGeoPoint(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    models.GeoPoint
		wantErr bool
	}{
		{name: "plain", input: "59.8586,17.6389", want: models.GeoPoint{Latitude: 59.8586, Longitude: 17.6389}},
		{name: "spaces", input: " 59.8586 , 17.6389 ", want: models.GeoPoint{Latitude: 59.8586, Longitude: 17.6389}},
		{name: "single value", input: "59.8586", wantErr: true},
		{name: "not a number", input: "north,17.6", wantErr: true},
		{name: "out of range", input: "120,17.6", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := models.ParseGeoPoint(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, models.ErrInvalidCoordinate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBiasRegion_Qualify(t *testing.T) {
	region := &models.BiasRegion{Name: "Uppsala", Qualifier: "Uppsala, Sweden"}

	assert.Equal(t, "Fyrishov, Uppsala, Sweden", region.Qualify("Fyrishov"))
	assert.Equal(t, "Uppsala Slott", region.Qualify("Uppsala Slott"))
	assert.Equal(t, "centrum uppsala", region.Qualify("centrum uppsala"))

	var none *models.BiasRegion
	assert.Equal(t, "Fyrishov", none.Qualify(" Fyrishov "))
}

func TestParseBoundingBox(t *testing.T) {
	box, err := models.ParseBoundingBox("17.4,59.7,17.8,60.0")

	require.NoError(t, err)
	assert.True(t, box.Contains(models.GeoPoint{Latitude: 59.8586, Longitude: 17.6389}))
	assert.False(t, box.Contains(models.GeoPoint{Latitude: 59.3293, Longitude: 18.0686}))

	_, err = models.ParseBoundingBox("17.8,59.7,17.4,60.0")
	require.ErrorIs(t, err, models.ErrInvalidCoordinate)

	_, err = models.ParseBoundingBox("17.4,59.7")
	require.ErrorIs(t, err, models.ErrInvalidCoordinate)
}

func TestBiasRegion_Terms(t *testing.T) {
	region := &models.BiasRegion{Name: "Uppsala", Qualifier: "Uppsala, Sweden"}
	assert.Equal(t, []string{"Uppsala", "Sweden"}, region.Terms())

	region = &models.BiasRegion{Qualifier: "Lund, Skåne, Sverige"}
	assert.Equal(t, []string{"Lund", "Skåne", "Sverige"}, region.Terms())

	var none *models.BiasRegion
	assert.Empty(t, none.Terms())
}
