package session_test

import (
	"testing"

	"github.com/UnknownOlympus/haven/internal/models"
	"github.com/UnknownOlympus/haven/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaults = session.Defaults{RadiusKm: 2, Count: 5}

func TestSession_Transitions(t *testing.T) {
	central := models.GeoPoint{Latitude: 59.8586, Longitude: 17.6389}
	flogsta := models.GeoPoint{Latitude: 59.8510, Longitude: 17.5870}

	t.Run("starts unset with defaults", func(t *testing.T) {
		s := session.New(defaults)

		assert.Equal(t, session.Unset, s.State())
		assert.Nil(t, s.Location)
		assert.InDelta(t, 2.0, s.RadiusKm, 0)
		assert.Equal(t, 5, s.RequestedCount)
	})

	t.Run("unset to active", func(t *testing.T) {
		s := session.New(defaults).WithLocation(central, "Central Station")

		assert.Equal(t, session.Active, s.State())
		require.NotNil(t, s.Location)
		assert.Equal(t, central, *s.Location)
		assert.Equal(t, "Central Station", s.LocationName)
	})

	t.Run("override keeps user radius and count", func(t *testing.T) {
		first := session.New(defaults).WithRadius(0.5).WithCount(3).WithLocation(central, "Central Station")
		second := first.WithLocation(flogsta, "Flogsta")

		assert.Equal(t, flogsta, *second.Location)
		assert.Equal(t, "Flogsta", second.LocationName)
		assert.InDelta(t, 0.5, second.RadiusKm, 0)
		assert.Equal(t, 3, second.RequestedCount)
	})

	t.Run("transitions never modify the receiver", func(t *testing.T) {
		first := session.New(defaults).WithLocation(central, "Central Station")
		_ = first.WithLocation(flogsta, "Flogsta").WithRadius(9).WithCount(9)

		assert.Equal(t, central, *first.Location)
		assert.Equal(t, "Central Station", first.LocationName)
		assert.InDelta(t, 2.0, first.RadiusKm, 0)
		assert.Equal(t, 5, first.RequestedCount)
	})

	t.Run("clear resets to defaults", func(t *testing.T) {
		s := session.New(defaults).WithRadius(7).WithLocation(central, "Central Station").Cleared(defaults)

		assert.Equal(t, session.Unset, s.State())
		assert.Equal(t, session.New(defaults), s)
	})
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "unset", session.Unset.String())
	assert.Equal(t, "active", session.Active.String())
}
