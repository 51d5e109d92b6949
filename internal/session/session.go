// Package session holds the search state that persists across the turns of one
// conversation: the active location, the radius and the requested result count.
//
// A Session is a value. Transitions return a new Session and never modify the
// receiver, so a caller can keep the prior state of a turn that failed.
package session

import (
	"github.com/UnknownOlympus/haven/internal/models"
)

// State of a session.
type State int

const (
	// Unset means no location is active; results keep their semantic order.
	Unset State = iota
	// Active means a location is held and results are ranked by distance.
	Active
)

func (s State) String() string {
	if s == Active {
		return "active"
	}

	return "unset"
}

// Defaults are the values of a fresh or cleared session.
type Defaults struct {
	RadiusKm float64
	Count    int
}

// Session is the conversation-scoped search state.
type Session struct {
	Location       *models.GeoPoint `json:"location,omitempty"`
	LocationName   string           `json:"location_name,omitempty"`
	RadiusKm       float64          `json:"radius_km"`
	RequestedCount int              `json:"requested_count"`
}

// New returns an Unset session with the given defaults.
func New(d Defaults) Session {
	return Session{RadiusKm: d.RadiusKm, RequestedCount: d.Count}
}

// State reports Active when a location is held.
func (s Session) State() State {
	if s.Location != nil {
		return Active
	}

	return Unset
}

// WithLocation sets or overrides the location. Radius and count are kept.
func (s Session) WithLocation(p models.GeoPoint, name string) Session {
	s.Location = &p
	s.LocationName = name

	return s
}

// WithRadius returns the session with a new radius.
func (s Session) WithRadius(km float64) Session {
	s.RadiusKm = km
	return s
}

// WithCount returns the session with a new requested count.
func (s Session) WithCount(n int) Session {
	s.RequestedCount = n
	return s
}

// Cleared returns an Unset session with the given defaults.
func (s Session) Cleared(d Defaults) Session {
	return New(d)
}
