package models

// Facility is a read-only record from the external facility catalog.
type Facility struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Capacity    int      `json:"capacity"`
	Coordinates GeoPoint `json:"coordinates"`
	District    string   `json:"district,omitempty"`
	Accessible  bool     `json:"accessible"`
	Features    []string `json:"features,omitempty"`
	Description string   `json:"description,omitempty"`
}

// Candidate is a facility returned by the semantic index together with its position
// in the semantic order (1-based) and the index score.
type Candidate struct {
	Facility     Facility
	SemanticRank int
	Score        float64
}

// RankedResult is one entry of a turn's final answer. DistanceKm is nil when the
// session holds no location.
type RankedResult struct {
	Facility     Facility `json:"facility"`
	Rank         int      `json:"rank"`
	SemanticRank int      `json:"semantic_rank"`
	DistanceKm   *float64 `json:"distance_km,omitempty"`
	Distance     string   `json:"distance,omitempty"` // Distance is the formatted distance, "350 m" or "1.2 km".
}

// Place is a resolved geocoding result.
type Place struct {
	Point       GeoPoint `json:"point"`
	DisplayName string   `json:"display_name"`
}

// Filter restricts retrieval by catalog metadata.
type Filter struct {
	AccessibleOnly bool   `json:"accessible_only,omitempty"`
	District       string `json:"district,omitempty"`
}

// IsZero reports whether the filter restricts nothing.
func (f Filter) IsZero() bool {
	return !f.AccessibleOnly && f.District == ""
}
