package ranking

import (
	"cmp"
	"slices"

	"github.com/UnknownOlympus/haven/internal/models"
)

// Ranking is the outcome of a radius-filtered distance sort.
type Ranking struct {
	Results  []models.RankedResult // Results within the radius, nearest first.
	Excluded int                   // Excluded counts candidates beyond the radius.
	// NearestExcludedKm is the smallest distance among excluded candidates.
	// It is only meaningful when Excluded > 0.
	NearestExcludedKm float64
}

// Rank computes the distance from origin to every candidate, drops candidates farther than
// radiusKm (a candidate exactly at radiusKm is kept) and sorts the rest by ascending distance.
// Equal distances keep their semantic order. Rank does not modify candidates.
func Rank(candidates []models.Candidate, origin models.GeoPoint, radiusKm float64) Ranking {
	ordered := slices.Clone(candidates)
	slices.SortStableFunc(ordered, func(a, b models.Candidate) int {
		return cmp.Compare(a.SemanticRank, b.SemanticRank)
	})

	type scored struct {
		candidate models.Candidate
		distance  float64
	}

	var out Ranking
	kept := make([]scored, 0, len(ordered))
	for _, c := range ordered {
		d := Haversine(origin, c.Facility.Coordinates)
		if d > radiusKm {
			if out.Excluded == 0 || d < out.NearestExcludedKm {
				out.NearestExcludedKm = d
			}
			out.Excluded++
			continue
		}
		kept = append(kept, scored{candidate: c, distance: d})
	}

	slices.SortStableFunc(kept, func(a, b scored) int {
		return cmp.Compare(a.distance, b.distance)
	})

	out.Results = make([]models.RankedResult, len(kept))
	for i, s := range kept {
		distance := s.distance
		out.Results[i] = models.RankedResult{
			Facility:     s.candidate.Facility,
			Rank:         i + 1,
			SemanticRank: s.candidate.SemanticRank,
			DistanceKm:   &distance,
		}
	}

	return out
}

// Unranked keeps candidates in semantic order without distances.
func Unranked(candidates []models.Candidate) []models.RankedResult {
	ordered := slices.Clone(candidates)
	slices.SortStableFunc(ordered, func(a, b models.Candidate) int {
		return cmp.Compare(a.SemanticRank, b.SemanticRank)
	})

	out := make([]models.RankedResult, len(ordered))
	for i, c := range ordered {
		out[i] = models.RankedResult{
			Facility:     c.Facility,
			Rank:         i + 1,
			SemanticRank: c.SemanticRank,
		}
	}

	return out
}
