package service

import (
	"fmt"
	"math"

	"github.com/UnknownOlympus/haven/internal/models"
)

// Assemble truncates ranked to count and fills the formatted distance. Ranks are
// renumbered from 1. The input slice is not modified.
func Assemble(ranked []models.RankedResult, count int) []models.RankedResult {
	n := min(len(ranked), max(count, 0))

	out := make([]models.RankedResult, n)
	for i := range n {
		r := ranked[i]
		r.Rank = i + 1
		if r.DistanceKm != nil {
			r.Distance = FormatDistance(*r.DistanceKm)
		}
		out[i] = r
	}

	return out
}

// FormatDistance renders distances below one kilometre in whole metres ("350 m")
// and larger ones in kilometres with one decimal ("1.2 km").
func FormatDistance(km float64) string {
	const metresPerKm = 1000

	metres := math.Round(km * metresPerKm)
	if metres < metresPerKm {
		return fmt.Sprintf("%d m", int(metres))
	}

	return fmt.Sprintf("%.1f km", km)
}
