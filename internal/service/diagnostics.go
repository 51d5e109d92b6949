package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/UnknownOlympus/haven/internal/session"
)

// Diagnostic codes.
const (
	CodeEmptyAfterRadius = "empty_after_radius"
	CodeGeocodeFailed    = "geocode_failed"
)

// Diagnostic explains a degraded or empty answer.
type Diagnostic struct {
	Code              string   `json:"code"`
	Message           string   `json:"message"`
	NearestKm         *float64 `json:"nearest_km,omitempty"`
	SuggestedRadiusKm *float64 `json:"suggested_radius_km,omitempty"`
}

var messages = map[string]map[string]string{
	"sv": {
		CodeEmptyAfterRadius: "Inga skyddsrum inom %s från %s. Närmaste ligger %s bort, prova en radie på %s.",
		CodeGeocodeFailed:    "Kunde inte hitta platsen %q.",
		"keep_location":      " Använder fortfarande %s.",
		"no_distance":        " Visar resultat utan avstånd.",
	},
	"en": {
		CodeEmptyAfterRadius: "No shelters within %s of %s. The nearest one is %s away, try a radius of %s.",
		CodeGeocodeFailed:    "Could not find the location %q.",
		"keep_location":      " Still using %s.",
		"no_distance":        " Showing results without distances.",
	},
}

// normalizeLanguage maps a language tag ("sv", "sv-SE") to a message language, defaulting to English.
func normalizeLanguage(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if base, _, ok := strings.Cut(tag, "-"); ok {
		tag = base
	}
	if _, ok := messages[tag]; ok {
		return tag
	}

	return "en"
}

// SuggestRadius rounds nearestKm up to the next tenth of a kilometre.
func SuggestRadius(nearestKm float64) float64 {
	const tenths = 10

	return math.Ceil(nearestKm*tenths) / tenths
}

func emptyAfterRadius(lang string, s session.Session, nearestKm float64) Diagnostic {
	suggested := SuggestRadius(nearestKm)

	return Diagnostic{
		Code: CodeEmptyAfterRadius,
		Message: fmt.Sprintf(messages[lang][CodeEmptyAfterRadius],
			FormatDistance(s.RadiusKm), s.LocationName, FormatDistance(nearestKm), FormatDistance(suggested)),
		NearestKm:         &nearestKm,
		SuggestedRadiusKm: &suggested,
	}
}

func geocodeFailed(lang, placeName string, s session.Session) Diagnostic {
	msg := fmt.Sprintf(messages[lang][CodeGeocodeFailed], placeName)
	if s.State() == session.Active {
		msg += fmt.Sprintf(messages[lang]["keep_location"], s.LocationName)
	} else {
		msg += messages[lang]["no_distance"]
	}

	return Diagnostic{Code: CodeGeocodeFailed, Message: msg}
}
