package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/UnknownOlympus/haven/internal/models"
	"github.com/UnknownOlympus/haven/internal/service"
	"github.com/UnknownOlympus/haven/internal/session"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// SearchRequest is the body of POST /v1/search.
type SearchRequest struct {
	ConversationID string           `json:"conversation_id"`
	Query          string           `json:"query"`
	Language       string           `json:"language"`
	Count          int              `json:"count"`
	RadiusKm       *float64         `json:"radius_km"`
	Location       *models.GeoPoint `json:"location"`      // Location pins the search origin.
	At             string           `json:"at"`            // At pins the origin as "lat,lon".
	LocationName   string           `json:"location_name"` // LocationName labels a pinned origin.
	Clear          bool             `json:"clear"`
	Filter         models.Filter    `json:"filter"`
}

// SearchResponse is the body returned by POST /v1/search.
type SearchResponse struct {
	ConversationID string `json:"conversation_id"`
	*service.Response
}

// GeocodeRequest is the body of POST /v1/geocode.
type GeocodeRequest struct {
	Place string `json:"place"`
}

// HealthHandler reports liveness.
func HealthHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	}
}

// SearchHandler runs one conversation turn. Turns of the same conversation are
// serialized and the resulting session is stored for the next turn.
func SearchHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SearchRequest
		if err := c.BodyParser(&body); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}

		pin := body.Location
		if body.At != "" {
			p, err := models.ParseGeoPoint(body.At)
			if err != nil {
				return errBadRequest(c, err.Error())
			}
			pin = &p
		}

		id := strings.TrimSpace(body.ConversationID)
		if id == "" {
			id = uuid.NewString()
		}

		ctx := c.UserContext()
		unlock := deps.Locks.Lock(id)
		defer unlock()

		var prior *session.Session
		stored, err := deps.Sessions.Get(ctx, id)
		switch {
		case err == nil:
			prior = &stored
		case errors.Is(err, session.ErrNotFound):
		default:
			deps.Log.ErrorContext(ctx, "Failed to load session", "conversation", id, "error", err)
			return errUnavailable(c, "session store unavailable, please try again")
		}

		resp, err := deps.Search.Search(ctx, service.Request{
			ConversationID: id,
			Text:           body.Query,
			Language:       body.Language,
			Count:          body.Count,
			RadiusKm:       body.RadiusKm,
			Pin:            pin,
			PinName:        body.LocationName,
			Clear:          body.Clear,
			Filter:         body.Filter,
			Prior:          prior,
		})
		if err != nil {
			return searchError(c, err)
		}

		if err = deps.Sessions.Save(ctx, id, resp.Session); err != nil {
			deps.Log.ErrorContext(ctx, "Failed to save session", "conversation", id, "error", err)
		}

		return c.JSON(SearchResponse{ConversationID: id, Response: resp})
	}
}

// GetSessionHandler returns the stored session of a conversation.
func GetSessionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		s, err := deps.Sessions.Get(c.UserContext(), id)
		if errors.Is(err, session.ErrNotFound) {
			return errNotFound(c, "session not found")
		}
		if err != nil {
			return errUnavailable(c, "session store unavailable, please try again")
		}

		return c.JSON(fiber.Map{
			"conversation_id": id,
			"state":           s.State().String(),
			"session":         s,
		})
	}
}

// DeleteSessionHandler forgets a conversation, which clears its location.
func DeleteSessionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		unlock := deps.Locks.Lock(id)
		defer unlock()

		if err := deps.Sessions.Delete(c.UserContext(), id); err != nil {
			return errUnavailable(c, "session store unavailable, please try again")
		}

		return c.SendStatus(http.StatusNoContent)
	}
}

// GeocodeHandler resolves a place name directly.
func GeocodeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body GeocodeRequest
		if err := c.BodyParser(&body); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		if strings.TrimSpace(body.Place) == "" {
			return errBadRequest(c, "place is required")
		}

		place, err := deps.Geocoder.Resolve(c.UserContext(), body.Place)
		if err != nil {
			deps.Log.DebugContext(c.UserContext(), "Geocode request failed", "place", body.Place, "error", err)
			return errNotFound(c, "location not found")
		}

		return c.JSON(place)
	}
}

// FacilityCountHandler returns the number of catalog records.
func FacilityCountHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Catalog == nil {
			return errUnavailable(c, "catalog not configured")
		}

		count, err := deps.Catalog.CountFacilities(c.UserContext())
		if err != nil {
			deps.Log.ErrorContext(c.UserContext(), "Failed to count facilities", "error", err)
			return errUnavailable(c, "catalog unavailable, please try again")
		}

		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(fiber.Map{"count": count})
	}
}
