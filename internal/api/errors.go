package api

import (
	"errors"
	"net/http"

	"github.com/UnknownOlympus/haven/internal/models"
	"github.com/UnknownOlympus/haven/internal/retrieval"
	"github.com/UnknownOlympus/haven/internal/service"
	"github.com/gofiber/fiber/v2"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // Error code: bad_request, not_found, unavailable, internal_error.
	Message   string `json:"message"` // Human-readable message
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, http.StatusBadRequest, "bad_request", msg)
}

func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, http.StatusNotFound, "not_found", msg)
}

func errUnavailable(c *fiber.Ctx, msg string) error {
	return newError(c, http.StatusServiceUnavailable, "unavailable", msg)
}

func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, http.StatusInternalServerError, "internal_error", msg)
}

// searchError maps a Search error onto the error taxonomy.
func searchError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidRequest), errors.Is(err, models.ErrInvalidCoordinate):
		return errBadRequest(c, err.Error())
	case errors.Is(err, retrieval.ErrRetrievalFailed):
		return errUnavailable(c, "the shelter index is unavailable, please try again")
	default:
		return errInternal(c, "search failed")
	}
}
