package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/PetrH630/hobbyhokej/internal/live"
	"github.com/PetrH630/hobbyhokej/internal/notify"
	"github.com/PetrH630/hobbyhokej/internal/registration"
	"github.com/PetrH630/hobbyhokej/internal/settings"
	"github.com/PetrH630/hobbyhokej/internal/validate"
)

var (
	errBadRequest = errors.New("bad request")
	errForbidden  = errors.New("forbidden")
)

// respondError maps a service error onto an HTTP status and the usual {"error": "..."} body.
//
//	400 malformed ids or JSON
//	403 acting on someone else's player
//	404 unknown match, player, registration or notification
//	409 the state does not allow the change (cancelled match, taken position, ...)
//	422 well-formed input with invalid values
//	500 anything else, logged
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, errBadRequest):
		status = fiber.StatusBadRequest
	case errors.Is(err, errForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, registration.ErrNotFound),
		errors.Is(err, settings.ErrPlayerNotFound),
		errors.Is(err, notify.ErrRecipientNotFound),
		errors.Is(err, live.ErrNotificationNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, registration.ErrInvalidTransition),
		errors.Is(err, registration.ErrCapacityConflict),
		errors.Is(err, registration.ErrDuplicateRegistration),
		errors.Is(err, registration.ErrPositionUnavailable):
		status = fiber.StatusConflict
	case errors.Is(err, registration.ErrInvalidInput),
		errors.Is(err, settings.ErrInvalid),
		errors.Is(err, notify.ErrUnknownEvent):
		status = fiber.StatusUnprocessableEntity
	}

	if status == fiber.StatusInternalServerError {
		zerolog.Ctx(c.UserContext()).Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("request failed")
		return c.Status(status).JSON(fiber.Map{"error": "internal error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// paramUUID parses a UUID route parameter.
func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s", errBadRequest, name)
	}
	return id, nil
}

// parseBody decodes the JSON request body into dst.
func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return fmt.Errorf("%w: malformed body", errBadRequest)
	}
	return nil
}

// bindBody decodes the JSON request body into dst and checks its `validate` tags.
// A malformed body is a 400; values breaking the tags are a 422.
func bindBody(c *fiber.Ctx, dst interface{}) error {
	if err := parseBody(c, dst); err != nil {
		return err
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %v", registration.ErrInvalidInput, err)
	}
	return nil
}
