// Package handler defines the HTTP layer: request DTOs, parameter
// parsing and the mapping from domain errors to status codes.
package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/vuxducgiang/restaurant-pos/internal/service"
	"github.com/vuxducgiang/restaurant-pos/internal/store"
)

var notFoundErrors = []error{
	store.ErrRoomNotFound, store.ErrTableNotFound, store.ErrSessionNotFound,
	store.ErrOrderNotFound, store.ErrVariantNotFound, store.ErrReservationNotFound,
	store.ErrUserNotFound,
}

// writeError maps a domain error onto a JSON error response.
// Validation failures are 400, missing entities 404, state conflicts
// (including stock shortage and busy tables) 409, bad credentials 401
// and everything else a logged 500.
func writeError(c echo.Context, err error) error {
	switch {
	case service.IsValidation(err):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case isNotFound(err):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case service.IsConflict(err), errors.Is(err, store.ErrConflict), errors.Is(err, store.ErrInsufficientStock):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	default:
		c.Logger().Errorf("internal error: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

func isNotFound(err error) bool {
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// paramUUID parses the named path parameter as a UUID.  ok is false
// after the 400 response has already been written.
func paramUUID(c echo.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}
