// Package http is the API gateway: routes, handlers and error mapping.
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"unipool/internal/modules/booking"
	"unipool/internal/modules/fare"
	"unipool/internal/modules/matching"
	"unipool/internal/modules/ride"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(c *gin.Context, status int, msg string) {
	c.JSON(status, errorResponse{Error: msg})
}

func errBadQuery(key string) error {
	return errors.New("missing or malformed query parameter: " + key)
}

// writeDomainError maps module sentinels onto HTTP statuses. Anything
// unrecognised is a 500 with no internals leaked.
func writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrBadRequest),
		errors.Is(err, ride.ErrBadRequest),
		errors.Is(err, matching.ErrBadRequest),
		errors.Is(err, fare.ErrInvalidInput):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, booking.ErrNotFound), errors.Is(err, ride.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, booking.ErrForbidden),
		errors.Is(err, ride.ErrForbidden),
		errors.Is(err, ride.ErrRestricted):
		writeError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, ride.ErrNotInWindow):
		writeError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, booking.ErrCapacityExceeded),
		errors.Is(err, booking.ErrRideNotOpen),
		errors.Is(err, booking.ErrInvalidState),
		errors.Is(err, booking.ErrConflict),
		errors.Is(err, ride.ErrInvalidState),
		errors.Is(err, ride.ErrConflict):
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
