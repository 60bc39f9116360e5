// README: Shared handler utilities (error mapping, parsing helpers).
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"mobiurban/internal/maps"
	"mobiurban/internal/modules/drivers"
	"mobiurban/internal/modules/reviews"
	"mobiurban/internal/modules/ride"
	"mobiurban/internal/types"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeError(c *gin.Context, status int, msg string) {
	c.JSON(status, errorResponse{Error: msg})
}

func writeErrorCode(c *gin.Context, status int, code, msg string) {
	c.JSON(status, errorResponse{Error: msg, Code: code})
}

// writeRideError maps service errors onto HTTP statuses. Conflict and
// invalid-transition both come back 409 but carry distinct codes so clients
// can tell "ride already taken" from "wrong state".
func writeRideError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ride.ErrValidation), errors.Is(err, reviews.ErrValidation):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ride.ErrNotFound), errors.Is(err, drivers.ErrProfileNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ride.ErrNotRideDriver), errors.Is(err, reviews.ErrNotRidePassenger):
		writeError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, ride.ErrInvalidTransition):
		writeErrorCode(c, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, ride.ErrConflict):
		writeErrorCode(c, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, ride.ErrActiveRide):
		writeErrorCode(c, http.StatusConflict, "active_ride", err.Error())
	case errors.Is(err, reviews.ErrAlreadyReviewed):
		writeErrorCode(c, http.StatusConflict, "already_reviewed", err.Error())
	case errors.Is(err, reviews.ErrRideNotCompleted):
		writeErrorCode(c, http.StatusConflict, "not_completed", err.Error())
	default:
		var coordErr types.ErrInvalidCoordinate
		if errors.As(err, &coordErr) {
			writeError(c, http.StatusBadRequest, coordErr.Error())
			return
		}
		var gerr *maps.GeocodeError
		if errors.As(err, &gerr) {
			writeError(c, http.StatusUnprocessableEntity, gerr.Error())
			return
		}
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func parseCoordQuery(c *gin.Context, latKey, lngKey string) (types.Coordinate, bool) {
	lat, err1 := strconv.ParseFloat(c.Query(latKey), 64)
	lng, err2 := strconv.ParseFloat(c.Query(lngKey), 64)
	if err1 != nil || err2 != nil {
		writeError(c, http.StatusBadRequest, "invalid coordinates")
		return types.Coordinate{}, false
	}
	coord := types.Coordinate{Lat: lat, Lng: lng}
	if err := coord.Validate(); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return types.Coordinate{}, false
	}
	return coord, true
}
