// README: Geocoding endpoints (search, reverse, locate).
package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"mobiurban/internal/maps"
	"mobiurban/internal/modules/location"
	"mobiurban/internal/types"
)

type GeoHandler struct {
	geocoder *maps.Geocoder
	log      *logrus.Logger
}

func NewGeoHandler(geocoder *maps.Geocoder, log *logrus.Logger) *GeoHandler {
	return &GeoHandler{geocoder: geocoder, log: log}
}

// Search is best-effort: provider trouble yields an empty candidate list,
// never an error status.
func (h *GeoHandler) Search(c *gin.Context) {
	candidates := h.geocoder.SearchAddresses(c.Request.Context(), c.Query("q"))
	if candidates == nil {
		candidates = []maps.AddressCandidate{}
	}
	c.JSON(http.StatusOK, gin.H{"candidates": candidates})
}

func (h *GeoHandler) Reverse(c *gin.Context) {
	coord, ok := parseCoordQuery(c, "lat", "lng")
	if !ok {
		return
	}
	res, err := h.geocoder.ReverseGeocode(c.Request.Context(), coord)
	if err != nil {
		writeError(c, http.StatusNotFound, "no address at this position")
		return
	}
	c.JSON(http.StatusOK, res)
}

// Locate resolves the client-reported position into an addressed location,
// degrading to the default location when the position is missing, invalid,
// or cannot be reverse geocoded.
func (h *GeoHandler) Locate(c *gin.Context) {
	resolver := location.NewResolver(clientLocator(c), h.geocoder, h.log)
	c.JSON(http.StatusOK, resolver.ResolveWithFallback(c.Request.Context()))
}

// clientLocator treats the request's lat/lng query params as the device fix.
func clientLocator(c *gin.Context) location.Locator {
	return location.LocatorFunc(func(context.Context, location.PositionOptions) (location.Position, error) {
		lat, err1 := strconv.ParseFloat(c.Query("lat"), 64)
		lng, err2 := strconv.ParseFloat(c.Query("lng"), 64)
		if err1 != nil || err2 != nil {
			return location.Position{}, location.ErrPositionUnavailable
		}
		coord := types.Coordinate{Lat: lat, Lng: lng}
		if err := coord.Validate(); err != nil {
			return location.Position{}, location.ErrPositionUnavailable
		}
		return location.Position{Coordinate: coord}, nil
	})
}
