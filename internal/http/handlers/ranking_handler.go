// README: Driver ranking endpoint.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mobiurban/internal/modules/drivers"
	"mobiurban/internal/modules/pricing"
	"mobiurban/internal/modules/ranking"
	"mobiurban/internal/types"
)

type RankingHandler struct {
	drivers  *drivers.Service
	pricing  *pricing.Service
	radiusKm float64
}

func NewRankingHandler(driverSvc *drivers.Service, pricingSvc *pricing.Service, radiusKm float64) *RankingHandler {
	return &RankingHandler{drivers: driverSvc, pricing: pricingSvc, radiusKm: radiusKm}
}

type rankReq struct {
	Passenger   coordReq  `json:"passenger"`
	Destination *coordReq `json:"destination"`
	IsInterior  bool      `json:"is_interior"`
}

// Rank returns nearby online drivers ordered by distance to the passenger,
// with a fare quote per driver when the destination is known.
func (h *RankingHandler) Rank(c *gin.Context) {
	var req rankReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	passenger := types.Coordinate{Lat: req.Passenger.Lat, Lng: req.Passenger.Lng}
	if err := passenger.Validate(); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	candidates, err := h.drivers.Candidates(c.Request.Context(), passenger, h.radiusKm)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}

	in := ranking.Input{
		Passenger:  passenger,
		IsInterior: req.IsInterior,
		Candidates: candidates,
	}
	if req.Destination != nil {
		in.Destination = &types.Coordinate{Lat: req.Destination.Lat, Lng: req.Destination.Lng}
	}
	ranked, err := ranking.Rank(in, h.pricing.MinimumCentavos())
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	if ranked == nil {
		ranked = []ranking.RankedDriver{}
	}
	c.JSON(http.StatusOK, gin.H{"drivers": ranked})
}
