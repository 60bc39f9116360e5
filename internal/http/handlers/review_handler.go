// README: Ride review endpoints.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mobiurban/internal/http/middleware"
	"mobiurban/internal/modules/reviews"
	"mobiurban/internal/types"
)

type ReviewHandler struct {
	reviews *reviews.Service
}

func NewReviewHandler(svc *reviews.Service) *ReviewHandler {
	return &ReviewHandler{reviews: svc}
}

type createReviewReq struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *ReviewHandler) Create(c *gin.Context) {
	var req createReviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	rev, err := h.reviews.Create(c.Request.Context(), reviews.CreateCommand{
		Actor:   middleware.Actor(c),
		RideID:  types.ID(c.Param("id")),
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		writeRideError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rev)
}

// ListForDriver returns a driver's reviews with the current average.
func (h *ReviewHandler) ListForDriver(c *gin.Context) {
	ctx := c.Request.Context()
	driverID := types.ID(c.Param("id"))

	list, err := h.reviews.ListByDriver(ctx, driverID)
	if err != nil {
		writeRideError(c, err)
		return
	}
	if list == nil {
		list = []*reviews.Review{}
	}
	avg, count, err := h.reviews.DriverRating(ctx, driverID)
	if err != nil {
		writeRideError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reviews": list,
		"average": avg,
		"count":   count,
	})
}
