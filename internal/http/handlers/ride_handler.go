// README: Ride lifecycle endpoints.
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"mobiurban/internal/http/middleware"
	"mobiurban/internal/modules/ride"
	"mobiurban/internal/types"
)

type RideHandler struct {
	rides *ride.Service
}

func NewRideHandler(svc *ride.Service) *RideHandler {
	return &RideHandler{rides: svc}
}

type coordReq struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type createRideReq struct {
	PassengerID    string     `json:"passenger_id"`
	Pickup         coordReq   `json:"pickup"`
	PickupAddress  string     `json:"pickup_address"`
	Dropoff        *coordReq  `json:"dropoff"`
	DropoffAddress string     `json:"dropoff_address"`
	IsInterior     bool       `json:"is_interior"`
	ScheduledFor   *time.Time `json:"scheduled_for"`
	Priority       string     `json:"priority"`
}

func (h *RideHandler) Create(c *gin.Context) {
	var req createRideReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	cmd := ride.CreateCommand{
		Actor:          middleware.Actor(c),
		PassengerID:    types.ID(req.PassengerID),
		Pickup:         types.Coordinate{Lat: req.Pickup.Lat, Lng: req.Pickup.Lng},
		PickupAddress:  req.PickupAddress,
		DropoffAddress: req.DropoffAddress,
		IsInterior:     req.IsInterior,
		ScheduledFor:   req.ScheduledFor,
		Priority:       ride.Priority(req.Priority),
	}
	if req.Dropoff != nil {
		cmd.Dropoff = &types.Coordinate{Lat: req.Dropoff.Lat, Lng: req.Dropoff.Lng}
	}
	r, err := h.rides.Create(c.Request.Context(), cmd)
	if err != nil {
		writeRideError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (h *RideHandler) Get(c *gin.Context) {
	r, err := h.rides.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeRideError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// List serves the driver-facing pending feed and per-user history.
func (h *RideHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	switch {
	case c.Query("passenger_id") != "":
		rides, err := h.rides.ListByPassenger(ctx, types.ID(c.Query("passenger_id")))
		if err != nil {
			writeRideError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"rides": rides})
	case c.Query("driver_id") != "":
		rides, err := h.rides.ListByDriver(ctx, types.ID(c.Query("driver_id")))
		if err != nil {
			writeRideError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"rides": rides})
	default:
		rides, err := h.rides.ListPending(ctx)
		if err != nil {
			writeRideError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"rides": rides})
	}
}

func (h *RideHandler) Accept(c *gin.Context) {
	actor := middleware.Actor(c)
	err := h.rides.Accept(c.Request.Context(), ride.AcceptCommand{
		RideID:   types.ID(c.Param("id")),
		DriverID: actor.ID,
	})
	if err != nil {
		writeRideError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": ride.StatusAccepted})
}

func (h *RideHandler) Start(c *gin.Context) {
	actor := middleware.Actor(c)
	err := h.rides.Start(c.Request.Context(), ride.StartCommand{
		RideID:   types.ID(c.Param("id")),
		DriverID: actor.ID,
	})
	if err != nil {
		writeRideError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": ride.StatusInProgress})
}

type completeRideReq struct {
	FinalFareCentavos *int64 `json:"final_fare_centavos"`
}

func (h *RideHandler) Complete(c *gin.Context) {
	var req completeRideReq
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	cmd := ride.CompleteCommand{
		RideID:   types.ID(c.Param("id")),
		DriverID: middleware.Actor(c).ID,
	}
	if req.FinalFareCentavos != nil {
		fare := types.BRL(*req.FinalFareCentavos)
		cmd.FinalFare = &fare
	}
	if err := h.rides.Complete(c.Request.Context(), cmd); err != nil {
		writeRideError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": ride.StatusCompleted})
}

type cancelRideReq struct {
	Reason string `json:"reason"`
}

func (h *RideHandler) Cancel(c *gin.Context) {
	var req cancelRideReq
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	err := h.rides.Cancel(c.Request.Context(), ride.CancelCommand{
		RideID: types.ID(c.Param("id")),
		Actor:  middleware.Actor(c),
		Reason: req.Reason,
	})
	if err != nil {
		writeRideError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": ride.StatusCancelled})
}

// Estimate quotes a trip without creating a ride.
func (h *RideHandler) Estimate(c *gin.Context) {
	pickup, ok := parseCoordQuery(c, "pickup_lat", "pickup_lng")
	if !ok {
		return
	}
	dropoff, ok := parseCoordQuery(c, "dropoff_lat", "dropoff_lng")
	if !ok {
		return
	}
	isInterior, _ := strconv.ParseBool(c.Query("is_interior"))

	est, err := h.rides.Estimate(c.Request.Context(), pickup, dropoff, isInterior)
	if err != nil {
		writeRideError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"distance_km":  est.DistanceKm,
		"duration_min": est.DurationMin,
		"fare":         est.Fare,
	})
}
