// README: Driver registry and presence endpoints.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mobiurban/internal/modules/drivers"
	"mobiurban/internal/types"
)

type DriverHandler struct {
	drivers *drivers.Service
}

func NewDriverHandler(svc *drivers.Service) *DriverHandler {
	return &DriverHandler{drivers: svc}
}

type registerDriverReq struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Phone           string  `json:"phone"`
	VehicleModel    string  `json:"vehicle_model"`
	VehiclePlate    string  `json:"vehicle_plate"`
	PerKmCentavos   int64   `json:"per_km_centavos"`
	Rating          float64 `json:"rating"`
	AcceptsInterior bool    `json:"accepts_interior"`
}

func (h *DriverHandler) Register(c *gin.Context) {
	var req registerDriverReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	p := &drivers.Profile{
		ID:              types.ID(req.ID),
		Name:            req.Name,
		Phone:           req.Phone,
		VehicleModel:    req.VehicleModel,
		VehiclePlate:    req.VehiclePlate,
		PerKmCentavos:   req.PerKmCentavos,
		Rating:          req.Rating,
		AcceptsInterior: req.AcceptsInterior,
	}
	if err := h.drivers.Register(c.Request.Context(), p); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *DriverHandler) Get(c *gin.Context) {
	p, err := h.drivers.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeRideError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *DriverHandler) UpdateLocation(c *gin.Context) {
	var req coordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	id := types.ID(c.Param("id"))
	coord := types.Coordinate{Lat: req.Lat, Lng: req.Lng}
	if err := h.drivers.ReportLocation(c.Request.Context(), id, coord); err != nil {
		writeRideError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type driverStatusReq struct {
	Online bool `json:"online"`
}

func (h *DriverHandler) UpdateStatus(c *gin.Context) {
	var req driverStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	id := types.ID(c.Param("id"))
	if err := h.drivers.SetOnline(c.Request.Context(), id, req.Online); err != nil {
		writeRideError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"online": req.Online})
}
