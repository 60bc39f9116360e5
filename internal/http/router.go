// README: HTTP route registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"mobiurban/internal/http/handlers"
	"mobiurban/internal/http/middleware"
	"mobiurban/internal/maps"
	"mobiurban/internal/modules/drivers"
	"mobiurban/internal/modules/pricing"
	"mobiurban/internal/modules/reviews"
	"mobiurban/internal/modules/ride"
)

type RouterDeps struct {
	Rides    *ride.Service
	Drivers  *drivers.Service
	Pricing  *pricing.Service
	Reviews  *reviews.Service
	Geocoder *maps.Geocoder
	// RankingRadiusKm bounds the nearby-driver search for rankings.
	RankingRadiusKm float64
	Log             *logrus.Logger
}

func NewRouter(deps RouterDeps) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Recovery(deps.Log))
	r.Use(middleware.Logging(deps.Log))
	r.Use(middleware.Metrics())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	geo := handlers.NewGeoHandler(deps.Geocoder, deps.Log)
	r.GET("/api/geo/search", geo.Search)
	r.GET("/api/geo/reverse", geo.Reverse)
	r.GET("/api/geo/locate", geo.Locate)

	rideH := handlers.NewRideHandler(deps.Rides)
	r.GET("/api/rides/estimate", rideH.Estimate)

	authed := r.Group("/api", middleware.Identity())

	authed.POST("/rides", rideH.Create)
	authed.GET("/rides", rideH.List)
	authed.GET("/rides/:id", rideH.Get)
	authed.POST("/rides/:id/accept", rideH.Accept)
	authed.POST("/rides/:id/start", rideH.Start)
	authed.POST("/rides/:id/complete", rideH.Complete)
	authed.POST("/rides/:id/cancel", rideH.Cancel)

	rankH := handlers.NewRankingHandler(deps.Drivers, deps.Pricing, deps.RankingRadiusKm)
	authed.POST("/rankings", rankH.Rank)

	driverH := handlers.NewDriverHandler(deps.Drivers)
	authed.POST("/drivers", driverH.Register)
	authed.GET("/drivers/:id", driverH.Get)
	authed.PUT("/drivers/:id/location", driverH.UpdateLocation)
	authed.PUT("/drivers/:id/status", driverH.UpdateStatus)

	reviewH := handlers.NewReviewHandler(deps.Reviews)
	authed.POST("/rides/:id/review", reviewH.Create)
	authed.GET("/drivers/:id/reviews", reviewH.ListForDriver)

	return r
}
