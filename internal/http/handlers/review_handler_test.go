// README: HTTP-level tests for review endpoints.
package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"mobiurban/internal/http/handlers"
	"mobiurban/internal/http/middleware"
	"mobiurban/internal/modules/drivers"
	"mobiurban/internal/modules/pricing"
	"mobiurban/internal/modules/reviews"
	"mobiurban/internal/modules/ride"
	"mobiurban/internal/types"
)

func buildReviewRouter(t *testing.T) (*gin.Engine, *ride.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)

	rideSvc := ride.NewService(ride.NewMemoryStore(), pricing.NewService(nil, 500), nil, ride.NoopFeed{}, 30, log)
	driverSvc := drivers.NewService(drivers.NewMemoryProfileStore(), drivers.NewMemoryIndex(), 500, log)
	reviewSvc := reviews.NewService(reviews.NewMemoryStore(), rideSvc, driverSvc, log)

	if err := driverSvc.Register(context.Background(), &drivers.Profile{ID: "driver-1", Name: "driver-1"}); err != nil {
		t.Fatalf("register driver: %v", err)
	}

	h := handlers.NewReviewHandler(reviewSvc)
	r := gin.New()
	authed := r.Group("/api", middleware.Identity())
	authed.POST("/rides/:id/review", h.Create)
	authed.GET("/drivers/:id/reviews", h.ListForDriver)
	return r, rideSvc
}

func completeRideFor(t *testing.T, svc *ride.Service, passengerID, driverID types.ID) types.ID {
	t.Helper()
	ctx := context.Background()
	r, err := svc.Create(ctx, ride.CreateCommand{
		Actor:         types.Actor{ID: passengerID, Role: types.RolePassenger},
		Pickup:        types.Coordinate{Lat: -23.5505, Lng: -46.6333},
		PickupAddress: "Av. Paulista, 1000",
	})
	if err != nil {
		t.Fatalf("create ride: %v", err)
	}
	if err := svc.Accept(ctx, ride.AcceptCommand{RideID: r.ID, DriverID: driverID}); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if err := svc.Start(ctx, ride.StartCommand{RideID: r.ID, DriverID: driverID}); err != nil {
		t.Fatalf("start: %v", err)
	}
	fare := types.BRL(500)
	if err := svc.Complete(ctx, ride.CompleteCommand{RideID: r.ID, DriverID: driverID, FinalFare: &fare}); err != nil {
		t.Fatalf("complete: %v", err)
	}
	return r.ID
}

func TestReviewEndpoint(t *testing.T) {
	r, rideSvc := buildReviewRouter(t)
	rideID := completeRideFor(t, rideSvc, "passenger-1", "driver-1")
	path := fmt.Sprintf("/api/rides/%s/review", rideID)

	w := doJSON(r, http.MethodPost, path, "passenger-1", "passenger",
		map[string]any{"rating": 5, "comment": "great"})
	if w.Code != http.StatusCreated {
		t.Fatalf("review: %d %s", w.Code, w.Body.String())
	}

	// Reviewing the same ride again conflicts.
	w = doJSON(r, http.MethodPost, path, "passenger-1", "passenger",
		map[string]any{"rating": 1})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate review status = %d, want 409", w.Code)
	}
	var resp struct {
		Code string `json:"code"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Code != "already_reviewed" {
		t.Errorf("code = %q, want already_reviewed", resp.Code)
	}

	w = doJSON(r, http.MethodGet, "/api/drivers/driver-1/reviews", "passenger-1", "passenger", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list reviews: %d %s", w.Code, w.Body.String())
	}
	var listing struct {
		Reviews []json.RawMessage `json:"reviews"`
		Average float64           `json:"average"`
		Count   int               `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listing); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(listing.Reviews) != 1 || listing.Average != 5 || listing.Count != 1 {
		t.Errorf("listing = %+v", listing)
	}
}

func TestReviewByWrongPassengerForbidden(t *testing.T) {
	r, rideSvc := buildReviewRouter(t)
	rideID := completeRideFor(t, rideSvc, "passenger-1", "driver-1")

	w := doJSON(r, http.MethodPost, fmt.Sprintf("/api/rides/%s/review", rideID),
		"passenger-2", "passenger", map[string]any{"rating": 1})
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}
