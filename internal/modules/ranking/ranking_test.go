package ranking

import (
	"testing"

	"mobiurban/internal/types"
)

var passenger = types.Coordinate{Lat: -23.5505, Lng: -46.6333}

// offsetNorth returns a point roughly km kilometres north of passenger.
func offsetNorth(km float64) types.Coordinate {
	return types.Coordinate{Lat: passenger.Lat + km/111.19, Lng: passenger.Lng}
}

func TestRankOrdersByDistance(t *testing.T) {
	// A is ~2km away, B ~0.5km. Offline drivers never reach the candidate
	// list, so only A and B are ranked.
	in := Input{
		Passenger: passenger,
		Candidates: []Candidate{
			{DriverID: "driver-a", Name: "A", Coordinate: offsetNorth(2), PerKmCentavos: 250},
			{DriverID: "driver-b", Name: "B", Coordinate: offsetNorth(0.5), PerKmCentavos: 250},
		},
	}
	got, err := Rank(in, 500)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d ranked drivers, want 2", len(got))
	}
	if got[0].DriverID != "driver-b" || got[1].DriverID != "driver-a" {
		t.Errorf("order = [%s, %s], want [driver-b, driver-a]", got[0].DriverID, got[1].DriverID)
	}
	if got[0].DistanceToPassengerKm >= got[1].DistanceToPassengerKm {
		t.Errorf("distances not ascending: %v >= %v",
			got[0].DistanceToPassengerKm, got[1].DistanceToPassengerKm)
	}
}

func TestRankTiebreakByDriverID(t *testing.T) {
	same := offsetNorth(1)
	in := Input{
		Passenger: passenger,
		Candidates: []Candidate{
			{DriverID: "zed", Coordinate: same},
			{DriverID: "amy", Coordinate: same},
		},
	}
	got, err := Rank(in, 500)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if got[0].DriverID != "amy" || got[1].DriverID != "zed" {
		t.Errorf("tie order = [%s, %s], want [amy, zed]", got[0].DriverID, got[1].DriverID)
	}
}

func TestRankInteriorEligibility(t *testing.T) {
	dest := types.Coordinate{Lat: -23.90, Lng: -46.80}
	in := Input{
		Passenger:   passenger,
		Destination: &dest,
		IsInterior:  true,
		Candidates: []Candidate{
			{DriverID: "near-no-interior", Coordinate: offsetNorth(0.5), PerKmCentavos: 250},
			{DriverID: "far-interior", Coordinate: offsetNorth(3), PerKmCentavos: 250, AcceptsInterior: true},
		},
	}
	got, err := Rank(in, 500)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	// Ineligible drivers stay in the listing, flagged, still in distance
	// order.
	if len(got) != 2 {
		t.Fatalf("got %d ranked drivers, want 2", len(got))
	}
	if got[0].DriverID != "near-no-interior" {
		t.Fatalf("nearest first, got %s", got[0].DriverID)
	}
	if got[0].Eligible {
		t.Error("driver that refuses interior trips should be ineligible")
	}
	if !got[1].Eligible {
		t.Error("interior-accepting driver should be eligible")
	}
	for _, r := range got {
		if r.QuotedFare != nil {
			t.Errorf("interior trip must not carry a quoted fare, got %v for %s", r.QuotedFare, r.DriverID)
		}
	}
}

func TestRankQuotedFares(t *testing.T) {
	dest := offsetNorth(10)
	in := Input{
		Passenger:   passenger,
		Destination: &dest,
		Candidates: []Candidate{
			{DriverID: "cheap", Coordinate: offsetNorth(1), PerKmCentavos: 200},
			{DriverID: "pricey", Coordinate: offsetNorth(2), PerKmCentavos: 400},
		},
	}
	got, err := Rank(in, 500)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	for _, r := range got {
		if r.QuotedFare == nil {
			t.Fatalf("missing quote for %s", r.DriverID)
		}
	}
	if got[0].QuotedFare.Amount >= got[1].QuotedFare.Amount {
		t.Errorf("expected cheaper quote first by distance order: %d vs %d",
			got[0].QuotedFare.Amount, got[1].QuotedFare.Amount)
	}
}

func TestRankNoDestinationNoFare(t *testing.T) {
	in := Input{
		Passenger:  passenger,
		Candidates: []Candidate{{DriverID: "d1", Coordinate: offsetNorth(1), PerKmCentavos: 250}},
	}
	got, err := Rank(in, 500)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if got[0].QuotedFare != nil {
		t.Errorf("fare quoted without a destination: %v", got[0].QuotedFare)
	}
}

func TestRankInvalidCoordinates(t *testing.T) {
	if _, err := Rank(Input{Passenger: types.Coordinate{Lat: 95, Lng: 0}}, 500); err == nil {
		t.Error("expected error for invalid passenger coordinate")
	}
	in := Input{
		Passenger:  passenger,
		Candidates: []Candidate{{DriverID: "bad", Coordinate: types.Coordinate{Lat: 0, Lng: 999}}},
	}
	if _, err := Rank(in, 500); err == nil {
		t.Error("expected error for invalid driver coordinate")
	}
}
