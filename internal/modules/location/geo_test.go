package location

import (
	"math"
	"testing"

	"mobiurban/internal/types"
)

func TestDistanceKm(t *testing.T) {
	saoPaulo := types.Coordinate{Lat: -23.5505, Lng: -46.6333}
	vilaMariana := types.Coordinate{Lat: -23.5755, Lng: -46.6520}

	tests := []struct {
		name string
		a, b types.Coordinate
		want float64
		tol  float64
	}{
		{
			name: "same point is zero",
			a:    saoPaulo,
			b:    saoPaulo,
			want: 0,
			tol:  0,
		},
		{
			name: "downtown to vila mariana",
			a:    saoPaulo,
			b:    vilaMariana,
			want: 3.39,
			tol:  0.05,
		},
		{
			name: "one degree of latitude",
			a:    types.Coordinate{Lat: 0, Lng: 0},
			b:    types.Coordinate{Lat: 1, Lng: 0},
			want: 111.19,
			tol:  0.1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceKm(tt.a, tt.b)
			if math.Abs(got-tt.want) > tt.tol {
				t.Errorf("DistanceKm = %v, want %v (±%v)", got, tt.want, tt.tol)
			}
		})
	}
}

func TestDistanceKmSymmetric(t *testing.T) {
	a := types.Coordinate{Lat: -23.5505, Lng: -46.6333}
	b := types.Coordinate{Lat: -23.5755, Lng: -46.6520}
	if DistanceKm(a, b) != DistanceKm(b, a) {
		t.Errorf("DistanceKm not symmetric: %v vs %v", DistanceKm(a, b), DistanceKm(b, a))
	}
}

func TestTravelTimeMinutes(t *testing.T) {
	tests := []struct {
		name       string
		distanceKm float64
		speedKmh   float64
		want       int
	}{
		{name: "15km at 30km/h", distanceKm: 15, speedKmh: 30, want: 30},
		{name: "zero distance", distanceKm: 0, speedKmh: 30, want: 0},
		{name: "rounds to nearest minute", distanceKm: 10.2, speedKmh: 30, want: 20},
		{name: "zero speed falls back to default", distanceKm: 15, speedKmh: 0, want: 30},
		{name: "negative speed falls back to default", distanceKm: 5, speedKmh: -10, want: 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TravelTimeMinutes(tt.distanceKm, tt.speedKmh); got != tt.want {
				t.Errorf("TravelTimeMinutes(%v, %v) = %d, want %d", tt.distanceKm, tt.speedKmh, got, tt.want)
			}
		})
	}
}
