package location

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"mobiurban/internal/maps"
	"mobiurban/internal/types"
)

type stubReverse struct {
	res *maps.ReverseResult
	err error
}

func (s stubReverse) ReverseGeocode(context.Context, types.Coordinate) (*maps.ReverseResult, error) {
	return s.res, s.err
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func fixedLocator(c types.Coordinate) Locator {
	return LocatorFunc(func(context.Context, PositionOptions) (Position, error) {
		return Position{Coordinate: c}, nil
	})
}

func failingLocator(err error) Locator {
	return LocatorFunc(func(context.Context, PositionOptions) (Position, error) {
		return Position{}, err
	})
}

func TestResolveWithFallbackHappyPath(t *testing.T) {
	pos := types.Coordinate{Lat: -23.5612, Lng: -46.6559}
	rev := &maps.ReverseResult{
		DisplayName: "Avenida Paulista, 1000, Bela Vista, São Paulo, SP, Brasil",
		Details:     maps.AddressDetails{Road: "Avenida Paulista", City: "São Paulo"},
	}
	r := NewResolver(fixedLocator(pos), stubReverse{res: rev}, testLogger())

	got := r.ResolveWithFallback(context.Background())
	if got.IsDefault {
		t.Fatal("resolved location marked as default")
	}
	if !got.Coordinate.Equal(pos) {
		t.Errorf("coordinate = %v, want %v", got.Coordinate, pos)
	}
	if got.Address != "Avenida Paulista, 1000, Bela Vista, São Paulo" {
		t.Errorf("short address = %q", got.Address)
	}
	if got.FullAddress != rev.DisplayName {
		t.Errorf("full address = %q", got.FullAddress)
	}
}

func TestResolveWithFallbackOnLocatorFailure(t *testing.T) {
	for _, cause := range []error{ErrPermissionDenied, ErrPositionUnavailable, ErrPositionTimeout} {
		r := NewResolver(failingLocator(cause), stubReverse{}, testLogger())
		got := r.ResolveWithFallback(context.Background())
		if !got.IsDefault {
			t.Errorf("%v: expected the default location", cause)
		}
		if got.Coordinate.Lat != -23.5505 || got.Coordinate.Lng != -46.6333 {
			t.Errorf("%v: default coordinate = %v", cause, got.Coordinate)
		}
	}
}

func TestResolveWithFallbackOnReverseFailure(t *testing.T) {
	pos := types.Coordinate{Lat: -23.5612, Lng: -46.6559}
	r := NewResolver(fixedLocator(pos), stubReverse{err: errors.New("provider down")}, testLogger())

	got := r.ResolveWithFallback(context.Background())
	if !got.IsDefault {
		t.Fatal("expected the default location when reverse geocoding fails")
	}
	if got.Address == "" || got.FullAddress == "" {
		t.Error("default location must carry display addresses")
	}
}
