// README: Geographic coordinate value object with range validation.
package types

import "fmt"

// ErrInvalidCoordinate is returned by Coordinate.Validate for out-of-range
// latitude or longitude. Callers must validate before any distance math.
type ErrInvalidCoordinate struct {
	Lat float64
	Lng float64
}

func (e ErrInvalidCoordinate) Error() string {
	return fmt.Sprintf("invalid coordinate (%f, %f)", e.Lat, e.Lng)
}

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (c Coordinate) Validate() error {
	if c.Lat < -90 || c.Lat > 90 || c.Lng < -180 || c.Lng > 180 {
		return ErrInvalidCoordinate{Lat: c.Lat, Lng: c.Lng}
	}
	return nil
}

func (c Coordinate) Equal(o Coordinate) bool {
	return c.Lat == o.Lat && c.Lng == o.Lng
}
