// README: Passenger review of a completed ride.
package reviews

import (
	"time"

	"mobiurban/internal/types"
)

// Review is one passenger's rating of the driver after a completed ride. At
// most one review exists per ride.
type Review struct {
	ID          int64     `json:"id"`
	RideID      types.ID  `json:"ride_id"`
	DriverID    types.ID  `json:"driver_id"`
	PassengerID types.ID  `json:"passenger_id"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
