// README: Ride aggregate and status definitions.
package ride

import (
	"time"

	"mobiurban/internal/types"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusAccepted   Status = "accepted"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// Ride is the central entity. Rides are never deleted; they only reach a
// terminal status.
type Ride struct {
	ID          types.ID  `json:"id"`
	PassengerID types.ID  `json:"passenger_id"`
	DriverID    *types.ID `json:"driver_id,omitempty"`
	// CreatedBy records who initiated the request; differs from PassengerID
	// for admin-created rides.
	CreatedBy     types.ID `json:"created_by"`
	Status        Status   `json:"status"`
	StatusVersion int      `json:"status_version"`

	Pickup         types.Coordinate  `json:"pickup"`
	PickupAddress  string            `json:"pickup_address"`
	Dropoff        *types.Coordinate `json:"dropoff,omitempty"`
	DropoffAddress string            `json:"dropoff_address,omitempty"`

	// IsInterior marks destinations outside the standard service area; the
	// fare is negotiated, so EstimatedFare stays nil.
	IsInterior           bool         `json:"is_interior"`
	EstimatedDistanceKm  float64      `json:"estimated_distance_km"`
	EstimatedDurationMin int          `json:"estimated_duration_min"`
	EstimatedFare        *types.Money `json:"estimated_fare,omitempty"`
	FinalFare            *types.Money `json:"final_fare,omitempty"`

	ScheduledFor *time.Time `json:"scheduled_for,omitempty"`
	Priority     Priority   `json:"priority"`

	CreatedAt    time.Time  `json:"created_at"`
	AcceptedAt   *time.Time `json:"accepted_at,omitempty"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	CancelReason *string    `json:"cancel_reason,omitempty"`
}

// Event is one applied lifecycle transition (append-only).
type Event struct {
	ID         int64
	RideID     types.ID
	FromStatus Status
	ToStatus   Status
	ActorRole  string
	ActorID    *types.ID
	CreatedAt  time.Time
}

// AllowedTransitions represents the ride state flow as code.
var AllowedTransitions = map[Status][]Status{
	StatusPending:    {StatusAccepted, StatusCancelled},
	StatusAccepted:   {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

func IsTerminal(s Status) bool {
	return s == StatusCompleted || s == StatusCancelled
}
