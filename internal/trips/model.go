package trips

import "time"

type Status string

const (
	StatusPlanned   Status = "planned"
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// CanTransition encodes the trip lifecycle: planned -> ongoing -> completed,
// with cancellation allowed from any non-terminal state.
func CanTransition(from, to Status) bool {
	switch to {
	case StatusOngoing:
		return from == StatusPlanned
	case StatusCompleted:
		return from == StatusOngoing
	case StatusCancelled:
		return from == StatusPlanned || from == StatusOngoing
	}
	return false
}

type Trip struct {
	ID          int64      `json:"id"`
	VehicleID   int64      `json:"vehicle_id"`
	TrailerID   *int64     `json:"trailer_id,omitempty"`
	DriverID    int64      `json:"driver_id"`
	Origin      string     `json:"origin"`
	Destination string     `json:"destination"`
	Status      Status     `json:"status"`
	ScheduledAt time.Time  `json:"scheduled_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	DistanceKM  int64      `json:"distance_km"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type Filter struct {
	DriverID  int64
	VehicleID int64
	Status    Status
	Since     time.Time
	Until     time.Time
	Limit     int
}
