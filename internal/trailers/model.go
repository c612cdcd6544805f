package trailers

import "time"

type Status string

const (
	StatusActive      Status = "active"
	StatusMaintenance Status = "maintenance"
	StatusRetired     Status = "retired"
)

type Trailer struct {
	ID         int64     `json:"id"`
	Plate      string    `json:"plate"`
	Kind       string    `json:"kind"`
	CapacityKG int64     `json:"capacity_kg"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
