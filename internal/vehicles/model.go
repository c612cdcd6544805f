package vehicles

import "time"

type Status string

const (
	StatusActive      Status = "active"
	StatusMaintenance Status = "maintenance"
	StatusRetired     Status = "retired"
)

type Vehicle struct {
	ID        int64     `json:"id"`
	Plate     string    `json:"plate"`
	Make      string    `json:"make"`
	Model     string    `json:"model"`
	Year      int       `json:"year"`
	VIN       string    `json:"vin"`
	Status    Status    `json:"status"`
	MileageKM int64     `json:"mileage_km"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Tire struct {
	ID               int64     `json:"id"`
	VehicleID        int64     `json:"vehicle_id"`
	Position         string    `json:"position"`
	Brand            string    `json:"brand"`
	InstalledAt      time.Time `json:"installed_at"`
	MileageAtInstall int64     `json:"mileage_at_install"`
}

type MaintenanceRecord struct {
	ID          int64     `json:"id"`
	VehicleID   int64     `json:"vehicle_id"`
	PerformedAt time.Time `json:"performed_at"`
	Kind        string    `json:"kind"`
	CostCents   int64     `json:"cost_cents"`
	Notes       string    `json:"notes"`
}

type Filter struct {
	Status Status
	Plate  string
	Limit  int
}
