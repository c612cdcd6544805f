package vehicles

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"
)

var ErrNotFound = errors.New("vehicle not found")

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const vehicleColumns = `id, plate, make, model, year, vin, status, mileage_km, created_at, updated_at`

func (s *Store) Create(ctx context.Context, v *Vehicle) error {
	if v.Status == "" {
		v.Status = StatusActive
	}
	const q = `
		INSERT INTO vehicles (plate, make, model, year, vin, status, mileage_km, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id, created_at, updated_at
	`
	now := time.Now().UTC()
	row := s.db.QueryRowContext(ctx, q,
		v.Plate,
		v.Make,
		v.Model,
		v.Year,
		v.VIN,
		v.Status,
		v.MileageKM,
		now,
		now,
	)
	return row.Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
}

func (s *Store) List(ctx context.Context, f Filter) ([]Vehicle, error) {
	clauses := []string{"1=1"}
	args := []interface{}{}
	idx := 1
	if f.Status != "" {
		clauses = append(clauses, "status = $"+itoa(idx))
		args = append(args, string(f.Status))
		idx++
	}
	if f.Plate != "" {
		clauses = append(clauses, "plate = $"+itoa(idx))
		args = append(args, f.Plate)
		idx++
	}
	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query := "SELECT " + vehicleColumns + " FROM vehicles WHERE " +
		strings.Join(clauses, " AND ") + " ORDER BY id LIMIT " + itoa(limit)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Vehicle
	for rows.Next() {
		var v Vehicle
		if err := rows.Scan(&v.ID, &v.Plate, &v.Make, &v.Model, &v.Year, &v.VIN,
			&v.Status, &v.MileageKM, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, v)
	}
	return res, rows.Err()
}

func (s *Store) Get(ctx context.Context, id int64) (*Vehicle, error) {
	const q = `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`
	row := s.db.QueryRowContext(ctx, q, id)
	var v Vehicle
	if err := row.Scan(&v.ID, &v.Plate, &v.Make, &v.Model, &v.Year, &v.VIN,
		&v.Status, &v.MileageKM, &v.CreatedAt, &v.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// Update overwrites the mutable columns; identity and created_at never move.
func (s *Store) Update(ctx context.Context, v *Vehicle) error {
	const q = `
		UPDATE vehicles
		SET plate = $1, make = $2, model = $3, year = $4, vin = $5,
		    status = $6, mileage_km = $7, updated_at = $8
		WHERE id = $9
	`
	res, err := s.db.ExecContext(ctx, q, v.Plate, v.Make, v.Model, v.Year, v.VIN,
		v.Status, v.MileageKM, time.Now().UTC(), v.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrNotFound
	}
	return err
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrNotFound
	}
	return err
}

func (s *Store) ListTires(ctx context.Context, vehicleID int64) ([]Tire, error) {
	const q = `
		SELECT id, vehicle_id, position, brand, installed_at, mileage_at_install
		FROM tires WHERE vehicle_id = $1 ORDER BY position
	`
	rows, err := s.db.QueryContext(ctx, q, vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Tire
	for rows.Next() {
		var t Tire
		if err := rows.Scan(&t.ID, &t.VehicleID, &t.Position, &t.Brand,
			&t.InstalledAt, &t.MileageAtInstall); err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

func (s *Store) AddTire(ctx context.Context, t *Tire) error {
	if t.InstalledAt.IsZero() {
		t.InstalledAt = time.Now().UTC()
	}
	const q = `
		INSERT INTO tires (vehicle_id, position, brand, installed_at, mileage_at_install)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id
	`
	return s.db.QueryRowContext(ctx, q, t.VehicleID, t.Position, t.Brand,
		t.InstalledAt, t.MileageAtInstall).Scan(&t.ID)
}

func (s *Store) ListMaintenance(ctx context.Context, vehicleID int64) ([]MaintenanceRecord, error) {
	const q = `
		SELECT id, vehicle_id, performed_at, kind, cost_cents, notes
		FROM maintenance_records WHERE vehicle_id = $1 ORDER BY performed_at DESC
	`
	rows, err := s.db.QueryContext(ctx, q, vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []MaintenanceRecord
	for rows.Next() {
		var m MaintenanceRecord
		if err := rows.Scan(&m.ID, &m.VehicleID, &m.PerformedAt, &m.Kind,
			&m.CostCents, &m.Notes); err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	return res, rows.Err()
}

func (s *Store) AddMaintenance(ctx context.Context, m *MaintenanceRecord) error {
	if m.PerformedAt.IsZero() {
		m.PerformedAt = time.Now().UTC()
	}
	const q = `
		INSERT INTO maintenance_records (vehicle_id, performed_at, kind, cost_cents, notes)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id
	`
	return s.db.QueryRowContext(ctx, q, m.VehicleID, m.PerformedAt, m.Kind,
		m.CostCents, m.Notes).Scan(&m.ID)
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
