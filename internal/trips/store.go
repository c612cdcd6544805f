package trips

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"
)

var ErrNotFound = errors.New("trip not found")

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const tripColumns = `id, vehicle_id, trailer_id, driver_id, origin, destination,
	status, scheduled_at, started_at, completed_at, distance_km, created_at, updated_at`

func (s *Store) Create(ctx context.Context, t *Trip) error {
	if t.Status == "" {
		t.Status = StatusPlanned
	}
	if t.ScheduledAt.IsZero() {
		t.ScheduledAt = time.Now().UTC()
	}
	const q = `
		INSERT INTO trips
		(vehicle_id, trailer_id, driver_id, origin, destination, status,
		 scheduled_at, started_at, completed_at, distance_km, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING id, created_at, updated_at
	`
	now := time.Now().UTC()
	row := s.db.QueryRowContext(ctx, q,
		t.VehicleID,
		t.TrailerID,
		t.DriverID,
		t.Origin,
		t.Destination,
		t.Status,
		t.ScheduledAt,
		t.StartedAt,
		t.CompletedAt,
		t.DistanceKM,
		now,
		now,
	)
	return row.Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func (s *Store) List(ctx context.Context, f Filter) ([]Trip, error) {
	clauses := []string{"1=1"}
	args := []interface{}{}
	idx := 1
	if f.DriverID != 0 {
		clauses = append(clauses, "driver_id = $"+itoa(idx))
		args = append(args, f.DriverID)
		idx++
	}
	if f.VehicleID != 0 {
		clauses = append(clauses, "vehicle_id = $"+itoa(idx))
		args = append(args, f.VehicleID)
		idx++
	}
	if f.Status != "" {
		clauses = append(clauses, "status = $"+itoa(idx))
		args = append(args, string(f.Status))
		idx++
	}
	if !f.Since.IsZero() {
		clauses = append(clauses, "scheduled_at >= $"+itoa(idx))
		args = append(args, f.Since)
		idx++
	}
	if !f.Until.IsZero() {
		clauses = append(clauses, "scheduled_at <= $"+itoa(idx))
		args = append(args, f.Until)
		idx++
	}
	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query := "SELECT " + tripColumns + " FROM trips WHERE " +
		strings.Join(clauses, " AND ") + " ORDER BY scheduled_at DESC LIMIT " + itoa(limit)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Trip
	for rows.Next() {
		var t Trip
		if err := rows.Scan(&t.ID, &t.VehicleID, &t.TrailerID, &t.DriverID,
			&t.Origin, &t.Destination, &t.Status, &t.ScheduledAt, &t.StartedAt,
			&t.CompletedAt, &t.DistanceKM, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

func (s *Store) Get(ctx context.Context, id int64) (*Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`
	var t Trip
	if err := s.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.VehicleID, &t.TrailerID,
		&t.DriverID, &t.Origin, &t.Destination, &t.Status, &t.ScheduledAt,
		&t.StartedAt, &t.CompletedAt, &t.DistanceKM, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// UpdateStatus moves a trip through its lifecycle and stamps started_at /
// completed_at as a side effect of the transition.
func (s *Store) UpdateStatus(ctx context.Context, id int64, status Status) error {
	now := time.Now().UTC()
	var q string
	switch status {
	case StatusOngoing:
		q = `UPDATE trips SET status = $1, started_at = $2, updated_at = $2 WHERE id = $3`
	case StatusCompleted:
		q = `UPDATE trips SET status = $1, completed_at = $2, updated_at = $2 WHERE id = $3`
	default:
		q = `UPDATE trips SET status = $1, updated_at = $2 WHERE id = $3`
	}
	res, err := s.db.ExecContext(ctx, q, status, now, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrNotFound
	}
	return err
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
