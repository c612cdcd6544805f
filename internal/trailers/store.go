package trailers

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var ErrNotFound = errors.New("trailer not found")

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const trailerColumns = `id, plate, kind, capacity_kg, status, created_at, updated_at`

func (s *Store) Create(ctx context.Context, t *Trailer) error {
	if t.Status == "" {
		t.Status = StatusActive
	}
	const q = `
		INSERT INTO trailers (plate, kind, capacity_kg, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, created_at, updated_at
	`
	now := time.Now().UTC()
	return s.db.QueryRowContext(ctx, q, t.Plate, t.Kind, t.CapacityKG, t.Status, now, now).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func (s *Store) List(ctx context.Context) ([]Trailer, error) {
	const q = `SELECT ` + trailerColumns + ` FROM trailers ORDER BY id`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Trailer
	for rows.Next() {
		var t Trailer
		if err := rows.Scan(&t.ID, &t.Plate, &t.Kind, &t.CapacityKG, &t.Status,
			&t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

func (s *Store) Get(ctx context.Context, id int64) (*Trailer, error) {
	const q = `SELECT ` + trailerColumns + ` FROM trailers WHERE id = $1`
	var t Trailer
	if err := s.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.Plate, &t.Kind,
		&t.CapacityKG, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *Store) Update(ctx context.Context, t *Trailer) error {
	const q = `
		UPDATE trailers
		SET plate = $1, kind = $2, capacity_kg = $3, status = $4, updated_at = $5
		WHERE id = $6
	`
	res, err := s.db.ExecContext(ctx, q, t.Plate, t.Kind, t.CapacityKG, t.Status,
		time.Now().UTC(), t.ID)
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
	res, err := s.db.ExecContext(ctx, `DELETE FROM trailers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrNotFound
	}
	return err
}
