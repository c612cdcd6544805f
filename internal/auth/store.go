package auth

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"time"

	"github.com/lib/pq"
	"gopkg.in/yaml.v3"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const userColumns = `id, email, password_hash, firstname, lastname, role, created_at`

func scanUser(row *sql.Row) (*User, error) {
	u := &User{}
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Role, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(s.db.QueryRowContext(ctx, q, NormalizeEmail(email)))
}

func (s *Store) GetByID(ctx context.Context, id int64) (*User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(s.db.QueryRowContext(ctx, q, id))
}

func (s *Store) Create(ctx context.Context, u *User) error {
	const q = `
		INSERT INTO users (email, password_hash, firstname, lastname, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	u.Email = NormalizeEmail(u.Email)
	err := s.db.QueryRowContext(ctx, q,
		u.Email,
		u.PasswordHash,
		u.FirstName,
		u.LastName,
		u.Role,
		time.Now().UTC(),
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		// 23505 is the Postgres unique_violation code; the users table has a
		// unique index on email.
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]User, error) {
	const q = `SELECT ` + userColumns + ` FROM users ORDER BY id`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

type usersFile struct {
	Users []struct {
		Email     string `yaml:"email"`
		Password  string `yaml:"password"`
		FirstName string `yaml:"firstname"`
		LastName  string `yaml:"lastname"`
		Role      string `yaml:"role"`
	} `yaml:"users"`
}

// SeedFromFile creates any bootstrap users from a YAML file that do not exist
// yet. Existing emails are left untouched.
func (s *Store) SeedFromFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var uf usersFile
	if err := yaml.Unmarshal(data, &uf); err != nil {
		return err
	}
	for _, entry := range uf.Users {
		if entry.Email == "" || entry.Password == "" {
			continue
		}
		if _, err := s.GetByEmail(ctx, entry.Email); err == nil {
			continue
		} else if !errors.Is(err, ErrUserNotFound) {
			return err
		}
		role, err := ParseRole(entry.Role)
		if err != nil {
			role = RoleChauffeur
		}
		hash, err := HashPassword(entry.Password)
		if err != nil {
			return err
		}
		u := &User{
			Email:        entry.Email,
			PasswordHash: hash,
			FirstName:    entry.FirstName,
			LastName:     entry.LastName,
			Role:         role,
		}
		if err := s.Create(ctx, u); err != nil {
			return err
		}
	}
	return nil
}
