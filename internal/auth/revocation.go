package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// RevocationList records refresh-token JTIs that were invalidated before their
// natural expiry. Rows past their expiry are pruned on each insert, so the
// table is bounded by the refresh TTL without a background sweeper.
type RevocationList struct {
	db *sql.DB
}

func NewRevocationList(db *sql.DB) *RevocationList {
	return &RevocationList{db: db}
}

func (r *RevocationList) Revoke(ctx context.Context, jti string, userID int64, expiresAt time.Time) error {
	const prune = `DELETE FROM revoked_tokens WHERE expires_at < $1`
	if _, err := r.db.ExecContext(ctx, prune, time.Now().UTC()); err != nil {
		return err
	}
	const q = `
		INSERT INTO revoked_tokens (jti, user_id, expires_at, revoked_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (jti) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, q, jti, userID, expiresAt, time.Now().UTC())
	return err
}

func (r *RevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	const q = `SELECT 1 FROM revoked_tokens WHERE jti = $1`
	var one int
	if err := r.db.QueryRowContext(ctx, q, jti).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
