package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/PabloRelojeroo/slinkhard/internal/model"
)

// SessionRepo persists bearer-token sessions. At most one session survives
// any login: Replace deletes every existing row for the user before
// inserting the new one.
type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

// Replace atomically removes all sessions for the user and inserts a single
// new one carrying the given token and expiry. Two concurrent logins race
// on this delete/insert pair; last write wins.
func (r *SessionRepo) Replace(ctx context.Context, userID, token string, exp time.Time) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, "DELETE FROM sessions WHERE user_id=?", userID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO sessions (id, user_id, token, expires_at) VALUES (?,?,?,?)",
		uuid.NewString(), userID, token, exp.UTC()); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByToken returns the session matching the token. Expired rows are
// deleted on detection and reported as sql.ErrNoRows so callers treat them
// exactly like a missing session.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (model.Session, error) {
	var s model.Session
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, token, expires_at, created_at FROM sessions WHERE token=? LIMIT 1",
		token).Scan(&s.ID, &s.UserID, &s.Token, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		return model.Session{}, err
	}
	if time.Now().UTC().After(s.ExpiresAt) {
		_, _ = r.DB.ExecContext(ctx, "DELETE FROM sessions WHERE id=?", s.ID)
		return model.Session{}, sql.ErrNoRows
	}
	return s, nil
}

// DeleteByToken removes a single session (logout).
func (r *SessionRepo) DeleteByToken(ctx context.Context, token string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM sessions WHERE token=?", token)
	return err
}

// DeleteAllForUser removes every session of a user, forcing re-login on all
// devices. Used after a password change.
func (r *SessionRepo) DeleteAllForUser(ctx context.Context, userID string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM sessions WHERE user_id=?", userID)
	return err
}
