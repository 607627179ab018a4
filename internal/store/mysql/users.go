package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/vuxducgiang/restaurant-pos/internal/model"
	"github.com/vuxducgiang/restaurant-pos/internal/store"
)

const userColumns = `id, email, password_hash, role, is_active, created_at`

func scanUser(scan func(dest ...any) error) (*model.User, error) {
	var u model.User
	var id string
	err := scan(&id, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, err
	}
	if u.ID, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByEmail returns a staff account or store.ErrUserNotFound.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return scanUser(s.db.QueryRowContext(ctx, q, email).Scan)
}

func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return scanUser(s.db.QueryRowContext(ctx, q, id.String()).Scan)
}

// InsertUser creates a staff account.  A duplicate email surfaces as
// store.ErrConflict via the unique key on users.email.
func (s *Store) InsertUser(ctx context.Context, u *model.User) error {
	const q = `INSERT INTO users (id, email, password_hash, role, is_active, created_at)
	           VALUES (?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		u.ID.String(), u.Email, u.PasswordHash, u.Role, u.IsActive, u.CreatedAt.UTC())
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == 1062 {
		return store.ErrConflict
	}
	return err
}

// GetRefreshToken looks a token up by its SHA-256 hash.
func (s *Store) GetRefreshToken(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	const q = `SELECT id, user_id, token_hash, expires_at, revoked_at, created_at
	           FROM refresh_tokens WHERE token_hash = ?`
	var t model.RefreshToken
	var id, userID string
	var revokedAt sql.NullTime
	err := s.db.QueryRowContext(ctx, q, tokenHash).Scan(
		&id, &userID, &t.TokenHash, &t.ExpiresAt, &revokedAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTokenNotFound
		}
		return nil, err
	}
	if t.ID, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	if t.UserID, err = uuid.Parse(userID); err != nil {
		return nil, err
	}
	if revokedAt.Valid {
		at := revokedAt.Time
		t.RevokedAt = &at
	}
	return &t, nil
}

func (s *Store) InsertRefreshToken(ctx context.Context, t *model.RefreshToken) error {
	const q = `INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, created_at)
	           VALUES (?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		t.ID.String(), t.UserID.String(), t.TokenHash, t.ExpiresAt.UTC(), t.CreatedAt.UTC())
	return err
}

func (s *Store) RevokeRefreshToken(ctx context.Context, tokenHash string, at time.Time) error {
	const q = `UPDATE refresh_tokens SET revoked_at = ? WHERE token_hash = ? AND revoked_at IS NULL`
	res, err := s.db.ExecContext(ctx, q, at.UTC(), tokenHash)
	if err != nil {
		return err
	}
	return noneToNotFound(res, store.ErrTokenNotFound)
}
