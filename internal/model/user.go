package model

import (
	"time"

	"github.com/google/uuid"
)

// User represents a staff account.  Only staff interact with this
// service; customers book through the reception flow without accounts.
// The plain password is never stored, only its bcrypt hash.
//
// Fields:
//  ID           - primary key identifier.
//  Email        - unique login email.
//  PasswordHash - bcrypt hashed password.
//  Role         - "MANAGER" or "STAFF".
//  IsActive     - whether the account may log in.
//  CreatedAt    - timestamp of creation.
type User struct {
	ID           uuid.UUID // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
}

// RefreshToken models an entry in the refresh_tokens table.  The plain
// token is returned to the client once; only its SHA-256 hash is kept.
type RefreshToken struct {
	ID        uuid.UUID  // refresh_tokens.id
	UserID    uuid.UUID  // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
