package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, name, email, password_hash, is_premium, email_verified,
       reset_token, reset_token_expires_at, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.IsPremium,
		&u.EmailVerified, &u.ResetToken, &u.ResetExpires, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}

// CreateUser inserts a new user with a hashed password and returns its ID
func (db *DB) CreateUser(ctx context.Context, name, email, passwordHash string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO users (name, email, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		name, email, passwordHash,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create user: %w", err)
	}
	return id, nil
}

// GetUser retrieves a user by ID, returning nil if not found
func (db *DB) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return scanUser(db.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// GetUserByEmail retrieves a user by email, returning nil if not found
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(db.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// CheckEmailExists returns true if a user with the email already exists
func (db *DB) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

// UpdateProfile updates the user's display name
func (db *DB) UpdateProfile(ctx context.Context, id uuid.UUID, name string) (*User, error) {
	return scanUser(db.pool.QueryRow(ctx,
		`UPDATE users SET name = $1, updated_at = NOW()
		 WHERE id = $2
		 RETURNING `+userColumns, name, id))
}

// UpdatePassword replaces the user's password hash
func (db *DB) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE users SET password_hash = $1, reset_token = NULL,
		        reset_token_expires_at = NULL, updated_at = NOW()
		 WHERE id = $2`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", id)
	}
	return nil
}

// UpdatePremium toggles the user's premium flag
func (db *DB) UpdatePremium(ctx context.Context, id uuid.UUID, isPremium bool) (*User, error) {
	return scanUser(db.pool.QueryRow(ctx,
		`UPDATE users SET is_premium = $1, updated_at = NOW()
		 WHERE id = $2
		 RETURNING `+userColumns, isPremium, id))
}

// MarkEmailVerified flags the user's email address as verified
func (db *DB) MarkEmailVerified(ctx context.Context, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE users SET email_verified = true, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark email verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", id)
	}
	return nil
}

// SetResetToken stores a password reset token with its expiry
func (db *DB) SetResetToken(ctx context.Context, id uuid.UUID, token string, expiresAt time.Time) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE users SET reset_token = $1, reset_token_expires_at = $2, updated_at = NOW()
		 WHERE id = $3`,
		token, expiresAt, id,
	)
	if err != nil {
		return fmt.Errorf("failed to set reset token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", id)
	}
	return nil
}

// GetUserByResetToken retrieves a user holding an unexpired reset token,
// returning nil if no such user exists
func (db *DB) GetUserByResetToken(ctx context.Context, token string) (*User, error) {
	return scanUser(db.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE reset_token = $1 AND reset_token_expires_at > NOW()`, token))
}
