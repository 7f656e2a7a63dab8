package db

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account row
type User struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-" db:"password_hash"` // Never serialize to JSON
	IsPremium     bool       `json:"is_premium" db:"is_premium"`
	EmailVerified bool       `json:"email_verified" db:"email_verified"`
	ResetToken    *string    `json:"-" db:"reset_token"`
	ResetExpires  *time.Time `json:"-" db:"reset_token_expires_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// JobAlert represents a stored search definition owned by a user.
// Alerts are read-only inputs to the scrape pipeline; their lifecycle
// belongs to the CRUD handlers.
type JobAlert struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	Name         string    `json:"name"`
	Search       string    `json:"search"`
	Description  string    `json:"description,omitempty"`
	IncludeWords []string  `json:"include_words"`
	OmitWords    []string  `json:"omit_words"`
	CreatedAt    time.Time `json:"created_at"`
}

// Job represents one scraped posting attached to an alert
type Job struct {
	ID         uuid.UUID `json:"id"`
	JobAlertID uuid.UUID `json:"job_alert_id"`
	Title      string    `json:"title"`
	URL        string    `json:"url"`
	Site       string    `json:"site"`
	CreatedAt  time.Time `json:"created_at"`
}

// JobInput is the insert payload for one posting. IDs and timestamps are
// assigned by the database.
type JobInput struct {
	Title string
	URL   string
	Site  string
}
