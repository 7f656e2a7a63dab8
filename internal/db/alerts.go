package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// -----------------------------------------------------------------------------
// Job Alert Methods
// -----------------------------------------------------------------------------

const alertColumns = `id, user_id, name, search, description, include_words, omit_words, created_at`

func scanAlert(row pgx.Row) (*JobAlert, error) {
	var a JobAlert
	var description *string
	err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.Search, &description,
		&a.IncludeWords, &a.OmitWords, &a.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan job alert: %w", err)
	}
	if description != nil {
		a.Description = *description
	}
	return &a, nil
}

// AlertCreateInput holds the fields for a new job alert
type AlertCreateInput struct {
	UserID       uuid.UUID
	Name         string
	Search       string
	Description  string
	IncludeWords []string
	OmitWords    []string
}

// CreateAlert inserts a new job alert for a user
func (db *DB) CreateAlert(ctx context.Context, input *AlertCreateInput) (*JobAlert, error) {
	return scanAlert(db.pool.QueryRow(ctx,
		`INSERT INTO job_alerts (user_id, name, search, description, include_words, omit_words)
		 VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6)
		 RETURNING `+alertColumns,
		input.UserID, input.Name, input.Search, input.Description,
		input.IncludeWords, input.OmitWords))
}

// GetAlert retrieves one alert by ID, returning nil if not found
func (db *DB) GetAlert(ctx context.Context, id uuid.UUID) (*JobAlert, error) {
	return scanAlert(db.pool.QueryRow(ctx,
		`SELECT `+alertColumns+` FROM job_alerts WHERE id = $1`, id))
}

// ListAlertsByUser returns all alerts owned by a user, oldest first
func (db *DB) ListAlertsByUser(ctx context.Context, userID uuid.UUID) ([]JobAlert, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+alertColumns+` FROM job_alerts WHERE user_id = $1 ORDER BY created_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list job alerts: %w", err)
	}
	defer rows.Close()

	return collectAlerts(rows)
}

// ListAllAlerts returns every stored alert. This is the read-only input to a
// scrape run.
func (db *DB) ListAllAlerts(ctx context.Context) ([]JobAlert, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+alertColumns+` FROM job_alerts ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list job alerts: %w", err)
	}
	defer rows.Close()

	return collectAlerts(rows)
}

func collectAlerts(rows pgx.Rows) ([]JobAlert, error) {
	var alerts []JobAlert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, *a)
	}
	return alerts, rows.Err()
}

// CountAlertsByUser returns how many alerts a user currently has
func (db *DB) CountAlertsByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM job_alerts WHERE user_id = $1`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count job alerts: %w", err)
	}
	return count, nil
}

// UpdateAlert applies the given fields to an existing alert
func (db *DB) UpdateAlert(ctx context.Context, id uuid.UUID, input *AlertCreateInput) (*JobAlert, error) {
	return scanAlert(db.pool.QueryRow(ctx,
		`UPDATE job_alerts
		 SET name = $1, search = $2, description = NULLIF($3, ''),
		     include_words = $4, omit_words = $5
		 WHERE id = $6
		 RETURNING `+alertColumns,
		input.Name, input.Search, input.Description,
		input.IncludeWords, input.OmitWords, id))
}

// DeleteAlert removes an alert; its jobs go with it via ON DELETE CASCADE
func (db *DB) DeleteAlert(ctx context.Context, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM job_alerts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job alert: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("job alert not found: %s", id)
	}
	return nil
}
