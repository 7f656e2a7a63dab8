package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// -----------------------------------------------------------------------------
// Job Methods
// -----------------------------------------------------------------------------

// InsertJobs writes one alert's extracted postings in a single transaction.
// Either every row is committed or none are; a failure mid-batch leaves no
// partial state behind.
func (db *DB) InsertJobs(ctx context.Context, alertID uuid.UUID, jobs []JobInput) error {
	if len(jobs) == 0 {
		return nil
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && rErr != pgx.ErrTxClosed {
			fmt.Printf("Rollback error: %v\n", rErr)
		}
	}()

	for _, job := range jobs {
		_, err = tx.Exec(ctx,
			`INSERT INTO jobs (job_alert_id, title, url, site)
			 VALUES ($1, $2, $3, $4)`,
			alertID, job.Title, job.URL, job.Site,
		)
		if err != nil {
			return fmt.Errorf("failed to insert job for alert %s: %w", alertID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit jobs for alert %s: %w", alertID, err)
	}
	return nil
}

// ListJobsByAlert returns all stored jobs for one alert, newest first
func (db *DB) ListJobsByAlert(ctx context.Context, alertID uuid.UUID) ([]Job, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, job_alert_id, title, url, site, created_at
		 FROM jobs WHERE job_alert_id = $1
		 ORDER BY created_at DESC`,
		alertID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		var j Job
		if err := rows.Scan(&j.ID, &j.JobAlertID, &j.Title, &j.URL, &j.Site, &j.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}
