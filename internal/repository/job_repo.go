package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mopo922/canvas-importer/internal/database"
	"github.com/mopo922/canvas-importer/internal/models"
)

// jobRepo is the concrete implementation of JobRepository
type jobRepo struct {
	db *database.DB
}

// NewJobRepo creates a new job repository
func NewJobRepo(db *database.DB) JobRepository {
	return &jobRepo{db: db}
}

// Create inserts a new import job
func (r *jobRepo) Create(ctx context.Context, job *models.ImportJob) error {
	query := `
		INSERT INTO import_jobs (id, platform, source_url, status, total_posts, imported_count, failed_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		job.ID, job.Platform, nullString(job.SourceURL), job.Status,
		job.TotalPosts, job.ImportedCount, job.FailedCount, job.CreatedAt,
	)
	return err
}

// Update updates job status and counters
func (r *jobRepo) Update(ctx context.Context, job *models.ImportJob) error {
	query := `
		UPDATE import_jobs SET
			status = $1, total_posts = $2, imported_count = $3, failed_count = $4,
			duration_ms = $5, completed_at = $6
		WHERE id = $7
	`
	_, err := r.db.ExecContext(ctx, query,
		job.Status, job.TotalPosts, job.ImportedCount, job.FailedCount,
		job.DurationMs, job.CompletedAt, job.ID,
	)
	return err
}

// GetByID retrieves an import job by ID
func (r *jobRepo) GetByID(ctx context.Context, id string) (*models.ImportJob, error) {
	query := `
		SELECT id, platform, source_url, status, total_posts, imported_count, failed_count, duration_ms, created_at, completed_at
		FROM import_jobs WHERE id = $1
	`

	job, err := scanJob(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return job, err
}

// List retrieves the most recent import jobs
func (r *jobRepo) List(ctx context.Context, limit int) ([]*models.ImportJob, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, platform, source_url, status, total_posts, imported_count, failed_count, duration_ms, created_at, completed_at
		FROM import_jobs ORDER BY created_at DESC LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*models.ImportJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row rowScanner) (*models.ImportJob, error) {
	var job models.ImportJob
	var sourceURL sql.NullString
	var completedAt sql.NullTime

	err := row.Scan(
		&job.ID, &job.Platform, &sourceURL, &job.Status,
		&job.TotalPosts, &job.ImportedCount, &job.FailedCount,
		&job.DurationMs, &job.CreatedAt, &completedAt,
	)
	if err != nil {
		return nil, err
	}

	job.SourceURL = sourceURL.String
	if completedAt.Valid {
		job.CompletedAt = &completedAt.Time
	}
	return &job, nil
}
