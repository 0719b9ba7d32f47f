package models

import (
	"time"
)

// JobStatus represents the status of an import run
type JobStatus string

const (
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// ImportJob records one import run: which platform and blog it pulled from,
// and how many posts made it across. Failed counts make the best-effort
// fetch policy visible to the operator instead of silently dropping data.
type ImportJob struct {
	ID            string     `json:"job_id" db:"id"`
	Platform      string     `json:"platform" db:"platform"`
	SourceURL     string     `json:"source_url" db:"source_url"`
	Status        JobStatus  `json:"status" db:"status"`
	TotalPosts    int        `json:"total_posts" db:"total_posts"`
	ImportedCount int        `json:"imported" db:"imported_count"`
	FailedCount   int        `json:"failed" db:"failed_count"`
	DurationMs    int64      `json:"duration_ms,omitempty" db:"duration_ms"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}
