// Package importer orchestrates one import run: credential preflight, post
// fetching, conversion, media relocation, and the destination writes, with
// per-post fault isolation so one broken record cannot abort the run.
package importer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mopo922/canvas-importer/internal/models"
	"github.com/mopo922/canvas-importer/internal/platform"
	"github.com/mopo922/canvas-importer/internal/repository"
)

// ErrInvalidCredentials means the source API rejected the supplied
// credentials during preflight; nothing was imported.
var ErrInvalidCredentials = errors.New("invalid credentials provided")

// Importer runs a single sequential import from one source platform into
// the destination store.
type Importer struct {
	platform platform.Platform
	repos    *repository.Repositories
	log      zerolog.Logger

	// SourceURL is recorded on the job row for the operator.
	SourceURL string

	// JobID overrides the generated job id, letting callers hand out the id
	// before the run finishes. Optional.
	JobID string

	// Progress, when set, is invoked after each post with the number of
	// posts handled so far and the total.
	Progress func(processed, total int)
}

// New creates an importer for the given platform and destination.
func New(p platform.Platform, repos *repository.Repositories, log zerolog.Logger) *Importer {
	return &Importer{
		platform: p,
		repos:    repos,
		log:      log.With().Str("component", "importer").Str("platform", p.Name()).Logger(),
	}
}

// Run executes the import. The returned job carries the final counts; it is
// non-nil whenever a job row was written, including failed runs.
//
// Posts are processed strictly one at a time. A post that fails conversion,
// media relocation, or the destination write is counted and logged, and the
// run moves on to the next post.
func (imp *Importer) Run(ctx context.Context) (*models.ImportJob, error) {
	start := time.Now()

	job := &models.ImportJob{
		ID:        imp.JobID,
		Platform:  imp.platform.Name(),
		SourceURL: imp.SourceURL,
		Status:    models.JobStatusRunning,
		CreatedAt: start,
	}
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	if err := imp.repos.Job.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create job record: %w", err)
	}

	ok, err := imp.platform.CheckCredentials(ctx)
	if err != nil {
		imp.finish(ctx, job, start, models.JobStatusFailed)
		return job, fmt.Errorf("credential check: %w", err)
	}
	if !ok {
		imp.finish(ctx, job, start, models.JobStatusFailed)
		return job, ErrInvalidCredentials
	}
	imp.log.Info().Msg("Credentials are valid")

	total, err := imp.platform.FetchPosts(ctx)
	if err != nil {
		imp.finish(ctx, job, start, models.JobStatusFailed)
		return job, fmt.Errorf("fetch posts: %w", err)
	}
	job.TotalPosts = total

	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			imp.finish(ctx, job, start, models.JobStatusFailed)
			return job, err
		}

		if err := imp.importOne(ctx, i); err != nil {
			job.FailedCount++
			imp.log.Error().Err(err).Int("post_index", i).Msg("Post import failed")
		} else {
			job.ImportedCount++
		}

		if imp.Progress != nil {
			imp.Progress(i+1, total)
		}
	}

	status := models.JobStatusCompleted
	if job.FailedCount > 0 && job.ImportedCount == 0 {
		status = models.JobStatusFailed
	}
	imp.finish(ctx, job, start, status)

	imp.log.Info().
		Str("job_id", job.ID).
		Int("total", job.TotalPosts).
		Int("imported", job.ImportedCount).
		Int("failed", job.FailedCount).
		Int64("duration_ms", job.DurationMs).
		Msg("Import completed")

	return job, nil
}

// importOne converts, relocates, and stores a single post.
func (imp *Importer) importOne(ctx context.Context, i int) error {
	post, mediaID, err := imp.platform.ConvertPost(ctx, i)
	if err != nil {
		return err
	}

	image, err := imp.platform.RelocateMedia(ctx, mediaID)
	if err != nil {
		return err
	}
	post.PageImage = image

	if err := imp.repos.Post.Create(ctx, post); err != nil {
		return fmt.Errorf("store post %q: %w", post.Slug, err)
	}
	if err := imp.repos.Post.SyncTags(ctx, post.ID, post.Tags); err != nil {
		return fmt.Errorf("sync tags for post %q: %w", post.Slug, err)
	}
	return nil
}

func (imp *Importer) finish(ctx context.Context, job *models.ImportJob, start time.Time, status models.JobStatus) {
	job.Status = status
	job.DurationMs = time.Since(start).Milliseconds()
	completed := time.Now()
	job.CompletedAt = &completed

	if err := imp.repos.Job.Update(ctx, job); err != nil {
		imp.log.Error().Err(err).Str("job_id", job.ID).Msg("Failed to update job record")
	}
}
