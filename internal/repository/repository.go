package repository

import (
	"context"
	"database/sql"

	"github.com/mopo922/canvas-importer/internal/database"
	"github.com/mopo922/canvas-importer/internal/models"
)

// PostRepository defines the destination write path for imported posts
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	SyncTags(ctx context.Context, postID int64, tags []string) error
	SlugExists(ctx context.Context, slug string) (bool, error)
	Count(ctx context.Context) (int, error)
}

// UserRepository defines destination user lookups
type UserRepository interface {
	IDByEmail(ctx context.Context, email string) (int64, error)
	Count(ctx context.Context) (int, error)
}

// JobRepository defines the interface for import job records
type JobRepository interface {
	Create(ctx context.Context, job *models.ImportJob) error
	Update(ctx context.Context, job *models.ImportJob) error
	GetByID(ctx context.Context, id string) (*models.ImportJob, error)
	List(ctx context.Context, limit int) ([]*models.ImportJob, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Post PostRepository
	User UserRepository
	Job  JobRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Post: NewPostRepo(db),
		User: NewUserRepo(db),
		Job:  NewJobRepo(db),
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
