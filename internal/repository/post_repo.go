package repository

import (
	"context"
	"time"

	"github.com/mopo922/canvas-importer/internal/database"
	"github.com/mopo922/canvas-importer/internal/models"
)

// postRepo is the concrete implementation of PostRepository
type postRepo struct {
	db *database.DB
}

// NewPostRepo creates a new post repository
func NewPostRepo(db *database.DB) PostRepository {
	return &postRepo{db: db}
}

// Create inserts a new post and fills in its generated id
func (r *postRepo) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (user_id, slug, title, content_raw, page_image, is_published, layout, published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query,
		post.UserID, post.Slug, post.Title, post.ContentRaw,
		nullString(post.PageImage), post.IsPublished, post.Layout,
		nullString(post.PublishedAt), now, now,
	).Scan(&post.ID)
}

// SyncTags upserts the given tag names and links them to the post
func (r *postRepo) SyncTags(ctx context.Context, postID int64, tags []string) error {
	if len(tags) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	for _, tag := range tags {
		var tagID int64
		err := tx.QueryRowContext(ctx, `
			INSERT INTO tags (tag, created_at, updated_at)
			VALUES ($1, $2, $2)
			ON CONFLICT (tag) DO UPDATE SET updated_at = $2
			RETURNING id
		`, tag, now).Scan(&tagID)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO post_tag (post_id, tag_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, postID, tagID)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SlugExists checks if a post with the given slug exists
func (r *postRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM posts WHERE slug = $1)", slug).Scan(&exists)
	return exists, err
}

// Count returns the total number of posts
func (r *postRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts").Scan(&count)
	return count, err
}
