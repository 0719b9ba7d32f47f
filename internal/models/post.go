package models

import (
	"time"
)

// Post is a blog post in the destination's canonical shape. It is built once
// per source post by the platform adapter and written immediately.
type Post struct {
	ID          int64      `json:"id" db:"id"`
	UserID      int64      `json:"user_id" db:"user_id"`
	Slug        string     `json:"slug" db:"slug"`
	Title       string     `json:"title" db:"title"`
	ContentRaw  string     `json:"content_raw" db:"content_raw"`
	PageImage   string     `json:"page_image,omitempty" db:"page_image"` // empty when the source post had no featured image
	IsPublished bool       `json:"is_published" db:"is_published"`
	Layout      string     `json:"layout" db:"layout"`
	PublishedAt string     `json:"published_at" db:"published_at"` // "2006-01-02 15:04:05", UTC
	Tags        []string   `json:"tags" db:"-"`                    // synced into tags/post_tag, not a posts column
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// DefaultUserID is the destination's original admin user, used when a source
// author cannot be matched to a destination user by email.
const DefaultUserID int64 = 1
