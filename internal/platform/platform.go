// Package platform defines the abstraction each supported source blogging
// platform implements. The importer drives a Platform without knowing which
// blog engine sits behind it.
package platform

import (
	"context"
	"strings"

	"github.com/mopo922/canvas-importer/internal/models"
)

// Platform is a source blog that posts can be imported from.
//
// FetchPosts retrieves and memoizes every importable post, returning how many
// are available. ConvertPost then maps the fetched post at index i into the
// destination shape together with a source media reference (0 = none).
// RelocateMedia is a separate, effectful step so the caller decides when to
// download an asset and can skip or retry it independently of conversion.
type Platform interface {
	// Name returns the human-readable platform label, e.g. "WordPress".
	Name() string

	// CheckCredentials reports whether the configured credentials grant
	// access to the source API. A false return with a nil error means the
	// API answered and rejected them.
	CheckCredentials(ctx context.Context) (bool, error)

	// FetchPosts retrieves every importable post, including drafts.
	FetchPosts(ctx context.Context) (int, error)

	// ConvertPost converts the fetched post at index i.
	ConvertPost(ctx context.Context, i int) (*models.Post, int, error)

	// RelocateMedia downloads the given media asset to local storage and
	// returns its public-facing path. A zero id returns "" with no work.
	RelocateMedia(ctx context.Context, mediaID int) (string, error)
}

// UserDirectory looks up destination users so adapters can match source
// authors by email address.
type UserDirectory interface {
	// IDByEmail returns the destination user id for an email address,
	// or 0 when no user matches.
	IDByEmail(ctx context.Context, email string) (int64, error)
}

// NormalizeBaseURL defaults the scheme to http:// when the given blog URL
// does not carry one.
func NormalizeBaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.Contains(raw, "://") {
		return raw
	}
	return "http://" + raw
}
