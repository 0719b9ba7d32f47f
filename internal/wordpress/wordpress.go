// Package wordpress imports posts from a WordPress blog through its REST
// API: paginated extraction, reference resolution with per-run caching,
// field mapping into the destination shape, and featured-image relocation.
package wordpress

import (
	"context"
	"fmt"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/rs/zerolog"

	"github.com/mopo922/canvas-importer/internal/models"
	"github.com/mopo922/canvas-importer/internal/platform"
)

// Config carries everything needed to import one WordPress blog.
type Config struct {
	// BaseURL is the blog root, e.g. "https://blog.example.com".
	BaseURL  string
	Username string
	Password string

	// HTTPTimeout bounds each API request. Zero means no timeout.
	HTTPTimeout time.Duration

	// Layout is the template identifier stamped on every imported post.
	Layout string

	// StorageRoot is the local directory media files are downloaded under;
	// PublicPrefix is the matching URL-facing prefix.
	StorageRoot  string
	PublicPrefix string

	// Now is the clock used to date-stamp the media import directory.
	// Defaults to time.Now.
	Now func() time.Time
}

// Platform implements platform.Platform for WordPress.
type Platform struct {
	cfg      Config
	client   *Client
	resolver *Resolver
	users    platform.UserDirectory
	markdown *md.Converter
	runDate  string
	log      zerolog.Logger

	posts []Post // memoized by FetchPosts for the life of the run
}

var _ platform.Platform = (*Platform)(nil)

// New creates a WordPress platform adapter. users is consulted when matching
// source authors to destination users by email.
func New(cfg Config, users platform.UserDirectory, log zerolog.Logger) *Platform {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	client := NewClient(cfg.BaseURL, cfg.Username, cfg.Password, cfg.HTTPTimeout, log)

	return &Platform{
		cfg:      cfg,
		client:   client,
		resolver: NewResolver(client, log),
		users:    users,
		markdown: newMarkdownConverter(),
		runDate:  now().UTC().Format("2006-01-02"),
		log:      log.With().Str("component", "wordpress").Logger(),
	}
}

// Name returns the platform label.
func (p *Platform) Name() string {
	return "WordPress"
}

// CheckCredentials verifies the configured admin credentials.
func (p *Platform) CheckCredentials(ctx context.Context) (bool, error) {
	return p.client.CheckCredentials(ctx)
}

// FetchPosts retrieves every post, drafts included, and memoizes them for
// conversion. Repeat calls return the cached count without a network call.
func (p *Platform) FetchPosts(ctx context.Context) (int, error) {
	if p.posts != nil {
		return len(p.posts), nil
	}

	posts, err := p.client.Posts(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch posts: %w", err)
	}

	p.posts = posts
	p.log.Info().Int("count", len(posts)).Msg("Posts fetched")
	return len(posts), nil
}

// ConvertPost converts the fetched post at index i into the destination
// shape, returning the source media id for the caller to relocate.
func (p *Platform) ConvertPost(ctx context.Context, i int) (*models.Post, int, error) {
	if i < 0 || i >= len(p.posts) {
		return nil, 0, fmt.Errorf("post index %d out of range (have %d)", i, len(p.posts))
	}
	return p.convertPost(ctx, p.posts[i])
}
