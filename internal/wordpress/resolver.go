package wordpress

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Resolver resolves source ids (users, categories, tags) to full records,
// lazily populating in-memory caches. A Resolver lives for exactly one
// import run; there is no invalidation because the source is not expected
// to change mid-run.
type Resolver struct {
	client *Client
	log    zerolog.Logger

	users      map[int]User
	categories map[int]Term
	tags       map[int]Term
}

// NewResolver creates a resolver backed by the given client.
func NewResolver(client *Client, log zerolog.Logger) *Resolver {
	return &Resolver{
		client: client,
		log:    log.With().Str("component", "wordpress_resolver").Logger(),
	}
}

// Users returns the source users indexed by id, fetching them on first use.
// A failed bulk fetch degrades to an empty cache with a warning so the run
// can continue; every author then falls back to the default destination user.
func (r *Resolver) Users(ctx context.Context) map[int]User {
	if r.users != nil {
		return r.users
	}

	users, err := r.client.Users(ctx)
	if err != nil {
		r.log.Warn().Err(err).Msg("User listing failed, authors will fall back to the default user")
	}

	r.users = make(map[int]User, len(users))
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r.users
}

// Categories returns the source categories indexed by id, fetching them on
// first use. The bulk listing omits categories unused by published posts;
// those are backfilled individually by Category.
func (r *Resolver) Categories(ctx context.Context) map[int]Term {
	if r.categories != nil {
		return r.categories
	}
	r.categories = r.terms(ctx, ResourceCategories)
	return r.categories
}

// Tags returns the source tags indexed by id, fetching them on first use.
func (r *Resolver) Tags(ctx context.Context) map[int]Term {
	if r.tags != nil {
		return r.tags
	}
	r.tags = r.terms(ctx, ResourceTags)
	return r.tags
}

func (r *Resolver) terms(ctx context.Context, resource Resource) map[int]Term {
	var (
		terms []Term
		err   error
	)
	switch resource {
	case ResourceCategories:
		terms, err = r.client.Categories(ctx)
	default:
		terms, err = r.client.Tags(ctx)
	}
	if err != nil {
		r.log.Warn().Err(err).Str("resource", string(resource)).
			Msg("Term listing failed, relying on per-id lookups")
	}

	byID := make(map[int]Term, len(terms))
	for _, t := range terms {
		byID[t.ID] = t
	}
	return byID
}

// Category resolves a category id, hitting the bulk cache first and fetching
// the single record on a miss. An id the API cannot resolve is a
// data-integrity fault for the referencing post.
func (r *Resolver) Category(ctx context.Context, id int) (Term, error) {
	if t, ok := r.Categories(ctx)[id]; ok {
		return t, nil
	}

	t, err := r.client.Category(ctx, id)
	if err != nil {
		return Term{}, fmt.Errorf("resolve category %d: %w", id, err)
	}

	r.categories[id] = t
	return t, nil
}

// Tag resolves a tag id the same way Category resolves categories.
func (r *Resolver) Tag(ctx context.Context, id int) (Term, error) {
	if t, ok := r.Tags(ctx)[id]; ok {
		return t, nil
	}

	t, err := r.client.Tag(ctx, id)
	if err != nil {
		return Term{}, fmt.Errorf("resolve tag %d: %w", id, err)
	}

	r.tags[id] = t
	return t, nil
}
