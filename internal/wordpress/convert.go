package wordpress

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mopo922/canvas-importer/internal/models"
)

var (
	ratioRe     = regexp.MustCompile(`([0-9]):([0-9])`)
	slugStripRe = regexp.MustCompile(`[^a-z0-9\- ]`)
	slugDashRe  = regexp.MustCompile(` [\- ]*`)
)

// convertPost maps one WordPress post onto the destination post shape.
// Media is not touched here; the returned id is relocated by the caller.
// Conversion is pure once the reference caches are populated, so a failed
// post leaves no partial state behind.
func (p *Platform) convertPost(ctx context.Context, post Post) (*models.Post, int, error) {
	userID, err := p.resolveUserID(ctx, post.Author)
	if err != nil {
		return nil, 0, fmt.Errorf("post %d: %w", post.ID, err)
	}

	tags, err := p.unifiedTags(ctx, post)
	if err != nil {
		return nil, 0, fmt.Errorf("post %d: %w", post.ID, err)
	}

	content, err := p.markdown.ConvertString(post.Content.Rendered)
	if err != nil {
		return nil, 0, fmt.Errorf("post %d: convert content: %w", post.ID, err)
	}

	out := &models.Post{
		UserID:      userID,
		Slug:        postSlug(post),
		Title:       postTitle(post),
		ContentRaw:  content,
		IsPublished: post.Status == statusPublish,
		Layout:      p.cfg.Layout,
		PublishedAt: strings.ReplaceAll(post.DateGMT, "T", " "),
		Tags:        tags,
	}
	return out, post.FeaturedMedia, nil
}

// resolveUserID maps a source author to a destination user id via the
// author's email, defaulting to the original admin user when either side
// of the match is missing.
func (p *Platform) resolveUserID(ctx context.Context, authorID int) (int64, error) {
	author, ok := p.resolver.Users(ctx)[authorID]
	if !ok || author.Email == "" {
		return models.DefaultUserID, nil
	}

	id, err := p.users.IDByEmail(ctx, author.Email)
	if err != nil {
		return 0, fmt.Errorf("look up user %q: %w", author.Email, err)
	}
	if id == 0 {
		return models.DefaultUserID, nil
	}
	return id, nil
}

// unifiedTags folds the post's categories and tags into one deduplicated,
// order-preserving list of formatted tag names. An id that even a per-id
// lookup cannot resolve fails the post.
func (p *Platform) unifiedTags(ctx context.Context, post Post) ([]string, error) {
	var names []string
	seen := make(map[string]bool)

	add := func(name string) {
		formatted := formatTagName(name)
		if !seen[formatted] {
			seen[formatted] = true
			names = append(names, formatted)
		}
	}

	for _, id := range post.Categories {
		term, err := p.resolver.Category(ctx, id)
		if err != nil {
			return nil, err
		}
		add(term.Name)
	}
	for _, id := range post.Tags {
		term, err := p.resolver.Tag(ctx, id)
		if err != nil {
			return nil, err
		}
		add(term.Name)
	}

	return names, nil
}

// postTitle prefers the raw title over the rendered one, which may carry
// markup and entities.
func postTitle(post Post) string {
	if post.Title.Raw != "" {
		return post.Title.Raw
	}
	return stripMarkup(post.Title.Rendered)
}

// postSlug uses the source slug verbatim when present, deriving one from
// the title otherwise.
func postSlug(post Post) string {
	if post.Slug != "" {
		return post.Slug
	}
	return deriveSlug(postTitle(post))
}

// deriveSlug builds a URL slug from a post title. Colons inside times and
// ratios become hyphens so "3:30" survives as "3-30"; every other special
// character is stripped, and runs of spaces (possibly mixed with hyphens)
// collapse into a single hyphen.
func deriveSlug(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	for ratioRe.MatchString(slug) {
		slug = ratioRe.ReplaceAllString(slug, "$1-$2")
	}
	slug = slugStripRe.ReplaceAllString(slug, "")
	slug = slugDashRe.ReplaceAllString(slug, "-")
	return slug
}

// formatTagName converts a term name to "Proper Case": hyphens become word
// separators and each word is title-cased, so "self-help" and "Self-Help"
// both land on "Self Help".
func formatTagName(name string) string {
	name = strings.ToLower(strings.ReplaceAll(name, "-", " "))
	return cases.Title(language.English).String(name)
}

// stripMarkup flattens an HTML fragment to its text content.
func stripMarkup(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	return strings.TrimSpace(doc.Text())
}

// newMarkdownConverter builds the HTML-to-Markdown converter used for post
// bodies. Tags without a Markdown equivalent are dropped, keeping only
// their text content.
func newMarkdownConverter() *md.Converter {
	return md.NewConverter("", true, nil)
}
