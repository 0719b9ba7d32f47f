package wordpress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	apiPrefix = "wp-json/wp/v2/"

	// maxPerPage is the largest page size the WordPress API will serve.
	maxPerPage = 100
)

// Resource is a WordPress REST collection the client may fetch.
type Resource string

const (
	ResourcePosts      Resource = "posts"
	ResourceUsers      Resource = "users"
	ResourceCategories Resource = "categories"
	ResourceTags       Resource = "tags"
	ResourceMedia      Resource = "media"
)

var validResources = map[Resource]bool{
	ResourcePosts:      true,
	ResourceUsers:      true,
	ResourceCategories: true,
	ResourceTags:       true,
	ResourceMedia:      true,
}

// ErrInvalidResource means a caller asked for a collection outside the
// allow-list. This is a programming error, not a network condition.
var ErrInvalidResource = errors.New("invalid resource requested")

// Client issues authenticated GET requests against one WordPress blog's
// REST API and handles pagination.
type Client struct {
	apiURL   string
	username string
	password string
	http     *http.Client
	log      zerolog.Logger
}

// NewClient creates a client for the blog at baseURL using HTTP Basic
// credentials. baseURL is the blog root; the API prefix is appended here.
func NewClient(baseURL, username, password string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		apiURL:   strings.TrimRight(baseURL, "/") + "/" + apiPrefix,
		username: username,
		password: password,
		http:     &http.Client{Timeout: timeout},
		log:      log.With().Str("component", "wordpress_client").Logger(),
	}
}

// endpointURL builds the request URL for a collection listing (id = 0) or a
// single record.
func (c *Client) endpointURL(resource Resource, id int, params url.Values) (string, error) {
	if !validResources[resource] {
		return "", fmt.Errorf("%w: %s", ErrInvalidResource, resource)
	}

	u := c.apiURL + string(resource)
	if id > 0 {
		u += "/" + strconv.Itoa(id)
	}
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u, nil
}

// getJSON performs one authenticated GET and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, reqURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", reqURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		c.log.Debug().
			Int("status", resp.StatusCode).
			Str("url", reqURL).
			Bytes("body", body).
			Msg("Request failed")
		return fmt.Errorf("GET %s: unexpected status %d", reqURL, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// list fetches every page of a collection. A page holding exactly maxPerPage
// records is assumed to have a successor; any shorter page ends the walk.
// The API offers no authoritative "has more" signal at this level, so an
// exactly-full final page costs one extra request for the page past the end.
// That extra request fails (WordPress rejects out-of-range page numbers), so
// failures past the first page end the walk with what was collected.
func (c *Client) list(ctx context.Context, resource Resource, params url.Values) ([]json.RawMessage, error) {
	merged := url.Values{}
	for k, v := range params {
		merged[k] = v
	}
	merged.Set("context", "edit") // full field detail, including raw variants
	merged.Set("per_page", strconv.Itoa(maxPerPage))

	var all []json.RawMessage
	for page := 1; ; page++ {
		merged.Set("page", strconv.Itoa(page))

		reqURL, err := c.endpointURL(resource, 0, merged)
		if err != nil {
			return nil, err
		}

		var records []json.RawMessage
		if err := c.getJSON(ctx, reqURL, &records); err != nil {
			if page == 1 {
				return nil, err
			}
			c.log.Warn().Err(err).Str("resource", string(resource)).Int("page", page).
				Msg("Pagination stopped early")
			break
		}

		all = append(all, records...)
		if len(records) < maxPerPage {
			break
		}
	}

	return all, nil
}

// listAs fetches all pages of a collection and decodes each record into T.
func listAs[T any](ctx context.Context, c *Client, resource Resource, params url.Values) ([]T, error) {
	raw, err := c.list(ctx, resource, params)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(raw))
	for _, r := range raw {
		var v T
		if err := json.Unmarshal(r, &v); err != nil {
			return nil, fmt.Errorf("decode %s record: %w", resource, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// getAs fetches a single record by id and decodes it into T.
func getAs[T any](ctx context.Context, c *Client, resource Resource, id int) (T, error) {
	var v T

	reqURL, err := c.endpointURL(resource, id, url.Values{"context": {"edit"}})
	if err != nil {
		return v, err
	}
	if err := c.getJSON(ctx, reqURL, &v); err != nil {
		return v, err
	}
	return v, nil
}

// Posts returns every post on the blog, drafts included.
func (c *Client) Posts(ctx context.Context) ([]Post, error) {
	return listAs[Post](ctx, c, ResourcePosts, url.Values{
		"status": {"publish,draft"},
		"type":   {"post"},
	})
}

// Users returns the blog's content-producing users.
func (c *Client) Users(ctx context.Context) ([]User, error) {
	return listAs[User](ctx, c, ResourceUsers, url.Values{
		"roles": {"administrator,editor,author,contributor"},
	})
}

// Categories returns every category attached to a published post.
func (c *Client) Categories(ctx context.Context) ([]Term, error) {
	return listAs[Term](ctx, c, ResourceCategories, nil)
}

// Tags returns every tag attached to a published post.
func (c *Client) Tags(ctx context.Context) ([]Term, error) {
	return listAs[Term](ctx, c, ResourceTags, nil)
}

// Category fetches a single category by id.
func (c *Client) Category(ctx context.Context, id int) (Term, error) {
	return getAs[Term](ctx, c, ResourceCategories, id)
}

// Tag fetches a single tag by id.
func (c *Client) Tag(ctx context.Context, id int) (Term, error) {
	return getAs[Term](ctx, c, ResourceTags, id)
}

// Media fetches a single media record by id.
func (c *Client) Media(ctx context.Context, id int) (Media, error) {
	return getAs[Media](ctx, c, ResourceMedia, id)
}

// CheckCredentials confirms the configured credentials by requesting draft
// posts, which the API only serves to authenticated editors.
func (c *Client) CheckCredentials(ctx context.Context) (bool, error) {
	reqURL, err := c.endpointURL(ResourcePosts, 0, url.Values{
		"status":   {"draft"},
		"context":  {"edit"},
		"per_page": {"1"},
	})
	if err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return false, err
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("GET %s: %w", reqURL, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		c.log.Debug().Int("status", resp.StatusCode).Msg("Credential check rejected")
		return false, nil
	}
	return true, nil
}

// Download streams the asset at srcURL into w. Media files are public, so no
// auth header is attached.
func (c *Client) Download(ctx context.Context, srcURL string, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srcURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", srcURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d", srcURL, resp.StatusCode)
	}

	_, err = io.Copy(w, resp.Body)
	return err
}
