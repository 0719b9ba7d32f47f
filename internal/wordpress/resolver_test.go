package wordpress

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
)

// termServer serves category/tag listings plus single-record lookups and
// counts requests per path prefix.
func termServer(t *testing.T, bulk []Term, singles map[string]Term) (*Client, map[string]int) {
	t.Helper()
	requests := make(map[string]int)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/wp-json/wp/v2/")
		requests[path]++

		if term, ok := singles[path]; ok {
			json.NewEncoder(w).Encode(term)
			return
		}
		if path == "categories" || path == "tags" || path == "users" {
			json.NewEncoder(w).Encode(bulk)
			return
		}
		http.NotFound(w, r)
	})

	return newTestClient(t, handler), requests
}

func TestResolverMemoizesBulkListing(t *testing.T) {
	client, requests := termServer(t, []Term{{ID: 1, Name: "news"}}, nil)
	r := NewResolver(client, client.log)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		categories := r.Categories(ctx)
		if len(categories) != 1 {
			t.Fatalf("got %d categories, want 1", len(categories))
		}
	}

	if requests["categories"] != 1 {
		t.Errorf("bulk listing fetched %d times, want 1", requests["categories"])
	}
}

func TestResolverBackfillsSingleTerm(t *testing.T) {
	client, requests := termServer(t,
		[]Term{{ID: 1, Name: "news"}},
		map[string]Term{"categories/7": {ID: 7, Name: "unlisted"}},
	)
	r := NewResolver(client, client.log)
	ctx := context.Background()

	// Present in the bulk listing: no per-id request.
	term, err := r.Category(ctx, 1)
	if err != nil {
		t.Fatalf("Category(1) failed: %v", err)
	}
	if term.Name != "news" {
		t.Errorf("Category(1) = %q, want news", term.Name)
	}

	// Absent from the bulk listing: fetched once, then cached.
	for i := 0; i < 2; i++ {
		term, err = r.Category(ctx, 7)
		if err != nil {
			t.Fatalf("Category(7) failed: %v", err)
		}
		if term.Name != "unlisted" {
			t.Errorf("Category(7) = %q, want unlisted", term.Name)
		}
	}

	if requests["categories/7"] != 1 {
		t.Errorf("single term fetched %d times, want 1", requests["categories/7"])
	}
	if requests["categories"] != 1 {
		t.Errorf("bulk listing fetched %d times, want 1", requests["categories"])
	}
}

func TestResolverUnresolvableTerm(t *testing.T) {
	client, _ := termServer(t, nil, nil)
	r := NewResolver(client, client.log)

	if _, err := r.Tag(context.Background(), 404); err == nil {
		t.Fatal("expected an error for an unresolvable tag id")
	}
}

func TestResolverUsersDegradeOnFailure(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	r := NewResolver(client, client.log)

	users := r.Users(context.Background())
	if users == nil {
		t.Fatal("expected an empty map, not nil")
	}
	if len(users) != 0 {
		t.Errorf("got %d users, want 0", len(users))
	}
}
