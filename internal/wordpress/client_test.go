package wordpress

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "admin", "secret", 5*time.Second, zerolog.Nop())
}

// writeRecords responds with n generic records so pagination can be driven
// purely by counts.
func writeRecords(w http.ResponseWriter, n int) {
	records := make([]map[string]interface{}, n)
	for i := range records {
		records[i] = map[string]interface{}{"id": i + 1}
	}
	json.NewEncoder(w).Encode(records)
}

func TestListPagination(t *testing.T) {
	tests := []struct {
		name         string
		pageSizes    []int
		wantRecords  int
		wantRequests int
	}{
		{
			name:         "three pages, short last page stops the walk",
			pageSizes:    []int{100, 100, 37},
			wantRecords:  237,
			wantRequests: 3,
		},
		{
			name:         "single short page makes exactly one request",
			pageSizes:    []int{5},
			wantRecords:  5,
			wantRequests: 1,
		},
		{
			name:         "empty first page",
			pageSizes:    []int{0},
			wantRecords:  0,
			wantRequests: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requests := 0
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				requests++
				page := r.URL.Query().Get("page")
				idx := 0
				fmt.Sscanf(page, "%d", &idx)
				if idx < 1 || idx > len(tt.pageSizes) {
					t.Errorf("unexpected request for page %q", page)
					http.Error(w, "invalid page", http.StatusBadRequest)
					return
				}
				writeRecords(w, tt.pageSizes[idx-1])
			}))

			records, err := client.list(context.Background(), ResourcePosts, nil)
			if err != nil {
				t.Fatalf("list failed: %v", err)
			}
			if len(records) != tt.wantRecords {
				t.Errorf("got %d records, want %d", len(records), tt.wantRecords)
			}
			if requests != tt.wantRequests {
				t.Errorf("made %d requests, want %d", requests, tt.wantRequests)
			}
		})
	}
}

func TestListExactlyFullLastPage(t *testing.T) {
	// A last page holding exactly maxPerPage records triggers one probe past
	// the end; the API rejects it and the walk keeps what it collected.
	requests := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Query().Get("page") == "1" {
			writeRecords(w, maxPerPage)
			return
		}
		http.Error(w, `{"code":"rest_post_invalid_page_number"}`, http.StatusBadRequest)
	}))

	records, err := client.list(context.Background(), ResourcePosts, nil)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(records) != maxPerPage {
		t.Errorf("got %d records, want %d", len(records), maxPerPage)
	}
	if requests != 2 {
		t.Errorf("made %d requests, want 2", requests)
	}
}

func TestListInvalidResource(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be made for an invalid resource")
	}))

	_, err := client.list(context.Background(), Resource("comments"), nil)
	if err == nil {
		t.Fatal("expected an error for an invalid resource")
	}
}

func TestListFirstPageErrorPropagates(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))

	_, err := client.list(context.Background(), ResourcePosts, nil)
	if err == nil {
		t.Fatal("expected an error when the first page fails")
	}
}

func TestRequestsCarryBasicAuthAndEditContext(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "admin" || pass != "secret" {
			t.Errorf("missing or wrong basic auth: %q/%q", user, pass)
		}
		if got := r.URL.Query().Get("context"); got != "edit" {
			t.Errorf("context = %q, want edit", got)
		}
		if got := r.URL.Query().Get("per_page"); got != "100" {
			t.Errorf("per_page = %q, want 100", got)
		}
		writeRecords(w, 1)
	}))

	if _, err := client.list(context.Background(), ResourceUsers, nil); err != nil {
		t.Fatalf("list failed: %v", err)
	}
}

func TestCheckCredentials(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   bool
	}{
		{"valid credentials", http.StatusOK, true},
		{"rejected credentials", http.StatusUnauthorized, false},
		{"forbidden", http.StatusForbidden, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := r.URL.Query().Get("status"); got != "draft" {
					t.Errorf("status = %q, want draft", got)
				}
				w.WriteHeader(tt.status)
				w.Write([]byte("[]"))
			}))

			ok, err := client.CheckCredentials(context.Background())
			if err != nil {
				t.Fatalf("CheckCredentials failed: %v", err)
			}
			if ok != tt.want {
				t.Errorf("CheckCredentials = %v, want %v", ok, tt.want)
			}
		})
	}
}

func TestGetSingleRecord(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/wp-json/wp/v2/tags/42" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(Term{ID: 42, Name: "self-help"})
	}))

	term, err := client.Tag(context.Background(), 42)
	if err != nil {
		t.Fatalf("Tag failed: %v", err)
	}
	if term.Name != "self-help" {
		t.Errorf("term name = %q, want self-help", term.Name)
	}
}
