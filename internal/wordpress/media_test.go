package wordpress

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/mopo922/canvas-importer/internal/mocks"
)

func TestRelocateMediaZeroIDIsANoOp(t *testing.T) {
	wp := newTestPlatform(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be made for media id 0")
	}), mocks.NewMockUserRepository())

	path, err := wp.RelocateMedia(context.Background(), 0)
	if err != nil {
		t.Fatalf("RelocateMedia failed: %v", err)
	}
	if path != "" {
		t.Errorf("path = %q, want empty", path)
	}
}

func TestRelocateMediaFlattensAndStores(t *testing.T) {
	payload := []byte("fake image bytes")

	mux := http.NewServeMux()
	mux.HandleFunc("/wp-json/wp/v2/media/55", func(w http.ResponseWriter, r *http.Request) {
		media := Media{SourceURL: "http://" + r.Host + "/files/pic.jpg"}
		media.MediaDetails.File = "2024/01/pic.jpg"
		json.NewEncoder(w).Encode(media)
	})
	mux.HandleFunc("/files/pic.jpg", func(w http.ResponseWriter, r *http.Request) {
		if _, _, ok := r.BasicAuth(); ok {
			t.Error("media downloads must not carry credentials")
		}
		w.Write(payload)
	})

	wp := newTestPlatform(t, mux, mocks.NewMockUserRepository())

	got, err := wp.RelocateMedia(context.Background(), 55)
	if err != nil {
		t.Fatalf("RelocateMedia failed: %v", err)
	}

	// The fixed clock in newTestPlatform pins the run date.
	if want := "/import/2024-05-06/2024-01-pic.jpg"; got != want {
		t.Errorf("public path = %q, want %q", got, want)
	}

	stored := filepath.Join(wp.cfg.StorageRoot, "2024-05-06", "2024-01-pic.jpg")
	data, err := os.ReadFile(stored)
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if string(data) != string(payload) {
		t.Errorf("stored %q, want %q", data, payload)
	}
}

func TestRelocateMediaDownloadFailureLeavesNoFile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/wp-json/wp/v2/media/55", func(w http.ResponseWriter, r *http.Request) {
		media := Media{SourceURL: "http://" + r.Host + "/files/gone.jpg"}
		media.MediaDetails.File = "gone.jpg"
		json.NewEncoder(w).Encode(media)
	})
	mux.HandleFunc("/files/gone.jpg", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	wp := newTestPlatform(t, mux, mocks.NewMockUserRepository())

	if _, err := wp.RelocateMedia(context.Background(), 55); err == nil {
		t.Fatal("expected an error when the download fails")
	}

	leftover := filepath.Join(wp.cfg.StorageRoot, "2024-05-06", "gone.jpg")
	if _, err := os.Stat(leftover); !os.IsNotExist(err) {
		t.Errorf("partial file left behind at %s", leftover)
	}
}
