package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mopo922/canvas-importer/internal/mocks"
	"github.com/mopo922/canvas-importer/internal/models"
)

// startRecorder captures StartFunc invocations so tests can assert on the
// source and job id handed to the background run.
type startRecorder struct {
	mu    sync.Mutex
	calls []struct {
		src   ImportSource
		jobID string
	}
	done chan struct{}
}

func newStartRecorder() *startRecorder {
	return &startRecorder{done: make(chan struct{}, 1)}
}

func (r *startRecorder) start(src ImportSource, jobID string) {
	r.mu.Lock()
	r.calls = append(r.calls, struct {
		src   ImportSource
		jobID string
	}{src, jobID})
	r.mu.Unlock()
	r.done <- struct{}{}
}

func (r *startRecorder) wait(t *testing.T) (ImportSource, string) {
	t.Helper()
	select {
	case <-r.done:
	case <-time.After(time.Second):
		t.Fatal("import run was never started")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	call := r.calls[len(r.calls)-1]
	return call.src, call.jobID
}

func newTestRouter(jobs *mocks.MockJobRepository, start StartFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewImportHandler(jobs, start, zerolog.Nop())

	router := gin.New()
	router.POST("/v1/imports", handler.CreateImport)
	router.GET("/v1/imports", handler.ListImports)
	router.GET("/v1/imports/:job_id", handler.GetImportStatus)
	return router
}

func TestCreateImport(t *testing.T) {
	recorder := newStartRecorder()
	router := newTestRouter(mocks.NewMockJobRepository(), recorder.start)

	body := `{"url":"http://blog.example.com","username":"admin","password":"secret"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/imports", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202, body: %s", w.Code, w.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp["job_id"] == "" {
		t.Error("response is missing a job_id")
	}

	src, jobID := recorder.wait(t)
	if jobID != resp["job_id"] {
		t.Errorf("run started with job id %q, response said %q", jobID, resp["job_id"])
	}
	if src.Platform != "WordPress" {
		t.Errorf("platform defaulted to %q, want WordPress", src.Platform)
	}
	if src.URL != "http://blog.example.com" {
		t.Errorf("url = %q", src.URL)
	}
}

func TestCreateImportValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing url", `{"username":"admin","password":"secret"}`},
		{"missing username", `{"url":"http://x","password":"secret"}`},
		{"missing password", `{"url":"http://x","username":"admin"}`},
		{"malformed json", `{"url":`},
		{"unsupported platform", `{"platform":"Medium","url":"http://x","username":"a","password":"b"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			started := false
			router := newTestRouter(mocks.NewMockJobRepository(), func(ImportSource, string) {
				started = true
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/v1/imports", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
			if started {
				t.Error("a run was started for an invalid request")
			}
		})
	}
}

func TestGetImportStatus(t *testing.T) {
	jobs := mocks.NewMockJobRepository()
	jobs.Create(context.Background(), &models.ImportJob{
		ID:            "known-job",
		Platform:      "WordPress",
		Status:        models.JobStatusCompleted,
		TotalPosts:    3,
		ImportedCount: 3,
	})
	router := newTestRouter(jobs, func(ImportSource, string) {})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/imports/known-job", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var job models.ImportJob
	if err := json.Unmarshal(w.Body.Bytes(), &job); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if job.ID != "known-job" || job.ImportedCount != 3 {
		t.Errorf("job = %+v", job)
	}
}

func TestGetImportStatusNotFound(t *testing.T) {
	router := newTestRouter(mocks.NewMockJobRepository(), func(ImportSource, string) {})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/imports/nope", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestListImports(t *testing.T) {
	jobs := mocks.NewMockJobRepository()
	jobs.Create(context.Background(), &models.ImportJob{ID: "a", Status: models.JobStatusCompleted})
	jobs.Create(context.Background(), &models.ImportJob{ID: "b", Status: models.JobStatusRunning})
	router := newTestRouter(jobs, func(ImportSource, string) {})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/imports", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Count int                `json:"count"`
		Jobs  []models.ImportJob `json:"jobs"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Count != 2 || len(resp.Jobs) != 2 {
		t.Errorf("count = %d, jobs = %d", resp.Count, len(resp.Jobs))
	}
}
