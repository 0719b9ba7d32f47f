package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mopo922/canvas-importer/internal/repository"
)

// ImportSource describes the blog an import should pull from.
type ImportSource struct {
	Platform string `json:"platform"`
	URL      string `json:"url" binding:"required"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// StartFunc launches an import run for the given source under the given job
// id. It is called on its own goroutine; the run's outcome lands on the job
// record.
type StartFunc func(src ImportSource, jobID string)

// ImportHandler handles import endpoints
type ImportHandler struct {
	jobs  repository.JobRepository
	start StartFunc
	log   zerolog.Logger
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(jobs repository.JobRepository, start StartFunc, log zerolog.Logger) *ImportHandler {
	return &ImportHandler{
		jobs:  jobs,
		start: start,
		log:   log.With().Str("handler", "import").Logger(),
	}
}

// CreateImport handles POST /v1/imports
func (h *ImportHandler) CreateImport(c *gin.Context) {
	var src ImportSource
	if err := c.ShouldBindJSON(&src); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url, username and password are required"})
		return
	}

	if src.Platform == "" {
		src.Platform = "WordPress"
	}
	if src.Platform != "WordPress" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported platform: " + src.Platform})
		return
	}

	jobID := uuid.New().String()
	go h.start(src, jobID)

	h.log.Info().
		Str("job_id", jobID).
		Str("platform", src.Platform).
		Str("url", src.URL).
		Msg("Import started")

	c.JSON(http.StatusAccepted, gin.H{
		"job_id":  jobID,
		"message": "Import started",
	})
}

// GetImportStatus handles GET /v1/imports/:job_id
func (h *ImportHandler) GetImportStatus(c *gin.Context) {
	ctx := c.Request.Context()
	jobID := c.Param("job_id")

	job, err := h.jobs.GetByID(ctx, jobID)
	if err != nil {
		h.log.Error().Err(err).Str("job_id", jobID).Msg("Failed to get job")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get job status"})
		return
	}
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}

	c.JSON(http.StatusOK, job)
}

// ListImports handles GET /v1/imports
func (h *ImportHandler) ListImports(c *gin.Context) {
	ctx := c.Request.Context()

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	jobs, err := h.jobs.List(ctx, limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list jobs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list jobs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(jobs),
		"jobs":  jobs,
	})
}
