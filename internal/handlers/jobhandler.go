package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-portal/internal/dtos"
	"github.com/justsurfingit/job-portal/internal/services"
	"github.com/justsurfingit/job-portal/internal/validation"
)

type JobHandler struct {
	LLMService         *services.LLMService
	JobService         *services.JobService
	ApplicationService *services.ApplicationService
}

func NewJobHandler(llm *services.LLMService, j *services.JobService, a *services.ApplicationService) *JobHandler {
	return &JobHandler{
		LLMService:         llm,
		JobService:         j,
		ApplicationService: a,
	}
}

// ListJobs is GET /jobs: active openings for everyone.
func (h *JobHandler) ListJobs(c *gin.Context) {
	var q dtos.ListQuery
	if err := bindQuery(c, &q); err != nil {
		respondError(c, err)
		return
	}
	page, err := h.JobService.ListActive(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetJob is GET /jobs/:id.
func (h *JobHandler) GetJob(c *gin.Context) {
	job, err := h.JobService.GetJob(c.Request.Context(), session(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// HasApplied is GET /jobs/:id/applied.
func (h *JobHandler) HasApplied(c *gin.Context) {
	applied, err := h.ApplicationService.HasApplied(c.Request.Context(), session(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applied": applied})
}

// ListAllJobs is GET /admin/jobs.
func (h *JobHandler) ListAllJobs(c *gin.Context) {
	var q dtos.ListQuery
	if err := bindQuery(c, &q); err != nil {
		respondError(c, err)
		return
	}
	page, err := h.JobService.ListAll(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// ListMyJobs is GET /admin/jobs/mine.
func (h *JobHandler) ListMyJobs(c *gin.Context) {
	var q dtos.ListQuery
	if err := bindQuery(c, &q); err != nil {
		respondError(c, err)
		return
	}
	page, err := h.JobService.ListMine(c.Request.Context(), session(c), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// ParseJob is POST /admin/jobs/extract: an LLM-drafted job for review.
func (h *JobHandler) ParseJob(c *gin.Context) {
	var req dtos.JobExtractionRequest
	if err := validation.Bind(c, &req); err != nil {
		respondError(c, err)
		return
	}
	draft, err := h.LLMService.ExtractJobDraft(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": draft})
}

// CreateJob is POST /admin/jobs.
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dtos.JobCreationRequest
	if err := validation.Bind(c, &req); err != nil {
		respondError(c, err)
		return
	}
	job, err := h.JobService.CreateJob(c.Request.Context(), session(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

// UpdateJob is PATCH /admin/jobs/:id.
func (h *JobHandler) UpdateJob(c *gin.Context) {
	var req dtos.JobUpdateRequest
	if err := validation.Bind(c, &req); err != nil {
		respondError(c, err)
		return
	}
	job, err := h.JobService.UpdateJob(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// DeleteJob is DELETE /admin/jobs/:id.
func (h *JobHandler) DeleteJob(c *gin.Context) {
	if err := h.JobService.DeleteJob(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Candidates is GET /admin/jobs/:id/candidates. selected carries the ids
// checked in the table, repeated or comma separated.
func (h *JobHandler) Candidates(c *gin.Context) {
	var q dtos.ListQuery
	if err := bindQuery(c, &q); err != nil {
		respondError(c, err)
		return
	}
	var selected []string
	for _, v := range c.QueryArray("selected") {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				selected = append(selected, id)
			}
		}
	}
	page, err := h.ApplicationService.Candidates(c.Request.Context(), c.Param("id"), q, selected)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// BulkCandidateStatus is POST /admin/jobs/:id/candidates/status.
func (h *JobHandler) BulkCandidateStatus(c *gin.Context) {
	var req dtos.BulkStatusRequest
	if err := validation.Bind(c, &req); err != nil {
		respondError(c, err)
		return
	}
	n, err := h.ApplicationService.BulkUpdateStatus(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}
