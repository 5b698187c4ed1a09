package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-portal/internal/dtos"
	"github.com/justsurfingit/job-portal/internal/services"
	"github.com/justsurfingit/job-portal/internal/validation"
)

type ApplicationHandler struct {
	ApplicationService *services.ApplicationService
}

func NewApplicationHandler(a *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{ApplicationService: a}
}

// Submit is POST /applications.
func (h *ApplicationHandler) Submit(c *gin.Context) {
	var req dtos.ApplicationRequest
	if err := validation.Bind(c, &req); err != nil {
		respondError(c, err)
		return
	}
	app, err := h.ApplicationService.Submit(c.Request.Context(), session(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

// Mine is GET /applications/mine.
func (h *ApplicationHandler) Mine(c *gin.Context) {
	apps, err := h.ApplicationService.Mine(c.Request.Context(), session(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": apps})
}

// UpdateStatus is PATCH /admin/applications/:id/status.
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	var req dtos.ApplicationStatusRequest
	if err := validation.Bind(c, &req); err != nil {
		respondError(c, err)
		return
	}
	app, err := h.ApplicationService.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}
