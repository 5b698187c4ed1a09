package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-portal/internal/dtos"
	"github.com/justsurfingit/job-portal/internal/services"
	"github.com/justsurfingit/job-portal/internal/validation"
)

type CaptureHandler struct {
	CaptureService *services.CaptureService
}

func NewCaptureHandler(s *services.CaptureService) *CaptureHandler {
	return &CaptureHandler{CaptureService: s}
}

// Start is POST /capture/sessions.
func (h *CaptureHandler) Start(c *gin.Context) {
	st, err := h.CaptureService.Start(session(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, st)
}

// Get is GET /capture/sessions/:id.
func (h *CaptureHandler) Get(c *gin.Context) {
	st, err := h.CaptureService.Get(session(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// Frame is POST /capture/sessions/:id/frames.
func (h *CaptureHandler) Frame(c *gin.Context) {
	var req dtos.FrameRequest
	if err := validation.Bind(c, &req); err != nil {
		respondError(c, err)
		return
	}
	st, err := h.CaptureService.Frame(session(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// Cancel is DELETE /capture/sessions/:id.
func (h *CaptureHandler) Cancel(c *gin.Context) {
	st, err := h.CaptureService.Cancel(session(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}
