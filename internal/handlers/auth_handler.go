package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-portal/internal/auth"
	"github.com/justsurfingit/job-portal/internal/dtos"
	"github.com/justsurfingit/job-portal/internal/services"
	"github.com/justsurfingit/job-portal/internal/validation"
)

type AuthHandler struct {
	AuthService *services.AuthService
}

func NewAuthHandler(a *services.AuthService) *AuthHandler {
	return &AuthHandler{AuthService: a}
}

// SignUp is POST /auth/signup.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req dtos.SignUpRequest
	if err := validation.Bind(c, &req); err != nil {
		respondError(c, err)
		return
	}
	user, err := h.AuthService.SignUp(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Login is POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dtos.LoginRequest
	if err := validation.Bind(c, &req); err != nil {
		respondError(c, err)
		return
	}
	resp, err := h.AuthService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Logout is POST /auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.AuthService.Logout(c.Request.Context(), session(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Me is GET /me.
func (h *AuthHandler) Me(c *gin.Context) {
	sess := session(c)
	c.JSON(http.StatusOK, gin.H{
		"user_id":    sess.UserID,
		"email":      sess.Email,
		"full_name":  sess.FullName,
		"role":       sess.Role,
		"expires_at": sess.ExpiresAt,
	})
}

// Navigation is GET /navigation; guests get the public menu.
func Navigation(c *gin.Context) {
	sess, _ := auth.Current(c)
	c.JSON(http.StatusOK, gin.H{"items": services.Navigation(sess)})
}
