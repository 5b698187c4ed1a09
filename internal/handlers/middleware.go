package handlers

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-portal/internal/apperr"
	"github.com/justsurfingit/job-portal/internal/auth"
)

// Authenticator resolves a bearer token into a session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Session, error)
}

func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// RequireAuth rejects requests without a live session.
func RequireAuth(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			respondError(c, apperr.New(apperr.CodeNotAuthenticated, "missing bearer token"))
			return
		}
		sess, err := a.Authenticate(c.Request.Context(), token)
		if err != nil {
			respondError(c, err)
			return
		}
		auth.Attach(c, sess)
		c.Next()
	}
}

// OptionalAuth attaches a session when a valid token is sent and treats
// the request as a guest otherwise.
func OptionalAuth(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if sess, err := a.Authenticate(c.Request.Context(), token); err == nil {
				auth.Attach(c, sess)
			}
		}
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := auth.Current(c)
		if !ok {
			respondError(c, apperr.New(apperr.CodeNotAuthenticated, "sign in required"))
			return
		}
		if !sess.IsAdmin() {
			respondError(c, apperr.New(apperr.CodeForbidden, "admin access required"))
			return
		}
		c.Next()
	}
}

// session returns the session RequireAuth attached.
func session(c *gin.Context) *auth.Session {
	sess, _ := auth.Current(c)
	return sess
}
