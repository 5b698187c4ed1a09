package auth

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-portal/internal/models"
)

// Session is the signed-in identity for one request. It is created from a
// validated token by the auth middleware and handed explicitly to services.
type Session struct {
	ID        string
	UserID    string
	Email     string
	FullName  string
	Role      string
	ExpiresAt time.Time
}

func (s *Session) IsAdmin() bool { return s != nil && s.Role == models.RoleAdmin }

type sessionKey struct{}

const ginSessionKey = "auth.session"

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}

// Attach stores s on both the gin context and the request context.
func Attach(c *gin.Context, s *Session) {
	c.Set(ginSessionKey, s)
	c.Request = c.Request.WithContext(WithSession(c.Request.Context(), s))
}

// Current returns the session attached by the middleware, if any.
func Current(c *gin.Context) (*Session, bool) {
	v, ok := c.Get(ginSessionKey)
	if !ok {
		return nil, false
	}
	s, ok := v.(*Session)
	return s, ok && s != nil
}
