package middleware

import (
	"context"

	"github.com/go-authgate/apigate/internal/models"

	"github.com/gin-gonic/gin"
)

// Gin context keys
const (
	ContextKeyUser     = "user"
	ContextKeyClientIP = "client_ip"
)

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying user.
func WithIdentity(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, identityKey{}, user)
}

// IdentityFromContext returns the identity attached by the gate, if any.
func IdentityFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(identityKey{}).(*models.User)
	return user, ok && user != nil
}

// CurrentUser returns the identity stored on c by the gate.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(ContextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

// IPMiddleware extracts client IP and stores it in the context
func IPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Gin's ClientIP() handles X-Forwarded-For and other headers
		c.Set(ContextKeyClientIP, c.ClientIP())
		c.Next()
	}
}
