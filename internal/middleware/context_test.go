package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-authgate/apigate/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestIdentityContext(t *testing.T) {
	_, ok := IdentityFromContext(context.Background())
	assert.False(t, ok)

	_, ok = IdentityFromContext(WithIdentity(context.Background(), nil))
	assert.False(t, ok, "a nil identity is not an identity")

	user := &models.User{ID: "u1", Username: "alice"}
	got, ok := IdentityFromContext(WithIdentity(context.Background(), user))
	assert.True(t, ok)
	assert.Same(t, user, got)
}

func TestIPMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(IPMiddleware())
	r.GET("/ip", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextKeyClientIP))
	})

	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "203.0.113.7", w.Body.String())
}
