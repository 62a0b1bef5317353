package handlers

import (
	"net/http"

	"github.com/go-authgate/apigate/internal/middleware"

	"github.com/gin-gonic/gin"
)

// ProfileHandler serves the identity the gate resolved for the request.
type ProfileHandler struct{}

func NewProfileHandler() *ProfileHandler {
	return &ProfileHandler{}
}

// Me returns the authenticated identity. It must be mounted behind a gate.
func (h *ProfileHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		// Reached only when the route was registered without a gate.
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":        user.ID,
		"username":  user.Username,
		"email":     user.Email,
		"full_name": user.FullName,
	})
}
