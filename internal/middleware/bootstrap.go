package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Steerify/Suretruqs-sub000/internal/session"
)

// BootstrapGate refuses state reads and mutations while the session
// bootstrap is still running, so no caller ever sees a half-loaded
// snapshot. The session endpoints themselves stay outside the gate.
func BootstrapGate(b *session.Bootstrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if b.Initializing() {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "session initializing"})
			return
		}
		c.Next()
	}
}
