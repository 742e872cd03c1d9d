package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Steerify/Suretruqs-sub000/internal/feed"
	syncpkg "github.com/Steerify/Suretruqs-sub000/internal/sync"
)

// PositionHandler handles HTTP requests for live driver positions.
type PositionHandler struct {
	reconciler *syncpkg.Reconciler
	feed       *feed.PositionFeed
}

// NewPositionHandler creates a new PositionHandler.
func NewPositionHandler(reconciler *syncpkg.Reconciler, f *feed.PositionFeed) *PositionHandler {
	return &PositionHandler{reconciler: reconciler, feed: f}
}

// GetAll handles GET /v1/positions
//
// Returns the raw last-observed positions, not the interpolated
// marker frames; the stream endpoint carries those.
func (h *PositionHandler) GetAll(c *gin.Context) {
	respondJSON(c, http.StatusOK, h.reconciler.Positions())
}

// Stream handles GET /v1/positions/stream
//
// Server-sent events, one "position" event per interpolated frame,
// until the client disconnects.
func (h *PositionHandler) Stream(c *gin.Context) {
	updates, cancel := h.feed.Subscribe()
	defer cancel()

	c.Writer.Header().Set("Cache-Control", "no-cache")

	c.Stream(func(w io.Writer) bool {
		select {
		case u, ok := <-updates:
			if !ok {
				return false
			}
			c.SSEvent("position", u)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
