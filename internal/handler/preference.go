package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Steerify/Suretruqs-sub000/internal/domain"
	syncpkg "github.com/Steerify/Suretruqs-sub000/internal/sync"
)

// PreferenceHandler handles HTTP requests for saved locations and
// user settings.
type PreferenceHandler struct {
	reconciler *syncpkg.Reconciler
}

// NewPreferenceHandler creates a new PreferenceHandler.
func NewPreferenceHandler(reconciler *syncpkg.Reconciler) *PreferenceHandler {
	return &PreferenceHandler{reconciler: reconciler}
}

// GetSavedLocations handles GET /v1/locations
func (h *PreferenceHandler) GetSavedLocations(c *gin.Context) {
	respondJSON(c, http.StatusOK, h.reconciler.SavedLocations())
}

// GetSettings handles GET /v1/settings
func (h *PreferenceHandler) GetSettings(c *gin.Context) {
	respondJSON(c, http.StatusOK, h.reconciler.Settings())
}

// UpdateSettings handles PUT /v1/settings
func (h *PreferenceHandler) UpdateSettings(c *gin.Context) {
	var req domain.Settings
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	s, err := h.reconciler.UpdateSettings(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, s)
}
