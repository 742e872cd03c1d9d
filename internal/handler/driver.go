package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	syncpkg "github.com/Steerify/Suretruqs-sub000/internal/sync"
)

// DriverHandler handles HTTP requests for the driver roster and the
// local driver's own position reports.
type DriverHandler struct {
	reconciler *syncpkg.Reconciler
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(reconciler *syncpkg.Reconciler) *DriverHandler {
	return &DriverHandler{reconciler: reconciler}
}

// PublishLocationRequest is the HTTP request body for reporting the
// local driver's GPS fix on an active shipment.
type PublishLocationRequest struct {
	ShipmentID string  `json:"shipment_id"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
}

// GetAll handles GET /v1/drivers
func (h *DriverHandler) GetAll(c *gin.Context) {
	respondJSON(c, http.StatusOK, h.reconciler.Drivers())
}

// PublishLocation handles POST /v1/drivers/location
func (h *DriverHandler) PublishLocation(c *gin.Context) {
	var req PublishLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.reconciler.PublishLocation(req.ShipmentID, req.Lat, req.Lng); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}
