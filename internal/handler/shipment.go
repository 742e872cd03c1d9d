package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Steerify/Suretruqs-sub000/internal/backend"
	"github.com/Steerify/Suretruqs-sub000/internal/domain"
	syncpkg "github.com/Steerify/Suretruqs-sub000/internal/sync"
)

// ShipmentHandler handles HTTP requests for shipments.
type ShipmentHandler struct {
	reconciler *syncpkg.Reconciler
}

// NewShipmentHandler creates a new ShipmentHandler.
func NewShipmentHandler(reconciler *syncpkg.Reconciler) *ShipmentHandler {
	return &ShipmentHandler{reconciler: reconciler}
}

// CreateShipmentRequest is the HTTP request body for creating a shipment.
type CreateShipmentRequest struct {
	Pickup           domain.Location `json:"pickup"`
	Dropoff          domain.Location `json:"dropoff"`
	CargoDescription string          `json:"cargo_description"`
	WeightKG         float64         `json:"weight_kg"`
	Instructions     string          `json:"instructions,omitempty"`
}

// PatchShipmentRequest is the HTTP request body for editing a shipment.
// Absent fields are left unchanged.
type PatchShipmentRequest struct {
	Pickup       *domain.Location `json:"pickup,omitempty"`
	Dropoff      *domain.Location `json:"dropoff,omitempty"`
	Instructions *string          `json:"instructions,omitempty"`
}

// CancelShipmentRequest is the HTTP request body for cancelling a shipment.
type CancelShipmentRequest struct {
	Reason string `json:"reason,omitempty"`
}

// ReportIssueRequest is the HTTP request body for flagging a shipment.
type ReportIssueRequest struct {
	Description string `json:"description"`
}

// AssignDriverRequest is the HTTP request body for offering a shipment
// to a driver.
type AssignDriverRequest struct {
	DriverID string `json:"driver_id"`
	Notes    string `json:"notes,omitempty"`
}

// RespondAssignmentRequest is the HTTP request body for a driver's
// answer to a job offer.
type RespondAssignmentRequest struct {
	Accept bool `json:"accept"`
}

// RateShipmentRequest is the HTTP request body for rating a delivered
// shipment.
type RateShipmentRequest struct {
	Rating int    `json:"rating"`
	Review string `json:"review,omitempty"`
}

// GetAll handles GET /v1/shipments
func (h *ShipmentHandler) GetAll(c *gin.Context) {
	respondJSON(c, http.StatusOK, h.reconciler.Shipments())
}

// Get handles GET /v1/shipments/:id
func (h *ShipmentHandler) Get(c *gin.Context) {
	s, ok := h.reconciler.Shipment(c.Param("id"))
	if !ok {
		respondError(c, syncpkg.ErrShipmentNotFound)
		return
	}
	respondJSON(c, http.StatusOK, s)
}

// Create handles POST /v1/shipments
func (h *ShipmentHandler) Create(c *gin.Context) {
	var req CreateShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	s, err := h.reconciler.CreateShipment(c.Request.Context(), backend.CreateShipmentRequest{
		Pickup:           req.Pickup,
		Dropoff:          req.Dropoff,
		CargoDescription: req.CargoDescription,
		WeightKG:         req.WeightKG,
		Instructions:     req.Instructions,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, s)
}

// Patch handles PATCH /v1/shipments/:id
func (h *ShipmentHandler) Patch(c *gin.Context) {
	var req PatchShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	s, err := h.reconciler.PatchShipment(c.Request.Context(), c.Param("id"), backend.ShipmentPatch{
		Pickup:       req.Pickup,
		Dropoff:      req.Dropoff,
		Instructions: req.Instructions,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, s)
}

// Delete handles DELETE /v1/shipments/:id
func (h *ShipmentHandler) Delete(c *gin.Context) {
	if err := h.reconciler.DeleteShipment(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Advance handles POST /v1/shipments/:id/advance
func (h *ShipmentHandler) Advance(c *gin.Context) {
	s, err := h.reconciler.AdvanceShipment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, s)
}

// Cancel handles POST /v1/shipments/:id/cancel
func (h *ShipmentHandler) Cancel(c *gin.Context) {
	var req CancelShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	s, err := h.reconciler.CancelShipment(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, s)
}

// ReportIssue handles POST /v1/shipments/:id/issue
func (h *ShipmentHandler) ReportIssue(c *gin.Context) {
	var req ReportIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	s, err := h.reconciler.ReportIssue(c.Request.Context(), c.Param("id"), req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, s)
}

// AssignDriver handles POST /v1/shipments/:id/assign
func (h *ShipmentHandler) AssignDriver(c *gin.Context) {
	var req AssignDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	s, err := h.reconciler.AssignDriver(c.Request.Context(), c.Param("id"), req.DriverID, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, s)
}

// RespondAssignment handles POST /v1/shipments/:id/respond
func (h *ShipmentHandler) RespondAssignment(c *gin.Context) {
	var req RespondAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	s, err := h.reconciler.RespondAssignment(c.Request.Context(), c.Param("id"), req.Accept)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, s)
}

// Rate handles POST /v1/shipments/:id/rate
func (h *ShipmentHandler) Rate(c *gin.Context) {
	var req RateShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	s, err := h.reconciler.RateShipment(c.Request.Context(), c.Param("id"), req.Rating, req.Review)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, s)
}
