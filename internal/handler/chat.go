package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Steerify/Suretruqs-sub000/internal/domain"
	syncpkg "github.com/Steerify/Suretruqs-sub000/internal/sync"
)

// ChatHandler handles HTTP requests for per-shipment chat threads.
type ChatHandler struct {
	reconciler *syncpkg.Reconciler
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(reconciler *syncpkg.Reconciler) *ChatHandler {
	return &ChatHandler{reconciler: reconciler}
}

// SendMessageRequest is the HTTP request body for sending a chat message.
type SendMessageRequest struct {
	Text string `json:"text"`
}

// ThreadResponse is the HTTP response for a chat thread.
type ThreadResponse struct {
	Messages []domain.ChatMessage `json:"messages"`
	Typing   bool                 `json:"typing"`
}

// GetThread handles GET /v1/shipments/:id/chat
func (h *ChatHandler) GetThread(c *gin.Context) {
	shipmentID := c.Param("id")
	respondJSON(c, http.StatusOK, ThreadResponse{
		Messages: h.reconciler.ChatThread(shipmentID),
		Typing:   h.reconciler.Typing(shipmentID),
	})
}

// Send handles POST /v1/shipments/:id/chat
//
// The message is relayed over the push channel; it appears in the
// thread only once the server echoes it back, so the response carries
// no message body.
func (h *ChatHandler) Send(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.reconciler.SendChatMessage(c.Param("id"), req.Text); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}
