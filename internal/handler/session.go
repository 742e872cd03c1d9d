package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Steerify/Suretruqs-sub000/internal/domain"
	"github.com/Steerify/Suretruqs-sub000/internal/push"
	"github.com/Steerify/Suretruqs-sub000/internal/session"
	syncpkg "github.com/Steerify/Suretruqs-sub000/internal/sync"
)

// SessionHandler handles HTTP requests for the local session.
type SessionHandler struct {
	bootstrapper *session.Bootstrapper
	reconciler   *syncpkg.Reconciler
	channel      syncpkg.Channel
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(b *session.Bootstrapper, r *syncpkg.Reconciler, ch syncpkg.Channel) *SessionHandler {
	return &SessionHandler{bootstrapper: b, reconciler: r, channel: ch}
}

// LoginRequest is the HTTP request body for logging in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// StatusResponse is the HTTP response describing the current session.
type StatusResponse struct {
	Initializing bool         `json:"initializing"`
	Channel      push.State   `json:"channel"`
	User         *domain.User `json:"user,omitempty"`
}

// Status handles GET /v1/session
func (h *SessionHandler) Status(c *gin.Context) {
	respondJSON(c, http.StatusOK, StatusResponse{
		Initializing: h.bootstrapper.Initializing(),
		Channel:      h.channel.State(),
		User:         h.reconciler.User(),
	})
}

// Login handles POST /v1/session/login
func (h *SessionHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.bootstrapper.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, user)
}

// Logout handles POST /v1/session/logout
func (h *SessionHandler) Logout(c *gin.Context) {
	h.bootstrapper.Logout()
	c.Status(http.StatusNoContent)
}
