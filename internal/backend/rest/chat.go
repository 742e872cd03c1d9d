package rest

import (
	"context"
	"net/http"

	"github.com/Steerify/Suretruqs-sub000/internal/domain"
)

// ChatAPI implements backend.ChatAPI over HTTP.
type ChatAPI struct {
	client *Client
}

// NewChatAPI creates a ChatAPI.
func NewChatAPI(client *Client) *ChatAPI {
	return &ChatAPI{client: client}
}

// History fetches the full chat history for every shipment visible to
// the current identity, oldest first within each thread.
func (a *ChatAPI) History(ctx context.Context) ([]*domain.ChatMessage, error) {
	var out []*domain.ChatMessage
	if err := a.client.do(ctx, http.MethodGet, "/v1/chat/history", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
