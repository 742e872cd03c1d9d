package rest

import (
	"context"
	"net/http"

	"github.com/Steerify/Suretruqs-sub000/internal/domain"
)

// NotificationAPI implements backend.NotificationAPI over HTTP.
type NotificationAPI struct {
	client *Client
}

// NewNotificationAPI creates a NotificationAPI.
func NewNotificationAPI(client *Client) *NotificationAPI {
	return &NotificationAPI{client: client}
}

func (a *NotificationAPI) List(ctx context.Context) ([]*domain.Notification, error) {
	var out []*domain.Notification
	if err := a.client.do(ctx, http.MethodGet, "/v1/notifications", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *NotificationAPI) MarkRead(ctx context.Context, id string) (*domain.Notification, error) {
	var out domain.Notification
	if err := a.client.do(ctx, http.MethodPost, "/v1/notifications/"+id+"/read", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *NotificationAPI) MarkAllRead(ctx context.Context) error {
	return a.client.do(ctx, http.MethodPost, "/v1/notifications/read-all", nil, nil)
}
