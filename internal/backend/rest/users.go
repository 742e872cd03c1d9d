package rest

import (
	"context"
	"net/http"

	"github.com/Steerify/Suretruqs-sub000/internal/domain"
)

// UserAPI implements backend.UserAPI over HTTP.
type UserAPI struct {
	client *Client
}

// NewUserAPI creates a UserAPI.
func NewUserAPI(client *Client) *UserAPI {
	return &UserAPI{client: client}
}

func (a *UserAPI) ListDrivers(ctx context.Context) ([]*domain.Driver, error) {
	var out []*domain.Driver
	if err := a.client.do(ctx, http.MethodGet, "/v1/drivers", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *UserAPI) ListUsers(ctx context.Context) ([]*domain.User, error) {
	var out []*domain.User
	if err := a.client.do(ctx, http.MethodGet, "/v1/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
