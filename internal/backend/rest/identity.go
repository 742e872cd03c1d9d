package rest

import (
	"context"
	"net/http"

	"github.com/Steerify/Suretruqs-sub000/internal/domain"
)

// IdentityAPI implements backend.IdentityAPI over HTTP.
type IdentityAPI struct {
	client *Client
}

// NewIdentityAPI creates an IdentityAPI.
func NewIdentityAPI(client *Client) *IdentityAPI {
	return &IdentityAPI{client: client}
}

func (a *IdentityAPI) Me(ctx context.Context) (*domain.User, error) {
	var out domain.User
	if err := a.client.do(ctx, http.MethodGet, "/v1/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *IdentityAPI) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	body := map[string]string{"email": email, "password": password}
	var out struct {
		User  domain.User `json:"user"`
		Token string      `json:"token"`
	}
	if err := a.client.do(ctx, http.MethodPost, "/v1/auth/login", body, &out); err != nil {
		return nil, "", err
	}
	return &out.User, out.Token, nil
}
