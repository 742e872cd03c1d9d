package rest

import (
	"context"
	"net/http"

	"github.com/Steerify/Suretruqs-sub000/internal/domain"
)

// PreferenceAPI implements backend.PreferenceAPI over HTTP.
type PreferenceAPI struct {
	client *Client
}

// NewPreferenceAPI creates a PreferenceAPI.
func NewPreferenceAPI(client *Client) *PreferenceAPI {
	return &PreferenceAPI{client: client}
}

func (a *PreferenceAPI) SavedLocations(ctx context.Context) ([]*domain.SavedLocation, error) {
	var out []*domain.SavedLocation
	if err := a.client.do(ctx, http.MethodGet, "/v1/locations", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *PreferenceAPI) Settings(ctx context.Context) (*domain.Settings, error) {
	var out domain.Settings
	if err := a.client.do(ctx, http.MethodGet, "/v1/settings", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *PreferenceAPI) UpdateSettings(ctx context.Context, s domain.Settings) (*domain.Settings, error) {
	var out domain.Settings
	if err := a.client.do(ctx, http.MethodPut, "/v1/settings", s, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
