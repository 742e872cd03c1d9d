package rest

import (
	"context"
	"net/http"

	"github.com/Steerify/Suretruqs-sub000/internal/backend"
	"github.com/Steerify/Suretruqs-sub000/internal/domain"
)

// ShipmentAPI implements backend.ShipmentAPI over HTTP.
type ShipmentAPI struct {
	client *Client
}

// NewShipmentAPI creates a ShipmentAPI.
func NewShipmentAPI(client *Client) *ShipmentAPI {
	return &ShipmentAPI{client: client}
}

func (a *ShipmentAPI) List(ctx context.Context) ([]*domain.Shipment, error) {
	var out []*domain.Shipment
	if err := a.client.do(ctx, http.MethodGet, "/v1/shipments", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *ShipmentAPI) Create(ctx context.Context, req backend.CreateShipmentRequest) (*domain.Shipment, error) {
	var out domain.Shipment
	if err := a.client.do(ctx, http.MethodPost, "/v1/shipments", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *ShipmentAPI) Patch(ctx context.Context, id string, patch backend.ShipmentPatch) (*domain.Shipment, error) {
	var out domain.Shipment
	if err := a.client.do(ctx, http.MethodPatch, "/v1/shipments/"+id, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *ShipmentAPI) Delete(ctx context.Context, id string) error {
	return a.client.do(ctx, http.MethodDelete, "/v1/shipments/"+id, nil, nil)
}

func (a *ShipmentAPI) AdvanceStatus(ctx context.Context, id string) (*domain.Shipment, error) {
	var out domain.Shipment
	if err := a.client.do(ctx, http.MethodPost, "/v1/shipments/"+id+"/advance", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *ShipmentAPI) Cancel(ctx context.Context, id, reason string) (*domain.Shipment, error) {
	body := map[string]string{"reason": reason}
	var out domain.Shipment
	if err := a.client.do(ctx, http.MethodPost, "/v1/shipments/"+id+"/cancel", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *ShipmentAPI) ReportIssue(ctx context.Context, id, description string) (*domain.Shipment, error) {
	body := map[string]string{"description": description}
	var out domain.Shipment
	if err := a.client.do(ctx, http.MethodPost, "/v1/shipments/"+id+"/issue", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *ShipmentAPI) AssignDriver(ctx context.Context, id, driverID, notes string) (*domain.Shipment, error) {
	body := map[string]string{"driver_id": driverID, "notes": notes}
	var out domain.Shipment
	if err := a.client.do(ctx, http.MethodPost, "/v1/shipments/"+id+"/assign", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *ShipmentAPI) RespondAssignment(ctx context.Context, id string, accept bool) (*domain.Shipment, error) {
	body := map[string]bool{"accept": accept}
	var out domain.Shipment
	if err := a.client.do(ctx, http.MethodPost, "/v1/shipments/"+id+"/respond", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *ShipmentAPI) Rate(ctx context.Context, id string, rating int, review string) (*domain.Shipment, error) {
	body := map[string]any{"rating": rating, "review": review}
	var out domain.Shipment
	if err := a.client.do(ctx, http.MethodPost, "/v1/shipments/"+id+"/rate", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
