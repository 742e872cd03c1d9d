// Package backend declares the REST collaborator consumed by the sync
// core. Every mutating call returns the server's full representation of
// the affected entity, which the reconciler applies verbatim.
package backend

import (
	"context"

	"github.com/Steerify/Suretruqs-sub000/internal/domain"
)

// CreateShipmentRequest contains the parameters for creating a shipment.
type CreateShipmentRequest struct {
	Pickup           domain.Location `json:"pickup"`
	Dropoff          domain.Location `json:"dropoff"`
	CargoDescription string          `json:"cargo_description"`
	WeightKG         float64         `json:"weight_kg"`
	Instructions     string          `json:"instructions,omitempty"`
}

// ShipmentPatch is a partial update; nil fields are left unchanged.
type ShipmentPatch struct {
	Pickup       *domain.Location `json:"pickup,omitempty"`
	Dropoff      *domain.Location `json:"dropoff,omitempty"`
	Instructions *string          `json:"instructions,omitempty"`
}

// IdentityAPI resolves and establishes the authenticated identity.
type IdentityAPI interface {
	// Me validates the current token and returns the identity behind it.
	Me(ctx context.Context) (*domain.User, error)

	// Login exchanges credentials for an identity and a fresh token.
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
}

// ShipmentAPI covers the shipment resource.
type ShipmentAPI interface {
	List(ctx context.Context) ([]*domain.Shipment, error)
	Create(ctx context.Context, req CreateShipmentRequest) (*domain.Shipment, error)
	Patch(ctx context.Context, id string, patch ShipmentPatch) (*domain.Shipment, error)
	Delete(ctx context.Context, id string) error

	AdvanceStatus(ctx context.Context, id string) (*domain.Shipment, error)
	Cancel(ctx context.Context, id, reason string) (*domain.Shipment, error)
	ReportIssue(ctx context.Context, id, description string) (*domain.Shipment, error)
	AssignDriver(ctx context.Context, id, driverID, notes string) (*domain.Shipment, error)
	RespondAssignment(ctx context.Context, id string, accept bool) (*domain.Shipment, error)
	Rate(ctx context.Context, id string, rating int, review string) (*domain.Shipment, error)
}

// UserAPI lists marketplace participants.
type UserAPI interface {
	ListDrivers(ctx context.Context) ([]*domain.Driver, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
}

// ChatAPI is the one-time bulk history fetch; live messages arrive
// over the push channel.
type ChatAPI interface {
	History(ctx context.Context) ([]*domain.ChatMessage, error)
}

// NotificationAPI covers the persisted per-user notification list.
type NotificationAPI interface {
	List(ctx context.Context) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id string) (*domain.Notification, error)
	MarkAllRead(ctx context.Context) error
}

// PreferenceAPI covers saved locations and user settings.
type PreferenceAPI interface {
	SavedLocations(ctx context.Context) ([]*domain.SavedLocation, error)
	Settings(ctx context.Context) (*domain.Settings, error)
	UpdateSettings(ctx context.Context, s domain.Settings) (*domain.Settings, error)
}
