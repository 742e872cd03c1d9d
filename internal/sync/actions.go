package sync

import (
	"context"
	"strings"

	"github.com/Steerify/Suretruqs-sub000/internal/backend"
	"github.com/Steerify/Suretruqs-sub000/internal/domain"
	"github.com/Steerify/Suretruqs-sub000/internal/push"
)

// Every mutating action below issues the request to the authoritative
// backend and applies the server's returned representation. Nothing is
// applied optimistically, so a server-side rejection leaves local state
// untouched. The state machine check before the call is advisory: it
// rejects obviously illegal requests without a round-trip.

// CreateShipment creates a shipment on behalf of the current shipper.
func (r *Reconciler) CreateShipment(ctx context.Context, req backend.CreateShipmentRequest) (*domain.Shipment, error) {
	if r.User() == nil {
		return nil, ErrNoSession
	}

	created, err := r.api.Shipments.Create(ctx, req)
	if err != nil {
		return nil, r.observeError(err)
	}
	r.applyShipment(created)
	return created, nil
}

// PatchShipment updates editable fields of a shipment.
func (r *Reconciler) PatchShipment(ctx context.Context, id string, patch backend.ShipmentPatch) (*domain.Shipment, error) {
	if _, ok := r.Shipment(id); !ok {
		return nil, ErrShipmentNotFound
	}

	updated, err := r.api.Shipments.Patch(ctx, id, patch)
	if err != nil {
		return nil, r.observeError(err)
	}
	r.applyShipment(updated)
	return updated, nil
}

// DeleteShipment removes a shipment.
func (r *Reconciler) DeleteShipment(ctx context.Context, id string) error {
	if _, ok := r.Shipment(id); !ok {
		return ErrShipmentNotFound
	}

	if err := r.api.Shipments.Delete(ctx, id); err != nil {
		return r.observeError(err)
	}

	r.mu.Lock()
	delete(r.shipments, id)
	delete(r.positions, id)
	r.mu.Unlock()
	if r.interp != nil {
		r.interp.Stop(id)
	}
	return nil
}

// AdvanceShipment moves a shipment one lifecycle step forward.
func (r *Reconciler) AdvanceShipment(ctx context.Context, id string) (*domain.Shipment, error) {
	s, ok := r.Shipment(id)
	if !ok {
		return nil, ErrShipmentNotFound
	}
	if _, _, err := domain.Transition(s.Status, s.AssignmentStatus, domain.EventAdvance); err != nil {
		return nil, err
	}

	updated, err := r.api.Shipments.AdvanceStatus(ctx, id)
	if err != nil {
		return nil, r.observeError(err)
	}
	r.applyShipment(updated)
	return updated, nil
}

// CancelShipment cancels a non-terminal shipment.
func (r *Reconciler) CancelShipment(ctx context.Context, id, reason string) (*domain.Shipment, error) {
	s, ok := r.Shipment(id)
	if !ok {
		return nil, ErrShipmentNotFound
	}
	if _, _, err := domain.Transition(s.Status, s.AssignmentStatus, domain.EventCancel); err != nil {
		return nil, err
	}

	updated, err := r.api.Shipments.Cancel(ctx, id, reason)
	if err != nil {
		return nil, r.observeError(err)
	}
	r.applyShipment(updated)
	return updated, nil
}

// ReportIssue flags a problem on an in-flight shipment.
func (r *Reconciler) ReportIssue(ctx context.Context, id, description string) (*domain.Shipment, error) {
	s, ok := r.Shipment(id)
	if !ok {
		return nil, ErrShipmentNotFound
	}
	if _, _, err := domain.Transition(s.Status, s.AssignmentStatus, domain.EventReportIssue); err != nil {
		return nil, err
	}

	updated, err := r.api.Shipments.ReportIssue(ctx, id, description)
	if err != nil {
		return nil, r.observeError(err)
	}
	r.applyShipment(updated)
	return updated, nil
}

// AssignDriver attaches a driver to a shipment (admin action), opening
// a PENDING offer for the driver to accept or reject.
func (r *Reconciler) AssignDriver(ctx context.Context, id, driverID, notes string) (*domain.Shipment, error) {
	s, ok := r.Shipment(id)
	if !ok {
		return nil, ErrShipmentNotFound
	}
	if _, _, err := domain.Transition(s.Status, s.AssignmentStatus, domain.EventAssignDriver); err != nil {
		return nil, err
	}

	updated, err := r.api.Shipments.AssignDriver(ctx, id, driverID, notes)
	if err != nil {
		return nil, r.observeError(err)
	}
	r.applyShipment(updated)
	return updated, nil
}

// RespondAssignment is the driver's answer to an open offer. A
// rejection releases the shipment: the server representation comes
// back with no driver and status PENDING_REVIEW, and is applied as one
// logical operation.
func (r *Reconciler) RespondAssignment(ctx context.Context, id string, accept bool) (*domain.Shipment, error) {
	s, ok := r.Shipment(id)
	if !ok {
		return nil, ErrShipmentNotFound
	}
	event := domain.EventDriverAccept
	if !accept {
		event = domain.EventDriverReject
	}
	if _, _, err := domain.Transition(s.Status, s.AssignmentStatus, event); err != nil {
		return nil, err
	}

	updated, err := r.api.Shipments.RespondAssignment(ctx, id, accept)
	if err != nil {
		return nil, r.observeError(err)
	}
	r.applyShipment(updated)
	return updated, nil
}

// RateShipment records the shipper's rating for a delivered shipment.
func (r *Reconciler) RateShipment(ctx context.Context, id string, rating int, review string) (*domain.Shipment, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	s, ok := r.Shipment(id)
	if !ok {
		return nil, ErrShipmentNotFound
	}
	if s.Status != domain.StatusDelivered {
		return nil, ErrNotDelivered
	}

	updated, err := r.api.Shipments.Rate(ctx, id, rating, review)
	if err != nil {
		return nil, r.observeError(err)
	}
	r.applyShipment(updated)
	return updated, nil
}

// SendChatMessage is fire-and-forget over the push channel: there is no
// REST round-trip and no local append. The sender's own message comes
// back through the new_message broadcast like every other participant's.
func (r *Reconciler) SendChatMessage(shipmentID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}
	user := r.User()
	if user == nil {
		return ErrNoSession
	}
	if _, ok := r.Shipment(shipmentID); !ok {
		return ErrShipmentNotFound
	}

	return r.channel.Emit(push.EventSendMessage, push.SendMessagePayload{
		ShipmentID: shipmentID,
		SenderID:   user.ID,
		SenderName: user.Name,
		Text:       text,
	})
}

// PublishLocation emits a driver position ping for a shipment. The echo
// comes back through location_updated for everyone in the room,
// including this client.
func (r *Reconciler) PublishLocation(shipmentID string, lat, lng float64) error {
	user := r.User()
	if user == nil {
		return ErrNoSession
	}
	return r.channel.Emit(push.EventUpdateLocation, push.UpdateLocationPayload{
		ShipmentID: shipmentID,
		DriverID:   user.ID,
		Lat:        lat,
		Lng:        lng,
	})
}

// MarkNotificationRead marks one persisted notification as read.
func (r *Reconciler) MarkNotificationRead(ctx context.Context, id string) error {
	updated, err := r.api.Notifications.MarkRead(ctx, id)
	if err != nil {
		return r.observeError(err)
	}

	r.mu.Lock()
	for i := range r.notifications {
		if r.notifications[i].ID == updated.ID {
			r.notifications[i] = *updated
			break
		}
	}
	r.mu.Unlock()
	return nil
}

// MarkAllNotificationsRead marks every persisted notification as read.
func (r *Reconciler) MarkAllNotificationsRead(ctx context.Context) error {
	if err := r.api.Notifications.MarkAllRead(ctx); err != nil {
		return r.observeError(err)
	}

	r.mu.Lock()
	for i := range r.notifications {
		r.notifications[i].Read = true
	}
	r.mu.Unlock()
	return nil
}

// UpdateSettings saves user settings and applies the server's copy.
func (r *Reconciler) UpdateSettings(ctx context.Context, s domain.Settings) (domain.Settings, error) {
	updated, err := r.api.Preferences.UpdateSettings(ctx, s)
	if err != nil {
		return domain.Settings{}, r.observeError(err)
	}

	r.mu.Lock()
	r.settings = updated
	r.mu.Unlock()
	return *updated, nil
}
