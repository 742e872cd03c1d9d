package sync

import (
	"github.com/Steerify/Suretruqs-sub000/internal/domain"
	"github.com/Steerify/Suretruqs-sub000/internal/push"
)

// JoinRooms joins exactly the rooms relevant to the current identity:
// every shipment where the user is the shipper or the assigned driver,
// plus the global tracking room for admins. It re-runs whenever the
// shipment collection or the connection state changes; re-joining an
// already-joined room is a server-side no-op, so membership is not
// tracked client-side.
func (r *Reconciler) JoinRooms() {
	if r.channel == nil || r.channel.State() != push.StateConnected {
		return
	}

	r.mu.RLock()
	user := r.user
	var shipmentIDs []string
	if user != nil {
		for _, s := range r.shipments {
			if s.ShipperID == user.ID || (s.DriverID != "" && s.DriverID == user.ID) {
				shipmentIDs = append(shipmentIDs, s.ID)
			}
		}
	}
	r.mu.RUnlock()

	if user == nil {
		return
	}

	for _, id := range shipmentIDs {
		_ = r.channel.Emit(push.EventJoinShipmentChat, push.JoinShipmentChatPayload{ShipmentID: id})
	}
	if user.Role == domain.RoleAdmin {
		_ = r.channel.Emit(push.EventJoinAdminTracking, struct{}{})
	}
}
