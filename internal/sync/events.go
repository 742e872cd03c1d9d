package sync

import (
	"encoding/json"
	"log"
	"time"

	"github.com/Steerify/Suretruqs-sub000/internal/domain"
	"github.com/Steerify/Suretruqs-sub000/internal/push"
)

// onNewMessage appends a live chat message to its thread. The server
// id is the dedupe key: a message already delivered via the bulk
// history fetch is not appended twice.
func (r *Reconciler) onNewMessage(data json.RawMessage) {
	var p push.NewMessagePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Printf("sync: discarding malformed new_message: %v", err)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.seenMessages[p.ID]; dup {
		return
	}
	r.seenMessages[p.ID] = struct{}{}

	msg := domain.ChatMessage{
		ID:         p.ID,
		ShipmentID: p.ShipmentID,
		SenderID:   p.SenderID,
		SenderName: p.SenderName,
		Text:       p.Text,
		SentAt:     p.SentAt,
		IsMe:       r.user != nil && p.SenderID == r.user.ID,
	}
	r.chats[p.ShipmentID] = append(r.chats[p.ShipmentID], msg)

	// An incoming message retracts the peer's typing flag.
	if !msg.IsMe {
		r.clearTypingLocked(p.ShipmentID)
	}
}

// onUserTyping sets the typing flag for a thread. The flag expires on
// its own: a peer that disconnects mid-type must not leave a stuck
// indicator.
func (r *Reconciler) onUserTyping(data json.RawMessage) {
	var p push.UserTypingPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Printf("sync: discarding malformed user_typing: %v", err)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !p.IsTyping {
		r.clearTypingLocked(p.ShipmentID)
		return
	}

	r.typing[p.ShipmentID] = true
	if t, ok := r.typingTimers[p.ShipmentID]; ok {
		t.Stop()
	}
	shipmentID := p.ShipmentID
	r.typingTimers[shipmentID] = time.AfterFunc(typingExpiry, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.clearTypingLocked(shipmentID)
	})
}

// clearTypingLocked drops the typing flag and its expiry timer.
// Caller holds r.mu.
func (r *Reconciler) clearTypingLocked(shipmentID string) {
	delete(r.typing, shipmentID)
	if t, ok := r.typingTimers[shipmentID]; ok {
		t.Stop()
		delete(r.typingTimers, shipmentID)
	}
}

// onLocationUpdated records a live position and feeds the interpolator.
// Races between a snapshot value and a live push resolve last-write-wins
// by arrival order.
func (r *Reconciler) onLocationUpdated(data json.RawMessage) {
	var p push.LocationUpdatedPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Printf("sync: discarding malformed location update: %v", err)
		return
	}

	r.mu.Lock()
	r.positions[p.ShipmentID] = domain.LivePosition{
		ShipmentID: p.ShipmentID,
		Lat:        p.Lat,
		Lng:        p.Lng,
		ObservedAt: time.Now(),
	}
	r.mu.Unlock()

	if r.interp != nil {
		r.interp.Observe(p.ShipmentID, p.Lat, p.Lng)
	}
}

// onNotification appends to the per-user list and raises an alert.
func (r *Reconciler) onNotification(data json.RawMessage) {
	n, ok := decodeNotification(data)
	if !ok {
		return
	}

	r.mu.Lock()
	r.notifications = appendBounded(r.notifications, n)
	alert := r.alertFn
	r.mu.Unlock()

	if alert != nil {
		alert(n, false)
	}
}

// onAdminNotification appends to the admin-broadcast feed. The two
// lists stay separate.
func (r *Reconciler) onAdminNotification(data json.RawMessage) {
	n, ok := decodeNotification(data)
	if !ok {
		return
	}

	r.mu.Lock()
	r.adminNotifications = appendBounded(r.adminNotifications, n)
	alert := r.alertFn
	r.mu.Unlock()

	if alert != nil {
		alert(n, true)
	}
}

func decodeNotification(data json.RawMessage) (domain.Notification, bool) {
	var p push.NotificationPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Printf("sync: discarding malformed notification: %v", err)
		return domain.Notification{}, false
	}
	return domain.Notification{
		ID:        p.ID,
		UserID:    p.UserID,
		Kind:      domain.NotificationKind(p.Kind),
		Title:     p.Title,
		Message:   p.Message,
		CreatedAt: p.CreatedAt,
	}, true
}
