package push

import (
	"encoding/json"
	"time"
)

// Client -> server events.
const (
	EventJoinShipmentChat  = "join_shipment_chat"
	EventJoinAdminTracking = "join_admin_tracking"
	EventSendMessage       = "send_message"
	EventUpdateLocation    = "update_location"
)

// Server -> client events.
const (
	EventNewMessage            = "new_message"
	EventUserTyping            = "user_typing"
	EventLocationUpdated       = "location_updated"
	EventGlobalLocationUpdated = "global_location_updated"
	EventNewNotification       = "new_notification"
	EventAdminNotification     = "admin_notification"
)

// Envelope is the wire framing for every channel message.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// JoinShipmentChatPayload joins a shipment's chat/tracking room.
// Joining an already-joined room is a server-side no-op.
type JoinShipmentChatPayload struct {
	ShipmentID string `json:"shipment_id"`
}

// SendMessagePayload is a fire-and-forget chat send. The sender's own
// message comes back through the new_message broadcast like everyone
// else's.
type SendMessagePayload struct {
	ShipmentID string `json:"shipment_id"`
	SenderID   string `json:"sender_id"`
	SenderName string `json:"sender_name"`
	Text       string `json:"text"`
}

// UpdateLocationPayload publishes a driver position ping.
type UpdateLocationPayload struct {
	ShipmentID string  `json:"shipment_id"`
	DriverID   string  `json:"driver_id"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
}

// NewMessagePayload is a single live chat message.
type NewMessagePayload struct {
	ID         string    `json:"id"`
	ShipmentID string    `json:"shipment_id"`
	SenderID   string    `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Text       string    `json:"text"`
	SentAt     time.Time `json:"sent_at"`
}

// UserTypingPayload signals the remote party typing state.
type UserTypingPayload struct {
	ShipmentID string `json:"shipment_id"`
	IsTyping   bool   `json:"is_typing"`
}

// LocationUpdatedPayload is a driver position observed for a shipment.
// The same shape serves location_updated and global_location_updated.
type LocationUpdatedPayload struct {
	ShipmentID string  `json:"shipment_id"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
}

// NotificationPayload is a pushed notification, personal or
// admin-broadcast depending on the event type it arrived under.
type NotificationPayload struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
