package domain

import "time"

// NotificationKind classifies a notification.
type NotificationKind string

const (
	NotificationShipment   NotificationKind = "SHIPMENT_UPDATE"
	NotificationAssignment NotificationKind = "ASSIGNMENT"
	NotificationChat       NotificationKind = "CHAT"
	NotificationSystem     NotificationKind = "SYSTEM"
)

// Notification is a user-scoped or admin-broadcast alert. The two
// audiences arrive on independent channels and are never unioned.
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id,omitempty"` // empty for admin broadcasts
	Kind      NotificationKind `json:"kind"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}
