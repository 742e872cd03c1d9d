package domain

import "time"

// ChatMessage is a single message in a shipment-scoped thread.
// ID is assigned by the server and is the deduplication key: the same
// message may arrive both via the bulk history fetch and a live push.
type ChatMessage struct {
	ID         string    `json:"id"`
	ShipmentID string    `json:"shipment_id"`
	SenderID   string    `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Text       string    `json:"text"`
	SentAt     time.Time `json:"sent_at"`

	// IsMe is computed locally against the current identity, never
	// sent by the server.
	IsMe bool `json:"is_me"`
}
