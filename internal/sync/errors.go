package sync

import "errors"

var (
	// ErrNoSession is returned when an action requires an identity.
	ErrNoSession = errors.New("no active session")

	// ErrShipmentNotFound is returned when the shipment is not in the
	// local collection.
	ErrShipmentNotFound = errors.New("shipment not found")

	// ErrEmptyMessage is returned for a chat send with no text.
	ErrEmptyMessage = errors.New("empty chat message")

	// ErrNotDelivered is returned when rating a shipment that has not
	// been delivered.
	ErrNotDelivered = errors.New("shipment not delivered")

	// ErrInvalidRating is returned for a rating outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)
