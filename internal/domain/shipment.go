package domain

import "time"

// ShipmentStatus represents the current status of a shipment.
type ShipmentStatus string

const (
	StatusPendingReview ShipmentStatus = "PENDING_REVIEW"
	StatusScheduled     ShipmentStatus = "SCHEDULED"
	StatusAssigned      ShipmentStatus = "ASSIGNED"
	StatusPickedUp      ShipmentStatus = "PICKED_UP"
	StatusInTransit     ShipmentStatus = "IN_TRANSIT"
	StatusDelivered     ShipmentStatus = "DELIVERED"
	StatusIssueReported ShipmentStatus = "ISSUE_REPORTED"
	StatusCancelled     ShipmentStatus = "CANCELLED"
)

// Terminal reports whether no further transitions are legal from s.
func (s ShipmentStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// AssignmentStatus is the sub-state of a driver's response to a job
// offer. It is meaningful only while a driver is attached.
type AssignmentStatus string

const (
	AssignmentNone     AssignmentStatus = ""
	AssignmentPending  AssignmentStatus = "PENDING"
	AssignmentAccepted AssignmentStatus = "ACCEPTED"
	AssignmentRejected AssignmentStatus = "REJECTED"
)

// Location is an address with coordinates.
type Location struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// Shipment represents a single haulage job from pickup to dropoff.
type Shipment struct {
	ID           string `json:"id"`
	TrackingCode string `json:"tracking_code"`
	ShipperID    string `json:"shipper_id"`

	Pickup  Location `json:"pickup"`
	Dropoff Location `json:"dropoff"`

	Status           ShipmentStatus   `json:"status"`
	DriverID         string           `json:"driver_id,omitempty"`
	AssignmentStatus AssignmentStatus `json:"assignment_status,omitempty"`

	CargoDescription string  `json:"cargo_description"`
	WeightKG         float64 `json:"weight_kg"`
	Instructions     string  `json:"instructions,omitempty"`

	Rating int    `json:"rating,omitempty"` // 1-5 once delivered
	Review string `json:"review,omitempty"`

	AssignedBy      string    `json:"assigned_by,omitempty"`
	AssignmentNotes string    `json:"assignment_notes,omitempty"`
	AssignedAt      time.Time `json:"assigned_at,omitempty"`

	ETAMinutes int `json:"eta_minutes,omitempty"` // 0 = no live ETA

	CreatedAt time.Time `json:"created_at"`
}

// Active reports whether the shipment currently occupies its driver.
func (s *Shipment) Active() bool {
	switch s.Status {
	case StatusAssigned, StatusPickedUp, StatusInTransit:
		return true
	}
	return false
}

// LivePosition is the last observed position for a shipment's active
// driver, keyed by shipment id.
type LivePosition struct {
	ShipmentID string    `json:"shipment_id"`
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	ObservedAt time.Time `json:"observed_at"`
}
