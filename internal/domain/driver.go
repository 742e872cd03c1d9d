package domain

// DriverAvailability represents a driver's availability.
type DriverAvailability string

const (
	DriverOnline  DriverAvailability = "ONLINE"
	DriverOffline DriverAvailability = "OFFLINE"

	// DriverBusy is never stored: it is derived by cross-referencing
	// active shipments assigned to the driver.
	DriverBusy DriverAvailability = "BUSY"
)

// Driver represents a driver in the marketplace.
type Driver struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Phone        string             `json:"phone"`
	Vehicle      string             `json:"vehicle"`
	Availability DriverAvailability `json:"availability"`
	Rating       float64            `json:"rating"`
	TripCount    int                `json:"trip_count"`
}
