package domain

// Role represents the role of a user in the marketplace.
type Role string

const (
	RoleShipper Role = "SHIPPER"
	RoleDriver  Role = "DRIVER"
	RoleAdmin   Role = "ADMIN"
)

// User is an authenticated identity.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Role  Role   `json:"role"`
}

// SavedLocation is a user-saved address for quick shipment creation.
type SavedLocation struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Location Location `json:"location"`
}

// Settings are per-user preferences.
type Settings struct {
	NotifyByEmail bool   `json:"notify_by_email"`
	NotifyBySMS   bool   `json:"notify_by_sms"`
	DistanceUnit  string `json:"distance_unit"` // "km" or "mi"
}
