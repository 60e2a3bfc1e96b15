package models

import "time"

// PickupStatus tracks the scheduling entity tied to a waste report.
type PickupStatus string

const (
	PickupScheduled  PickupStatus = "scheduled"
	PickupInProgress PickupStatus = "in_progress"
	PickupCompleted  PickupStatus = "completed"
	PickupCancelled  PickupStatus = "cancelled"
)

// Pickup schedules collection for an existing waste report.
type Pickup struct {
	ID            string       `db:"id" json:"id"`
	WasteReportID string       `db:"waste_report_id" json:"waste_report_id"`
	ScheduledDate time.Time    `db:"scheduled_date" json:"scheduled_date"`
	Status        PickupStatus `db:"status" json:"status"`
	Notes         string       `db:"notes" json:"notes"`
	CreatedAt     time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at" json:"updated_at"`
}

// PickupRequestStatus tracks the lifecycle of a user pickup request.
type PickupRequestStatus string

const (
	RequestPending    PickupRequestStatus = "pending"
	RequestScheduled  PickupRequestStatus = "scheduled"
	RequestInProgress PickupRequestStatus = "in_progress"
	RequestCompleted  PickupRequestStatus = "completed"
	RequestCancelled  PickupRequestStatus = "cancelled"
)

// RequestWasteTypes are the values accepted on pickup requests.
var RequestWasteTypes = []WasteType{
	WastePlastic, WasteOrganic, WasteMedical, WasteElectronic,
	WasteHazardous, WasteGeneral, WasteOther,
}

// PickupRequest is a user-submitted request for scheduled waste collection.
// collector_id is populated when the request moves to scheduled.
type PickupRequest struct {
	ID               string              `db:"id" json:"id"`
	UserID           string              `db:"user_id" json:"user_id"`
	WasteType        WasteType           `db:"waste_type" json:"waste_type"`
	PickupDate       time.Time           `db:"pickup_date" json:"pickup_date"`
	PickupTime       string              `db:"pickup_time" json:"pickup_time"`
	Address          string              `db:"address" json:"address"`
	Latitude         float64             `db:"latitude" json:"latitude"`
	Longitude        float64             `db:"longitude" json:"longitude"`
	Instructions     string              `db:"instructions" json:"instructions"`
	QuantityEstimate float64             `db:"quantity_estimate" json:"quantity_estimate"`
	Status           PickupRequestStatus `db:"status" json:"status"`
	CollectorID      *string             `db:"collector_id" json:"collector_id,omitempty"`
	CreatedAt        time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time           `db:"updated_at" json:"updated_at"`
}

// WasteCollector is a staff-managed entity assignable to pickup requests.
type WasteCollector struct {
	ID            string    `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	VehicleNumber string    `db:"vehicle_number" json:"vehicle_number"`
	PhoneNumber   string    `db:"phone_number" json:"phone_number"`
	Email         string    `db:"email" json:"email"`
	IsAvailable   bool      `db:"is_available" json:"is_available"`
	CurrentLat    *float64  `db:"current_lat" json:"current_location_lat,omitempty"`
	CurrentLng    *float64  `db:"current_lng" json:"current_location_lng,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// PickupRequestFilter scopes pickup request listings. Status/date/type
// filters apply to staff listings only.
type PickupRequestFilter struct {
	UserID    string
	Status    PickupRequestStatus
	WasteType WasteType
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      int
	PageSize  int
}
