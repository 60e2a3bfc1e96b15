package dto

// CreatePickupRequestRequest is the payload for requesting a collection.
// PickupDate must not be in the past (date-only comparison on the server
// clock) and is validated by the service.
type CreatePickupRequestRequest struct {
	WasteType        string  `json:"waste_type" validate:"required,oneof=plastic organic medical electronic hazardous general other"`
	PickupDate       string  `json:"pickup_date" validate:"required,datetime=2006-01-02"`
	PickupTime       string  `json:"pickup_time" validate:"required"`
	Address          string  `json:"address" validate:"required"`
	Latitude         float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude        float64 `json:"longitude" validate:"min=-180,max=180"`
	Instructions     string  `json:"instructions"`
	QuantityEstimate float64 `json:"quantity_estimate" validate:"required,gt=0"`
}

// UpdatePickupRequestRequest edits an existing pickup request. Status and
// collector changes happen only through the workflow.
type UpdatePickupRequestRequest struct {
	WasteType        *string  `json:"waste_type,omitempty" validate:"omitempty,oneof=plastic organic medical electronic hazardous general other"`
	PickupDate       *string  `json:"pickup_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	PickupTime       *string  `json:"pickup_time,omitempty"`
	Address          *string  `json:"address,omitempty"`
	Latitude         *float64 `json:"latitude,omitempty" validate:"omitempty,min=-90,max=90"`
	Longitude        *float64 `json:"longitude,omitempty" validate:"omitempty,min=-180,max=180"`
	Instructions     *string  `json:"instructions,omitempty"`
	QuantityEstimate *float64 `json:"quantity_estimate,omitempty" validate:"omitempty,gt=0"`
}

// AssignCollectorRequest selects the collector for a pickup request.
type AssignCollectorRequest struct {
	CollectorID string `json:"collector_id" validate:"required"`
}

// PickupAnalyticsResponse reports all-time pickup request aggregates.
// CompletionRate is a raw float here; the user dashboard formats the same
// ratio as a display string. Both representations are part of the contract.
type PickupAnalyticsResponse struct {
	TotalPickups          int            `json:"total_pickups"`
	CompletedPickups      int            `json:"completed_pickups"`
	PendingPickups        int            `json:"pending_pickups"`
	WasteTypeDistribution map[string]int `json:"waste_type_distribution"`
	CompletionRate        float64        `json:"completion_rate"`
}

// CreatePickupRequest schedules collection for an existing waste report.
type CreatePickupRequest struct {
	WasteReportID string `json:"waste_report_id" validate:"required"`
	ScheduledDate string `json:"scheduled_date" validate:"required"`
	Notes         string `json:"notes"`
}

// UpdatePickupRequest amends a scheduled pickup.
type UpdatePickupRequest struct {
	ScheduledDate *string `json:"scheduled_date,omitempty"`
	Status        *string `json:"status,omitempty" validate:"omitempty,oneof=scheduled in_progress completed cancelled"`
	Notes         *string `json:"notes,omitempty"`
}

// WasteCollectorRequest creates or replaces a collector.
type WasteCollectorRequest struct {
	Name          string `json:"name" validate:"required,max=200"`
	VehicleNumber string `json:"vehicle_number" validate:"required,max=50"`
	PhoneNumber   string `json:"phone_number" validate:"required,max=15"`
	Email         string `json:"email" validate:"required,email"`
	IsAvailable   *bool  `json:"is_available,omitempty"`
}

// UpdateLocationRequest reports a collector's current position.
type UpdateLocationRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude *float64 `json:"longitude" validate:"required,min=-180,max=180"`
}
