package models

import "time"

// NotificationType categorises user-facing messages.
type NotificationType string

const (
	NotifyWasteReport   NotificationType = "waste_report"
	NotifyPickupRequest NotificationType = "pickup_request"
	NotifyStatusUpdate  NotificationType = "status_update"
	NotifyPickupStatus  NotificationType = "pickup_status"
	NotifyEducational   NotificationType = "educational"
)

// Notification is an append-only message for a user, created as a side
// effect of workflow transitions. Only is_read may change after creation.
// Listings return newest first.
type Notification struct {
	ID          string           `db:"id" json:"id"`
	UserID      string           `db:"user_id" json:"user_id"`
	Title       string           `db:"title" json:"title"`
	Message     string           `db:"message" json:"message"`
	Type        NotificationType `db:"notification_type" json:"notification_type"`
	IsRead      bool             `db:"is_read" json:"is_read"`
	ReferenceID *string          `db:"reference_id" json:"reference_id,omitempty"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
}
