package dto

import "github.com/wastewise/wastewise-api/internal/models"

// CreateReportRequest is the payload for submitting a waste report.
// Attachments arrive as multipart files alongside this payload.
type CreateReportRequest struct {
	Title       string  `form:"title" json:"title" validate:"required,max=200"`
	Description string  `form:"description" json:"description" validate:"required"`
	WasteType   string  `form:"waste_type" json:"waste_type" validate:"required,oneof=plastic organic electronic hazardous metal glass other"`
	Quantity    float64 `form:"quantity" json:"quantity" validate:"required,gt=0"`
	Latitude    float64 `form:"latitude" json:"latitude" validate:"min=-90,max=90"`
	Longitude   float64 `form:"longitude" json:"longitude" validate:"min=-180,max=180"`
	Address     string  `form:"address" json:"address" validate:"required"`
}

// UpdateReportRequest allows owners to amend report details. Status and
// assignment are workflow-only and deliberately absent.
type UpdateReportRequest struct {
	Title       *string  `json:"title,omitempty" validate:"omitempty,max=200"`
	Description *string  `json:"description,omitempty"`
	WasteType   *string  `json:"waste_type,omitempty" validate:"omitempty,oneof=plastic organic electronic hazardous metal glass other"`
	Quantity    *float64 `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	Latitude    *float64 `json:"latitude,omitempty" validate:"omitempty,min=-90,max=90"`
	Longitude   *float64 `json:"longitude,omitempty" validate:"omitempty,min=-180,max=180"`
	Address     *string  `json:"address,omitempty"`
}

// UploadedFile carries a single declared attachment for classification.
type UploadedFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// AssignTeamRequest selects the cleanup team for a report.
type AssignTeamRequest struct {
	TeamID string `json:"team_id" validate:"required"`
}

// TrackingEvent is one entry in a report's history timeline.
type TrackingEvent struct {
	Date    string `json:"date"`
	Event   string `json:"event"`
	Details string `json:"details"`
}

// TrackingHistoryResponse summarises a report's lifecycle for its owner.
type TrackingHistoryResponse struct {
	Report            *models.WasteReport `json:"report_details"`
	Timeline          []TrackingEvent     `json:"timeline"`
	DaysSinceCreation int                 `json:"days_since_creation"`
	CurrentStatus     models.ReportStatus `json:"current_status"`
	LastUpdated       string              `json:"last_updated"`
}

// ReportAnalyticsResponse groups last-30-day report counts.
type ReportAnalyticsResponse struct {
	WasteTypeDistribution map[string]int `json:"waste_type_distribution"`
	StatusDistribution    map[string]int `json:"status_distribution"`
}

// CleanupTeamRequest creates or replaces a cleanup team.
type CleanupTeamRequest struct {
	Name          string `json:"name" validate:"required,max=200"`
	ContactPerson string `json:"contact_person" validate:"required,max=200"`
	PhoneNumber   string `json:"phone_number" validate:"required,max=15"`
	Email         string `json:"email" validate:"required,email"`
	IsActive      *bool  `json:"is_active,omitempty"`
}
