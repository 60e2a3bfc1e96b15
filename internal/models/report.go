package models

import "time"

// WasteType classifies reported or collected waste.
type WasteType string

const (
	WastePlastic    WasteType = "plastic"
	WasteOrganic    WasteType = "organic"
	WasteElectronic WasteType = "electronic"
	WasteHazardous  WasteType = "hazardous"
	WasteMetal      WasteType = "metal"
	WasteGlass      WasteType = "glass"
	WasteMedical    WasteType = "medical"
	WasteGeneral    WasteType = "general"
	WasteOther      WasteType = "other"
)

// ReportWasteTypes are the values accepted on waste reports.
var ReportWasteTypes = []WasteType{
	WastePlastic, WasteOrganic, WasteElectronic, WasteHazardous,
	WasteMetal, WasteGlass, WasteOther,
}

// ReportStatus tracks the lifecycle of a waste report.
type ReportStatus string

const (
	ReportPending    ReportStatus = "pending"
	ReportReviewed   ReportStatus = "reviewed"
	ReportInProgress ReportStatus = "in_progress"
	ReportResolved   ReportStatus = "resolved"
	ReportCancelled  ReportStatus = "cancelled"
)

// WasteReport is a user-submitted record of waste needing cleanup.
// The status field is mutated only through the workflow operations;
// assigned_team is populated when the report moves to in_progress.
type WasteReport struct {
	ID             string       `db:"id" json:"id"`
	UserID         string       `db:"user_id" json:"user_id"`
	Title          string       `db:"title" json:"title"`
	Description    string       `db:"description" json:"description"`
	WasteType      WasteType    `db:"waste_type" json:"waste_type"`
	Quantity       float64      `db:"quantity" json:"quantity"`
	Latitude       float64      `db:"latitude" json:"latitude"`
	Longitude      float64      `db:"longitude" json:"longitude"`
	Address        string       `db:"address" json:"address"`
	Status         ReportStatus `db:"status" json:"status"`
	AssignedTeamID *string      `db:"assigned_team_id" json:"assigned_team_id,omitempty"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at" json:"updated_at"`

	Media []WasteReportMedia `db:"-" json:"media,omitempty"`
}

// MediaType distinguishes stored attachment kinds.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// WasteReportMedia is an attachment owned by exactly one report and removed
// with it.
type WasteReportMedia struct {
	ID         string    `db:"id" json:"id"`
	ReportID   string    `db:"report_id" json:"report_id"`
	MediaType  MediaType `db:"media_type" json:"media_type"`
	FilePath   string    `db:"file_path" json:"-"`
	UploadedAt time.Time `db:"uploaded_at" json:"uploaded_at"`
}

// CleanupTeam is a staff-managed entity assignable to waste reports.
type CleanupTeam struct {
	ID            string `db:"id" json:"id"`
	Name          string `db:"name" json:"name"`
	ContactPerson string `db:"contact_person" json:"contact_person"`
	PhoneNumber   string `db:"phone_number" json:"phone_number"`
	Email         string `db:"email" json:"email"`
	IsActive      bool   `db:"is_active" json:"is_active"`
}

// ReportFilter scopes waste report listings.
type ReportFilter struct {
	UserID    string
	Status    ReportStatus
	WasteType WasteType
	Page      int
	PageSize  int
}

// StatusCount is a grouped count keyed by a status or type value.
type StatusCount struct {
	Key   string `db:"key" json:"key"`
	Count int    `db:"count" json:"count"`
}
