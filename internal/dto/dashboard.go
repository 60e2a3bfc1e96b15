package dto

import "github.com/wastewise/wastewise-api/internal/models"

// UserInfoSection identifies the dashboard owner.
type UserInfoSection struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
}

// ReportsSummarySection aggregates the user's reports.
type ReportsSummarySection struct {
	TotalReports  int                  `json:"total_reports"`
	ByStatus      map[string]int       `json:"reports_by_status"`
	ByType        map[string]int       `json:"reports_by_type"`
	RecentReports []models.WasteReport `json:"recent_reports"`
}

// MonthlyStatistics covers the trailing 30 days of report activity.
type MonthlyStatistics struct {
	TotalReports   int    `json:"total_reports"`
	ResolutionRate string `json:"resolution_rate"`
}

// StatusBreakdown counts reports in workflow states. AttentionNeeded counts
// reports pending for more than 7 days.
type StatusBreakdown struct {
	Pending         int `json:"pending"`
	InProgress      int `json:"in_progress"`
	Resolved        int `json:"resolved"`
	AttentionNeeded int `json:"attention_needed"`
}

// TrackingTimeline summarises report activity windows.
type TrackingTimeline struct {
	Last30Days       int `json:"last_30_days"`
	PendingOver7Days int `json:"pending_over_7_days"`
}

// WasteTrackingSection gathers derived report metrics.
type WasteTrackingSection struct {
	MonthlyStatistics MonthlyStatistics    `json:"monthly_statistics"`
	StatusBreakdown   StatusBreakdown      `json:"status_breakdown"`
	RecentUpdates     []models.WasteReport `json:"recent_updates"`
	Timeline          TrackingTimeline     `json:"timeline"`
}

// PickupStatistics aggregates the user's pickup requests. CompletionRate is
// the display-string form of completed/total; the analytics endpoint exposes
// the numeric form.
type PickupStatistics struct {
	TotalPickups     int    `json:"total_pickups"`
	CompletedPickups int    `json:"completed_pickups"`
	PendingPickups   int    `json:"pending_pickups"`
	CompletionRate   string `json:"completion_rate"`
}

// PickupsSummarySection lists upcoming and past pickup requests.
type PickupsSummarySection struct {
	UpcomingPickups []models.PickupRequest `json:"upcoming_pickups"`
	PastPickups     []models.PickupRequest `json:"past_pickups"`
	Statistics      PickupStatistics       `json:"statistics"`
}

// NotificationsSection carries the latest notifications and unread state.
type NotificationsSection struct {
	Recent      []models.Notification `json:"recent"`
	UnreadCount int                   `json:"unread_count"`
	ByType      map[string]int        `json:"by_type"`
	HasNew      bool                  `json:"has_new"`
}

// UserDashboardResponse is the self-service dashboard payload.
type UserDashboardResponse struct {
	UserInfo       UserInfoSection       `json:"user_info"`
	ReportsSummary ReportsSummarySection `json:"reports_summary"`
	WasteTracking  WasteTrackingSection  `json:"waste_tracking"`
	PickupsSummary PickupsSummarySection `json:"pickups_summary"`
	Notifications  NotificationsSection  `json:"notifications"`
}

// AdminDashboardResponse is the global operations summary.
type AdminDashboardResponse struct {
	TotalReports   int                  `json:"total_reports"`
	PendingPickups int                  `json:"pending_pickups"`
	ActiveUsers    int                  `json:"active_users"`
	RecentReports  []models.WasteReport `json:"recent_reports"`
}

// AdminStatsResponse backs the admin statistics screen.
type AdminStatsResponse struct {
	TotalUsers           int               `json:"total_users"`
	TotalWasteReports    int               `json:"total_waste_reports"`
	TotalPickups         int               `json:"total_pickups"`
	RecentUsers          []models.UserInfo `json:"recent_users"`
	WasteReportsByStatus map[string]int    `json:"waste_reports_by_status"`
	PickupsByStatus      map[string]int    `json:"pickups_by_status"`
}
