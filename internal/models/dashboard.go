package models

// DashboardStats aggregates headline counts for the landing page.
type DashboardStats struct {
	Courses          int `json:"courses"`
	Programs         int `json:"programs"`
	PendingPrograms  int `json:"pendingPrograms"`
	ApprovedPrograms int `json:"approvedPrograms"`
}
