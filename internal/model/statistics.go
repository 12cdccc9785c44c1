package model

// StatsBucket is one set of duty-session reductions.
type StatsBucket struct {
	TotalUsers         int     `json:"total_users"`
	TotalActiveUsers   int     `json:"total_active_users"`
	TotalHours         float64 `json:"total_hours"`
	AverageSessionTime float64 `json:"average_session_time"`
}

// Statistics is the dashboard-facing aggregate: global reductions plus
// today / this-week / per-department slices of the same reductions.
type Statistics struct {
	StatsBucket
	TodayStats      StatsBucket            `json:"today_stats"`
	WeeklyStats     StatsBucket            `json:"weekly_stats"`
	DepartmentStats map[string]StatsBucket `json:"department_stats"`
}

// UserStatistics summarizes one staff member's completed shifts.
type UserStatistics struct {
	TodayHours   float64 `json:"today_hours"`
	WeeklyHours  float64 `json:"weekly_hours"`
	TotalHours   float64 `json:"total_hours"`
	SessionCount int     `json:"session_count"`
}
