package domain

// DashboardStats is the user-facing summary shown on the dashboard. A
// failed fetch keeps the zero value; stats are never load-bearing for
// other views.
type DashboardStats struct {
	TotalPredictions  int `json:"total_predictions"`
	TotalBookmarks    int `json:"total_bookmarks"`
	RecentPredictions int `json:"recent_predictions"`
}
