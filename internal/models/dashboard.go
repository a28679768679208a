package models

// DashboardStats is the aggregate snapshot shown on the distributor home page.
type DashboardStats struct {
	TotalInvestors int64   `json:"total_investors"`
	KYCPending     int64   `json:"kyc_pending"`
	TotalAUM       float64 `json:"total_aum"`
	RecentAnalyses int64   `json:"recent_analyses"`
}
