package dto

type DashboardStats struct {
	Timestamp      string          `json:"timestamp"`
	Totals         TotalsParams    `json:"totals"`
	SuccessRate    SuccessRateDto  `json:"success_rate"`
	RecentActivity []ActivityEntry `json:"recent_activity"`
	Alerts         []AlertEntry    `json:"alerts"`
}

type TotalsParams struct {
	TotalUsers        int `json:"total_users"`
	TotalSuppliers    int `json:"total_suppliers"`
	TotalBuyers       int `json:"total_buyers"`
	OrdersToday       int `json:"orders_today"`
	TotalOrders       int `json:"total_orders"`
	CompletedOrders   int `json:"completed_orders"`
	PendingReview     int `json:"pending_review"`
	ConfirmedThisWeek int `json:"confirmed_this_week"`
	ResolvedThisWeek  int `json:"resolved_this_week"`
}

type SuccessRateDto struct {
	Current       float64 `json:"current"`
	Previous      float64 `json:"previous"`
	Trend         string  `json:"trend"` // up | down | neutral
	PercentChange string  `json:"percent_change"`
	WindowDays    int     `json:"window_days"`
}

type ActivityEntry struct {
	Label      string `json:"label"`
	Detail     string `json:"detail"`
	TimeAgo    string `json:"time_ago"`
	OccurredAt string `json:"occurred_at"`
}

type AlertEntry struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}
