package model

import "time"

// Totals is the point-in-time aggregate snapshot the dashboard reads.
type Totals struct {
	TotalUsers        int
	TotalSuppliers    int
	TotalBuyers       int
	OrdersToday       int
	TotalOrders       int
	CompletedOrders   int
	PendingReview     int
	ConfirmedThisWeek int
	ResolvedThisWeek  int
}

// Activity is one entry of the recent-activity feed, pre-formatting.
type Activity struct {
	Label      string
	Detail     string
	OccurredAt time.Time
}
