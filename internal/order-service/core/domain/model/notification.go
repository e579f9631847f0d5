package model

import (
	"fmt"
	"time"
)

// Notification severities
const (
	NotifyInfo    = "info"
	NotifySuccess = "success"
	NotifyWarning = "warning"
	NotifyError   = "error"
)

// Notification priorities
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Audience scopes
const (
	AudienceAdmin = "admin"
)

func SupplierAudience(supplierID string) string {
	return fmt.Sprintf("supplier:%s", supplierID)
}

func BuyerAudience(buyerID string) string {
	return fmt.Sprintf("buyer:%s", buyerID)
}

// Notification is a single feed entry for one audience scope. Rows are
// created only by the dispatcher and mutated only to flip IsRead.
type Notification struct {
	ID        string // uuid
	Audience  string // admin | supplier:<id> | buyer:<id>
	Category  string
	Severity  string
	Priority  string
	Message   string
	IsRead    bool
	OrderID   string // optional correlation
	DriverID  string // optional correlation
	VehicleID string // optional correlation
	EventKey  string // (order id, status, audience) composite, dedupes retries
	CreatedAt time.Time
}

// EventKey builds the idempotency key for one dispatch to one audience.
func EventKey(orderID, status, audience string) string {
	return fmt.Sprintf("%s:%s:%s", orderID, status, audience)
}
