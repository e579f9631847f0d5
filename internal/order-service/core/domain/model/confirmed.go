package model

import "time"

// ConfirmedOrder statuses
const (
	ConfirmedAssigned  = "assigned"
	ConfirmedPickedUp  = "picked_up"
	ConfirmedInTransit = "in_transit"
	ConfirmedDelivered = "delivered"
	ConfirmedCancelled = "cancelled"
)

// ConfirmedOrder is the execution record created exactly once when an
// order is confirmed. It tracks physical fulfillment.
type ConfirmedOrder struct {
	ID              string // uuid
	OrderID         string // uuid, originating TransportOrder or BuyerRequest
	SupplierID      string // uuid
	DriverID        string // uuid, optional
	VehicleID       string // uuid, optional
	Status          string
	PlannedPickup   time.Time
	PlannedDelivery time.Time
	ActualPickup    time.Time
	ActualDelivery  time.Time
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

var confirmedOrderStatuses = map[string]bool{
	ConfirmedAssigned:  true,
	ConfirmedPickedUp:  true,
	ConfirmedInTransit: true,
	ConfirmedDelivered: true,
	ConfirmedCancelled: true,
}

func IsConfirmedOrderStatus(s string) bool {
	return confirmedOrderStatuses[s]
}

// IsTerminalConfirmedStatus reports whether no further moves are allowed.
func IsTerminalConfirmedStatus(s string) bool {
	return s == ConfirmedDelivered || s == ConfirmedCancelled
}
