package model

import "time"

// TransportOrder statuses
const (
	OrderPending   = "pending"
	OrderConfirmed = "confirmed"
	OrderRejected  = "rejected"
)

// BuyerRequest statuses
const (
	RequestDraft     = "draft"
	RequestSubmitted = "submitted"
	RequestPending   = "pending"
	RequestAssigned  = "assigned"
	RequestConfirmed = "confirmed"
	RequestPickedUp  = "picked_up"
	RequestInTransit = "in_transit"
	RequestDelivered = "delivered"
	RequestCancelled = "cancelled"
	RequestRejected  = "rejected"
)

// TransportOrder is a supplier's declaration of vehicle availability
// awaiting admin confirmation.
type TransportOrder struct {
	ID            string // uuid
	OrderNumber   string
	SupplierID    string // uuid
	State         string
	District      string
	Place         string
	Taluk         string
	VehicleNumber string
	BodyType      string
	DriverID      string // uuid, optional
	Status        string
	AdminNotes    string
	CreatedAt     time.Time
	SubmittedAt   time.Time
	AdminActionAt time.Time
}

// BuyerRequest is a buyer's declared transport need. It moves through a
// longer lifecycle than a TransportOrder.
type BuyerRequest struct {
	ID            string // uuid
	OrderNumber   string
	BuyerID       string // uuid
	LoadDetails   string
	FromState     string
	FromDistrict  string
	FromPlace     string
	FromTaluk     string
	ToState       string
	ToDistrict    string
	ToPlace       string
	ToTaluk       string
	Quantity      float64
	RequiredDate  time.Time
	Status        string
	AdminNotes    string
	CreatedAt     time.Time
	SubmittedAt   time.Time
	AdminActionAt time.Time
}

var transportOrderStatuses = map[string]bool{
	OrderPending:   true,
	OrderConfirmed: true,
	OrderRejected:  true,
}

var buyerRequestStatuses = map[string]bool{
	RequestDraft:     true,
	RequestSubmitted: true,
	RequestPending:   true,
	RequestAssigned:  true,
	RequestConfirmed: true,
	RequestPickedUp:  true,
	RequestInTransit: true,
	RequestDelivered: true,
	RequestCancelled: true,
	RequestRejected:  true,
}

func IsTransportOrderStatus(s string) bool {
	return transportOrderStatuses[s]
}

func IsBuyerRequestStatus(s string) bool {
	return buyerRequestStatuses[s]
}
