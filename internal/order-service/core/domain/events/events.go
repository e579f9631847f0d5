package events

import "time"

// TransitionEvent is the structured payload handed from the transition
// engine to the notification dispatcher. Fields are passed directly,
// never parsed back out of a formatted message.
type TransitionEvent struct {
	OrderID       string    `json:"order_id"`
	OrderNumber   string    `json:"order_number"`
	NewStatus     string    `json:"new_status"`
	SupplierID    string    `json:"supplier_id,omitempty"`
	BuyerID       string    `json:"buyer_id,omitempty"`
	DriverID      string    `json:"driver_id,omitempty"`
	VehicleID     string    `json:"vehicle_id,omitempty"`
	AdminNotes    string    `json:"admin_notes,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
	CorrelationID string    `json:"correlation_id"`
}

// SubmissionEvent announces a newly submitted order to the admin feed.
type SubmissionEvent struct {
	OrderID       string    `json:"order_id"`
	OrderNumber   string    `json:"order_number"`
	SupplierID    string    `json:"supplier_id,omitempty"`
	BuyerID       string    `json:"buyer_id,omitempty"`
	SubmitterName string    `json:"submitter_name"`
	Route         string    `json:"route"`
	Load          string    `json:"load,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
	CorrelationID string    `json:"correlation_id"`
}

// NotificationEvent is what goes out on the broker and the websocket
// feed once a notification row has been created.
type NotificationEvent struct {
	NotificationID string    `json:"notification_id"`
	Audience       string    `json:"audience"`
	Category       string    `json:"category"`
	Severity       string    `json:"severity"`
	Priority       string    `json:"priority"`
	Message        string    `json:"message"`
	OrderID        string    `json:"order_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
