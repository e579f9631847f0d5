package dto

// SubmitOrderRequestDto carries a supplier's vehicle availability
// declaration. Pointers distinguish missing fields from empty ones.
type SubmitOrderRequestDto struct {
	SupplierID    *string `json:"supplier_id"`
	State         *string `json:"state"`
	District      *string `json:"district"`
	Place         *string `json:"place"`
	Taluk         *string `json:"taluk"`
	VehicleNumber *string `json:"vehicle_number"`
	BodyType      *string `json:"body_type"`
	DriverID      *string `json:"driver_id,omitempty"`
}

type SubmitOrderResponseDto struct {
	OrderID             string `json:"order_id"`
	OrderNumber         string `json:"order_number"`
	Status              string `json:"status"`
	SubmittedAt         string `json:"submitted_at"`
	NotificationPending bool   `json:"notification_pending,omitempty"`
}

type AdminActionRequestDto struct {
	AdminNotes *string `json:"admin_notes"`
}

type ConfirmOrderResponseDto struct {
	OrderID             string            `json:"order_id"`
	OrderNumber         string            `json:"order_number"`
	Status              string            `json:"status"`
	AdminNotes          string            `json:"admin_notes"`
	ActionAt            string            `json:"action_at"`
	ConfirmedOrder      ConfirmedOrderDto `json:"confirmed_order"`
	NotificationPending bool              `json:"notification_pending,omitempty"`
}

type RejectOrderResponseDto struct {
	OrderID             string `json:"order_id"`
	OrderNumber         string `json:"order_number"`
	Status              string `json:"status"`
	AdminNotes          string `json:"admin_notes"`
	ActionAt            string `json:"action_at"`
	NotificationPending bool   `json:"notification_pending,omitempty"`
}

type ConfirmedOrderDto struct {
	ID         string `json:"id"`
	OrderID    string `json:"order_id"`
	SupplierID string `json:"supplier_id"`
	DriverID   string `json:"driver_id,omitempty"`
	VehicleID  string `json:"vehicle_id,omitempty"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
}

type AdvanceRequestDto struct {
	Status *string `json:"status"`
}

type AdvanceResponseDto struct {
	ID                  string `json:"id"`
	OrderID             string `json:"order_id"`
	Status              string `json:"status"`
	UpdatedAt           string `json:"updated_at"`
	NotificationPending bool   `json:"notification_pending,omitempty"`
}

type CancelRequestDto struct {
	Reason *string `json:"reason"`
}

type DeleteResponseDto struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

type OrderDto struct {
	ID            string `json:"id"`
	OrderNumber   string `json:"order_number"`
	SupplierID    string `json:"supplier_id"`
	SupplierName  string `json:"supplier_name,omitempty"`
	State         string `json:"state"`
	District      string `json:"district"`
	Place         string `json:"place"`
	Taluk         string `json:"taluk,omitempty"`
	VehicleNumber string `json:"vehicle_number"`
	BodyType      string `json:"body_type"`
	DriverID      string `json:"driver_id,omitempty"`
	DriverName    string `json:"driver_name,omitempty"`
	Status        string `json:"status"`
	AdminNotes    string `json:"admin_notes,omitempty"`
	SubmittedAt   string `json:"submitted_at"`
}
