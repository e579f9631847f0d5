package dto

type CreateRequestDto struct {
	BuyerID      *string  `json:"buyer_id"`
	LoadDetails  *string  `json:"load_details"`
	FromState    *string  `json:"from_state"`
	FromDistrict *string  `json:"from_district"`
	FromPlace    *string  `json:"from_place"`
	FromTaluk    *string  `json:"from_taluk,omitempty"`
	ToState      *string  `json:"to_state"`
	ToDistrict   *string  `json:"to_district"`
	ToPlace      *string  `json:"to_place"`
	ToTaluk      *string  `json:"to_taluk,omitempty"`
	Quantity     *float64 `json:"quantity"`
	RequiredDate *string  `json:"required_date"`
}

type RequestResponseDto struct {
	RequestID           string `json:"request_id"`
	OrderNumber         string `json:"order_number"`
	Status              string `json:"status"`
	CreatedAt           string `json:"created_at"`
	NotificationPending bool   `json:"notification_pending,omitempty"`
}

type AssignRequestDto struct {
	SupplierID *string `json:"supplier_id"`
	AdminNotes *string `json:"admin_notes,omitempty"`
}

type ConfirmRequestResponseDto struct {
	RequestID           string            `json:"request_id"`
	OrderNumber         string            `json:"order_number"`
	Status              string            `json:"status"`
	AdminNotes          string            `json:"admin_notes,omitempty"`
	ActionAt            string            `json:"action_at"`
	ConfirmedOrder      ConfirmedOrderDto `json:"confirmed_order"`
	NotificationPending bool              `json:"notification_pending,omitempty"`
}

type RejectRequestResponseDto struct {
	RequestID           string `json:"request_id"`
	OrderNumber         string `json:"order_number"`
	Status              string `json:"status"`
	AdminNotes          string `json:"admin_notes,omitempty"`
	ActionAt            string `json:"action_at"`
	NotificationPending bool   `json:"notification_pending,omitempty"`
}

type RequestDto struct {
	ID           string  `json:"id"`
	OrderNumber  string  `json:"order_number"`
	BuyerID      string  `json:"buyer_id"`
	BuyerName    string  `json:"buyer_name,omitempty"`
	LoadDetails  string  `json:"load_details"`
	FromPlace    string  `json:"from_place"`
	FromDistrict string  `json:"from_district"`
	FromState    string  `json:"from_state"`
	ToPlace      string  `json:"to_place"`
	ToDistrict   string  `json:"to_district"`
	ToState      string  `json:"to_state"`
	Quantity     float64 `json:"quantity"`
	RequiredDate string  `json:"required_date"`
	Status       string  `json:"status"`
	SubmittedAt  string  `json:"submitted_at,omitempty"`
}
