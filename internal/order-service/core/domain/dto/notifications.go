package dto

type NotificationDto struct {
	ID        string `json:"id"`
	Audience  string `json:"audience"`
	Category  string `json:"category"`
	Severity  string `json:"severity"`
	Priority  string `json:"priority"`
	Message   string `json:"message"`
	IsRead    bool   `json:"is_read"`
	OrderID   string `json:"order_id,omitempty"`
	CreatedAt string `json:"created_at"`
}

type NotificationFeedDto struct {
	Notifications []NotificationDto `json:"notifications"`
	UnreadCount   int               `json:"unread_count"`
}
