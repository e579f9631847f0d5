package ports

import "freightflow/internal/order-service/core/domain/events"

type INotifyWebsocket interface {
	WriteToAudience(audience string, ev events.NotificationEvent)
}
