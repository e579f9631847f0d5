package ports

import (
	"context"

	"freightflow/internal/order-service/core/domain/events"
)

type INotifyBroker interface {
	PublishNotification(ctx context.Context, ev events.NotificationEvent) error
	IsAlive() bool
	Close() error
}
