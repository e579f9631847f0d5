package ports

import (
	"context"

	"freightflow/internal/order-service/core/domain/dto"
	"freightflow/internal/order-service/core/domain/events"
)

type ITransitionService interface {
	SubmitOrder(ctx context.Context, req dto.SubmitOrderRequestDto) (dto.SubmitOrderResponseDto, error)
	ConfirmOrder(ctx context.Context, orderID, adminNotes string) (dto.ConfirmOrderResponseDto, error)
	RejectOrder(ctx context.Context, orderID, adminNotes string) (dto.RejectOrderResponseDto, error)
	WithdrawOrder(ctx context.Context, orderID, requesterID string) (dto.DeleteResponseDto, error)
	DeleteOrder(ctx context.Context, orderID string) (dto.DeleteResponseDto, error)

	CreateRequest(ctx context.Context, req dto.CreateRequestDto) (dto.RequestResponseDto, error)
	SubmitRequest(ctx context.Context, requestID, buyerID string) (dto.RequestResponseDto, error)
	ConfirmRequest(ctx context.Context, requestID, supplierID, adminNotes string) (dto.ConfirmRequestResponseDto, error)
	RejectRequest(ctx context.Context, requestID, adminNotes string) (dto.RejectRequestResponseDto, error)

	AdvanceConfirmed(ctx context.Context, confirmedID, supplierID, next string) (dto.AdvanceResponseDto, error)
	CancelConfirmed(ctx context.Context, confirmedID, reason string) (dto.AdvanceResponseDto, error)

	DeleteDriver(ctx context.Context, driverID string) (dto.DeleteResponseDto, error)
	DeleteVehicle(ctx context.Context, vehicleID string) (dto.DeleteResponseDto, error)

	// ListSupplierOrders optionally filters by status; an empty status
	// means all of the supplier's orders.
	ListSupplierOrders(ctx context.Context, supplierID, status string) ([]dto.OrderDto, error)
	ListPendingOrders(ctx context.Context) ([]dto.OrderDto, error)
	ListSupplierConfirmed(ctx context.Context, supplierID string) ([]dto.ConfirmedOrderDto, error)
	ListBuyerRequests(ctx context.Context, buyerID string) ([]dto.RequestDto, error)
}

type INotificationService interface {
	OnSubmit(ctx context.Context, ev events.SubmissionEvent) error
	OnTransition(ctx context.Context, ev events.TransitionEvent) error

	Feed(ctx context.Context, audience string) (dto.NotificationFeedDto, error)
	MarkRead(ctx context.Context, notificationID string) error
	MarkAllRead(ctx context.Context, audience string) error
	Clear(ctx context.Context, audience string) error
}

type IMetricsService interface {
	DashboardStats(ctx context.Context) (dto.DashboardStats, error)
}
