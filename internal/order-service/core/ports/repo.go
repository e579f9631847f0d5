package ports

import (
	"context"
	"time"

	"freightflow/internal/order-service/core/domain/model"
	"freightflow/internal/order-service/core/myerrors"
)

type IDB interface {
	IsAlive() error
	Available() bool
	Close() error
}

type IOrdersRepo interface {
	CreateOrder(ctx context.Context, m model.TransportOrder) (string, error)
	GetOrder(ctx context.Context, orderID string) (model.TransportOrder, error)
	CountOrdersToday(ctx context.Context) (int64, error)

	// Confirm moves a pending order to confirmed and creates its
	// ConfirmedOrder in the same transaction.
	Confirm(ctx context.Context, orderID, adminNotes string, at time.Time) (model.TransportOrder, model.ConfirmedOrder, error)
	Reject(ctx context.Context, orderID, adminNotes string, at time.Time) (model.TransportOrder, error)

	// DeletePending removes an order only while it is still pending.
	DeletePending(ctx context.Context, orderID string) error
	DeleteOrder(ctx context.Context, orderID string) error
	BlockingForOrder(ctx context.Context, orderID string) ([]myerrors.BlockingRef, error)

	ListBySupplier(ctx context.Context, supplierID string) ([]model.TransportOrder, error)
	ListPending(ctx context.Context) ([]model.TransportOrder, error)
}

type IRequestsRepo interface {
	CreateRequest(ctx context.Context, m model.BuyerRequest) (string, error)
	GetRequest(ctx context.Context, requestID string) (model.BuyerRequest, error)
	// Submit moves a draft request to submitted; guarded on the current status.
	Submit(ctx context.Context, requestID string, at time.Time) (model.BuyerRequest, error)

	// Confirm moves a submitted request to confirmed and creates its
	// ConfirmedOrder in the same transaction. The ConfirmedOrder's
	// order_id back-references the request.
	Confirm(ctx context.Context, requestID, supplierID, adminNotes string, at time.Time) (model.BuyerRequest, model.ConfirmedOrder, error)
	Reject(ctx context.Context, requestID, adminNotes string, at time.Time) (model.BuyerRequest, error)

	UpdateStatus(ctx context.Context, requestID, from, to string) error
	ListByBuyer(ctx context.Context, buyerID string) ([]model.BuyerRequest, error)
}

type IConfirmedRepo interface {
	GetConfirmed(ctx context.Context, confirmedID string) (model.ConfirmedOrder, error)
	// UpdateStatus applies a guarded move; zero rows means the record is
	// gone or no longer in the expected state.
	UpdateStatus(ctx context.Context, confirmedID, from, to string, at time.Time) (model.ConfirmedOrder, error)
	ListBySupplier(ctx context.Context, supplierID string) ([]model.ConfirmedOrder, error)
}

type IReferenceRepo interface {
	SupplierExists(ctx context.Context, supplierID string) (bool, error)
	SupplierName(ctx context.Context, supplierID string) (string, error)
	BuyerExists(ctx context.Context, buyerID string) (bool, error)
	BuyerName(ctx context.Context, buyerID string) (string, error)
	DriverExists(ctx context.Context, driverID string) (bool, error)
	DriverName(ctx context.Context, driverID string) (string, error)
	VehicleExists(ctx context.Context, vehicleID string) (bool, error)

	BlockingForDriver(ctx context.Context, driverID string) ([]myerrors.BlockingRef, error)
	BlockingForVehicle(ctx context.Context, vehicleID string) ([]myerrors.BlockingRef, error)
	DeleteDriver(ctx context.Context, driverID string) error
	DeleteVehicle(ctx context.Context, vehicleID string) error
}

type INotificationsRepo interface {
	// Insert creates at most one row per event key. The bool reports
	// whether a new row was actually created.
	Insert(ctx context.Context, n model.Notification) (string, bool, error)
	List(ctx context.Context, audience string) ([]model.Notification, error)
	UnreadCount(ctx context.Context, audience string) (int, error)
	MarkRead(ctx context.Context, notificationID string) error
	MarkAllRead(ctx context.Context, audience string) error
	Clear(ctx context.Context, audience string) error
}

type IMetricsRepo interface {
	GetTotals(ctx context.Context, weekStart time.Time) (model.Totals, error)
	// WindowCounts returns total and confirmed order counts for [from, to).
	WindowCounts(ctx context.Context, from, to time.Time) (int, int, error)
	RecentEvents(ctx context.Context, limit int) ([]model.Activity, error)
}
