package services

import (
	"context"
	"fmt"
	"time"

	"freightflow/internal/mylogger"
	"freightflow/internal/order-service/core/domain/dto"
	"freightflow/internal/order-service/core/domain/events"
	"freightflow/internal/order-service/core/domain/model"
	"freightflow/internal/order-service/core/myerrors"
	"freightflow/internal/order-service/core/ports"

	"github.com/google/uuid"
)

const repoTimeout = 15 * time.Second

// TransitionService is the single authority for moving an order between
// states and for the side effects that accompany each move.
type TransitionService struct {
	mylog      mylogger.Logger
	ordersRepo ports.IOrdersRepo
	reqRepo    ports.IRequestsRepo
	confRepo   ports.IConfirmedRepo
	refRepo    ports.IReferenceRepo
	dispatcher ports.INotificationService
	now        func() time.Time
}

func NewTransitionService(
	log mylogger.Logger,
	ordersRepo ports.IOrdersRepo,
	reqRepo ports.IRequestsRepo,
	confRepo ports.IConfirmedRepo,
	refRepo ports.IReferenceRepo,
	dispatcher ports.INotificationService,
) ports.ITransitionService {
	return &TransitionService{
		mylog:      log,
		ordersRepo: ordersRepo,
		reqRepo:    reqRepo,
		confRepo:   confRepo,
		refRepo:    refRepo,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

func (ts *TransitionService) SubmitOrder(ctx context.Context, req dto.SubmitOrderRequestDto) (dto.SubmitOrderResponseDto, error) {
	log := ts.mylog.Action("SubmitOrder")

	if err := validateSubmitOrder(req); err != nil {
		return dto.SubmitOrderResponseDto{}, err
	}

	callCtx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	exists, err := ts.refRepo.SupplierExists(callCtx, *req.SupplierID)
	if err != nil {
		log.Error("cannot look up supplier", err)
		return dto.SubmitOrderResponseDto{}, err
	}
	if !exists {
		return dto.SubmitOrderResponseDto{}, myerrors.NotFoundf("supplier %s not found", *req.SupplierID)
	}

	if req.DriverID != nil && *req.DriverID != "" {
		ok, err := ts.refRepo.DriverExists(callCtx, *req.DriverID)
		if err != nil {
			log.Error("cannot look up driver", err)
			return dto.SubmitOrderResponseDto{}, err
		}
		if !ok {
			return dto.SubmitOrderResponseDto{}, myerrors.NotFoundf("driver %s not found", *req.DriverID)
		}
	}

	count, err := ts.ordersRepo.CountOrdersToday(callCtx)
	if err != nil {
		log.Error("cannot count today's orders", err)
		return dto.SubmitOrderResponseDto{}, err
	}

	now := ts.now()
	m := model.TransportOrder{
		OrderNumber:   orderNumber(now, count+1),
		SupplierID:    *req.SupplierID,
		State:         *req.State,
		District:      *req.District,
		Place:         *req.Place,
		VehicleNumber: *req.VehicleNumber,
		BodyType:      *req.BodyType,
		Status:        model.OrderPending,
		SubmittedAt:   now,
	}
	if req.Taluk != nil {
		m.Taluk = *req.Taluk
	}
	if req.DriverID != nil {
		m.DriverID = *req.DriverID
	}

	orderID, err := ts.ordersRepo.CreateOrder(callCtx, m)
	if err != nil {
		log.Error("cannot create order", err)
		return dto.SubmitOrderResponseDto{}, err
	}
	log.Info("order submitted", "order_id", orderID, "order_number", m.OrderNumber, "supplier_id", m.SupplierID)

	supplierName, err := ts.refRepo.SupplierName(callCtx, m.SupplierID)
	if err != nil {
		supplierName = m.SupplierID
	}

	res := dto.SubmitOrderResponseDto{
		OrderID:     orderID,
		OrderNumber: m.OrderNumber,
		Status:      model.OrderPending,
		SubmittedAt: now.Format(time.RFC3339),
	}

	ev := events.SubmissionEvent{
		OrderID:       orderID,
		OrderNumber:   m.OrderNumber,
		SupplierID:    m.SupplierID,
		SubmitterName: supplierName,
		Route:         fmt.Sprintf("%s, %s, %s", m.Place, m.District, m.State),
		OccurredAt:    now,
		CorrelationID: uuid.NewString(),
	}
	if err := ts.dispatcher.OnSubmit(ctx, ev); err != nil {
		// best-effort, the order itself is already persisted
		log.Warn("submission notification not delivered", "order_id", orderID, "err", err.Error())
		res.NotificationPending = true
	}

	return res, nil
}

// ConfirmOrder moves a pending order to confirmed. The status update and
// the ConfirmedOrder insert are one transaction in the repo; a transient
// failure is surfaced rather than retried, since a retry could mask a
// partially applied confirmation.
func (ts *TransitionService) ConfirmOrder(ctx context.Context, orderID, adminNotes string) (dto.ConfirmOrderResponseDto, error) {
	log := ts.mylog.Action("ConfirmOrder")

	if orderID == "" {
		return dto.ConfirmOrderResponseDto{}, myerrors.Validationf("order id is required")
	}

	callCtx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	now := ts.now()
	order, confirmed, err := ts.ordersRepo.Confirm(callCtx, orderID, adminNotes, now)
	if err != nil {
		log.Error("cannot confirm order", err, "order_id", orderID)
		return dto.ConfirmOrderResponseDto{}, err
	}
	log.Info("order confirmed", "order_id", orderID, "confirmed_id", confirmed.ID)

	res := dto.ConfirmOrderResponseDto{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		AdminNotes:  order.AdminNotes,
		ActionAt:    order.AdminActionAt.Format(time.RFC3339),
		ConfirmedOrder: dto.ConfirmedOrderDto{
			ID:         confirmed.ID,
			OrderID:    confirmed.OrderID,
			SupplierID: confirmed.SupplierID,
			DriverID:   confirmed.DriverID,
			Status:     confirmed.Status,
			CreatedAt:  confirmed.CreatedAt.Format(time.RFC3339),
		},
	}

	ev := events.TransitionEvent{
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		NewStatus:     model.OrderConfirmed,
		SupplierID:    order.SupplierID,
		DriverID:      order.DriverID,
		AdminNotes:    adminNotes,
		OccurredAt:    now,
		CorrelationID: uuid.NewString(),
	}
	if err := ts.dispatcher.OnTransition(ctx, ev); err != nil {
		log.Warn("confirm notification not delivered", "order_id", orderID, "err", err.Error())
		res.NotificationPending = true
	}

	return res, nil
}

func (ts *TransitionService) RejectOrder(ctx context.Context, orderID, adminNotes string) (dto.RejectOrderResponseDto, error) {
	log := ts.mylog.Action("RejectOrder")

	if orderID == "" {
		return dto.RejectOrderResponseDto{}, myerrors.Validationf("order id is required")
	}

	callCtx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	now := ts.now()
	order, err := ts.ordersRepo.Reject(callCtx, orderID, adminNotes, now)
	if err != nil {
		log.Error("cannot reject order", err, "order_id", orderID)
		return dto.RejectOrderResponseDto{}, err
	}
	log.Info("order rejected", "order_id", orderID)

	res := dto.RejectOrderResponseDto{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		AdminNotes:  order.AdminNotes,
		ActionAt:    order.AdminActionAt.Format(time.RFC3339),
	}

	ev := events.TransitionEvent{
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		NewStatus:     model.OrderRejected,
		SupplierID:    order.SupplierID,
		AdminNotes:    adminNotes,
		OccurredAt:    now,
		CorrelationID: uuid.NewString(),
	}
	if err := ts.dispatcher.OnTransition(ctx, ev); err != nil {
		log.Warn("reject notification not delivered", "order_id", orderID, "err", err.Error())
		res.NotificationPending = true
	}

	return res, nil
}

// WithdrawOrder lets the owning supplier delete an order while it is
// still pending. No downstream records exist at that point.
func (ts *TransitionService) WithdrawOrder(ctx context.Context, orderID, requesterID string) (dto.DeleteResponseDto, error) {
	log := ts.mylog.Action("WithdrawOrder")

	callCtx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	order, err := ts.ordersRepo.GetOrder(callCtx, orderID)
	if err != nil {
		return dto.DeleteResponseDto{}, err
	}
	if requesterID != "" && order.SupplierID != requesterID {
		// not the owner; do not reveal the order exists
		return dto.DeleteResponseDto{}, myerrors.NotFoundf("order %s not found", orderID)
	}
	if order.Status != model.OrderPending {
		return dto.DeleteResponseDto{}, myerrors.InvalidStatef("order %s is %s, only pending orders can be withdrawn", orderID, order.Status)
	}

	if err := ts.ordersRepo.DeletePending(callCtx, orderID); err != nil {
		log.Error("cannot withdraw order", err, "order_id", orderID)
		return dto.DeleteResponseDto{}, err
	}
	log.Info("order withdrawn", "order_id", orderID)

	return dto.DeleteResponseDto{ID: orderID, Deleted: true}, nil
}

// DeleteOrder is the admin path. Live ConfirmedOrders block the delete
// and are reported back; transient storage errors are retried.
func (ts *TransitionService) DeleteOrder(ctx context.Context, orderID string) (dto.DeleteResponseDto, error) {
	log := ts.mylog.Action("DeleteOrder")

	callCtx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	refs, err := ts.ordersRepo.BlockingForOrder(callCtx, orderID)
	if err != nil {
		return dto.DeleteResponseDto{}, err
	}
	if len(refs) > 0 {
		return dto.DeleteResponseDto{}, myerrors.Conflict(fmt.Sprintf("order %s has active fulfillment records", orderID), refs)
	}

	err = withRetry(ctx, maxDeleteAttempts, func() error {
		delCtx, cancel := context.WithTimeout(ctx, repoTimeout)
		defer cancel()
		return ts.ordersRepo.DeleteOrder(delCtx, orderID)
	})
	if err != nil {
		log.Error("cannot delete order", err, "order_id", orderID)
		return dto.DeleteResponseDto{}, err
	}
	log.Info("order deleted", "order_id", orderID)

	return dto.DeleteResponseDto{ID: orderID, Deleted: true}, nil
}

func (ts *TransitionService) CreateRequest(ctx context.Context, req dto.CreateRequestDto) (dto.RequestResponseDto, error) {
	log := ts.mylog.Action("CreateRequest")

	if err := validateCreateRequest(req); err != nil {
		return dto.RequestResponseDto{}, err
	}

	callCtx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	exists, err := ts.refRepo.BuyerExists(callCtx, *req.BuyerID)
	if err != nil {
		log.Error("cannot look up buyer", err)
		return dto.RequestResponseDto{}, err
	}
	if !exists {
		return dto.RequestResponseDto{}, myerrors.NotFoundf("buyer %s not found", *req.BuyerID)
	}

	requiredDate, err := time.Parse("2006-01-02", *req.RequiredDate)
	if err != nil {
		return dto.RequestResponseDto{}, myerrors.Validationf("required_date must be YYYY-MM-DD")
	}

	count, err := ts.ordersRepo.CountOrdersToday(callCtx)
	if err != nil {
		log.Error("cannot count today's orders", err)
		return dto.RequestResponseDto{}, err
	}

	now := ts.now()
	m := model.BuyerRequest{
		OrderNumber:  orderNumber(now, count+1),
		BuyerID:      *req.BuyerID,
		LoadDetails:  *req.LoadDetails,
		FromState:    *req.FromState,
		FromDistrict: *req.FromDistrict,
		FromPlace:    *req.FromPlace,
		ToState:      *req.ToState,
		ToDistrict:   *req.ToDistrict,
		ToPlace:      *req.ToPlace,
		Quantity:     *req.Quantity,
		RequiredDate: requiredDate,
		Status:       model.RequestDraft,
		CreatedAt:    now,
	}
	if req.FromTaluk != nil {
		m.FromTaluk = *req.FromTaluk
	}
	if req.ToTaluk != nil {
		m.ToTaluk = *req.ToTaluk
	}

	requestID, err := ts.reqRepo.CreateRequest(callCtx, m)
	if err != nil {
		log.Error("cannot create request", err)
		return dto.RequestResponseDto{}, err
	}
	log.Info("buyer request created", "request_id", requestID, "buyer_id", m.BuyerID)

	return dto.RequestResponseDto{
		RequestID:   requestID,
		OrderNumber: m.OrderNumber,
		Status:      model.RequestDraft,
		CreatedAt:   now.Format(time.RFC3339),
	}, nil
}

// SubmitRequest advances a draft to submitted and announces it on the
// admin feed.
func (ts *TransitionService) SubmitRequest(ctx context.Context, requestID, buyerID string) (dto.RequestResponseDto, error) {
	log := ts.mylog.Action("SubmitRequest")

	callCtx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	current, err := ts.reqRepo.GetRequest(callCtx, requestID)
	if err != nil {
		return dto.RequestResponseDto{}, err
	}
	if buyerID != "" && current.BuyerID != buyerID {
		return dto.RequestResponseDto{}, myerrors.NotFoundf("request %s not found", requestID)
	}

	now := ts.now()
	request, err := ts.reqRepo.Submit(callCtx, requestID, now)
	if err != nil {
		log.Error("cannot submit request", err, "request_id", requestID)
		return dto.RequestResponseDto{}, err
	}
	log.Info("buyer request submitted", "request_id", requestID)

	buyerName, err := ts.refRepo.BuyerName(callCtx, request.BuyerID)
	if err != nil {
		buyerName = request.BuyerID
	}

	res := dto.RequestResponseDto{
		RequestID:   request.ID,
		OrderNumber: request.OrderNumber,
		Status:      request.Status,
		CreatedAt:   request.CreatedAt.Format(time.RFC3339),
	}

	ev := events.SubmissionEvent{
		OrderID:       request.ID,
		OrderNumber:   request.OrderNumber,
		BuyerID:       request.BuyerID,
		SubmitterName: buyerName,
		Route:         fmt.Sprintf("%s, %s -> %s, %s", request.FromPlace, request.FromState, request.ToPlace, request.ToState),
		Load:          request.LoadDetails,
		OccurredAt:    now,
		CorrelationID: uuid.NewString(),
	}
	if err := ts.dispatcher.OnSubmit(ctx, ev); err != nil {
		log.Warn("request notification not delivered", "request_id", requestID, "err", err.Error())
		res.NotificationPending = true
	}

	return res, nil
}

// ConfirmRequest is the admin accepting a submitted buyer request and
// assigning it to a supplier. The status move and the fulfillment
// record creation are one transaction in the repo, and the record
// back-references the request so later fulfillment moves can be
// mirrored onto it.
func (ts *TransitionService) ConfirmRequest(ctx context.Context, requestID, supplierID, adminNotes string) (dto.ConfirmRequestResponseDto, error) {
	log := ts.mylog.Action("ConfirmRequest")

	if requestID == "" {
		return dto.ConfirmRequestResponseDto{}, myerrors.Validationf("request id is required")
	}
	if supplierID == "" {
		return dto.ConfirmRequestResponseDto{}, myerrors.Validationf("supplier_id is required")
	}

	callCtx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	exists, err := ts.refRepo.SupplierExists(callCtx, supplierID)
	if err != nil {
		log.Error("cannot look up supplier", err)
		return dto.ConfirmRequestResponseDto{}, err
	}
	if !exists {
		return dto.ConfirmRequestResponseDto{}, myerrors.NotFoundf("supplier %s not found", supplierID)
	}

	now := ts.now()
	request, confirmed, err := ts.reqRepo.Confirm(callCtx, requestID, supplierID, adminNotes, now)
	if err != nil {
		log.Error("cannot confirm request", err, "request_id", requestID)
		return dto.ConfirmRequestResponseDto{}, err
	}
	log.Info("buyer request confirmed", "request_id", requestID, "confirmed_id", confirmed.ID, "supplier_id", supplierID)

	res := dto.ConfirmRequestResponseDto{
		RequestID:   request.ID,
		OrderNumber: request.OrderNumber,
		Status:      request.Status,
		AdminNotes:  request.AdminNotes,
		ActionAt:    request.AdminActionAt.Format(time.RFC3339),
		ConfirmedOrder: dto.ConfirmedOrderDto{
			ID:         confirmed.ID,
			OrderID:    confirmed.OrderID,
			SupplierID: confirmed.SupplierID,
			Status:     confirmed.Status,
			CreatedAt:  confirmed.CreatedAt.Format(time.RFC3339),
		},
	}

	ev := events.TransitionEvent{
		OrderID:       request.ID,
		OrderNumber:   request.OrderNumber,
		NewStatus:     model.RequestConfirmed,
		SupplierID:    supplierID,
		BuyerID:       request.BuyerID,
		AdminNotes:    adminNotes,
		OccurredAt:    now,
		CorrelationID: uuid.NewString(),
	}
	if err := ts.dispatcher.OnTransition(ctx, ev); err != nil {
		log.Warn("confirm notification not delivered", "request_id", requestID, "err", err.Error())
		res.NotificationPending = true
	}

	return res, nil
}

func (ts *TransitionService) RejectRequest(ctx context.Context, requestID, adminNotes string) (dto.RejectRequestResponseDto, error) {
	log := ts.mylog.Action("RejectRequest")

	if requestID == "" {
		return dto.RejectRequestResponseDto{}, myerrors.Validationf("request id is required")
	}

	callCtx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	now := ts.now()
	request, err := ts.reqRepo.Reject(callCtx, requestID, adminNotes, now)
	if err != nil {
		log.Error("cannot reject request", err, "request_id", requestID)
		return dto.RejectRequestResponseDto{}, err
	}
	log.Info("buyer request rejected", "request_id", requestID)

	res := dto.RejectRequestResponseDto{
		RequestID:   request.ID,
		OrderNumber: request.OrderNumber,
		Status:      request.Status,
		AdminNotes:  request.AdminNotes,
		ActionAt:    request.AdminActionAt.Format(time.RFC3339),
	}

	ev := events.TransitionEvent{
		OrderID:       request.ID,
		OrderNumber:   request.OrderNumber,
		NewStatus:     model.RequestRejected,
		BuyerID:       request.BuyerID,
		AdminNotes:    adminNotes,
		OccurredAt:    now,
		CorrelationID: uuid.NewString(),
	}
	if err := ts.dispatcher.OnTransition(ctx, ev); err != nil {
		log.Warn("reject notification not delivered", "request_id", requestID, "err", err.Error())
		res.NotificationPending = true
	}

	return res, nil
}

// AdvanceConfirmed applies the supplier's fulfillment moves:
// assigned -> picked_up -> in_transit -> delivered.
func (ts *TransitionService) AdvanceConfirmed(ctx context.Context, confirmedID, supplierID, next string) (dto.AdvanceResponseDto, error) {
	log := ts.mylog.Action("AdvanceConfirmed")

	if !model.IsConfirmedOrderStatus(next) {
		return dto.AdvanceResponseDto{}, myerrors.Validationf("unknown status %q", next)
	}

	callCtx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	current, err := ts.confRepo.GetConfirmed(callCtx, confirmedID)
	if err != nil {
		return dto.AdvanceResponseDto{}, err
	}
	if supplierID != "" && current.SupplierID != supplierID {
		return dto.AdvanceResponseDto{}, myerrors.NotFoundf("confirmed order %s not found", confirmedID)
	}
	if !canAdvance(current.Status, next) {
		return dto.AdvanceResponseDto{}, myerrors.InvalidStatef("cannot move confirmed order from %s to %s", current.Status, next)
	}

	now := ts.now()
	updated, err := ts.confRepo.UpdateStatus(callCtx, confirmedID, current.Status, next, now)
	if err != nil {
		log.Error("cannot advance confirmed order", err, "confirmed_id", confirmedID)
		return dto.AdvanceResponseDto{}, err
	}
	log.Info("confirmed order advanced", "confirmed_id", confirmedID, "status", next)

	buyerID := ts.propagateToRequest(callCtx, updated.OrderID, next)

	res := dto.AdvanceResponseDto{
		ID:        updated.ID,
		OrderID:   updated.OrderID,
		Status:    updated.Status,
		UpdatedAt: updated.UpdatedAt.Format(time.RFC3339),
	}

	ev := events.TransitionEvent{
		OrderID:       updated.OrderID,
		NewStatus:     next,
		SupplierID:    updated.SupplierID,
		BuyerID:       buyerID,
		DriverID:      updated.DriverID,
		VehicleID:     updated.VehicleID,
		OccurredAt:    now,
		CorrelationID: uuid.NewString(),
	}
	if err := ts.dispatcher.OnTransition(ctx, ev); err != nil {
		log.Warn("advance notification not delivered", "confirmed_id", confirmedID, "err", err.Error())
		res.NotificationPending = true
	}

	return res, nil
}

func (ts *TransitionService) CancelConfirmed(ctx context.Context, confirmedID, reason string) (dto.AdvanceResponseDto, error) {
	log := ts.mylog.Action("CancelConfirmed")

	callCtx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	current, err := ts.confRepo.GetConfirmed(callCtx, confirmedID)
	if err != nil {
		return dto.AdvanceResponseDto{}, err
	}
	if !canCancelConfirmed(current.Status) {
		return dto.AdvanceResponseDto{}, myerrors.InvalidStatef("confirmed order %s is already %s", confirmedID, current.Status)
	}

	now := ts.now()
	updated, err := ts.confRepo.UpdateStatus(callCtx, confirmedID, current.Status, model.ConfirmedCancelled, now)
	if err != nil {
		log.Error("cannot cancel confirmed order", err, "confirmed_id", confirmedID)
		return dto.AdvanceResponseDto{}, err
	}
	log.Info("confirmed order cancelled", "confirmed_id", confirmedID, "reason", reason)

	buyerID := ts.propagateToRequest(callCtx, updated.OrderID, model.ConfirmedCancelled)

	res := dto.AdvanceResponseDto{
		ID:        updated.ID,
		OrderID:   updated.OrderID,
		Status:    updated.Status,
		UpdatedAt: updated.UpdatedAt.Format(time.RFC3339),
	}

	ev := events.TransitionEvent{
		OrderID:       updated.OrderID,
		NewStatus:     model.ConfirmedCancelled,
		SupplierID:    updated.SupplierID,
		BuyerID:       buyerID,
		AdminNotes:    reason,
		OccurredAt:    now,
		CorrelationID: uuid.NewString(),
	}
	if err := ts.dispatcher.OnTransition(ctx, ev); err != nil {
		log.Warn("cancel notification not delivered", "confirmed_id", confirmedID, "err", err.Error())
		res.NotificationPending = true
	}

	return res, nil
}

// propagateToRequest mirrors a fulfillment move onto the buyer request
// the record was created for, when there is one. Records that fulfill
// supplier transport orders have no matching request and are skipped.
// Returns the buyer id so the move can be announced to them too.
func (ts *TransitionService) propagateToRequest(ctx context.Context, orderID, next string) string {
	if !model.IsBuyerRequestStatus(next) {
		return ""
	}

	request, err := ts.reqRepo.GetRequest(ctx, orderID)
	if err != nil {
		return ""
	}
	if request.Status == next {
		return request.BuyerID
	}
	if err := ts.reqRepo.UpdateStatus(ctx, orderID, request.Status, next); err != nil {
		ts.mylog.Action("PropagateRequestStatus").Warn("request status not mirrored", "request_id", orderID, "err", err.Error())
	}
	return request.BuyerID
}

// DeleteDriver refuses while the driver is referenced by a live
// fulfillment record or a pending order, and reports every blocker.
func (ts *TransitionService) DeleteDriver(ctx context.Context, driverID string) (dto.DeleteResponseDto, error) {
	return ts.deleteReference(ctx, driverID, "driver",
		ts.refRepo.DriverExists, ts.refRepo.BlockingForDriver, ts.refRepo.DeleteDriver)
}

func (ts *TransitionService) DeleteVehicle(ctx context.Context, vehicleID string) (dto.DeleteResponseDto, error) {
	return ts.deleteReference(ctx, vehicleID, "vehicle",
		ts.refRepo.VehicleExists, ts.refRepo.BlockingForVehicle, ts.refRepo.DeleteVehicle)
}

func (ts *TransitionService) deleteReference(
	ctx context.Context,
	id, kind string,
	exists func(context.Context, string) (bool, error),
	blocking func(context.Context, string) ([]myerrors.BlockingRef, error),
	del func(context.Context, string) error,
) (dto.DeleteResponseDto, error) {
	log := ts.mylog.Action("DeleteReference").With("kind", kind, "id", id)

	callCtx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	ok, err := exists(callCtx, id)
	if err != nil {
		return dto.DeleteResponseDto{}, err
	}
	if !ok {
		return dto.DeleteResponseDto{}, myerrors.NotFoundf("%s %s not found", kind, id)
	}

	refs, err := blocking(callCtx, id)
	if err != nil {
		return dto.DeleteResponseDto{}, err
	}
	if len(refs) > 0 {
		return dto.DeleteResponseDto{}, myerrors.Conflict(fmt.Sprintf("%s %s is referenced by active records", kind, id), refs)
	}

	err = withRetry(ctx, maxDeleteAttempts, func() error {
		delCtx, cancel := context.WithTimeout(ctx, repoTimeout)
		defer cancel()
		return del(delCtx, id)
	})
	if err != nil {
		log.Error("cannot delete", err)
		return dto.DeleteResponseDto{}, err
	}
	log.Info("deleted")

	return dto.DeleteResponseDto{ID: id, Deleted: true}, nil
}

func orderNumber(now time.Time, seq int64) string {
	return fmt.Sprintf("ORD_%s_%03d", now.Format("20060102"), seq)
}
