package services

import (
	"context"
	"time"

	"freightflow/internal/order-service/core/domain/dto"
	"freightflow/internal/order-service/core/domain/model"
	"freightflow/internal/order-service/core/myerrors"
)

// Read-side listings used by the feeds and review queues. Display names
// are resolved best-effort; a missing reference never fails the listing.

func (ts *TransitionService) ListSupplierOrders(ctx context.Context, supplierID, status string) ([]dto.OrderDto, error) {
	if status != "" && !model.IsTransportOrderStatus(status) {
		return nil, myerrors.Validationf("unknown status %q", status)
	}

	callCtx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	orders, err := ts.ordersRepo.ListBySupplier(callCtx, supplierID)
	if err != nil {
		return nil, err
	}
	if status != "" {
		filtered := orders[:0]
		for _, o := range orders {
			if o.Status == status {
				filtered = append(filtered, o)
			}
		}
		orders = filtered
	}
	return ts.toOrderDtos(callCtx, orders), nil
}

func (ts *TransitionService) ListPendingOrders(ctx context.Context) ([]dto.OrderDto, error) {
	callCtx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	orders, err := ts.ordersRepo.ListPending(callCtx)
	if err != nil {
		return nil, err
	}
	return ts.toOrderDtos(callCtx, orders), nil
}

func (ts *TransitionService) ListSupplierConfirmed(ctx context.Context, supplierID string) ([]dto.ConfirmedOrderDto, error) {
	callCtx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	confirmed, err := ts.confRepo.ListBySupplier(callCtx, supplierID)
	if err != nil {
		return nil, err
	}

	res := make([]dto.ConfirmedOrderDto, 0, len(confirmed))
	for _, c := range confirmed {
		res = append(res, dto.ConfirmedOrderDto{
			ID:         c.ID,
			OrderID:    c.OrderID,
			SupplierID: c.SupplierID,
			DriverID:   c.DriverID,
			VehicleID:  c.VehicleID,
			Status:     c.Status,
			CreatedAt:  c.CreatedAt.Format(time.RFC3339),
		})
	}
	return res, nil
}

func (ts *TransitionService) ListBuyerRequests(ctx context.Context, buyerID string) ([]dto.RequestDto, error) {
	callCtx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	requests, err := ts.reqRepo.ListByBuyer(callCtx, buyerID)
	if err != nil {
		return nil, err
	}

	res := make([]dto.RequestDto, 0, len(requests))
	for _, r := range requests {
		d := dto.RequestDto{
			ID:           r.ID,
			OrderNumber:  r.OrderNumber,
			BuyerID:      r.BuyerID,
			LoadDetails:  r.LoadDetails,
			FromPlace:    r.FromPlace,
			FromDistrict: r.FromDistrict,
			FromState:    r.FromState,
			ToPlace:      r.ToPlace,
			ToDistrict:   r.ToDistrict,
			ToState:      r.ToState,
			Quantity:     r.Quantity,
			RequiredDate: r.RequiredDate.Format("2006-01-02"),
			Status:       r.Status,
		}
		if !r.SubmittedAt.IsZero() {
			d.SubmittedAt = r.SubmittedAt.Format(time.RFC3339)
		}
		res = append(res, d)
	}
	return res, nil
}

func (ts *TransitionService) toOrderDtos(ctx context.Context, orders []model.TransportOrder) []dto.OrderDto {
	res := make([]dto.OrderDto, 0, len(orders))
	for _, o := range orders {
		d := dto.OrderDto{
			ID:            o.ID,
			OrderNumber:   o.OrderNumber,
			SupplierID:    o.SupplierID,
			State:         o.State,
			District:      o.District,
			Place:         o.Place,
			Taluk:         o.Taluk,
			VehicleNumber: o.VehicleNumber,
			BodyType:      o.BodyType,
			DriverID:      o.DriverID,
			Status:        o.Status,
			AdminNotes:    o.AdminNotes,
			SubmittedAt:   o.SubmittedAt.Format(time.RFC3339),
		}
		if name, err := ts.refRepo.SupplierName(ctx, o.SupplierID); err == nil {
			d.SupplierName = name
		}
		if o.DriverID != "" {
			if name, err := ts.refRepo.DriverName(ctx, o.DriverID); err == nil {
				d.DriverName = name
			}
		}
		res = append(res, d)
	}
	return res
}
