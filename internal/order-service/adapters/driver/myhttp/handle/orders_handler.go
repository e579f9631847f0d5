package handle

import (
	"encoding/json"
	"net/http"

	"freightflow/internal/mylogger"
	"freightflow/internal/order-service/core/domain/dto"
	"freightflow/internal/order-service/core/ports"

	"github.com/go-chi/chi/v5"
)

type OrdersHandler struct {
	transitionService ports.ITransitionService
	log               mylogger.Logger
}

func NewOrdersHandler(ts ports.ITransitionService, log mylogger.Logger) *OrdersHandler {
	return &OrdersHandler{
		transitionService: ts,
		log:               log,
	}
}

func (oh *OrdersHandler) SubmitOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := dto.SubmitOrderRequestDto{}

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		// Suppliers only ever submit on their own behalf.
		userId := r.Header.Get("X-UserId")
		req.SupplierID = &userId

		res, err := oh.transitionService.SubmitOrder(r.Context(), req)
		if err != nil {
			respondError(w, err)
			return
		}

		jsonResponse(w, http.StatusCreated, res)
	}
}

func (oh *OrdersHandler) ConfirmOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderId := chi.URLParam(r, "order_id")

		req := dto.AdminActionRequestDto{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		notes := ""
		if req.AdminNotes != nil {
			notes = *req.AdminNotes
		}

		res, err := oh.transitionService.ConfirmOrder(r.Context(), orderId, notes)
		if err != nil {
			respondError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (oh *OrdersHandler) RejectOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderId := chi.URLParam(r, "order_id")

		req := dto.AdminActionRequestDto{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		notes := ""
		if req.AdminNotes != nil {
			notes = *req.AdminNotes
		}

		res, err := oh.transitionService.RejectOrder(r.Context(), orderId, notes)
		if err != nil {
			respondError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

// WithdrawOrder handles a supplier retracting their own pending order.
func (oh *OrdersHandler) WithdrawOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderId := chi.URLParam(r, "order_id")
		userId := r.Header.Get("X-UserId")

		res, err := oh.transitionService.WithdrawOrder(r.Context(), orderId, userId)
		if err != nil {
			respondError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (oh *OrdersHandler) DeleteOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderId := chi.URLParam(r, "order_id")

		res, err := oh.transitionService.DeleteOrder(r.Context(), orderId)
		if err != nil {
			respondError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (oh *OrdersHandler) ListMyOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userId := r.Header.Get("X-UserId")
		status := r.URL.Query().Get("status")

		res, err := oh.transitionService.ListSupplierOrders(r.Context(), userId, status)
		if err != nil {
			respondError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (oh *OrdersHandler) ListPendingOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := oh.transitionService.ListPendingOrders(r.Context())
		if err != nil {
			respondError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (oh *OrdersHandler) ListMyConfirmed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userId := r.Header.Get("X-UserId")

		res, err := oh.transitionService.ListSupplierConfirmed(r.Context(), userId)
		if err != nil {
			respondError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (oh *OrdersHandler) AdvanceConfirmed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		confirmedId := chi.URLParam(r, "confirmed_id")
		userId := r.Header.Get("X-UserId")

		req := dto.AdvanceRequestDto{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		next := ""
		if req.Status != nil {
			next = *req.Status
		}

		res, err := oh.transitionService.AdvanceConfirmed(r.Context(), confirmedId, userId, next)
		if err != nil {
			respondError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (oh *OrdersHandler) CancelConfirmed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		confirmedId := chi.URLParam(r, "confirmed_id")

		req := dto.CancelRequestDto{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		reason := ""
		if req.Reason != nil {
			reason = *req.Reason
		}

		res, err := oh.transitionService.CancelConfirmed(r.Context(), confirmedId, reason)
		if err != nil {
			respondError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (oh *OrdersHandler) DeleteDriver() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		driverId := chi.URLParam(r, "driver_id")

		res, err := oh.transitionService.DeleteDriver(r.Context(), driverId)
		if err != nil {
			respondError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (oh *OrdersHandler) DeleteVehicle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vehicleId := chi.URLParam(r, "vehicle_id")

		res, err := oh.transitionService.DeleteVehicle(r.Context(), vehicleId)
		if err != nil {
			respondError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}
