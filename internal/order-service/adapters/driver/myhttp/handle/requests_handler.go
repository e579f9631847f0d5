package handle

import (
	"encoding/json"
	"net/http"

	"freightflow/internal/mylogger"
	"freightflow/internal/order-service/core/domain/dto"
	"freightflow/internal/order-service/core/ports"

	"github.com/go-chi/chi/v5"
)

type RequestsHandler struct {
	transitionService ports.ITransitionService
	log               mylogger.Logger
}

func NewRequestsHandler(ts ports.ITransitionService, log mylogger.Logger) *RequestsHandler {
	return &RequestsHandler{
		transitionService: ts,
		log:               log,
	}
}

func (rh *RequestsHandler) CreateRequest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := dto.CreateRequestDto{}

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		userId := r.Header.Get("X-UserId")
		req.BuyerID = &userId

		res, err := rh.transitionService.CreateRequest(r.Context(), req)
		if err != nil {
			respondError(w, err)
			return
		}

		jsonResponse(w, http.StatusCreated, res)
	}
}

func (rh *RequestsHandler) SubmitRequest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestId := chi.URLParam(r, "request_id")
		userId := r.Header.Get("X-UserId")

		res, err := rh.transitionService.SubmitRequest(r.Context(), requestId, userId)
		if err != nil {
			respondError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (rh *RequestsHandler) ConfirmRequest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestId := chi.URLParam(r, "request_id")

		req := dto.AssignRequestDto{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		supplierId := ""
		if req.SupplierID != nil {
			supplierId = *req.SupplierID
		}
		adminNotes := ""
		if req.AdminNotes != nil {
			adminNotes = *req.AdminNotes
		}

		res, err := rh.transitionService.ConfirmRequest(r.Context(), requestId, supplierId, adminNotes)
		if err != nil {
			respondError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (rh *RequestsHandler) RejectRequest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestId := chi.URLParam(r, "request_id")

		req := dto.AdminActionRequestDto{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		adminNotes := ""
		if req.AdminNotes != nil {
			adminNotes = *req.AdminNotes
		}

		res, err := rh.transitionService.RejectRequest(r.Context(), requestId, adminNotes)
		if err != nil {
			respondError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (rh *RequestsHandler) ListMyRequests() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userId := r.Header.Get("X-UserId")

		res, err := rh.transitionService.ListBuyerRequests(r.Context(), userId)
		if err != nil {
			respondError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}
