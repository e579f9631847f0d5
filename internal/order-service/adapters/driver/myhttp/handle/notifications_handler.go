package handle

import (
	"net/http"

	"freightflow/internal/mylogger"
	"freightflow/internal/order-service/core/ports"

	"github.com/go-chi/chi/v5"
)

type NotificationsHandler struct {
	notificationService ports.INotificationService
	log                 mylogger.Logger
}

func NewNotificationsHandler(ns ports.INotificationService, log mylogger.Logger) *NotificationsHandler {
	return &NotificationsHandler{
		notificationService: ns,
		log:                 log,
	}
}

func (nh *NotificationsHandler) Feed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		audience := r.Header.Get("X-Audience")

		res, err := nh.notificationService.Feed(r.Context(), audience)
		if err != nil {
			respondError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (nh *NotificationsHandler) MarkRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		notificationId := chi.URLParam(r, "notification_id")

		if err := nh.notificationService.MarkRead(r.Context(), notificationId); err != nil {
			respondError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, map[string]bool{"read": true})
	}
}

func (nh *NotificationsHandler) MarkAllRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		audience := r.Header.Get("X-Audience")

		if err := nh.notificationService.MarkAllRead(r.Context(), audience); err != nil {
			respondError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, map[string]bool{"read": true})
	}
}

func (nh *NotificationsHandler) Clear() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		audience := r.Header.Get("X-Audience")

		if err := nh.notificationService.Clear(r.Context(), audience); err != nil {
			respondError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, map[string]bool{"cleared": true})
	}
}
