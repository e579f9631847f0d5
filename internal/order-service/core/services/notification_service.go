package services

import (
	"context"
	"fmt"
	"time"

	"freightflow/internal/mylogger"
	"freightflow/internal/order-service/core/domain/dto"
	"freightflow/internal/order-service/core/domain/events"
	"freightflow/internal/order-service/core/domain/model"
	"freightflow/internal/order-service/core/ports"
)

// NotificationService fans a single domain event out to one or more
// audience-scoped feeds. Persisting the row is the source of truth;
// broker and websocket delivery are best-effort on top of it.
type NotificationService struct {
	mylog  mylogger.Logger
	repo   ports.INotificationsRepo
	broker ports.INotifyBroker
	ws     ports.INotifyWebsocket
	now    func() time.Time
}

func NewNotificationService(
	log mylogger.Logger,
	repo ports.INotificationsRepo,
	broker ports.INotifyBroker,
	ws ports.INotifyWebsocket,
) ports.INotificationService {
	return &NotificationService{
		mylog:  log,
		repo:   repo,
		broker: broker,
		ws:     ws,
		now:    time.Now,
	}
}

// OnSubmit puts one info entry on the admin feed summarizing the new
// order: route, load, submitter.
func (ns *NotificationService) OnSubmit(ctx context.Context, ev events.SubmissionEvent) error {
	log := ns.mylog.Action("OnSubmit")

	msg := fmt.Sprintf("New order %s from %s (%s)", ev.OrderNumber, ev.SubmitterName, ev.Route)
	if ev.Load != "" {
		msg = fmt.Sprintf("%s, load: %s", msg, ev.Load)
	}

	n := model.Notification{
		Audience:  model.AudienceAdmin,
		Category:  "order_submitted",
		Severity:  model.NotifyInfo,
		Priority:  model.PriorityMedium,
		Message:   msg,
		OrderID:   ev.OrderID,
		EventKey:  model.EventKey(ev.OrderID, "submitted", model.AudienceAdmin),
		CreatedAt: ns.now(),
	}

	callCtx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	id, created, err := ns.repo.Insert(callCtx, n)
	if err != nil {
		log.Error("cannot persist notification", err, "order_id", ev.OrderID)
		return err
	}
	if !created {
		// re-delivered event, the feed already has this entry
		log.Debug("duplicate submission event ignored", "order_id", ev.OrderID)
		return nil
	}
	n.ID = id

	ns.deliver(ctx, n)
	return nil
}

// OnTransition notifies the owning supplier and/or buyer. One row per
// audience per event; retried events dedupe on the event key.
func (ns *NotificationService) OnTransition(ctx context.Context, ev events.TransitionEvent) error {
	log := ns.mylog.Action("OnTransition")

	severity, priority := severityFor(ev.NewStatus)

	var audiences []string
	if ev.SupplierID != "" {
		audiences = append(audiences, model.SupplierAudience(ev.SupplierID))
	}
	if ev.BuyerID != "" {
		audiences = append(audiences, model.BuyerAudience(ev.BuyerID))
	}
	if len(audiences) == 0 {
		return nil
	}

	callCtx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	for _, audience := range audiences {
		n := model.Notification{
			Audience:  audience,
			Category:  "order_" + ev.NewStatus,
			Severity:  severity,
			Priority:  priority,
			Message:   transitionMessage(ev),
			OrderID:   ev.OrderID,
			DriverID:  ev.DriverID,
			VehicleID: ev.VehicleID,
			EventKey:  model.EventKey(ev.OrderID, ev.NewStatus, audience),
			CreatedAt: ns.now(),
		}

		id, created, err := ns.repo.Insert(callCtx, n)
		if err != nil {
			log.Error("cannot persist notification", err, "order_id", ev.OrderID, "audience", audience)
			return err
		}
		if !created {
			log.Debug("duplicate transition event ignored", "order_id", ev.OrderID, "audience", audience)
			continue
		}
		n.ID = id

		ns.deliver(ctx, n)
	}

	return nil
}

// deliver pushes an already-persisted notification to the broker and any
// connected websocket clients. Failures are logged only.
func (ns *NotificationService) deliver(ctx context.Context, n model.Notification) {
	log := ns.mylog.Action("deliver")

	ev := events.NotificationEvent{
		NotificationID: n.ID,
		Audience:       n.Audience,
		Category:       n.Category,
		Severity:       n.Severity,
		Priority:       n.Priority,
		Message:        n.Message,
		OrderID:        n.OrderID,
		CreatedAt:      n.CreatedAt,
	}

	if ns.broker != nil {
		if err := ns.broker.PublishNotification(ctx, ev); err != nil {
			log.Warn("broker publish failed", "notification_id", n.ID, "err", err.Error())
		}
	}
	if ns.ws != nil {
		ns.ws.WriteToAudience(n.Audience, ev)
	}
}

func (ns *NotificationService) Feed(ctx context.Context, audience string) (dto.NotificationFeedDto, error) {
	callCtx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	list, err := ns.repo.List(callCtx, audience)
	if err != nil {
		return dto.NotificationFeedDto{}, err
	}
	unread, err := ns.repo.UnreadCount(callCtx, audience)
	if err != nil {
		return dto.NotificationFeedDto{}, err
	}

	feed := dto.NotificationFeedDto{
		Notifications: make([]dto.NotificationDto, 0, len(list)),
		UnreadCount:   unread,
	}
	for _, n := range list {
		feed.Notifications = append(feed.Notifications, dto.NotificationDto{
			ID:        n.ID,
			Audience:  n.Audience,
			Category:  n.Category,
			Severity:  n.Severity,
			Priority:  n.Priority,
			Message:   n.Message,
			IsRead:    n.IsRead,
			OrderID:   n.OrderID,
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
		})
	}
	return feed, nil
}

func (ns *NotificationService) MarkRead(ctx context.Context, notificationID string) error {
	callCtx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()
	return ns.repo.MarkRead(callCtx, notificationID)
}

func (ns *NotificationService) MarkAllRead(ctx context.Context, audience string) error {
	callCtx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()
	return ns.repo.MarkAllRead(callCtx, audience)
}

func (ns *NotificationService) Clear(ctx context.Context, audience string) error {
	callCtx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()
	return ns.repo.Clear(callCtx, audience)
}

// severityFor derives feed severity and priority from the new status.
// Confirm and reject are the admin decisions, so they go out high.
func severityFor(status string) (string, string) {
	switch status {
	case model.OrderConfirmed:
		return model.NotifySuccess, model.PriorityHigh
	case model.OrderRejected:
		return model.NotifyError, model.PriorityHigh
	case model.OrderPending, model.ConfirmedAssigned:
		return model.NotifyInfo, model.PriorityMedium
	case model.ConfirmedCancelled:
		return model.NotifyWarning, model.PriorityMedium
	default:
		return model.NotifyInfo, model.PriorityMedium
	}
}

func transitionMessage(ev events.TransitionEvent) string {
	label := ev.OrderNumber
	if label == "" {
		label = ev.OrderID
	}
	msg := fmt.Sprintf("Order %s is now %s", label, ev.NewStatus)
	if ev.AdminNotes != "" {
		msg = fmt.Sprintf("%s: %s", msg, ev.AdminNotes)
	}
	return msg
}
