package services

import (
	"context"
	"testing"
	"time"

	"freightflow/internal/order-service/core/domain/events"
	"freightflow/internal/order-service/core/domain/model"
	"freightflow/internal/order-service/core/myerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notificationFixture struct {
	svc    *NotificationService
	repo   *fakeNotificationsRepo
	broker *fakeBroker
	ws     *fakeWebsocket
}

func newNotificationFixture(t *testing.T) *notificationFixture {
	t.Helper()

	repo := newFakeNotificationsRepo()
	broker := &fakeBroker{}
	ws := newFakeWebsocket()

	svc := NewNotificationService(testLogger(t), repo, broker, ws).(*NotificationService)
	svc.now = func() time.Time { return testNow }

	return &notificationFixture{svc: svc, repo: repo, broker: broker, ws: ws}
}

func confirmedEvent(orderID string) events.TransitionEvent {
	return events.TransitionEvent{
		OrderID:       orderID,
		OrderNumber:   "ORD_20250607_001",
		NewStatus:     model.OrderConfirmed,
		SupplierID:    "sup-1",
		OccurredAt:    testNow,
		CorrelationID: "corr-1",
	}
}

func TestOnSubmitGoesToAdminFeed(t *testing.T) {
	fx := newNotificationFixture(t)

	err := fx.svc.OnSubmit(context.Background(), events.SubmissionEvent{
		OrderID:       "order-1",
		OrderNumber:   "ORD_20250607_001",
		SupplierID:    "sup-1",
		SubmitterName: "Acme Logistics",
		Route:         "Whitefield, Bangalore, Karnataka",
		OccurredAt:    testNow,
	})
	require.NoError(t, err)

	require.Len(t, fx.repo.rows, 1)
	n := fx.repo.rows[0]
	assert.Equal(t, model.AudienceAdmin, n.Audience)
	assert.Equal(t, "order_submitted", n.Category)
	assert.Equal(t, model.NotifyInfo, n.Severity)
	assert.Contains(t, n.Message, "ORD_20250607_001")
	assert.Contains(t, n.Message, "Acme Logistics")

	require.Len(t, fx.broker.published, 1)
	assert.Len(t, fx.ws.writes[model.AudienceAdmin], 1)
}

func TestOnSubmitIsIdempotent(t *testing.T) {
	fx := newNotificationFixture(t)

	ev := events.SubmissionEvent{OrderID: "order-1", OrderNumber: "ORD_20250607_001", SubmitterName: "Acme"}
	require.NoError(t, fx.svc.OnSubmit(context.Background(), ev))
	require.NoError(t, fx.svc.OnSubmit(context.Background(), ev))

	// the second delivery dedupes on the event key, nothing goes out twice
	assert.Len(t, fx.repo.rows, 1)
	assert.Len(t, fx.broker.published, 1)
	assert.Len(t, fx.ws.writes[model.AudienceAdmin], 1)
}

func TestOnTransitionNotifiesSupplier(t *testing.T) {
	fx := newNotificationFixture(t)

	err := fx.svc.OnTransition(context.Background(), confirmedEvent("order-1"))
	require.NoError(t, err)

	require.Len(t, fx.repo.rows, 1)
	n := fx.repo.rows[0]
	assert.Equal(t, model.SupplierAudience("sup-1"), n.Audience)
	assert.Equal(t, "order_confirmed", n.Category)
	assert.Equal(t, model.NotifySuccess, n.Severity)
	assert.Equal(t, model.PriorityHigh, n.Priority)
}

func TestOnTransitionFansOutPerAudience(t *testing.T) {
	fx := newNotificationFixture(t)

	ev := confirmedEvent("order-1")
	ev.BuyerID = "buy-1"

	require.NoError(t, fx.svc.OnTransition(context.Background(), ev))

	assert.Len(t, fx.repo.rows, 2)
	assert.Len(t, fx.ws.writes[model.SupplierAudience("sup-1")], 1)
	assert.Len(t, fx.ws.writes[model.BuyerAudience("buy-1")], 1)
}

func TestOnTransitionIsIdempotentPerAudience(t *testing.T) {
	fx := newNotificationFixture(t)

	ev := confirmedEvent("order-1")
	require.NoError(t, fx.svc.OnTransition(context.Background(), ev))

	// redelivery with a new buyer audience creates only the buyer row
	ev.BuyerID = "buy-1"
	require.NoError(t, fx.svc.OnTransition(context.Background(), ev))

	assert.Len(t, fx.repo.rows, 2)
	assert.Len(t, fx.ws.writes[model.SupplierAudience("sup-1")], 1)
	assert.Len(t, fx.ws.writes[model.BuyerAudience("buy-1")], 1)
}

func TestOnTransitionNoAudience(t *testing.T) {
	fx := newNotificationFixture(t)

	ev := confirmedEvent("order-1")
	ev.SupplierID = ""

	require.NoError(t, fx.svc.OnTransition(context.Background(), ev))
	assert.Empty(t, fx.repo.rows)
}

func TestOnTransitionRejectSeverity(t *testing.T) {
	fx := newNotificationFixture(t)

	ev := confirmedEvent("order-1")
	ev.NewStatus = model.OrderRejected
	ev.AdminNotes = "no capacity"

	require.NoError(t, fx.svc.OnTransition(context.Background(), ev))

	require.Len(t, fx.repo.rows, 1)
	n := fx.repo.rows[0]
	assert.Equal(t, model.NotifyError, n.Severity)
	assert.Equal(t, model.PriorityHigh, n.Priority)
	assert.Contains(t, n.Message, "no capacity")
}

func TestDeliveryFailureDoesNotFailDispatch(t *testing.T) {
	fx := newNotificationFixture(t)
	fx.broker.err = myerrors.Transient("broker down", nil)

	err := fx.svc.OnTransition(context.Background(), confirmedEvent("order-1"))
	require.NoError(t, err)

	// the row is the source of truth; the websocket still gets it
	assert.Len(t, fx.repo.rows, 1)
	assert.Len(t, fx.ws.writes[model.SupplierAudience("sup-1")], 1)
}

func TestFeedAndUnreadCount(t *testing.T) {
	fx := newNotificationFixture(t)
	audience := model.SupplierAudience("sup-1")

	require.NoError(t, fx.svc.OnTransition(context.Background(), confirmedEvent("order-1")))
	require.NoError(t, fx.svc.OnTransition(context.Background(), confirmedEvent("order-2")))

	feed, err := fx.svc.Feed(context.Background(), audience)
	require.NoError(t, err)
	assert.Len(t, feed.Notifications, 2)
	assert.Equal(t, 2, feed.UnreadCount)

	require.NoError(t, fx.svc.MarkRead(context.Background(), feed.Notifications[0].ID))

	feed, err = fx.svc.Feed(context.Background(), audience)
	require.NoError(t, err)
	assert.Equal(t, 1, feed.UnreadCount)

	require.NoError(t, fx.svc.MarkAllRead(context.Background(), audience))

	feed, err = fx.svc.Feed(context.Background(), audience)
	require.NoError(t, err)
	assert.Equal(t, 0, feed.UnreadCount)
	assert.Len(t, feed.Notifications, 2)
}

func TestFeedIsAudienceScoped(t *testing.T) {
	fx := newNotificationFixture(t)

	ev := confirmedEvent("order-1")
	ev.BuyerID = "buy-1"
	require.NoError(t, fx.svc.OnTransition(context.Background(), ev))

	feed, err := fx.svc.Feed(context.Background(), model.SupplierAudience("sup-1"))
	require.NoError(t, err)
	require.Len(t, feed.Notifications, 1)
	assert.Equal(t, model.SupplierAudience("sup-1"), feed.Notifications[0].Audience)

	feed, err = fx.svc.Feed(context.Background(), model.SupplierAudience("sup-2"))
	require.NoError(t, err)
	assert.Empty(t, feed.Notifications)
}

func TestClear(t *testing.T) {
	fx := newNotificationFixture(t)

	ev := confirmedEvent("order-1")
	ev.BuyerID = "buy-1"
	require.NoError(t, fx.svc.OnTransition(context.Background(), ev))

	require.NoError(t, fx.svc.Clear(context.Background(), model.SupplierAudience("sup-1")))

	feed, err := fx.svc.Feed(context.Background(), model.SupplierAudience("sup-1"))
	require.NoError(t, err)
	assert.Empty(t, feed.Notifications)

	// other feeds are untouched
	feed, err = fx.svc.Feed(context.Background(), model.BuyerAudience("buy-1"))
	require.NoError(t, err)
	assert.Len(t, feed.Notifications, 1)
}

func TestMarkReadMissing(t *testing.T) {
	fx := newNotificationFixture(t)

	err := fx.svc.MarkRead(context.Background(), "n-404")
	assert.True(t, myerrors.IsKind(err, myerrors.KindNotFound))
}

func TestSeverityFor(t *testing.T) {
	severity, priority := severityFor(model.OrderConfirmed)
	assert.Equal(t, model.NotifySuccess, severity)
	assert.Equal(t, model.PriorityHigh, priority)

	severity, priority = severityFor(model.OrderRejected)
	assert.Equal(t, model.NotifyError, severity)
	assert.Equal(t, model.PriorityHigh, priority)

	severity, priority = severityFor(model.ConfirmedCancelled)
	assert.Equal(t, model.NotifyWarning, severity)
	assert.Equal(t, model.PriorityMedium, priority)

	severity, priority = severityFor(model.ConfirmedDelivered)
	assert.Equal(t, model.NotifyInfo, severity)
	assert.Equal(t, model.PriorityMedium, priority)
}
