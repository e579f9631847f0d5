package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"freightflow/internal/mylogger"
	"freightflow/internal/order-service/core/domain/dto"
	"freightflow/internal/order-service/core/domain/events"
	"freightflow/internal/order-service/core/domain/model"
	"freightflow/internal/order-service/core/myerrors"

	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) mylogger.Logger {
	t.Helper()
	log, err := mylogger.New(mylogger.LevelError)
	require.NoError(t, err)
	return log
}

// fakeOrdersRepo keeps orders in a map and mimics the guarded
// transitions the real repo does in SQL.
type fakeOrdersRepo struct {
	orders     map[string]model.TransportOrder
	conf       *fakeConfirmedRepo
	countToday int64
	seq        int

	deleteErrs []error // consumed per DeleteOrder call, nil means success
	deleted    []string
}

func newFakeOrdersRepo(conf *fakeConfirmedRepo) *fakeOrdersRepo {
	return &fakeOrdersRepo{
		orders: make(map[string]model.TransportOrder),
		conf:   conf,
	}
}

func (f *fakeOrdersRepo) CreateOrder(_ context.Context, m model.TransportOrder) (string, error) {
	f.seq++
	id := fmt.Sprintf("order-%d", f.seq)
	m.ID = id
	f.orders[id] = m
	f.countToday++
	return id, nil
}

func (f *fakeOrdersRepo) GetOrder(_ context.Context, orderID string) (model.TransportOrder, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return model.TransportOrder{}, myerrors.NotFoundf("order %s not found", orderID)
	}
	return o, nil
}

func (f *fakeOrdersRepo) CountOrdersToday(_ context.Context) (int64, error) {
	return f.countToday, nil
}

func (f *fakeOrdersRepo) Confirm(_ context.Context, orderID, adminNotes string, at time.Time) (model.TransportOrder, model.ConfirmedOrder, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return model.TransportOrder{}, model.ConfirmedOrder{}, myerrors.NotFoundf("order %s not found", orderID)
	}
	if o.Status != model.OrderPending {
		return model.TransportOrder{}, model.ConfirmedOrder{}, myerrors.InvalidStatef("order %s is %s, not pending", orderID, o.Status)
	}
	o.Status = model.OrderConfirmed
	o.AdminNotes = adminNotes
	o.AdminActionAt = at
	f.orders[orderID] = o

	c := model.ConfirmedOrder{
		ID:         "conf-" + orderID,
		OrderID:    orderID,
		SupplierID: o.SupplierID,
		DriverID:   o.DriverID,
		Status:     model.ConfirmedAssigned,
		CreatedAt:  at,
		UpdatedAt:  at,
	}
	f.conf.records[c.ID] = c
	return o, c, nil
}

func (f *fakeOrdersRepo) Reject(_ context.Context, orderID, adminNotes string, at time.Time) (model.TransportOrder, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return model.TransportOrder{}, myerrors.NotFoundf("order %s not found", orderID)
	}
	if o.Status != model.OrderPending {
		return model.TransportOrder{}, myerrors.InvalidStatef("order %s is %s, not pending", orderID, o.Status)
	}
	o.Status = model.OrderRejected
	o.AdminNotes = adminNotes
	o.AdminActionAt = at
	f.orders[orderID] = o
	return o, nil
}

func (f *fakeOrdersRepo) DeletePending(_ context.Context, orderID string) error {
	o, ok := f.orders[orderID]
	if !ok {
		return myerrors.NotFoundf("order %s not found", orderID)
	}
	if o.Status != model.OrderPending {
		return myerrors.InvalidStatef("order %s is %s", orderID, o.Status)
	}
	delete(f.orders, orderID)
	return nil
}

func (f *fakeOrdersRepo) DeleteOrder(_ context.Context, orderID string) error {
	if len(f.deleteErrs) > 0 {
		err := f.deleteErrs[0]
		f.deleteErrs = f.deleteErrs[1:]
		if err != nil {
			return err
		}
	}
	delete(f.orders, orderID)
	f.deleted = append(f.deleted, orderID)
	return nil
}

func (f *fakeOrdersRepo) BlockingForOrder(_ context.Context, orderID string) ([]myerrors.BlockingRef, error) {
	var refs []myerrors.BlockingRef
	for _, c := range f.conf.records {
		if c.OrderID == orderID && !model.IsTerminalConfirmedStatus(c.Status) {
			refs = append(refs, myerrors.BlockingRef{ID: c.ID, Summary: fmt.Sprintf("confirmed order is %s", c.Status)})
		}
	}
	return refs, nil
}

func (f *fakeOrdersRepo) ListBySupplier(_ context.Context, supplierID string) ([]model.TransportOrder, error) {
	var out []model.TransportOrder
	for _, o := range f.orders {
		if o.SupplierID == supplierID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrdersRepo) ListPending(_ context.Context) ([]model.TransportOrder, error) {
	var out []model.TransportOrder
	for _, o := range f.orders {
		if o.Status == model.OrderPending {
			out = append(out, o)
		}
	}
	return out, nil
}

type fakeConfirmedRepo struct {
	records map[string]model.ConfirmedOrder
}

func newFakeConfirmedRepo() *fakeConfirmedRepo {
	return &fakeConfirmedRepo{records: make(map[string]model.ConfirmedOrder)}
}

func (f *fakeConfirmedRepo) GetConfirmed(_ context.Context, confirmedID string) (model.ConfirmedOrder, error) {
	c, ok := f.records[confirmedID]
	if !ok {
		return model.ConfirmedOrder{}, myerrors.NotFoundf("confirmed order %s not found", confirmedID)
	}
	return c, nil
}

func (f *fakeConfirmedRepo) UpdateStatus(_ context.Context, confirmedID, from, to string, at time.Time) (model.ConfirmedOrder, error) {
	c, ok := f.records[confirmedID]
	if !ok {
		return model.ConfirmedOrder{}, myerrors.NotFoundf("confirmed order %s not found", confirmedID)
	}
	if c.Status != from {
		return model.ConfirmedOrder{}, myerrors.InvalidStatef("confirmed order %s is %s, not %s", confirmedID, c.Status, from)
	}
	c.Status = to
	c.UpdatedAt = at
	f.records[confirmedID] = c
	return c, nil
}

func (f *fakeConfirmedRepo) ListBySupplier(_ context.Context, supplierID string) ([]model.ConfirmedOrder, error) {
	var out []model.ConfirmedOrder
	for _, c := range f.records {
		if c.SupplierID == supplierID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeRequestsRepo struct {
	requests map[string]model.BuyerRequest
	conf     *fakeConfirmedRepo
	seq      int
}

func newFakeRequestsRepo(conf *fakeConfirmedRepo) *fakeRequestsRepo {
	return &fakeRequestsRepo{
		requests: make(map[string]model.BuyerRequest),
		conf:     conf,
	}
}

func (f *fakeRequestsRepo) CreateRequest(_ context.Context, m model.BuyerRequest) (string, error) {
	f.seq++
	id := fmt.Sprintf("req-%d", f.seq)
	m.ID = id
	f.requests[id] = m
	return id, nil
}

func (f *fakeRequestsRepo) GetRequest(_ context.Context, requestID string) (model.BuyerRequest, error) {
	r, ok := f.requests[requestID]
	if !ok {
		return model.BuyerRequest{}, myerrors.NotFoundf("request %s not found", requestID)
	}
	return r, nil
}

func (f *fakeRequestsRepo) Submit(_ context.Context, requestID string, at time.Time) (model.BuyerRequest, error) {
	r, ok := f.requests[requestID]
	if !ok {
		return model.BuyerRequest{}, myerrors.NotFoundf("request %s not found", requestID)
	}
	if r.Status != model.RequestDraft {
		return model.BuyerRequest{}, myerrors.InvalidStatef("request %s is %s, not draft", requestID, r.Status)
	}
	r.Status = model.RequestSubmitted
	r.SubmittedAt = at
	f.requests[requestID] = r
	return r, nil
}

func (f *fakeRequestsRepo) Confirm(_ context.Context, requestID, supplierID, adminNotes string, at time.Time) (model.BuyerRequest, model.ConfirmedOrder, error) {
	r, ok := f.requests[requestID]
	if !ok {
		return model.BuyerRequest{}, model.ConfirmedOrder{}, myerrors.NotFoundf("request %s not found", requestID)
	}
	if r.Status != model.RequestSubmitted && r.Status != model.RequestPending {
		return model.BuyerRequest{}, model.ConfirmedOrder{}, myerrors.InvalidStatef("request %s is %s, not submitted", requestID, r.Status)
	}
	r.Status = model.RequestConfirmed
	r.AdminNotes = adminNotes
	r.AdminActionAt = at
	f.requests[requestID] = r

	c := model.ConfirmedOrder{
		ID:         "conf-" + requestID,
		OrderID:    requestID,
		SupplierID: supplierID,
		Status:     model.ConfirmedAssigned,
		CreatedAt:  at,
		UpdatedAt:  at,
	}
	f.conf.records[c.ID] = c
	return r, c, nil
}

func (f *fakeRequestsRepo) Reject(_ context.Context, requestID, adminNotes string, at time.Time) (model.BuyerRequest, error) {
	r, ok := f.requests[requestID]
	if !ok {
		return model.BuyerRequest{}, myerrors.NotFoundf("request %s not found", requestID)
	}
	if r.Status != model.RequestSubmitted && r.Status != model.RequestPending {
		return model.BuyerRequest{}, myerrors.InvalidStatef("request %s is %s, not submitted", requestID, r.Status)
	}
	r.Status = model.RequestRejected
	r.AdminNotes = adminNotes
	r.AdminActionAt = at
	f.requests[requestID] = r
	return r, nil
}

func (f *fakeRequestsRepo) UpdateStatus(_ context.Context, requestID, from, to string) error {
	r, ok := f.requests[requestID]
	if !ok {
		return myerrors.NotFoundf("request %s not found", requestID)
	}
	if r.Status != from {
		return myerrors.InvalidStatef("request %s is %s, not %s", requestID, r.Status, from)
	}
	r.Status = to
	f.requests[requestID] = r
	return nil
}

func (f *fakeRequestsRepo) ListByBuyer(_ context.Context, buyerID string) ([]model.BuyerRequest, error) {
	var out []model.BuyerRequest
	for _, r := range f.requests {
		if r.BuyerID == buyerID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeReferenceRepo struct {
	suppliers map[string]string
	buyers    map[string]string
	drivers   map[string]string
	vehicles  map[string]string

	blockingDrivers  map[string][]myerrors.BlockingRef
	blockingVehicles map[string][]myerrors.BlockingRef

	deleteErrs []error // consumed per delete call
	deleted    []string
}

func newFakeReferenceRepo() *fakeReferenceRepo {
	return &fakeReferenceRepo{
		suppliers:        make(map[string]string),
		buyers:           make(map[string]string),
		drivers:          make(map[string]string),
		vehicles:         make(map[string]string),
		blockingDrivers:  make(map[string][]myerrors.BlockingRef),
		blockingVehicles: make(map[string][]myerrors.BlockingRef),
	}
}

func (f *fakeReferenceRepo) SupplierExists(_ context.Context, id string) (bool, error) {
	_, ok := f.suppliers[id]
	return ok, nil
}

func (f *fakeReferenceRepo) SupplierName(_ context.Context, id string) (string, error) {
	name, ok := f.suppliers[id]
	if !ok {
		return "", myerrors.NotFoundf("supplier %s not found", id)
	}
	return name, nil
}

func (f *fakeReferenceRepo) BuyerExists(_ context.Context, id string) (bool, error) {
	_, ok := f.buyers[id]
	return ok, nil
}

func (f *fakeReferenceRepo) BuyerName(_ context.Context, id string) (string, error) {
	name, ok := f.buyers[id]
	if !ok {
		return "", myerrors.NotFoundf("buyer %s not found", id)
	}
	return name, nil
}

func (f *fakeReferenceRepo) DriverExists(_ context.Context, id string) (bool, error) {
	_, ok := f.drivers[id]
	return ok, nil
}

func (f *fakeReferenceRepo) DriverName(_ context.Context, id string) (string, error) {
	name, ok := f.drivers[id]
	if !ok {
		return "", myerrors.NotFoundf("driver %s not found", id)
	}
	return name, nil
}

func (f *fakeReferenceRepo) VehicleExists(_ context.Context, id string) (bool, error) {
	_, ok := f.vehicles[id]
	return ok, nil
}

func (f *fakeReferenceRepo) BlockingForDriver(_ context.Context, id string) ([]myerrors.BlockingRef, error) {
	return f.blockingDrivers[id], nil
}

func (f *fakeReferenceRepo) BlockingForVehicle(_ context.Context, id string) ([]myerrors.BlockingRef, error) {
	return f.blockingVehicles[id], nil
}

func (f *fakeReferenceRepo) DeleteDriver(_ context.Context, id string) error {
	return f.deleteRef(id, f.drivers)
}

func (f *fakeReferenceRepo) DeleteVehicle(_ context.Context, id string) error {
	return f.deleteRef(id, f.vehicles)
}

func (f *fakeReferenceRepo) deleteRef(id string, table map[string]string) error {
	if len(f.deleteErrs) > 0 {
		err := f.deleteErrs[0]
		f.deleteErrs = f.deleteErrs[1:]
		if err != nil {
			return err
		}
	}
	delete(table, id)
	f.deleted = append(f.deleted, id)
	return nil
}

// fakeDispatcher records the events the transition engine hands over.
type fakeDispatcher struct {
	submits     []events.SubmissionEvent
	transitions []events.TransitionEvent
	err         error
}

func (f *fakeDispatcher) OnSubmit(_ context.Context, ev events.SubmissionEvent) error {
	if f.err != nil {
		return f.err
	}
	f.submits = append(f.submits, ev)
	return nil
}

func (f *fakeDispatcher) OnTransition(_ context.Context, ev events.TransitionEvent) error {
	if f.err != nil {
		return f.err
	}
	f.transitions = append(f.transitions, ev)
	return nil
}

func (f *fakeDispatcher) Feed(context.Context, string) (dto.NotificationFeedDto, error) {
	return dto.NotificationFeedDto{}, nil
}

func (f *fakeDispatcher) MarkRead(context.Context, string) error    { return nil }
func (f *fakeDispatcher) MarkAllRead(context.Context, string) error { return nil }
func (f *fakeDispatcher) Clear(context.Context, string) error       { return nil }

// fakeNotificationsRepo enforces the event-key uniqueness the schema
// provides in production.
type fakeNotificationsRepo struct {
	rows []model.Notification
	keys map[string]bool
	seq  int
}

func newFakeNotificationsRepo() *fakeNotificationsRepo {
	return &fakeNotificationsRepo{keys: make(map[string]bool)}
}

func (f *fakeNotificationsRepo) Insert(_ context.Context, n model.Notification) (string, bool, error) {
	if f.keys[n.EventKey] {
		return "", false, nil
	}
	f.keys[n.EventKey] = true
	f.seq++
	n.ID = fmt.Sprintf("n-%d", f.seq)
	f.rows = append(f.rows, n)
	return n.ID, true, nil
}

func (f *fakeNotificationsRepo) List(_ context.Context, audience string) ([]model.Notification, error) {
	var out []model.Notification
	for _, n := range f.rows {
		if n.Audience == audience {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotificationsRepo) UnreadCount(_ context.Context, audience string) (int, error) {
	count := 0
	for _, n := range f.rows {
		if n.Audience == audience && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationsRepo) MarkRead(_ context.Context, notificationID string) error {
	for i, n := range f.rows {
		if n.ID == notificationID {
			f.rows[i].IsRead = true
			return nil
		}
	}
	return myerrors.NotFoundf("notification %s not found", notificationID)
}

func (f *fakeNotificationsRepo) MarkAllRead(_ context.Context, audience string) error {
	for i, n := range f.rows {
		if n.Audience == audience {
			f.rows[i].IsRead = true
		}
	}
	return nil
}

func (f *fakeNotificationsRepo) Clear(_ context.Context, audience string) error {
	kept := f.rows[:0]
	for _, n := range f.rows {
		if n.Audience != audience {
			kept = append(kept, n)
		}
	}
	f.rows = kept
	return nil
}

type fakeBroker struct {
	published []events.NotificationEvent
	err       error
}

func (f *fakeBroker) PublishNotification(_ context.Context, ev events.NotificationEvent) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, ev)
	return nil
}

func (f *fakeBroker) IsAlive() bool { return true }
func (f *fakeBroker) Close() error  { return nil }

type fakeWebsocket struct {
	writes map[string][]events.NotificationEvent
}

func newFakeWebsocket() *fakeWebsocket {
	return &fakeWebsocket{writes: make(map[string][]events.NotificationEvent)}
}

func (f *fakeWebsocket) WriteToAudience(audience string, ev events.NotificationEvent) {
	f.writes[audience] = append(f.writes[audience], ev)
}

type windowCount struct {
	total     int
	confirmed int
}

type fakeMetricsRepo struct {
	totals  model.Totals
	windows map[int64]windowCount // keyed by window start unix
	events  []model.Activity
}

func newFakeMetricsRepo() *fakeMetricsRepo {
	return &fakeMetricsRepo{windows: make(map[int64]windowCount)}
}

func (f *fakeMetricsRepo) GetTotals(_ context.Context, _ time.Time) (model.Totals, error) {
	return f.totals, nil
}

func (f *fakeMetricsRepo) WindowCounts(_ context.Context, from, _ time.Time) (int, int, error) {
	w := f.windows[from.Unix()]
	return w.total, w.confirmed, nil
}

func (f *fakeMetricsRepo) RecentEvents(_ context.Context, _ int) ([]model.Activity, error) {
	return f.events, nil
}
