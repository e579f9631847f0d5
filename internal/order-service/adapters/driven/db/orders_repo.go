package db

import (
	"context"
	"database/sql"
	"time"

	"freightflow/internal/order-service/core/domain/model"
	"freightflow/internal/order-service/core/myerrors"
	"freightflow/internal/order-service/core/ports"

	"github.com/jackc/pgx/v5"
)

type OrdersRepo struct {
	db *DB
}

func NewOrdersRepo(db *DB) ports.IOrdersRepo {
	return &OrdersRepo{
		db: db,
	}
}

func (or *OrdersRepo) CreateOrder(ctx context.Context, m model.TransportOrder) (string, error) {
	if !or.db.Available() {
		return "", errUnavailable()
	}
	conn := or.db.conn

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", classify(err, "begin create order")
	}
	defer tx.Rollback(ctx) // Safe rollback if not committed

	q := `INSERT INTO transport_orders(
			order_number,
			supplier_id,
			state,
			district,
			place,
			taluk,
			vehicle_number,
			body_type,
			driver_id,
			status,
			submitted_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`

	row := tx.QueryRow(ctx, q,
		m.OrderNumber,
		m.SupplierID,
		m.State,
		m.District,
		m.Place,
		m.Taluk,
		m.VehicleNumber,
		m.BodyType,
		nullable(m.DriverID),
		m.Status,
		m.SubmittedAt,
	)
	orderID := ""
	if err := row.Scan(&orderID); err != nil {
		return "", classify(err, "insert transport order")
	}

	// downstream status-tracking record starts alongside the order
	q2 := `INSERT INTO order_submissions(order_id, status, updated_at) VALUES ($1, $2, $3)`
	if _, err := tx.Exec(ctx, q2, orderID, m.Status, m.SubmittedAt); err != nil {
		return "", classify(err, "insert order submission")
	}

	if err := tx.Commit(ctx); err != nil {
		return "", classify(err, "commit create order")
	}
	return orderID, nil
}

func (or *OrdersRepo) GetOrder(ctx context.Context, orderID string) (model.TransportOrder, error) {
	if !or.db.Available() {
		return model.TransportOrder{}, errUnavailable()
	}

	q := `SELECT id, order_number, supplier_id, state, district, place, taluk,
			vehicle_number, body_type, driver_id, status, admin_notes,
			created_at, submitted_at, admin_action_at
		FROM transport_orders WHERE id = $1`

	row := or.db.conn.QueryRow(ctx, q, orderID)
	m, err := scanOrder(row)
	if err != nil {
		return model.TransportOrder{}, classify(err, "get transport order")
	}
	return m, nil
}

func (or *OrdersRepo) CountOrdersToday(ctx context.Context) (int64, error) {
	if !or.db.Available() {
		return 0, nil
	}

	q := `SELECT COUNT(*) FROM transport_orders WHERE created_at::date = current_date`
	var count int64
	if err := or.db.conn.QueryRow(ctx, q).Scan(&count); err != nil {
		return 0, classify(err, "count orders today")
	}
	return count, nil
}

// Confirm applies pending -> confirmed and creates the ConfirmedOrder in
// one transaction. The unique order_id constraint keeps retried calls
// from ever producing a second fulfillment record.
func (or *OrdersRepo) Confirm(ctx context.Context, orderID, adminNotes string, at time.Time) (model.TransportOrder, model.ConfirmedOrder, error) {
	if !or.db.Available() {
		return model.TransportOrder{}, model.ConfirmedOrder{}, errUnavailable()
	}
	conn := or.db.conn

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return model.TransportOrder{}, model.ConfirmedOrder{}, classify(err, "begin confirm")
	}
	defer tx.Rollback(ctx)

	order, err := lockOrder(ctx, tx, orderID)
	if err != nil {
		return model.TransportOrder{}, model.ConfirmedOrder{}, err
	}
	if order.Status != model.OrderPending {
		return model.TransportOrder{}, model.ConfirmedOrder{}, myerrors.InvalidStatef("order %s is %s, not pending", orderID, order.Status)
	}

	q := `UPDATE transport_orders
		SET status = $2, admin_notes = $3, admin_action_at = $4
		WHERE id = $1`
	if _, err := tx.Exec(ctx, q, orderID, model.OrderConfirmed, adminNotes, at); err != nil {
		return model.TransportOrder{}, model.ConfirmedOrder{}, classify(err, "update order status")
	}
	order.Status = model.OrderConfirmed
	order.AdminNotes = adminNotes
	order.AdminActionAt = at

	q2 := `INSERT INTO confirmed_orders(order_id, supplier_id, driver_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (order_id) DO NOTHING
		RETURNING id, created_at`
	confirmed := model.ConfirmedOrder{
		OrderID:    orderID,
		SupplierID: order.SupplierID,
		DriverID:   order.DriverID,
		Status:     model.ConfirmedAssigned,
		UpdatedAt:  at,
	}
	row := tx.QueryRow(ctx, q2, orderID, order.SupplierID, nullable(order.DriverID), model.ConfirmedAssigned, at)
	if err := row.Scan(&confirmed.ID, &confirmed.CreatedAt); err != nil {
		return model.TransportOrder{}, model.ConfirmedOrder{}, classify(err, "insert confirmed order")
	}

	q3 := `UPDATE order_submissions SET status = $2, updated_at = $3 WHERE order_id = $1`
	if _, err := tx.Exec(ctx, q3, orderID, model.OrderConfirmed, at); err != nil {
		return model.TransportOrder{}, model.ConfirmedOrder{}, classify(err, "update order submission")
	}

	if err := tx.Commit(ctx); err != nil {
		return model.TransportOrder{}, model.ConfirmedOrder{}, classify(err, "commit confirm")
	}
	return order, confirmed, nil
}

func (or *OrdersRepo) Reject(ctx context.Context, orderID, adminNotes string, at time.Time) (model.TransportOrder, error) {
	if !or.db.Available() {
		return model.TransportOrder{}, errUnavailable()
	}
	conn := or.db.conn

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return model.TransportOrder{}, classify(err, "begin reject")
	}
	defer tx.Rollback(ctx)

	order, err := lockOrder(ctx, tx, orderID)
	if err != nil {
		return model.TransportOrder{}, err
	}
	if order.Status != model.OrderPending {
		return model.TransportOrder{}, myerrors.InvalidStatef("order %s is %s, not pending", orderID, order.Status)
	}

	q := `UPDATE transport_orders
		SET status = $2, admin_notes = $3, admin_action_at = $4
		WHERE id = $1`
	if _, err := tx.Exec(ctx, q, orderID, model.OrderRejected, adminNotes, at); err != nil {
		return model.TransportOrder{}, classify(err, "update order status")
	}
	order.Status = model.OrderRejected
	order.AdminNotes = adminNotes
	order.AdminActionAt = at

	q2 := `UPDATE order_submissions SET status = $2, updated_at = $3 WHERE order_id = $1`
	if _, err := tx.Exec(ctx, q2, orderID, model.OrderRejected, at); err != nil {
		return model.TransportOrder{}, classify(err, "update order submission")
	}

	if err := tx.Commit(ctx); err != nil {
		return model.TransportOrder{}, classify(err, "commit reject")
	}
	return order, nil
}

// DeletePending removes an order only while it is still pending. The
// order and its submission record go in one transaction so a failure
// between the two deletes cannot strand an orphaned submission row.
func (or *OrdersRepo) DeletePending(ctx context.Context, orderID string) error {
	if !or.db.Available() {
		return errUnavailable()
	}

	tx, err := or.db.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return classify(err, "begin delete pending order")
	}
	defer tx.Rollback(ctx)

	q := `DELETE FROM transport_orders WHERE id = $1 AND status = $2`
	tag, err := tx.Exec(ctx, q, orderID, model.OrderPending)
	if err != nil {
		return classify(err, "delete pending order")
	}
	if tag.RowsAffected() == 0 {
		return myerrors.InvalidStatef("order %s is no longer pending", orderID)
	}

	q2 := `DELETE FROM order_submissions WHERE order_id = $1`
	if _, err := tx.Exec(ctx, q2, orderID); err != nil {
		return classify(err, "delete order submission")
	}

	if err := tx.Commit(ctx); err != nil {
		return classify(err, "commit delete pending order")
	}
	return nil
}

func (or *OrdersRepo) DeleteOrder(ctx context.Context, orderID string) error {
	if !or.db.Available() {
		return errUnavailable()
	}

	tx, err := or.db.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return classify(err, "begin delete order")
	}
	defer tx.Rollback(ctx)

	q := `DELETE FROM transport_orders WHERE id = $1`
	tag, err := tx.Exec(ctx, q, orderID)
	if err != nil {
		return classify(err, "delete order")
	}
	if tag.RowsAffected() == 0 {
		return myerrors.NotFoundf("order %s not found", orderID)
	}

	q2 := `DELETE FROM order_submissions WHERE order_id = $1`
	if _, err := tx.Exec(ctx, q2, orderID); err != nil {
		return classify(err, "delete order submission")
	}

	if err := tx.Commit(ctx); err != nil {
		return classify(err, "commit delete order")
	}
	return nil
}

// BlockingForOrder lists live fulfillment records that keep an order
// from being deleted.
func (or *OrdersRepo) BlockingForOrder(ctx context.Context, orderID string) ([]myerrors.BlockingRef, error) {
	if !or.db.Available() {
		return nil, errUnavailable()
	}

	q := `SELECT id, status FROM confirmed_orders
		WHERE order_id = $1 AND status NOT IN ($2, $3)`
	rows, err := or.db.conn.Query(ctx, q, orderID, model.ConfirmedDelivered, model.ConfirmedCancelled)
	if err != nil {
		return nil, classify(err, "query blocking confirmed orders")
	}
	defer rows.Close()

	var refs []myerrors.BlockingRef
	for rows.Next() {
		var id, status string
		if err := rows.Scan(&id, &status); err != nil {
			return nil, classify(err, "scan blocking confirmed order")
		}
		refs = append(refs, myerrors.BlockingRef{
			ID:      id,
			Summary: "confirmed order in status " + status,
		})
	}
	return refs, nil
}

func (or *OrdersRepo) ListBySupplier(ctx context.Context, supplierID string) ([]model.TransportOrder, error) {
	if !or.db.Available() {
		return []model.TransportOrder{}, nil
	}

	q := `SELECT id, order_number, supplier_id, state, district, place, taluk,
			vehicle_number, body_type, driver_id, status, admin_notes,
			created_at, submitted_at, admin_action_at
		FROM transport_orders WHERE supplier_id = $1 ORDER BY submitted_at DESC`
	return or.listOrders(ctx, q, supplierID)
}

func (or *OrdersRepo) ListPending(ctx context.Context) ([]model.TransportOrder, error) {
	if !or.db.Available() {
		return []model.TransportOrder{}, nil
	}

	q := `SELECT id, order_number, supplier_id, state, district, place, taluk,
			vehicle_number, body_type, driver_id, status, admin_notes,
			created_at, submitted_at, admin_action_at
		FROM transport_orders WHERE status = $1 ORDER BY submitted_at ASC`
	return or.listOrders(ctx, q, model.OrderPending)
}

func (or *OrdersRepo) listOrders(ctx context.Context, q string, args ...any) ([]model.TransportOrder, error) {
	rows, err := or.db.conn.Query(ctx, q, args...)
	if err != nil {
		return nil, classify(err, "query transport orders")
	}
	defer rows.Close()

	var orders []model.TransportOrder
	for rows.Next() {
		m, err := scanOrder(rows)
		if err != nil {
			return nil, classify(err, "scan transport order")
		}
		orders = append(orders, m)
	}
	return orders, nil
}

func lockOrder(ctx context.Context, tx pgx.Tx, orderID string) (model.TransportOrder, error) {
	q := `SELECT id, order_number, supplier_id, state, district, place, taluk,
			vehicle_number, body_type, driver_id, status, admin_notes,
			created_at, submitted_at, admin_action_at
		FROM transport_orders WHERE id = $1 FOR UPDATE`
	m, err := scanOrder(tx.QueryRow(ctx, q, orderID))
	if err != nil {
		return model.TransportOrder{}, classify(err, "lock transport order")
	}
	return m, nil
}

func scanOrder(row pgx.Row) (model.TransportOrder, error) {
	var (
		m             model.TransportOrder
		driverID      sql.NullString
		adminActionAt sql.NullTime
	)
	err := row.Scan(
		&m.ID,
		&m.OrderNumber,
		&m.SupplierID,
		&m.State,
		&m.District,
		&m.Place,
		&m.Taluk,
		&m.VehicleNumber,
		&m.BodyType,
		&driverID,
		&m.Status,
		&m.AdminNotes,
		&m.CreatedAt,
		&m.SubmittedAt,
		&adminActionAt,
	)
	if err != nil {
		return model.TransportOrder{}, err
	}
	m.DriverID = driverID.String
	m.AdminActionAt = adminActionAt.Time
	return m, nil
}

// nullable maps an empty id onto SQL NULL for optional UUID columns.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
