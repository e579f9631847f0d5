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

type ConfirmedRepo struct {
	db *DB
}

func NewConfirmedRepo(db *DB) ports.IConfirmedRepo {
	return &ConfirmedRepo{
		db: db,
	}
}

func (cr *ConfirmedRepo) GetConfirmed(ctx context.Context, confirmedID string) (model.ConfirmedOrder, error) {
	if !cr.db.Available() {
		return model.ConfirmedOrder{}, errUnavailable()
	}

	q := selectConfirmed + ` WHERE id = $1`
	m, err := scanConfirmed(cr.db.conn.QueryRow(ctx, q, confirmedID))
	if err != nil {
		return model.ConfirmedOrder{}, classify(err, "get confirmed order")
	}
	return m, nil
}

// UpdateStatus is a guarded move; the WHERE on the expected current
// status makes concurrent updates lose loudly instead of silently.
func (cr *ConfirmedRepo) UpdateStatus(ctx context.Context, confirmedID, from, to string, at time.Time) (model.ConfirmedOrder, error) {
	if !cr.db.Available() {
		return model.ConfirmedOrder{}, errUnavailable()
	}

	q := `UPDATE confirmed_orders SET status = $2, updated_at = $3`
	switch to {
	case model.ConfirmedPickedUp:
		q += `, actual_pickup = $3`
	case model.ConfirmedDelivered:
		q += `, actual_delivery = $3`
	}
	q += ` WHERE id = $1 AND status = $4`

	tag, err := cr.db.conn.Exec(ctx, q, confirmedID, to, at, from)
	if err != nil {
		return model.ConfirmedOrder{}, classify(err, "update confirmed status")
	}
	if tag.RowsAffected() == 0 {
		current, err := cr.GetConfirmed(ctx, confirmedID)
		if err != nil {
			return model.ConfirmedOrder{}, err
		}
		return model.ConfirmedOrder{}, myerrors.InvalidStatef("confirmed order %s is %s, expected %s", confirmedID, current.Status, from)
	}

	return cr.GetConfirmed(ctx, confirmedID)
}

func (cr *ConfirmedRepo) ListBySupplier(ctx context.Context, supplierID string) ([]model.ConfirmedOrder, error) {
	if !cr.db.Available() {
		return []model.ConfirmedOrder{}, nil
	}

	q := selectConfirmed + ` WHERE supplier_id = $1 ORDER BY created_at DESC`
	rows, err := cr.db.conn.Query(ctx, q, supplierID)
	if err != nil {
		return nil, classify(err, "query confirmed orders")
	}
	defer rows.Close()

	var confirmed []model.ConfirmedOrder
	for rows.Next() {
		m, err := scanConfirmed(rows)
		if err != nil {
			return nil, classify(err, "scan confirmed order")
		}
		confirmed = append(confirmed, m)
	}
	return confirmed, nil
}

const selectConfirmed = `SELECT id, order_id, supplier_id, driver_id, vehicle_id, status,
		planned_pickup, planned_delivery, actual_pickup, actual_delivery,
		notes, created_at, updated_at
	FROM confirmed_orders`

func scanConfirmed(row pgx.Row) (model.ConfirmedOrder, error) {
	var (
		m               model.ConfirmedOrder
		driverID        sql.NullString
		vehicleID       sql.NullString
		plannedPickup   sql.NullTime
		plannedDelivery sql.NullTime
		actualPickup    sql.NullTime
		actualDelivery  sql.NullTime
	)
	err := row.Scan(
		&m.ID,
		&m.OrderID,
		&m.SupplierID,
		&driverID,
		&vehicleID,
		&m.Status,
		&plannedPickup,
		&plannedDelivery,
		&actualPickup,
		&actualDelivery,
		&m.Notes,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return model.ConfirmedOrder{}, err
	}
	m.DriverID = driverID.String
	m.VehicleID = vehicleID.String
	m.PlannedPickup = plannedPickup.Time
	m.PlannedDelivery = plannedDelivery.Time
	m.ActualPickup = actualPickup.Time
	m.ActualDelivery = actualDelivery.Time
	return m, nil
}
