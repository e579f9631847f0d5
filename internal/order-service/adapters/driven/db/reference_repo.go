package db

import (
	"context"
	"fmt"

	"freightflow/internal/order-service/core/domain/model"
	"freightflow/internal/order-service/core/myerrors"
	"freightflow/internal/order-service/core/ports"
)

// ReferenceRepo reads the CRUD-owned entities (suppliers, buyers,
// drivers, vehicles) and enforces the referential checks that guard
// their deletion.
type ReferenceRepo struct {
	db *DB
}

func NewReferenceRepo(db *DB) ports.IReferenceRepo {
	return &ReferenceRepo{
		db: db,
	}
}

func (rr *ReferenceRepo) SupplierExists(ctx context.Context, supplierID string) (bool, error) {
	return rr.exists(ctx, "suppliers", supplierID)
}

func (rr *ReferenceRepo) BuyerExists(ctx context.Context, buyerID string) (bool, error) {
	return rr.exists(ctx, "buyers", buyerID)
}

func (rr *ReferenceRepo) DriverExists(ctx context.Context, driverID string) (bool, error) {
	return rr.exists(ctx, "drivers", driverID)
}

func (rr *ReferenceRepo) VehicleExists(ctx context.Context, vehicleID string) (bool, error) {
	return rr.exists(ctx, "vehicles", vehicleID)
}

func (rr *ReferenceRepo) SupplierName(ctx context.Context, supplierID string) (string, error) {
	return rr.name(ctx, "suppliers", supplierID)
}

func (rr *ReferenceRepo) BuyerName(ctx context.Context, buyerID string) (string, error) {
	return rr.name(ctx, "buyers", buyerID)
}

func (rr *ReferenceRepo) DriverName(ctx context.Context, driverID string) (string, error) {
	return rr.name(ctx, "drivers", driverID)
}

// BlockingForDriver enumerates every record that keeps a driver from
// being deleted: non-terminal confirmed orders plus pending transport
// orders that reference them.
func (rr *ReferenceRepo) BlockingForDriver(ctx context.Context, driverID string) ([]myerrors.BlockingRef, error) {
	if !rr.db.Available() {
		return nil, errUnavailable()
	}

	q := `SELECT id, 'confirmed order in status ' || status AS summary
		FROM confirmed_orders
		WHERE driver_id = $1 AND status NOT IN ($2, $3)
	UNION ALL
	SELECT id, 'pending transport order ' || order_number AS summary
		FROM transport_orders
		WHERE driver_id = $1 AND status = $4`

	return rr.blockingRefs(ctx, q, driverID,
		model.ConfirmedDelivered, model.ConfirmedCancelled, model.OrderPending)
}

func (rr *ReferenceRepo) BlockingForVehicle(ctx context.Context, vehicleID string) ([]myerrors.BlockingRef, error) {
	if !rr.db.Available() {
		return nil, errUnavailable()
	}

	q := `SELECT id, 'confirmed order in status ' || status AS summary
		FROM confirmed_orders
		WHERE vehicle_id = $1 AND status NOT IN ($2, $3)`

	return rr.blockingRefs(ctx, q, vehicleID,
		model.ConfirmedDelivered, model.ConfirmedCancelled)
}

func (rr *ReferenceRepo) DeleteDriver(ctx context.Context, driverID string) error {
	return rr.delete(ctx, "drivers", driverID)
}

func (rr *ReferenceRepo) DeleteVehicle(ctx context.Context, vehicleID string) error {
	return rr.delete(ctx, "vehicles", vehicleID)
}

func (rr *ReferenceRepo) exists(ctx context.Context, table, id string) (bool, error) {
	if !rr.db.Available() {
		return false, errUnavailable()
	}

	q := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE id = $1)`, table)
	var ok bool
	if err := rr.db.conn.QueryRow(ctx, q, id).Scan(&ok); err != nil {
		return false, classify(err, "check "+table)
	}
	return ok, nil
}

func (rr *ReferenceRepo) name(ctx context.Context, table, id string) (string, error) {
	if !rr.db.Available() {
		return "", errUnavailable()
	}

	q := fmt.Sprintf(`SELECT name FROM %s WHERE id = $1`, table)
	var name string
	if err := rr.db.conn.QueryRow(ctx, q, id).Scan(&name); err != nil {
		return "", classify(err, "get name from "+table)
	}
	return name, nil
}

func (rr *ReferenceRepo) delete(ctx context.Context, table, id string) error {
	if !rr.db.Available() {
		return errUnavailable()
	}

	q := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table)
	tag, err := rr.db.conn.Exec(ctx, q, id)
	if err != nil {
		return classify(err, "delete from "+table)
	}
	if tag.RowsAffected() == 0 {
		return myerrors.NotFoundf("%s row %s not found", table, id)
	}
	return nil
}

func (rr *ReferenceRepo) blockingRefs(ctx context.Context, q string, args ...any) ([]myerrors.BlockingRef, error) {
	rows, err := rr.db.conn.Query(ctx, q, args...)
	if err != nil {
		return nil, classify(err, "query blocking records")
	}
	defer rows.Close()

	var refs []myerrors.BlockingRef
	for rows.Next() {
		var ref myerrors.BlockingRef
		if err := rows.Scan(&ref.ID, &ref.Summary); err != nil {
			return nil, classify(err, "scan blocking record")
		}
		refs = append(refs, ref)
	}
	return refs, nil
}
