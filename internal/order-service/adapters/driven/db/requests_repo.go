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

type RequestsRepo struct {
	db *DB
}

func NewRequestsRepo(db *DB) ports.IRequestsRepo {
	return &RequestsRepo{
		db: db,
	}
}

func (rr *RequestsRepo) CreateRequest(ctx context.Context, m model.BuyerRequest) (string, error) {
	if !rr.db.Available() {
		return "", errUnavailable()
	}

	q := `INSERT INTO buyer_requests(
			order_number, buyer_id, load_details,
			from_state, from_district, from_place, from_taluk,
			to_state, to_district, to_place, to_taluk,
			quantity, required_date, status, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
			RETURNING id`

	row := rr.db.conn.QueryRow(ctx, q,
		m.OrderNumber,
		m.BuyerID,
		m.LoadDetails,
		m.FromState,
		m.FromDistrict,
		m.FromPlace,
		m.FromTaluk,
		m.ToState,
		m.ToDistrict,
		m.ToPlace,
		m.ToTaluk,
		m.Quantity,
		m.RequiredDate,
		m.Status,
		m.CreatedAt,
	)
	requestID := ""
	if err := row.Scan(&requestID); err != nil {
		return "", classify(err, "insert buyer request")
	}
	return requestID, nil
}

func (rr *RequestsRepo) GetRequest(ctx context.Context, requestID string) (model.BuyerRequest, error) {
	if !rr.db.Available() {
		return model.BuyerRequest{}, errUnavailable()
	}

	q := selectRequest + ` WHERE id = $1`
	m, err := scanRequest(rr.db.conn.QueryRow(ctx, q, requestID))
	if err != nil {
		return model.BuyerRequest{}, classify(err, "get buyer request")
	}
	return m, nil
}

// Submit moves draft -> submitted. The guarded WHERE keeps a re-sent
// submit from silently resetting a request that has moved on.
func (rr *RequestsRepo) Submit(ctx context.Context, requestID string, at time.Time) (model.BuyerRequest, error) {
	if !rr.db.Available() {
		return model.BuyerRequest{}, errUnavailable()
	}

	q := `UPDATE buyer_requests SET status = $2, submitted_at = $3
		WHERE id = $1 AND status = $4`
	tag, err := rr.db.conn.Exec(ctx, q, requestID, model.RequestSubmitted, at, model.RequestDraft)
	if err != nil {
		return model.BuyerRequest{}, classify(err, "submit buyer request")
	}
	if tag.RowsAffected() == 0 {
		current, err := rr.GetRequest(ctx, requestID)
		if err != nil {
			return model.BuyerRequest{}, err
		}
		return model.BuyerRequest{}, myerrors.InvalidStatef("request %s is %s, not draft", requestID, current.Status)
	}

	return rr.GetRequest(ctx, requestID)
}

// Confirm applies submitted -> confirmed and creates the fulfillment
// record in one transaction. The unique order_id constraint keeps a
// retried confirm from producing a second record.
func (rr *RequestsRepo) Confirm(ctx context.Context, requestID, supplierID, adminNotes string, at time.Time) (model.BuyerRequest, model.ConfirmedOrder, error) {
	if !rr.db.Available() {
		return model.BuyerRequest{}, model.ConfirmedOrder{}, errUnavailable()
	}
	conn := rr.db.conn

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return model.BuyerRequest{}, model.ConfirmedOrder{}, classify(err, "begin confirm request")
	}
	defer tx.Rollback(ctx)

	request, err := lockRequest(ctx, tx, requestID)
	if err != nil {
		return model.BuyerRequest{}, model.ConfirmedOrder{}, err
	}
	if request.Status != model.RequestSubmitted && request.Status != model.RequestPending {
		return model.BuyerRequest{}, model.ConfirmedOrder{}, myerrors.InvalidStatef("request %s is %s, not submitted", requestID, request.Status)
	}

	q := `UPDATE buyer_requests
		SET status = $2, admin_notes = $3, admin_action_at = $4
		WHERE id = $1`
	if _, err := tx.Exec(ctx, q, requestID, model.RequestConfirmed, adminNotes, at); err != nil {
		return model.BuyerRequest{}, model.ConfirmedOrder{}, classify(err, "update request status")
	}
	request.Status = model.RequestConfirmed
	request.AdminNotes = adminNotes
	request.AdminActionAt = at

	q2 := `INSERT INTO confirmed_orders(order_id, supplier_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (order_id) DO NOTHING
		RETURNING id, created_at`
	confirmed := model.ConfirmedOrder{
		OrderID:    requestID,
		SupplierID: supplierID,
		Status:     model.ConfirmedAssigned,
		UpdatedAt:  at,
	}
	row := tx.QueryRow(ctx, q2, requestID, supplierID, model.ConfirmedAssigned, at)
	if err := row.Scan(&confirmed.ID, &confirmed.CreatedAt); err != nil {
		return model.BuyerRequest{}, model.ConfirmedOrder{}, classify(err, "insert confirmed order")
	}

	if err := tx.Commit(ctx); err != nil {
		return model.BuyerRequest{}, model.ConfirmedOrder{}, classify(err, "commit confirm request")
	}
	return request, confirmed, nil
}

func (rr *RequestsRepo) Reject(ctx context.Context, requestID, adminNotes string, at time.Time) (model.BuyerRequest, error) {
	if !rr.db.Available() {
		return model.BuyerRequest{}, errUnavailable()
	}
	conn := rr.db.conn

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return model.BuyerRequest{}, classify(err, "begin reject request")
	}
	defer tx.Rollback(ctx)

	request, err := lockRequest(ctx, tx, requestID)
	if err != nil {
		return model.BuyerRequest{}, err
	}
	if request.Status != model.RequestSubmitted && request.Status != model.RequestPending {
		return model.BuyerRequest{}, myerrors.InvalidStatef("request %s is %s, not submitted", requestID, request.Status)
	}

	q := `UPDATE buyer_requests
		SET status = $2, admin_notes = $3, admin_action_at = $4
		WHERE id = $1`
	if _, err := tx.Exec(ctx, q, requestID, model.RequestRejected, adminNotes, at); err != nil {
		return model.BuyerRequest{}, classify(err, "update request status")
	}
	request.Status = model.RequestRejected
	request.AdminNotes = adminNotes
	request.AdminActionAt = at

	if err := tx.Commit(ctx); err != nil {
		return model.BuyerRequest{}, classify(err, "commit reject request")
	}
	return request, nil
}

func (rr *RequestsRepo) UpdateStatus(ctx context.Context, requestID, from, to string) error {
	if !rr.db.Available() {
		return errUnavailable()
	}

	q := `UPDATE buyer_requests SET status = $2 WHERE id = $1 AND status = $3`
	tag, err := rr.db.conn.Exec(ctx, q, requestID, to, from)
	if err != nil {
		return classify(err, "update request status")
	}
	if tag.RowsAffected() == 0 {
		current, err := rr.GetRequest(ctx, requestID)
		if err != nil {
			return err
		}
		return myerrors.InvalidStatef("request %s is %s, expected %s", requestID, current.Status, from)
	}
	return nil
}

func (rr *RequestsRepo) ListByBuyer(ctx context.Context, buyerID string) ([]model.BuyerRequest, error) {
	if !rr.db.Available() {
		return []model.BuyerRequest{}, nil
	}

	q := selectRequest + ` WHERE buyer_id = $1 ORDER BY created_at DESC`
	rows, err := rr.db.conn.Query(ctx, q, buyerID)
	if err != nil {
		return nil, classify(err, "query buyer requests")
	}
	defer rows.Close()

	var requests []model.BuyerRequest
	for rows.Next() {
		m, err := scanRequest(rows)
		if err != nil {
			return nil, classify(err, "scan buyer request")
		}
		requests = append(requests, m)
	}
	return requests, nil
}

const selectRequest = `SELECT id, order_number, buyer_id, load_details,
		from_state, from_district, from_place, from_taluk,
		to_state, to_district, to_place, to_taluk,
		quantity, required_date, status, admin_notes,
		created_at, submitted_at, admin_action_at
	FROM buyer_requests`

func lockRequest(ctx context.Context, tx pgx.Tx, requestID string) (model.BuyerRequest, error) {
	q := selectRequest + ` WHERE id = $1 FOR UPDATE`
	m, err := scanRequest(tx.QueryRow(ctx, q, requestID))
	if err != nil {
		return model.BuyerRequest{}, classify(err, "lock buyer request")
	}
	return m, nil
}

func scanRequest(row pgx.Row) (model.BuyerRequest, error) {
	var (
		m             model.BuyerRequest
		submittedAt   sql.NullTime
		adminActionAt sql.NullTime
	)
	err := row.Scan(
		&m.ID,
		&m.OrderNumber,
		&m.BuyerID,
		&m.LoadDetails,
		&m.FromState,
		&m.FromDistrict,
		&m.FromPlace,
		&m.FromTaluk,
		&m.ToState,
		&m.ToDistrict,
		&m.ToPlace,
		&m.ToTaluk,
		&m.Quantity,
		&m.RequiredDate,
		&m.Status,
		&m.AdminNotes,
		&m.CreatedAt,
		&submittedAt,
		&adminActionAt,
	)
	if err != nil {
		return model.BuyerRequest{}, err
	}
	m.SubmittedAt = submittedAt.Time
	m.AdminActionAt = adminActionAt.Time
	return m, nil
}
