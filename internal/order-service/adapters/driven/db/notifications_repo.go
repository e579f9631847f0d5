package db

import (
	"context"
	"database/sql"
	"errors"

	"freightflow/internal/order-service/core/domain/model"
	"freightflow/internal/order-service/core/myerrors"
	"freightflow/internal/order-service/core/ports"

	"github.com/jackc/pgx/v5"
)

type NotificationsRepo struct {
	db *DB
}

func NewNotificationsRepo(db *DB) ports.INotificationsRepo {
	return &NotificationsRepo{
		db: db,
	}
}

// Insert creates at most one row per event key. A conflict on the key
// means the same event was already delivered; callers get created=false.
func (nr *NotificationsRepo) Insert(ctx context.Context, n model.Notification) (string, bool, error) {
	if !nr.db.Available() {
		return "", false, errUnavailable()
	}

	q := `INSERT INTO notifications(
			audience, category, severity, priority, message,
			order_id, driver_id, vehicle_id, event_key, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (event_key) DO NOTHING
			RETURNING id`

	row := nr.db.conn.QueryRow(ctx, q,
		n.Audience,
		n.Category,
		n.Severity,
		n.Priority,
		n.Message,
		nullable(n.OrderID),
		nullable(n.DriverID),
		nullable(n.VehicleID),
		n.EventKey,
		n.CreatedAt,
	)

	id := ""
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, classify(err, "insert notification")
	}
	return id, true, nil
}

func (nr *NotificationsRepo) List(ctx context.Context, audience string) ([]model.Notification, error) {
	if !nr.db.Available() {
		return []model.Notification{}, nil
	}

	q := `SELECT id, audience, category, severity, priority, message,
			is_read, order_id, driver_id, vehicle_id, created_at
		FROM notifications WHERE audience = $1 ORDER BY created_at DESC`

	rows, err := nr.db.conn.Query(ctx, q, audience)
	if err != nil {
		return nil, classify(err, "query notifications")
	}
	defer rows.Close()

	var list []model.Notification
	for rows.Next() {
		var (
			n         model.Notification
			orderID   sql.NullString
			driverID  sql.NullString
			vehicleID sql.NullString
		)
		err := rows.Scan(
			&n.ID,
			&n.Audience,
			&n.Category,
			&n.Severity,
			&n.Priority,
			&n.Message,
			&n.IsRead,
			&orderID,
			&driverID,
			&vehicleID,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, classify(err, "scan notification")
		}
		n.OrderID = orderID.String
		n.DriverID = driverID.String
		n.VehicleID = vehicleID.String
		list = append(list, n)
	}
	return list, nil
}

func (nr *NotificationsRepo) UnreadCount(ctx context.Context, audience string) (int, error) {
	if !nr.db.Available() {
		return 0, nil
	}

	q := `SELECT COUNT(*) FROM notifications WHERE audience = $1 AND is_read = FALSE`
	var count int
	if err := nr.db.conn.QueryRow(ctx, q, audience).Scan(&count); err != nil {
		return 0, classify(err, "count unread notifications")
	}
	return count, nil
}

func (nr *NotificationsRepo) MarkRead(ctx context.Context, notificationID string) error {
	if !nr.db.Available() {
		return errUnavailable()
	}

	q := `UPDATE notifications SET is_read = TRUE WHERE id = $1`
	tag, err := nr.db.conn.Exec(ctx, q, notificationID)
	if err != nil {
		return classify(err, "mark notification read")
	}
	if tag.RowsAffected() == 0 {
		return myerrors.NotFoundf("notification %s not found", notificationID)
	}
	return nil
}

func (nr *NotificationsRepo) MarkAllRead(ctx context.Context, audience string) error {
	if !nr.db.Available() {
		return errUnavailable()
	}

	q := `UPDATE notifications SET is_read = TRUE WHERE audience = $1 AND is_read = FALSE`
	if _, err := nr.db.conn.Exec(ctx, q, audience); err != nil {
		return classify(err, "mark all notifications read")
	}
	return nil
}

func (nr *NotificationsRepo) Clear(ctx context.Context, audience string) error {
	if !nr.db.Available() {
		return errUnavailable()
	}

	q := `DELETE FROM notifications WHERE audience = $1`
	if _, err := nr.db.conn.Exec(ctx, q, audience); err != nil {
		return classify(err, "clear notifications")
	}
	return nil
}
