package db

import (
	"context"
	"time"

	"freightflow/internal/order-service/core/domain/model"
	"freightflow/internal/order-service/core/ports"
)

type MetricsRepo struct {
	db *DB
}

func NewMetricsRepo(db *DB) ports.IMetricsRepo {
	return &MetricsRepo{
		db: db,
	}
}

// GetTotals runs the point-in-time aggregates. When the store is down
// the zero snapshot is returned so dashboards render "no data" instead
// of an error page.
func (mr *MetricsRepo) GetTotals(ctx context.Context, weekStart time.Time) (model.Totals, error) {
	if !mr.db.Available() {
		return model.Totals{}, nil
	}

	var totals model.Totals

	q1 := `
	SELECT
		(SELECT COUNT(*) FROM users) AS total_users,
		(SELECT COUNT(*) FROM suppliers) AS total_suppliers,
		(SELECT COUNT(*) FROM buyers) AS total_buyers
	`
	err := mr.db.conn.QueryRow(ctx, q1).Scan(
		&totals.TotalUsers,
		&totals.TotalSuppliers,
		&totals.TotalBuyers,
	)
	if err != nil {
		return model.Totals{}, classify(err, "query user totals")
	}

	q2 := `
	SELECT
		COUNT(*) AS total_orders,
		COUNT(*) FILTER (WHERE created_at::date = current_date) AS orders_today,
		COUNT(*) FILTER (WHERE status = 'pending') AS pending_review,
		COUNT(*) FILTER (WHERE status = 'confirmed' AND admin_action_at >= $1) AS confirmed_this_week,
		COUNT(*) FILTER (WHERE admin_action_at >= $1) AS resolved_this_week
	FROM transport_orders
	`
	err = mr.db.conn.QueryRow(ctx, q2, weekStart).Scan(
		&totals.TotalOrders,
		&totals.OrdersToday,
		&totals.PendingReview,
		&totals.ConfirmedThisWeek,
		&totals.ResolvedThisWeek,
	)
	if err != nil {
		return model.Totals{}, classify(err, "query order totals")
	}

	q3 := `SELECT COUNT(*) FROM confirmed_orders WHERE status = 'delivered'`
	if err := mr.db.conn.QueryRow(ctx, q3).Scan(&totals.CompletedOrders); err != nil {
		return model.Totals{}, classify(err, "query completed orders")
	}

	return totals, nil
}

// WindowCounts returns total and confirmed order counts for [from, to).
func (mr *MetricsRepo) WindowCounts(ctx context.Context, from, to time.Time) (int, int, error) {
	if !mr.db.Available() {
		return 0, 0, nil
	}

	q := `
	SELECT
		COUNT(*) AS total,
		COUNT(*) FILTER (WHERE status = 'confirmed') AS confirmed
	FROM transport_orders
	WHERE submitted_at >= $1 AND submitted_at < $2
	`
	var total, confirmed int
	if err := mr.db.conn.QueryRow(ctx, q, from, to).Scan(&total, &confirmed); err != nil {
		return 0, 0, classify(err, "query window counts")
	}
	return total, confirmed, nil
}

func (mr *MetricsRepo) RecentEvents(ctx context.Context, limit int) ([]model.Activity, error) {
	if !mr.db.Available() {
		return []model.Activity{}, nil
	}

	q := `
	SELECT label, detail, occurred_at FROM (
		SELECT 'Order submitted' AS label,
			order_number AS detail,
			submitted_at AS occurred_at
		FROM transport_orders
		UNION ALL
		SELECT 'Order ' || status AS label,
			order_number AS detail,
			admin_action_at AS occurred_at
		FROM transport_orders
		WHERE admin_action_at IS NOT NULL
		UNION ALL
		SELECT 'Shipment ' || status AS label,
			order_id::text AS detail,
			updated_at AS occurred_at
		FROM confirmed_orders
	) events
	ORDER BY occurred_at DESC
	LIMIT $1
	`

	rows, err := mr.db.conn.Query(ctx, q, limit)
	if err != nil {
		return nil, classify(err, "query recent events")
	}
	defer rows.Close()

	var activity []model.Activity
	for rows.Next() {
		var a model.Activity
		if err := rows.Scan(&a.Label, &a.Detail, &a.OccurredAt); err != nil {
			return nil, classify(err, "scan recent event")
		}
		activity = append(activity, a)
	}
	return activity, nil
}
