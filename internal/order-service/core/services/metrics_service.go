package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"freightflow/internal/config"
	"freightflow/internal/mylogger"
	"freightflow/internal/order-service/core/domain/dto"
	"freightflow/internal/order-service/core/ports"
)

const recentActivityLimit = 10

// MetricsService computes dashboard statistics from the current order
// repository contents. It keeps no state between calls, so the
// dashboard's polling refresh is safe to repeat.
type MetricsService struct {
	mylog mylogger.Logger
	repo  ports.IMetricsRepo
	cfg   *config.Appconfig
	now   func() time.Time
}

func NewMetricsService(log mylogger.Logger, repo ports.IMetricsRepo, cfg *config.Appconfig) ports.IMetricsService {
	return &MetricsService{
		mylog: log,
		repo:  repo,
		cfg:   cfg,
		now:   time.Now,
	}
}

func (ms *MetricsService) DashboardStats(ctx context.Context) (dto.DashboardStats, error) {
	log := ms.mylog.Action("DashboardStats")

	callCtx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	now := ms.now()
	weekStart := now.AddDate(0, 0, -7)

	totals, err := ms.repo.GetTotals(callCtx, weekStart)
	if err != nil {
		log.Error("cannot get totals", err)
		return dto.DashboardStats{}, err
	}

	rate, err := ms.successRate(callCtx, now)
	if err != nil {
		log.Error("cannot compute success rate", err)
		return dto.DashboardStats{}, err
	}

	activity, err := ms.recentActivity(callCtx, now)
	if err != nil {
		log.Error("cannot load recent activity", err)
		return dto.DashboardStats{}, err
	}

	stats := dto.DashboardStats{
		Timestamp: now.Format(time.RFC3339),
		Totals: dto.TotalsParams{
			TotalUsers:        totals.TotalUsers,
			TotalSuppliers:    totals.TotalSuppliers,
			TotalBuyers:       totals.TotalBuyers,
			OrdersToday:       totals.OrdersToday,
			TotalOrders:       totals.TotalOrders,
			CompletedOrders:   totals.CompletedOrders,
			PendingReview:     totals.PendingReview,
			ConfirmedThisWeek: totals.ConfirmedThisWeek,
			ResolvedThisWeek:  totals.ResolvedThisWeek,
		},
		SuccessRate:    rate,
		RecentActivity: activity,
	}
	stats.Alerts = ms.evaluateAlerts(stats)

	return stats, nil
}

// successRate compares the trailing window against the preceding,
// non-overlapping window of equal length.
func (ms *MetricsService) successRate(ctx context.Context, now time.Time) (dto.SuccessRateDto, error) {
	windowDays := ms.cfg.WindowDays
	if windowDays <= 0 {
		windowDays = 30
	}

	windowStart := now.AddDate(0, 0, -windowDays)
	prevStart := now.AddDate(0, 0, -2*windowDays)

	total, confirmed, err := ms.repo.WindowCounts(ctx, windowStart, now)
	if err != nil {
		return dto.SuccessRateDto{}, err
	}
	prevTotal, prevConfirmed, err := ms.repo.WindowCounts(ctx, prevStart, windowStart)
	if err != nil {
		return dto.SuccessRateDto{}, err
	}

	current := ratePercent(confirmed, total)
	previous := ratePercent(prevConfirmed, prevTotal)

	return dto.SuccessRateDto{
		Current:       current,
		Previous:      previous,
		Trend:         trendOf(current, previous),
		PercentChange: percentChange(current, previous),
		WindowDays:    windowDays,
	}, nil
}

func ratePercent(confirmed, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(confirmed) / float64(total) * 100
}

func trendOf(current, previous float64) string {
	switch {
	case current > previous:
		return "up"
	case current < previous:
		return "down"
	default:
		return "neutral"
	}
}

// percentChange formats the relative movement between windows. A jump
// from an empty previous window to any activity reads as 100.0.
func percentChange(current, previous float64) string {
	if previous == 0 {
		if current == 0 {
			return "0.0"
		}
		return "100.0"
	}
	return fmt.Sprintf("%.1f", (current-previous)/previous*100)
}

func (ms *MetricsService) recentActivity(ctx context.Context, now time.Time) ([]dto.ActivityEntry, error) {
	rows, err := ms.repo.RecentEvents(ctx, recentActivityLimit*2)
	if err != nil {
		return nil, err
	}

	// sort by actual elapsed time, most recent first, then truncate
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].OccurredAt.After(rows[j].OccurredAt)
	})
	if len(rows) > recentActivityLimit {
		rows = rows[:recentActivityLimit]
	}

	entries := make([]dto.ActivityEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, dto.ActivityEntry{
			Label:      row.Label,
			Detail:     row.Detail,
			TimeAgo:    formatRelativeTime(row.OccurredAt, now),
			OccurredAt: row.OccurredAt.Format(time.RFC3339),
		})
	}
	return entries, nil
}

// formatRelativeTime buckets a timestamp into a "N minutes/hours/days
// ago" label for the activity feed.
func formatRelativeTime(t, now time.Time) string {
	elapsed := now.Sub(t)
	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		m := int(elapsed.Minutes())
		if m == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", m)
	case elapsed < 24*time.Hour:
		h := int(elapsed.Hours())
		if h == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", h)
	default:
		d := int(elapsed.Hours() / 24)
		if d == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", d)
	}
}

// evaluateAlerts runs the rule list against the aggregates. The result
// is never empty: with nothing firing, a single all-clear entry remains.
func (ms *MetricsService) evaluateAlerts(stats dto.DashboardStats) []dto.AlertEntry {
	var alerts []dto.AlertEntry

	backlogLimit := ms.cfg.PendingBacklogLimit
	if backlogLimit <= 0 {
		backlogLimit = 10
	}
	if stats.Totals.PendingReview > backlogLimit {
		alerts = append(alerts, dto.AlertEntry{
			Severity: "warning",
			Message:  fmt.Sprintf("%d orders awaiting review (threshold %d)", stats.Totals.PendingReview, backlogLimit),
		})
	}

	if stats.SuccessRate.Current < ms.cfg.MinSuccessRate && stats.Totals.TotalOrders > 0 {
		alerts = append(alerts, dto.AlertEntry{
			Severity: "error",
			Message:  fmt.Sprintf("success rate %.1f%% is below %.1f%%", stats.SuccessRate.Current, ms.cfg.MinSuccessRate),
		})
	}

	if stats.Totals.ConfirmedThisWeek == 0 && stats.Totals.OrdersToday > 0 {
		alerts = append(alerts, dto.AlertEntry{
			Severity: "warning",
			Message:  "orders are coming in but none confirmed this week",
		})
	}

	if len(alerts) == 0 {
		alerts = append(alerts, dto.AlertEntry{
			Severity: "info",
			Message:  "all systems operational",
		})
	}
	return alerts
}
