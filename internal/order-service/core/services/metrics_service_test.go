package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"freightflow/internal/config"
	"freightflow/internal/order-service/core/domain/dto"
	"freightflow/internal/order-service/core/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAppConfig() *config.Appconfig {
	return &config.Appconfig{
		PendingBacklogLimit: 10,
		MinSuccessRate:      50,
		WindowDays:          30,
	}
}

type metricsFixture struct {
	svc  *MetricsService
	repo *fakeMetricsRepo
}

func newMetricsFixture(t *testing.T) *metricsFixture {
	t.Helper()

	repo := newFakeMetricsRepo()
	svc := NewMetricsService(testLogger(t), repo, testAppConfig()).(*MetricsService)
	svc.now = func() time.Time { return testNow }

	return &metricsFixture{svc: svc, repo: repo}
}

// setWindows configures the trailing and the preceding 30 day window.
func (fx *metricsFixture) setWindows(total, confirmed, prevTotal, prevConfirmed int) {
	windowStart := testNow.AddDate(0, 0, -30)
	prevStart := testNow.AddDate(0, 0, -60)
	fx.repo.windows[windowStart.Unix()] = windowCount{total: total, confirmed: confirmed}
	fx.repo.windows[prevStart.Unix()] = windowCount{total: prevTotal, confirmed: prevConfirmed}
}

func TestDashboardStatsSuccessRate(t *testing.T) {
	fx := newMetricsFixture(t)
	fx.repo.totals = model.Totals{TotalOrders: 15, ConfirmedThisWeek: 3}
	fx.setWindows(10, 8, 5, 2)

	stats, err := fx.svc.DashboardStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 80.0, stats.SuccessRate.Current)
	assert.Equal(t, 40.0, stats.SuccessRate.Previous)
	assert.Equal(t, "up", stats.SuccessRate.Trend)
	assert.Equal(t, "100.0", stats.SuccessRate.PercentChange)
	assert.Equal(t, 30, stats.SuccessRate.WindowDays)
}

func TestDashboardStatsEmptyWindows(t *testing.T) {
	fx := newMetricsFixture(t)

	stats, err := fx.svc.DashboardStats(context.Background())
	require.NoError(t, err)

	// no orders at all reads as a flat zero, not a division error
	assert.Equal(t, 0.0, stats.SuccessRate.Current)
	assert.Equal(t, "neutral", stats.SuccessRate.Trend)
	assert.Equal(t, "0.0", stats.SuccessRate.PercentChange)
}

func TestDashboardStatsFirstActivity(t *testing.T) {
	fx := newMetricsFixture(t)
	fx.repo.totals = model.Totals{TotalOrders: 4}
	fx.setWindows(4, 3, 0, 0)

	stats, err := fx.svc.DashboardStats(context.Background())
	require.NoError(t, err)

	// anything after an empty window reads as a full jump
	assert.Equal(t, 75.0, stats.SuccessRate.Current)
	assert.Equal(t, "up", stats.SuccessRate.Trend)
	assert.Equal(t, "100.0", stats.SuccessRate.PercentChange)
}

// An empty current window after a productive one reads as a drop, not
// as neutral: the rate fell to zero and the trend says so. Neutral is
// reserved for equal rates, including the no-data-at-all case.
func TestDashboardStatsCurrentWindowEmpty(t *testing.T) {
	fx := newMetricsFixture(t)
	fx.repo.totals = model.Totals{TotalOrders: 10}
	fx.setWindows(0, 0, 10, 8)

	stats, err := fx.svc.DashboardStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0.0, stats.SuccessRate.Current)
	assert.Equal(t, 80.0, stats.SuccessRate.Previous)
	assert.Equal(t, "down", stats.SuccessRate.Trend)
	assert.Equal(t, "-100.0", stats.SuccessRate.PercentChange)
}

func TestDashboardStatsDownTrend(t *testing.T) {
	fx := newMetricsFixture(t)
	fx.repo.totals = model.Totals{TotalOrders: 20}
	fx.setWindows(10, 2, 10, 8)

	stats, err := fx.svc.DashboardStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "down", stats.SuccessRate.Trend)
	assert.Equal(t, "-75.0", stats.SuccessRate.PercentChange)
}

func TestDashboardStatsTotals(t *testing.T) {
	fx := newMetricsFixture(t)
	fx.repo.totals = model.Totals{
		TotalUsers:        40,
		TotalSuppliers:    12,
		TotalBuyers:       25,
		OrdersToday:       3,
		TotalOrders:       120,
		CompletedOrders:   80,
		PendingReview:     5,
		ConfirmedThisWeek: 9,
		ResolvedThisWeek:  11,
	}
	fx.setWindows(10, 8, 5, 2)

	stats, err := fx.svc.DashboardStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 40, stats.Totals.TotalUsers)
	assert.Equal(t, 12, stats.Totals.TotalSuppliers)
	assert.Equal(t, 120, stats.Totals.TotalOrders)
	assert.Equal(t, 9, stats.Totals.ConfirmedThisWeek)
	assert.Equal(t, 11, stats.Totals.ResolvedThisWeek)
	assert.Equal(t, testNow.Format(time.RFC3339), stats.Timestamp)
}

func TestRecentActivitySortedAndTruncated(t *testing.T) {
	fx := newMetricsFixture(t)
	fx.repo.totals = model.Totals{TotalOrders: 1, ConfirmedThisWeek: 1}
	fx.setWindows(1, 1, 1, 1)

	// out of order on purpose, the feed must sort by elapsed time
	for i := 0; i < 15; i++ {
		fx.repo.events = append(fx.repo.events, model.Activity{
			Label:      fmt.Sprintf("event %d", i),
			OccurredAt: testNow.Add(-time.Duration(((i*7)%15)+1) * time.Minute),
		})
	}

	stats, err := fx.svc.DashboardStats(context.Background())
	require.NoError(t, err)

	require.Len(t, stats.RecentActivity, recentActivityLimit)
	for i := 1; i < len(stats.RecentActivity); i++ {
		prev, err := time.Parse(time.RFC3339, stats.RecentActivity[i-1].OccurredAt)
		require.NoError(t, err)
		cur, err := time.Parse(time.RFC3339, stats.RecentActivity[i].OccurredAt)
		require.NoError(t, err)
		assert.False(t, cur.After(prev), "activity feed out of order at %d", i)
	}
	assert.Equal(t, "1 minute ago", stats.RecentActivity[0].TimeAgo)
}

func TestFormatRelativeTime(t *testing.T) {
	now := testNow

	tests := []struct {
		elapsed time.Duration
		want    string
	}{
		{30 * time.Second, "just now"},
		{time.Minute, "1 minute ago"},
		{5 * time.Minute, "5 minutes ago"},
		{time.Hour, "1 hour ago"},
		{3 * time.Hour, "3 hours ago"},
		{26 * time.Hour, "1 day ago"},
		{75 * time.Hour, "3 days ago"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatRelativeTime(now.Add(-tt.elapsed), now), "elapsed %v", tt.elapsed)
	}
}

func TestPercentChange(t *testing.T) {
	assert.Equal(t, "0.0", percentChange(0, 0))
	assert.Equal(t, "100.0", percentChange(80, 0))
	assert.Equal(t, "100.0", percentChange(80, 40))
	assert.Equal(t, "-50.0", percentChange(40, 80))
	assert.Equal(t, "0.0", percentChange(40, 40))
}

func TestAlertsBacklog(t *testing.T) {
	fx := newMetricsFixture(t)

	alerts := fx.svc.evaluateAlerts(dto.DashboardStats{
		Totals:      dto.TotalsParams{PendingReview: 11, TotalOrders: 11, ConfirmedThisWeek: 1},
		SuccessRate: dto.SuccessRateDto{Current: 90},
	})

	require.Len(t, alerts, 1)
	assert.Equal(t, "warning", alerts[0].Severity)
	assert.Contains(t, alerts[0].Message, "11 orders awaiting review")
}

func TestAlertsLowSuccessRate(t *testing.T) {
	fx := newMetricsFixture(t)

	alerts := fx.svc.evaluateAlerts(dto.DashboardStats{
		Totals:      dto.TotalsParams{TotalOrders: 20, ConfirmedThisWeek: 2},
		SuccessRate: dto.SuccessRateDto{Current: 25},
	})

	require.Len(t, alerts, 1)
	assert.Equal(t, "error", alerts[0].Severity)
}

func TestAlertsLowRateIgnoredWithoutOrders(t *testing.T) {
	fx := newMetricsFixture(t)

	// a fresh system has rate zero but nothing to alert on
	alerts := fx.svc.evaluateAlerts(dto.DashboardStats{
		Totals:      dto.TotalsParams{TotalOrders: 0},
		SuccessRate: dto.SuccessRateDto{Current: 0},
	})

	require.Len(t, alerts, 1)
	assert.Equal(t, "info", alerts[0].Severity)
	assert.Equal(t, "all systems operational", alerts[0].Message)
}

func TestAlertsStalledConfirmations(t *testing.T) {
	fx := newMetricsFixture(t)

	alerts := fx.svc.evaluateAlerts(dto.DashboardStats{
		Totals:      dto.TotalsParams{TotalOrders: 5, OrdersToday: 2, ConfirmedThisWeek: 0},
		SuccessRate: dto.SuccessRateDto{Current: 80},
	})

	require.Len(t, alerts, 1)
	assert.Equal(t, "warning", alerts[0].Severity)
	assert.Contains(t, alerts[0].Message, "none confirmed this week")
}

func TestAlertsNeverEmpty(t *testing.T) {
	fx := newMetricsFixture(t)
	fx.repo.totals = model.Totals{TotalOrders: 10, ConfirmedThisWeek: 2}
	fx.setWindows(10, 8, 5, 2)

	stats, err := fx.svc.DashboardStats(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, stats.Alerts)
	assert.Equal(t, "all systems operational", stats.Alerts[0].Message)
}
