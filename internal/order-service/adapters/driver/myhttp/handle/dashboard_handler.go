package handle

import (
	"net/http"
	"time"

	"freightflow/internal/mylogger"
	"freightflow/internal/order-service/core/ports"
)

type DashboardHandler struct {
	metricsService ports.IMetricsService
	db             ports.IDB
	broker         ports.INotifyBroker
	log            mylogger.Logger
}

func NewDashboardHandler(ms ports.IMetricsService, db ports.IDB, broker ports.INotifyBroker, log mylogger.Logger) *DashboardHandler {
	return &DashboardHandler{
		metricsService: ms,
		db:             db,
		broker:         broker,
		log:            log,
	}
}

func (dh *DashboardHandler) Stats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := dh.metricsService.DashboardStats(r.Context())
		if err != nil {
			respondError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

// Health reports the service and its dependencies. The endpoint stays
// 200 even when a dependency is down, callers read the component map.
func (dh *DashboardHandler) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]string{
			"database": componentStatus(dh.db.IsAlive() == nil),
			"broker":   componentStatus(dh.broker.IsAlive()),
		}

		status := "ok"
		for _, s := range components {
			if s != "up" {
				status = "degraded"
			}
		}

		jsonResponse(w, http.StatusOK, map[string]interface{}{
			"status":     status,
			"components": components,
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func componentStatus(alive bool) string {
	if alive {
		return "up"
	}
	return "down"
}
