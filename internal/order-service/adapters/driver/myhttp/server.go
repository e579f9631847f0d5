package myhttp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"freightflow/internal/config"
	"freightflow/internal/mylogger"
	"freightflow/internal/order-service/adapters/driven/bm"
	"freightflow/internal/order-service/adapters/driven/db"
	"freightflow/internal/order-service/adapters/driver/myhttp/handle"
	"freightflow/internal/order-service/adapters/driver/myhttp/middleware"
	"freightflow/internal/order-service/adapters/driver/myhttp/ws"
	"freightflow/internal/order-service/core/ports"
	"freightflow/internal/order-service/core/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

var ErrServerClosed = errors.New("Server closed")

const WaitTime = 10

type Server struct {
	router *chi.Mux
	cfg    *config.Config
	srv    *http.Server
	mylog  mylogger.Logger
	db     *db.DB
	mb     ports.INotifyBroker
	ctx    context.Context
	appCtx context.Context
	mu     sync.Mutex
	wg     sync.WaitGroup
}

func NewServer(ctx, appCtx context.Context, mylog mylogger.Logger, cfg *config.Config) *Server {
	return &Server{
		ctx:    ctx,
		appCtx: appCtx,
		cfg:    cfg,
		mylog:  mylog,
		router: chi.NewRouter(),
	}
}

// Run initializes dependencies and routes, then listens until the
// context is cancelled or the listener fails.
func (s *Server) Run() error {
	mylog := s.mylog.Action("server_started")

	database, err := db.New(s.ctx, s.cfg.DB, s.mylog)
	if err != nil {
		mylog.Action("db_connection_failed").Error("Failed to connect to database", err)
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = database
	mylog.Action("db_connected").Info("Successful database connection")

	mb, err := bm.New(s.appCtx, *s.cfg.RabbitMq, s.mylog)
	if err != nil {
		mylog.Action("rabbitmq_connection_failed").Error("Failed to connect to rabbitmq", err)
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	s.mb = mb
	mylog.Action("rabbitmq_connected").Info("Successful rabbitmq connection")

	s.Configure()

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%v", s.cfg.Srv.OrderServicePort),
		Handler: s.router,
	}
	s.mu.Unlock()

	mylog = mylog.WithGroup("details").With("port", s.cfg.Srv.OrderServicePort)

	mylog.Info("server is running")
	return s.startHTTPServer()
}

// Stop provides a programmatic shutdown. Accepts a context for timeout control.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mylog.Action("graceful_shutdown_started").Info("Shutting down HTTP server...")

	s.wg.Wait()

	if s.srv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, WaitTime*time.Second)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.mylog.Action("graceful_shutdown_failed").Error("Failed to shut down HTTP server gracefully", err)
			return fmt.Errorf("http server shutdown: %w", err)
		}
	}

	if s.mb != nil {
		if err := s.mb.Close(); err != nil {
			s.mylog.Action("rabbitmq_close_failed").Error("Failed to close rabbitmq connection", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.mylog.Action("db_close_failed").Error("Failed to close database", err)
			return fmt.Errorf("db close: %w", err)
		}
		s.mylog.Action("db_closed").Info("Database closed")
	}

	s.mylog.Action("graceful_shutdown_completed").Info("HTTP server shut down gracefully")

	return nil
}

func (s *Server) startHTTPServer() error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		} else {
			errCh <- nil
		}
	}()

	select {
	case <-s.ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Configure builds the repository, service and handler graph and
// registers the routes.
func (s *Server) Configure() {
	// Repositories
	ordersRepo := db.NewOrdersRepo(s.db)
	requestsRepo := db.NewRequestsRepo(s.db)
	confirmedRepo := db.NewConfirmedRepo(s.db)
	referenceRepo := db.NewReferenceRepo(s.db)
	notificationsRepo := db.NewNotificationsRepo(s.db)
	metricsRepo := db.NewMetricsRepo(s.db)

	// websocket fan-out
	dispatcher := ws.NewDispatcher(s.mylog)

	// services
	notificationService := services.NewNotificationService(s.mylog, notificationsRepo, s.mb, dispatcher)
	transitionService := services.NewTransitionService(s.mylog, ordersRepo, requestsRepo, confirmedRepo, referenceRepo, notificationService)
	metricsService := services.NewMetricsService(s.mylog, metricsRepo, s.cfg.App)

	// handlers
	ordersHandler := handle.NewOrdersHandler(transitionService, s.mylog)
	requestsHandler := handle.NewRequestsHandler(transitionService, s.mylog)
	notificationsHandler := handle.NewNotificationsHandler(notificationService, s.mylog)
	dashboardHandler := handle.NewDashboardHandler(metricsService, s.db, s.mb, s.mylog)

	authMiddleware := middleware.NewAuthMiddleware(s.cfg.App.PublicJwtSecret)

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	s.router.Get("/health", dashboardHandler.Health())

	s.router.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware.Wrap)

		r.Route("/orders", func(r chi.Router) {
			r.With(authMiddleware.RequireRole(middleware.RoleSupplier)).Post("/", ordersHandler.SubmitOrder())
			r.With(authMiddleware.RequireRole(middleware.RoleSupplier)).Get("/my", ordersHandler.ListMyOrders())
			r.With(authMiddleware.RequireRole(middleware.RoleSupplier)).Delete("/{order_id}/withdraw", ordersHandler.WithdrawOrder())

			r.With(authMiddleware.RequireRole(middleware.RoleAdmin)).Get("/pending", ordersHandler.ListPendingOrders())
			r.With(authMiddleware.RequireRole(middleware.RoleAdmin)).Put("/{order_id}/confirm", ordersHandler.ConfirmOrder())
			r.With(authMiddleware.RequireRole(middleware.RoleAdmin)).Put("/{order_id}/reject", ordersHandler.RejectOrder())
			r.With(authMiddleware.RequireRole(middleware.RoleAdmin)).Delete("/{order_id}", ordersHandler.DeleteOrder())
		})

		r.Route("/requests", func(r chi.Router) {
			r.With(authMiddleware.RequireRole(middleware.RoleBuyer)).Post("/", requestsHandler.CreateRequest())
			r.With(authMiddleware.RequireRole(middleware.RoleBuyer)).Get("/my", requestsHandler.ListMyRequests())
			r.With(authMiddleware.RequireRole(middleware.RoleBuyer)).Put("/{request_id}/submit", requestsHandler.SubmitRequest())

			r.With(authMiddleware.RequireRole(middleware.RoleAdmin)).Put("/{request_id}/confirm", requestsHandler.ConfirmRequest())
			r.With(authMiddleware.RequireRole(middleware.RoleAdmin)).Put("/{request_id}/reject", requestsHandler.RejectRequest())
		})

		r.Route("/confirmed", func(r chi.Router) {
			r.With(authMiddleware.RequireRole(middleware.RoleSupplier)).Get("/my", ordersHandler.ListMyConfirmed())
			r.With(authMiddleware.RequireRole(middleware.RoleSupplier)).Put("/{confirmed_id}/status", ordersHandler.AdvanceConfirmed())
			r.With(authMiddleware.RequireRole(middleware.RoleAdmin)).Put("/{confirmed_id}/cancel", ordersHandler.CancelConfirmed())
		})

		r.Route("/drivers", func(r chi.Router) {
			r.Use(authMiddleware.RequireRole(middleware.RoleAdmin))
			r.Delete("/{driver_id}", ordersHandler.DeleteDriver())
		})
		r.Route("/vehicles", func(r chi.Router) {
			r.Use(authMiddleware.RequireRole(middleware.RoleAdmin))
			r.Delete("/{vehicle_id}", ordersHandler.DeleteVehicle())
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", notificationsHandler.Feed())
			r.Put("/{notification_id}/read", notificationsHandler.MarkRead())
			r.Put("/read-all", notificationsHandler.MarkAllRead())
			r.Delete("/", notificationsHandler.Clear())
		})

		r.Get("/dashboard/stats", dashboardHandler.Stats())
	})

	// websocket route, audience comes from the verified token
	s.router.With(authMiddleware.Wrap).Get("/ws/feed", dispatcher.FeedHandler())
}
