package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	authevents "github.com/algoaura/dashboard-backend/internal/auth/events"
	authhandler "github.com/algoaura/dashboard-backend/internal/auth/handler"
	"github.com/algoaura/dashboard-backend/internal/auth/jwt"
	authrepo "github.com/algoaura/dashboard-backend/internal/auth/repository"
	authservice "github.com/algoaura/dashboard-backend/internal/auth/service"
	"github.com/algoaura/dashboard-backend/internal/dashboard/consumers"
	"github.com/algoaura/dashboard-backend/internal/dashboard/events"
	"github.com/algoaura/dashboard-backend/internal/dashboard/handler"
	"github.com/algoaura/dashboard-backend/internal/dashboard/repository"
	"github.com/algoaura/dashboard-backend/internal/dashboard/service"
	"github.com/algoaura/dashboard-backend/pkg/config"
	"github.com/algoaura/dashboard-backend/pkg/database"
	"github.com/algoaura/dashboard-backend/pkg/httputil"
	"github.com/algoaura/dashboard-backend/pkg/logger"
	"github.com/algoaura/dashboard-backend/pkg/messaging"
	"github.com/algoaura/dashboard-backend/pkg/metrics"
	"github.com/algoaura/dashboard-backend/pkg/phone"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const serviceName = "dashboard-api"

func main() {
	// Load configuration with validation (fails fast in production if required config is missing)
	cfg, err := config.LoadWithValidation(serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(serviceName, cfg.Server.Environment)
	log.Info().Msg("starting dashboard API")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	m := metrics.New()

	// Repositories
	contactRepo := repository.NewContactRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	adminRepo := authrepo.NewAdminRepository(db)

	// Broker: events go nowhere unless RabbitMQ is enabled
	var (
		publisher messaging.EventPublisher = messaging.NewNopPublisher(log)
		rmq       *messaging.RabbitMQ
	)
	if cfg.RabbitMQ.Enabled {
		rmq, err = messaging.New(&cfg.RabbitMQ, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
		}
		defer rmq.Close()

		pub, err := messaging.NewPublisher(rmq, cfg.RabbitMQ.Exchange, serviceName, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create event publisher")
		}
		publisher = pub

		inbound := consumers.NewWhatsAppEventHandler(db, contactRepo, messageRepo, m, log)
		consumer, err := consumers.NewWhatsAppConsumer(rmq, &cfg.RabbitMQ, inbound, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create WhatsApp consumer")
		}
		if err := consumer.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to start WhatsApp consumer")
		}
		rmq.Watch(ctx, consumer.Restart)
	}

	phones := phone.NewValidator(cfg.Phone.DefaultRegion)
	ev := events.NewPublisher(publisher, m, log)
	adminEvents := authevents.NewAdminEventPublisher(publisher, m, log)

	// Services
	jwtManager := jwt.NewManager(&cfg.Session)
	authService := authservice.NewAuthService(db, adminRepo, jwtManager, phones, adminEvents, m, log)
	adminService := authservice.NewAdminService(adminRepo, adminEvents, log)

	// Handlers
	cookies := authhandler.NewCookies(&cfg.Session)
	authHandler := authhandler.NewAuthHandler(authService, cookies, log)
	adminHandler := authhandler.NewAdminHandler(adminService, log)
	sessions := authhandler.NewMiddleware(authService, cookies, log)

	dashboard := &handler.Handlers{
		Contacts:     handler.NewContactHandler(service.NewContactService(contactRepo, leadRepo, phones, ev, log), log),
		Messages:     handler.NewMessageHandler(service.NewMessageService(contactRepo, messageRepo, ev, m, log), log),
		Leads:        handler.NewLeadHandler(service.NewLeadService(leadRepo), log),
		Tasks:        handler.NewTaskHandler(service.NewTaskService(contactRepo, taskRepo), log),
		Appointments: handler.NewAppointmentHandler(service.NewAppointmentService(contactRepo, appointmentRepo, ev, m, log), log),
		Orders:       handler.NewOrderHandler(service.NewOrderService(orderRepo, ev, log), log),
		Catalog:      handler.NewCatalogHandler(service.NewCatalogService(catalogRepo, ev, log), log),
	}

	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(m.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		status := map[string]interface{}{
			"status":   "healthy",
			"service":  serviceName,
			"database": db.Health(r.Context()),
		}
		if rmq != nil {
			status["rabbitmq"] = rmq.Health()
		}
		httputil.JSON(w, http.StatusOK, status)
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", authHandler.Routes)

		r.Group(func(r chi.Router) {
			r.Use(sessions.RequireAuth)

			r.Route("/admins", func(r chi.Router) {
				r.Use(sessions.RequireSuperAdmin)
				adminHandler.Routes(r)
			})

			dashboard.Mount(r)
		})
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
