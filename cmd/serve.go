package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	cancelBookingHandler "github.com/peti-app/appointment-service/internal/api/handlers/cancel_booking"
	completeBookingHandler "github.com/peti-app/appointment-service/internal/api/handlers/complete_booking"
	createBookingHandler "github.com/peti-app/appointment-service/internal/api/handlers/create_booking"
	getAppointmentHandler "github.com/peti-app/appointment-service/internal/api/handlers/get_appointment"
	getAvailabilityHandler "github.com/peti-app/appointment-service/internal/api/handlers/get_availability"
	getDailySlotsHandler "github.com/peti-app/appointment-service/internal/api/handlers/get_daily_slots"
	getProviderAppointmentsHandler "github.com/peti-app/appointment-service/internal/api/handlers/get_provider_appointments"
	getUserAppointmentsHandler "github.com/peti-app/appointment-service/internal/api/handlers/get_user_appointments"
	"github.com/peti-app/appointment-service/internal/api/middleware"
	"github.com/peti-app/appointment-service/internal/availability"
	"github.com/peti-app/appointment-service/internal/config"
	"github.com/peti-app/appointment-service/internal/infra/slotlock"
	appointmentRepo "github.com/peti-app/appointment-service/internal/infra/storage/appointment"
	"github.com/peti-app/appointment-service/internal/infra/storage/memory"
	"github.com/peti-app/appointment-service/internal/integrations/providerservice"
	appointmentsService "github.com/peti-app/appointment-service/internal/service/appointments"
	createBookingUC "github.com/peti-app/appointment-service/internal/usecase/create_booking"
	getAvailabilityUC "github.com/peti-app/appointment-service/internal/usecase/get_availability"
	"github.com/peti-app/appointment-service/pkg/dbmetrics"
	"github.com/peti-app/appointment-service/pkg/logger"
	"github.com/peti-app/appointment-service/pkg/metrics"
	"github.com/peti-app/appointment-service/pkg/txmanager"
)

const rateLimitCleanupInterval = time.Minute

// appointmentStore общий интерфейс postgres и in-memory хранилищ
type appointmentStore interface {
	createBookingUC.AppointmentRepository
	appointmentsService.AppointmentRepository
}

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(*configPath)
		},
	}
}

func runServer(configPath string) error {
	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level,
		logger.WithPretty(cfg.Logs.Pretty),
		logger.WithService(cfg.Metrics.ServiceName),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Close()

	log.Info("Starting appointment-service...")
	log.Info("Configuration loaded from %s (storage=%s)", configPath, cfg.Storage.Backend)

	// Инициализируем метрики (если включены)
	// Опциональные зависимости присваиваются интерфейсам только когда они есть
	var (
		metricsCollector    *metrics.Metrics
		dbCollector         dbmetrics.Collector
		bookingMetrics      createBookingUC.Metrics
		availabilityMetrics getAvailabilityUC.Metrics
		serviceMetrics      appointmentsService.Metrics
	)
	stopCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		dbCollector = metricsCollector
		bookingMetrics = metricsCollector
		availabilityMetrics = metricsCollector
		serviceMetrics = metricsCollector
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Хранилище и транзакции
	var (
		store     appointmentStore
		bookingTx createBookingUC.TransactionManager
		serviceTx appointmentsService.TransactionManager
	)

	switch cfg.Storage.Backend {
	case config.BackendMemory:
		memoryStore := memory.NewRepository()
		if cfg.Storage.SeedTestData {
			if err := memoryStore.Seed(context.Background(), time.Now()); err != nil {
				return fmt.Errorf("failed to seed memory store: %w", err)
			}
			log.Info("In-memory store seeded with test data")
		}
		store = memoryStore
		log.Info("Using in-memory store")

	default:
		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		// Настраиваем connection pool
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

		if err := db.Ping(); err != nil {
			return fmt.Errorf("failed to ping database: %w", err)
		}
		log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

		wrappedDB := dbmetrics.WrapWithDefault(db, dbCollector, stopCh)
		txMgr := txmanager.NewTransactionManager(wrappedDB).WithMaxRetries(cfg.Database.MaxTxRetries)

		store = appointmentRepo.NewRepository(wrappedDB)
		bookingTx = txMgr
		serviceTx = txMgr
	}

	engine := availability.NewEngine()

	// Опциональные интеграции для создания записи
	bookingOpts := []createBookingUC.Option{
		createBookingUC.WithAutoConfirm(cfg.Booking.AutoConfirm),
	}
	if bookingMetrics != nil {
		bookingOpts = append(bookingOpts, createBookingUC.WithMetrics(bookingMetrics))
	}

	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis is not reachable at %s, slot locks will fail open: %v", cfg.Redis.Addr, err)
		}
		cancel()

		locker := slotlock.NewLocker(redisClient, time.Duration(cfg.Redis.LockTTLMs)*time.Millisecond)
		bookingOpts = append(bookingOpts, createBookingUC.WithSlotLocker(locker))
		log.Info("Redis slot lock enabled (addr=%s, ttl=%dms)", cfg.Redis.Addr, cfg.Redis.LockTTLMs)
	}

	if cfg.ProviderService.URL != "" {
		providerClient := providerservice.NewClient(
			cfg.ProviderService.URL,
			time.Duration(cfg.ProviderService.Timeout)*time.Second,
			log,
		)
		bookingOpts = append(bookingOpts, createBookingUC.WithProviderDirectory(providerClient))
		log.Info("Provider directory client initialized (url=%s, timeout=%ds)",
			cfg.ProviderService.URL, cfg.ProviderService.Timeout)
	}

	// Сервисы и use cases
	appointmentSvc := appointmentsService.NewService(store, engine, serviceTx, serviceMetrics, log)
	createBookingUseCase := createBookingUC.NewUseCase(store, engine, bookingTx, log, bookingOpts...)
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(store, availabilityMetrics, log)

	// Инициализируем handlers
	getDailySlots := getDailySlotsHandler.NewHandler(log)
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(appointmentSvc, log)
	completeBooking := completeBookingHandler.NewHandler(appointmentSvc, log)
	getUserAppointments := getUserAppointmentsHandler.NewHandler(appointmentSvc, log)
	getProviderAppointments := getProviderAppointmentsHandler.NewHandler(appointmentSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		go limiter.RunCleanup(rateLimitCleanupInterval, stopCh)
		api.Use(limiter.Middleware())
		log.Info("Rate limiting enabled (rps=%.1f, burst=%d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Каноническая сетка слотов
	api.HandleFunc("/slots", getDailySlots.Handle).Methods(http.MethodGet)

	// Доступность провайдера на дату
	api.HandleFunc("/providers/{providerId}/availability", getAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	protected.HandleFunc("/appointments", createBooking.Handle).Methods(http.MethodPost)

	// Списки регистрируются раньше /appointments/{appointmentId}
	protected.HandleFunc("/appointments/user/{userId}", getUserAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/provider/{providerId}", getProviderAppointments.Handle).Methods(http.MethodGet)

	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/complete", completeBooking.Handle).Methods(http.MethodPatch)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serverErr:
		close(stopCh)
		return fmt.Errorf("server failed to start: %w", err)
	}

	log.Info("Shutting down server...")

	// Останавливаем фоновые задачи (статистика пула, очистка лимитера)
	close(stopCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}
