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

	bookAppointmentHandler "github.com/carewell/CW-AppointmentService/internal/api/handlers/book_appointment"
	cancelAppointmentHandler "github.com/carewell/CW-AppointmentService/internal/api/handlers/cancel_appointment"
	getAppointmentHandler "github.com/carewell/CW-AppointmentService/internal/api/handlers/get_appointment"
	getAvailabilityHandler "github.com/carewell/CW-AppointmentService/internal/api/handlers/get_availability"
	getDoctorAppointmentsHandler "github.com/carewell/CW-AppointmentService/internal/api/handlers/get_doctor_appointments"
	getDoctorCalendarHandler "github.com/carewell/CW-AppointmentService/internal/api/handlers/get_doctor_calendar"
	getPatientAppointmentsHandler "github.com/carewell/CW-AppointmentService/internal/api/handlers/get_patient_appointments"
	rescheduleAppointmentHandler "github.com/carewell/CW-AppointmentService/internal/api/handlers/reschedule_appointment"
	updateAppointmentStatusHandler "github.com/carewell/CW-AppointmentService/internal/api/handlers/update_appointment_status"
	updateDoctorCalendarHandler "github.com/carewell/CW-AppointmentService/internal/api/handlers/update_doctor_calendar"
	watchAvailabilityHandler "github.com/carewell/CW-AppointmentService/internal/api/handlers/watch_availability"
	"github.com/carewell/CW-AppointmentService/internal/api/middleware"
	"github.com/carewell/CW-AppointmentService/internal/config"
	appointmentRepo "github.com/carewell/CW-AppointmentService/internal/infra/storage/appointment"
	calendarRepo "github.com/carewell/CW-AppointmentService/internal/infra/storage/calendar"
	"github.com/carewell/CW-AppointmentService/internal/infra/watch"
	profileServiceClient "github.com/carewell/CW-AppointmentService/internal/integrations/profileservice"
	appointmentsService "github.com/carewell/CW-AppointmentService/internal/service/appointments"
	calendarService "github.com/carewell/CW-AppointmentService/internal/service/calendar"
	bookAppointmentUC "github.com/carewell/CW-AppointmentService/internal/usecase/book_appointment"
	rescheduleAppointmentUC "github.com/carewell/CW-AppointmentService/internal/usecase/reschedule_appointment"
	resolveAvailabilityUC "github.com/carewell/CW-AppointmentService/internal/usecase/resolve_availability"
	"github.com/carewell/CW-AppointmentService/pkg/dbmetrics"
	"github.com/carewell/CW-AppointmentService/pkg/logger"
	"github.com/carewell/CW-AppointmentService/pkg/metrics"
	"github.com/carewell/CW-AppointmentService/pkg/simpletxmanager"
	"github.com/carewell/CW-AppointmentService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting CW-AppointmentService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем клиент ProfileService
	profileClient := profileServiceClient.NewClient(
		cfg.ProfileService.URL,
		time.Duration(cfg.ProfileService.Timeout)*time.Second,
		log,
	)
	log.Info("ProfileService client initialized (url=%s, timeout=%ds)",
		cfg.ProfileService.URL, cfg.ProfileService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		appointmentRepository *appointmentRepo.Repository
		calendarRepository    *calendarRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases и сервисах)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		calendarRepository = calendarRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		appointmentRepository = appointmentRepo.NewRepository(db)
		calendarRepository = calendarRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	appointmentSvc := appointmentsService.NewService(appointmentRepository, log)
	calendarSvc := calendarService.NewService(calendarRepository, profileClient, txMgr, log)

	// Инициализируем use cases
	resolveAvailabilityUseCase := resolveAvailabilityUC.NewUseCase(
		appointmentRepository,
		calendarRepository,
		profileClient,
		log,
	)
	bookAppointmentUseCase := bookAppointmentUC.NewUseCase(
		appointmentRepository,
		calendarRepository,
		profileClient,
		txMgr,
		log,
	)
	rescheduleAppointmentUseCase := rescheduleAppointmentUC.NewUseCase(
		appointmentRepository,
		calendarRepository,
		txMgr,
		log,
	)

	// Запускаем hub рассылки изменений занятости (LISTEN/NOTIFY -> SSE)
	hub := watch.NewHub(cfg.Database.DSN(), log)
	hubCtx, stopHub := context.WithCancel(context.Background())
	go func() {
		if err := hub.Run(hubCtx); err != nil && err != context.Canceled {
			log.Error("Availability hub stopped: %v", err)
		}
	}()

	// Инициализируем handlers
	getAvailability := getAvailabilityHandler.NewHandler(resolveAvailabilityUseCase, log)
	watchAvailability := watchAvailabilityHandler.NewHandler(resolveAvailabilityUseCase, hub, log)
	bookAppointment := bookAppointmentHandler.NewHandler(bookAppointmentUseCase, log)
	rescheduleAppointment := rescheduleAppointmentHandler.NewHandler(rescheduleAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentSvc, log)
	getPatientAppointments := getPatientAppointmentsHandler.NewHandler(appointmentSvc, log)
	getDoctorAppointments := getDoctorAppointmentsHandler.NewHandler(appointmentSvc, log)
	getDoctorCalendar := getDoctorCalendarHandler.NewHandler(calendarSvc, log)
	updateDoctorCalendar := updateDoctorCalendarHandler.NewHandler(calendarSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступность слотов врача на дату
	api.HandleFunc("/doctors/{doctorId}/availability",
		getAvailability.Handle).Methods(http.MethodGet)

	// SSE поток изменений доступности
	api.HandleFunc("/doctors/{doctorId}/availability/watch",
		watchAvailability.Handle).Methods(http.MethodGet)

	// Календарь врача
	api.HandleFunc("/doctors/{doctorId}/calendar",
		getDoctorCalendar.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Приёмы ---
	// Запись к врачу
	protected.HandleFunc("/appointments", bookAppointment.Handle).Methods(http.MethodPost)

	// Получение приёма по ID
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Перенос приёма на новый слот
	protected.HandleFunc("/appointments/{appointmentId}/reschedule", rescheduleAppointment.Handle).Methods(http.MethodPatch)

	// Отмена приёма
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

	// Подтверждение и завершение приёма врачом
	protected.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)

	// История приёмов пациента
	protected.HandleFunc("/patients/{patientId}/appointments", getPatientAppointments.Handle).Methods(http.MethodGet)

	// --- Кабинет врача ---
	// Расписание врача
	protected.HandleFunc("/doctors/{doctorId}/appointments", getDoctorAppointments.Handle).Methods(http.MethodGet)

	// Обновление календаря врача
	protected.HandleFunc("/doctors/{doctorId}/calendar", updateDoctorCalendar.Handle).Methods(http.MethodPut)

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
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем hub и сбор метрик connection pool
	stopHub()
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
