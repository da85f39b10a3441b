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

	assignStaffHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/assign_staff"
	cancelShiftHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/cancel_shift"
	createShiftsHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/create_shifts"
	deleteAssignmentHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/delete_assignment"
	deleteShiftHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/delete_shift"
	generateSlotsHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/generate_slots"
	listShiftsHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/list_shifts"
	listSlotsHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/list_slots"
	releaseSlotHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/release_slot"
	reserveSlotHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/reserve_slot"
	"github.com/m04kA/SMC-ScheduleService/internal/api/middleware"
	"github.com/m04kA/SMC-ScheduleService/internal/config"
	"github.com/m04kA/SMC-ScheduleService/internal/events"
	assignmentRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/assignment"
	shiftRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/shift"
	slotRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/slot"
	staffRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/staff"
	assignmentsService "github.com/m04kA/SMC-ScheduleService/internal/service/assignments"
	bookingsService "github.com/m04kA/SMC-ScheduleService/internal/service/bookings"
	shiftsService "github.com/m04kA/SMC-ScheduleService/internal/service/shifts"
	slotsService "github.com/m04kA/SMC-ScheduleService/internal/service/slots"
	generateSlotsUC "github.com/m04kA/SMC-ScheduleService/internal/usecase/generate_slots"
	syncCapacityUC "github.com/m04kA/SMC-ScheduleService/internal/usecase/sync_capacity"
	"github.com/m04kA/SMC-ScheduleService/internal/worker/shiftsweeper"
	"github.com/m04kA/SMC-ScheduleService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ScheduleService/pkg/logger"
	"github.com/m04kA/SMC-ScheduleService/pkg/metrics"
	"github.com/m04kA/SMC-ScheduleService/pkg/txmanager"
)

const defaultConfigPath = "config.toml"

func main() {
	// Загружаем конфигурацию (CONFIG_PATH переопределяет путь)
	cfg, err := config.Load(defaultConfigPath)
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

	log.Info("Starting SMC-ScheduleService...")

	location, err := cfg.Scheduler.Location()
	if err != nil {
		log.Fatal("Failed to load timezone %q: %v", cfg.Scheduler.Timezone, err)
	}

	// Инициализируем метрики (если включены).
	// При выключенных метриках metricsCollector остаётся nil: его методы это допускают.
	var metricsCollector *metrics.Metrics
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

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}

	// Инициализируем репозитории
	shiftRepository := shiftRepo.NewRepository(wrappedDB)
	assignmentRepository := assignmentRepo.NewRepository(wrappedDB)
	slotRepository := slotRepo.NewRepository(wrappedDB)
	staffRepository := staffRepo.NewRepository(wrappedDB)

	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Пересчёт ёмкости слотов и шина событий назначений
	syncCapacityUseCase := syncCapacityUC.NewUseCase(
		assignmentRepository,
		slotRepository,
		txMgr,
		metricsCollector,
		log,
	)

	bus := events.NewBus(syncCapacityUseCase, log.With("component", "eventbus"), events.Options{
		Workers:     cfg.Scheduler.SyncWorkers,
		QueueSize:   cfg.Scheduler.SyncQueueSize,
		SyncTimeout: time.Duration(cfg.Scheduler.SyncTimeout) * time.Second,
	})
	log.Info("Capacity sync bus started (workers=%d, queue=%d)", cfg.Scheduler.SyncWorkers, cfg.Scheduler.SyncQueueSize)

	// Инициализируем сервисы
	slotsSvc := slotsService.NewService(slotRepository, log)
	shiftsSvc := shiftsService.NewService(
		shiftRepository,
		assignmentRepository,
		slotRepository,
		txMgr,
		log,
	)
	assignmentsSvc := assignmentsService.NewService(
		assignmentRepository,
		shiftRepository,
		staffRepository,
		bus,
		txMgr,
		log,
	)
	bookingsSvc := bookingsService.NewService(slotRepository, txMgr, log, location)

	// Инициализируем use cases
	generateSlotsUseCase := generateSlotsUC.NewUseCase(
		shiftRepository,
		assignmentRepository,
		slotRepository,
		metricsCollector,
		log,
		cfg.Scheduler.MaxEstimatedSlots,
	)

	// Фоновое завершение смен
	sweeper := shiftsweeper.NewSweeper(
		shiftRepository,
		slotRepository,
		metricsCollector,
		log.With("component", "shiftsweeper"),
		location,
		cfg.Scheduler.SweepHour,
	)

	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	sweeperDone := make(chan struct{})
	go func() {
		defer close(sweeperDone)
		sweeper.Run(sweeperCtx)
	}()

	// Инициализируем handlers
	generateSlots := generateSlotsHandler.NewHandler(generateSlotsUseCase, log)
	listSlots := listSlotsHandler.NewHandler(slotsSvc, log)
	reserveSlot := reserveSlotHandler.NewHandler(bookingsSvc, log)
	releaseSlot := releaseSlotHandler.NewHandler(bookingsSvc, log)
	createShifts := createShiftsHandler.NewHandler(shiftsSvc, log)
	listShifts := listShiftsHandler.NewHandler(shiftsSvc, log)
	cancelShift := cancelShiftHandler.NewHandler(shiftsSvc, log)
	deleteShift := deleteShiftHandler.NewHandler(shiftsSvc, log)
	assignStaff := assignStaffHandler.NewHandler(assignmentsSvc, log)
	deleteAssignment := deleteAssignmentHandler.NewHandler(assignmentsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// --- Слоты ---
	api.HandleFunc("/slots/generate", generateSlots.Handle).Methods(http.MethodPost)
	api.HandleFunc("/slots", listSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/slots/{slotId}/reserve", reserveSlot.Handle).Methods(http.MethodPost)
	api.HandleFunc("/slots/{slotId}/release", releaseSlot.Handle).Methods(http.MethodPost)

	// --- Смены ---
	api.HandleFunc("/centers/{centerId}/shifts", createShifts.Handle).Methods(http.MethodPost)
	api.HandleFunc("/centers/{centerId}/shifts", listShifts.Handle).Methods(http.MethodGet)
	api.HandleFunc("/shifts/{shiftId}/cancel", cancelShift.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/shifts/{shiftId}", deleteShift.Handle).Methods(http.MethodDelete)

	// --- Назначения ---
	api.HandleFunc("/staff/{staffId}/assignments", assignStaff.Handle).Methods(http.MethodPost)
	api.HandleFunc("/assignments/{assignmentId}", deleteAssignment.Handle).Methods(http.MethodDelete)

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

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	// 1. Перестаём принимать запросы
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// 2. Останавливаем sweeper
	stopSweeper()
	<-sweeperDone

	// 3. Дожидаемся пересчётов ёмкости, уже поставленных в очередь
	bus.Close()
	log.Info("Capacity sync bus drained")

	// 4. Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	log.Info("Server stopped gracefully")
}
