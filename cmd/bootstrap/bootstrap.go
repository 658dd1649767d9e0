package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"doctor-booking/config"
	deliveryHttp "doctor-booking/internal/delivery/http"
	"doctor-booking/internal/delivery/http/handler"
	"doctor-booking/internal/delivery/http/middleware"
	"doctor-booking/internal/infrastructure/cache"
	"doctor-booking/internal/infrastructure/database"
	"doctor-booking/internal/infrastructure/messaging"
	"doctor-booking/internal/repository"
	"doctor-booking/internal/service"
	"doctor-booking/internal/usecase"
	"doctor-booking/pkg/calendar"
	"doctor-booking/pkg/jwt"
	"doctor-booking/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Publisher   *messaging.RabbitMQPublisher
	Locker      *service.LocalLocker
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	if err := setupLogger(cfg.App); err != nil {
		return nil, err
	}
	logrus.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	if cfg.App.IsDevelopment() {
		if err := database.AutoMigrate(db); err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to auto-migrate: %w", err)
		}
		logrus.Info("Database schema migrated")
	}

	// Initialize Redis
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(cfg.Redis, logrus.StandardLogger())
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		app.RedisClient = redisClient
		logrus.Info("Redis connected successfully")
	}

	// Initialize RabbitMQ
	if cfg.RabbitMQ.Enabled {
		publisher, err := messaging.NewRabbitMQPublisher(cfg.RabbitMQ)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		app.Publisher = publisher
	}

	// Initialize all layers
	server, err := app.initializeServer()
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Server = server

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(cfg config.AppConfig) error {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	logrus.SetLevel(level)
	return nil
}

// initializeServer creates and configures the HTTP server
func (app *App) initializeServer() (*http.Server, error) {
	cfg := app.Config
	db := app.DB

	// Initialize logger
	log := logrus.StandardLogger()

	// Calendar and timezone used to resolve visit dates
	location, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.App.Timezone, err)
	}
	displayCalendar, err := calendar.New(cfg.Booking.DisplayCalendar)
	if err != nil {
		return nil, err
	}
	resolver := service.NewDateResolver(location, displayCalendar)
	clock := service.NewSystemClock()

	// Per-key locks, shared across replicas when Redis is available
	app.Locker = service.NewLocalLocker(log, cfg.Booking.LockWait)
	var locker service.KeyedLocker = app.Locker
	if app.RedisClient != nil {
		locker = service.NewRedisLocker(app.RedisClient, app.Locker, log, cfg.Booking.LockTTL, cfg.Booking.LockWait)
	}

	var messagePublisher service.MessagePublisher
	if app.Publisher != nil {
		messagePublisher = app.Publisher
	}
	eventPublisher := service.NewEventPublisher(messagePublisher, log)

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	doctorRepo := repository.NewDoctorRepository()
	scheduleRepo := repository.NewDoctorScheduleRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	auditService := service.NewAuditService(log, auditLogRepo)

	// Initialize usecases
	scheduleUsecase := usecase.NewDoctorScheduleUsecase(db, log, cfg.Booking, locker, auditService, scheduleRepo, doctorRepo)
	bookingUsecase := usecase.NewPatientBookingUsecase(db, log, clock, resolver, locker, auditService, eventPublisher,
		doctorRepo, scheduleRepo, appointmentRepo, userRepo)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, clock, locker, auditService, eventPublisher,
		appointmentRepo, userRepo)
	walletUsecase := usecase.NewWalletUsecase(db, log, cfg.Booking, auditService, userRepo)
	doctorUsecase := usecase.NewDoctorProfileUsecase(db, log, clock, auditService, doctorRepo)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Initialize handlers
	doctorHandler := handler.NewDoctorHandler(doctorUsecase, customValidator)
	doctorScheduleHandler := handler.NewDoctorScheduleHandler(scheduleUsecase, customValidator)
	appointmentHandler := handler.NewAppointmentHandler(bookingUsecase, appointmentUsecase, customValidator)
	walletHandler := handler.NewWalletHandler(walletUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase, customValidator)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, app.RedisClient)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigins...)

	// Initialize router
	router := deliveryHttp.NewRouter(doctorHandler, doctorScheduleHandler, appointmentHandler, walletHandler,
		auditLogHandler, authMiddleware, corsMiddleware, cfg.Booking.RateLimitPerMinute)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, rabbitmq)
func (app *App) Close() {
	if app.Locker != nil {
		app.Locker.Stop()
	}

	if app.Publisher != nil {
		if err := app.Publisher.Close(); err != nil {
			logrus.Warnf("Failed to close RabbitMQ publisher: %v", err)
		}
	}

	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
