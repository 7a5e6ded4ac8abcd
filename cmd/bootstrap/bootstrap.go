package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"patient-portal/config"
	deliveryHttp "patient-portal/internal/delivery/http"
	"patient-portal/internal/delivery/http/handler"
	"patient-portal/internal/delivery/http/middleware"
	"patient-portal/internal/infrastructure/cache"
	"patient-portal/internal/infrastructure/database"
	"patient-portal/internal/khanza"
	"patient-portal/internal/repository"
	"patient-portal/internal/service"
	"patient-portal/internal/usecase"
	"patient-portal/pkg/jwt"
	"patient-portal/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	KhanzaDB    *sql.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	cfg, err := Setup()
	if err != nil {
		return nil, err
	}
	app.Config = cfg

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	// Initialize Khanza database when that integration is selected
	if cfg.Khanza.Method() == config.KhanzaMethodDatabase {
		khanzaDB, err := database.NewKhanzaConnection(cfg.Khanza)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to open Khanza database: %w", err)
		}
		app.KhanzaDB = khanzaDB
	}

	// Initialize Redis
	if cfg.Queue.Backend == config.QueueBackendRedis {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			if !cfg.Queue.MemoryFallback {
				app.Close()
				return nil, fmt.Errorf("failed to connect to Redis: %w", err)
			}
			logrus.Warnf("Redis unavailable, queue numbers fall back to in-memory counters: %v", err)
		} else {
			app.RedisClient = redisClient
			logrus.Info("Redis connected successfully")
		}
	}

	// Initialize all layers
	app.Server = initializeServer(cfg, db, app.KhanzaDB, app.RedisClient)

	return app, nil
}

// Setup loads configuration and configures logging. It is shared by every
// command, including migrations.
func Setup() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	setupLogger(cfg.App.Env)
	logrus.Info("Configuration loaded successfully")
	return cfg, nil
}

// setupLogger configures the logrus logger
func setupLogger(env string) {
	if env == "development" {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// hospitalLocation resolves the configured timezone. Visit dates are calendar
// days in this zone.
func hospitalLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		logrus.Warnf("Unknown timezone %q, using UTC+7: %v", name, err)
		return time.FixedZone("WIB", 7*60*60)
	}
	return loc
}

// newRegistrar picks the Khanza integration from configuration
func newRegistrar(cfg *config.Config, khanzaDB *sql.DB, clinics *khanza.ClinicTable, log *logrus.Logger) khanza.Registrar {
	switch cfg.Khanza.Method() {
	case config.KhanzaMethodDatabase:
		return khanza.NewDatabaseRegistrar(khanzaDB, clinics, cfg.Khanza.Timeout, log)
	case config.KhanzaMethodBridging:
		return khanza.NewBridgingRegistrar(cfg.Khanza.BridgingURL, cfg.Khanza.BridgingKey, clinics, cfg.Khanza.Timeout, log)
	default:
		log.Warn("No Khanza integration configured, registrations are local-only")
		return khanza.NoopRegistrar{}
	}
}

// newQueueGenerator picks the local queue counter backend
func newQueueGenerator(cfg *config.Config, redisClient *redis.Client, clinics *khanza.ClinicTable, seeder service.QueueCounterSeeder, log *logrus.Logger) service.QueueGenerator {
	memory := service.NewMemoryQueueGenerator(clinics)
	if cfg.Queue.Backend == config.QueueBackendMemory || redisClient == nil {
		log.Warn("Queue numbers use in-memory counters; they reset on restart and are not shared between instances")
		return memory
	}
	redisGenerator := service.NewRedisQueueGenerator(redisClient, clinics, seeder, log)
	return service.NewFallbackQueueGenerator(redisGenerator, memory, cfg.Queue.MemoryFallback, log)
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, khanzaDB *sql.DB, redisClient *redis.Client) *http.Server {
	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Khanza collaborators
	clinics := khanza.DefaultClinicTable()
	registrar := newRegistrar(cfg, khanzaDB, clinics, log)
	var khanzaReader usecase.KhanzaReader
	if khanzaDB != nil {
		khanzaReader = khanza.NewReader(khanzaDB, khanza.NewMapper(khanza.DefaultFieldMaps()), cfg.Khanza.Timeout, log)
	}

	// Initialize repositories
	patientRepo := repository.NewPatientRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	doctorRepo := repository.NewDoctorRepository()
	faqRepo := repository.NewFAQRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	queueSyncService := service.NewQueueSyncService(db, appointmentRepo, log)
	queueGenerator := newQueueGenerator(cfg, redisClient, clinics, queueSyncService, log)

	// Initialize usecases
	registrationUsecase := usecase.NewRegistrationUsecase(db, log, patientRepo, appointmentRepo, doctorRepo, auditService,
		registrar, queueGenerator, clinics, hospitalLocation(cfg.App.Timezone))
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, patientRepo, appointmentRepo, auditService)
	doctorUsecase := usecase.NewDoctorUsecase(db, log, doctorRepo, auditService)
	faqUsecase := usecase.NewFAQUsecase(db, log, faqRepo, auditService)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)
	khanzaUsecase := usecase.NewKhanzaUsecase(log, khanzaReader, clinics)

	// Initialize handlers
	registrationHandler := handler.NewRegistrationHandler(registrationUsecase, customValidator, log)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, customValidator)
	doctorHandler := handler.NewDoctorHandler(doctorUsecase, customValidator)
	faqHandler := handler.NewFAQHandler(faqUsecase, customValidator)
	clinicHandler := handler.NewClinicHandler(clinics)
	khanzaHandler := handler.NewKhanzaHandler(khanzaUsecase)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.AllowedOrigins)

	// Initialize router
	router := deliveryHttp.NewRouter(registrationHandler, appointmentHandler, doctorHandler, faqHandler, clinicHandler,
		khanzaHandler, auditLogHandler, authMiddleware, corsMiddleware)
	httpRouter := router.Setup()

	log.Infof("Khanza sync method: %s", registrar.Method())

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}
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

// Close closes all connections (database, khanza, redis)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.KhanzaDB != nil {
		app.KhanzaDB.Close()
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}

// Migrate runs the schema migrations in the given direction
func Migrate(direction string) error {
	cfg, err := Setup()
	if err != nil {
		return err
	}

	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	return database.RunMigrations(db, direction)
}
