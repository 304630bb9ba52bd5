package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/avolkov/lms-backend/internal/app/controllers"
	appMigrations "github.com/avolkov/lms-backend/internal/app/migrations"
	appRepos "github.com/avolkov/lms-backend/internal/app/repositories"
	appRoutes "github.com/avolkov/lms-backend/internal/app/routes"
	appServices "github.com/avolkov/lms-backend/internal/app/services"
	"github.com/avolkov/lms-backend/internal/config"
	"github.com/avolkov/lms-backend/internal/db"
	appMiddleware "github.com/avolkov/lms-backend/internal/middleware"
	pkgAuth "github.com/avolkov/lms-backend/internal/pkg/auth"
	"github.com/avolkov/lms-backend/internal/pkg/filestorage"
	"github.com/avolkov/lms-backend/internal/pkg/gateway"
	"github.com/avolkov/lms-backend/internal/pkg/helpers"
	"github.com/avolkov/lms-backend/internal/pkg/logger"
	"github.com/avolkov/lms-backend/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	UserService     appServices.UserService
	MediaService    appServices.MediaService
	SectionService  appServices.SectionService
	MaterialService appServices.MaterialService
	TestService     appServices.TestService
	PaymentService  appServices.PaymentService

	UserController     *appControllers.UserController
	MediaController    *appControllers.MediaController
	SectionController  *appControllers.SectionController
	MaterialController *appControllers.MaterialController
	TestController     *appControllers.TestController
	PaymentController  *appControllers.PaymentController

	AuthMiddleware *appMiddleware.AuthMiddleware
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	Gateway        *gateway.Client
	FileStorage    *filestorage.LocalStorage
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.Pool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		database.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool)

	migrationsDir := filepath.Join("internal", "app", "migrations")
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), database.Pool, lgr); err != nil {
		// Seeding is best-effort; startup continues
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 24*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.Gateway = gateway.NewClient(gateway.Config{
		BaseURL:   cfg.Gateway.BaseURL,
		SecretKey: cfg.Gateway.SecretKey,
		Timeout:   cfg.GatewayTimeout(),
	})

	// Stored paths must match the static file serving URL path
	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, "/uploads")
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.UserService = appServices.NewUserService(deps.Repos.UserRepository, deps.JWTService)
	deps.MediaService = appServices.NewMediaService(deps.Repos.MediaRepository)
	deps.SectionService = appServices.NewSectionService(
		deps.Repos.SectionRepository,
		deps.Repos.MediaRepository,
		deps.Repos.MaterialRepository,
	)
	deps.MaterialService = appServices.NewMaterialService(
		deps.Repos.MaterialRepository,
		deps.Repos.SectionRepository,
		deps.Repos.MediaRepository,
	)
	deps.TestService = appServices.NewTestService(
		deps.Repos.TestRepository,
		deps.Repos.MaterialRepository,
		deps.Repos.MediaRepository,
	)
	deps.PaymentService = appServices.NewPaymentService(
		deps.Repos.PaymentRepository,
		deps.Repos.SectionRepository,
		deps.Gateway,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.UserController = appControllers.NewUserController(deps.UserService)
	deps.MediaController = appControllers.NewMediaController(deps.MediaService, deps.FileStorage)
	deps.SectionController = appControllers.NewSectionController(
		deps.SectionService,
		deps.MaterialService,
		deps.PaymentService,
	)
	deps.MaterialController = appControllers.NewMaterialController(deps.MaterialService)
	deps.TestController = appControllers.NewTestController(deps.TestService)
	deps.PaymentController = appControllers.NewPaymentController(deps.PaymentService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	appMiddleware.RegisterCustomValidators()

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(), gin.Recovery())

	appRoutes.SetupSwagger(router)

	// Serve uploaded media files
	router.Static("/uploads", cfg.Server.StoragePath)

	appRoutes.SetupRouter(router,
		deps.UserController,
		deps.MediaController,
		deps.SectionController,
		deps.MaterialController,
		deps.TestController,
		deps.PaymentController,
		deps.AuthMiddleware,
	)

	return router
}
