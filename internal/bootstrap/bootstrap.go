package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/ulule/limiter/v3"

	appControllers "github.com/yigit/techfest/internal/app/controllers"
	appMigrations "github.com/yigit/techfest/internal/app/migrations"
	"github.com/yigit/techfest/internal/app/models/dto"
	appRepos "github.com/yigit/techfest/internal/app/repositories"
	appRoutes "github.com/yigit/techfest/internal/app/routes"
	appServices "github.com/yigit/techfest/internal/app/services"
	"github.com/yigit/techfest/internal/config"
	"github.com/yigit/techfest/internal/db"
	"github.com/yigit/techfest/internal/jobs"
	appMiddleware "github.com/yigit/techfest/internal/middleware"
	"github.com/yigit/techfest/internal/pkg/filestorage"
	"github.com/yigit/techfest/internal/pkg/logger"
	"github.com/yigit/techfest/internal/pkg/metrics"
	"github.com/yigit/techfest/internal/pkg/notify"
	"github.com/yigit/techfest/internal/pkg/ratelimit"
	"github.com/yigit/techfest/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Database *db.PostgresDB
	Repos    *appRepos.Repositories

	EventService        *appServices.EventService
	RegistrationService *appServices.RegistrationService
	HealthService       *appServices.HealthService

	EventController        *appControllers.EventController
	RegistrationController *appControllers.RegistrationController
	HealthController       *appControllers.HealthController

	Uploader    filestorage.ProofUploader
	Publisher   notify.Publisher
	Metrics     *metrics.Metrics
	Limiter     *limiter.Limiter
	RedisClient *redis.Client
	Scheduler   *jobs.Scheduler
	Logger      zerolog.Logger
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

	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")

	logEnvironment(cfg, lgr)
	return cfg, lgr, nil
}

// logEnvironment dumps the effective settings with secrets masked
func logEnvironment(cfg *config.Config, lgr zerolog.Logger) {
	lgr.Info().
		Str("mode", cfg.Server.Mode).
		Str("port", cfg.Server.Port).
		Str("frontendUrl", cfg.Server.FrontendURL).
		Str("databaseUrl", logger.Presence(cfg.Database.URL)).
		Str("databasePassword", logger.Mask(cfg.Database.Password)).
		Str("uploadProvider", cfg.Upload.Provider).
		Str("imgbbKey", logger.Mask(cfg.Upload.ImgBBAPIKey)).
		Str("s3Bucket", cfg.Upload.S3Bucket).
		Str("s3SecretKey", logger.Mask(cfg.Upload.S3SecretKey)).
		Str("redisAddr", cfg.RateLimit.RedisAddr).
		Strs("kafkaBrokers", cfg.Kafka.Brokers).
		Msg("Environment loaded")
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds the event catalog.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(cfg.GetPostgresConnectionString(), lgr)
	if err := migrator.Up(); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if cfg.Seed.EventsPath != "" {
		repo := appRepos.NewEventRepository(database.Pool)
		if _, err := seed.SeedEvents(ctx, repo, cfg.Seed.EventsPath, lgr); err != nil {
			// A broken catalog should not keep existing events offline
			lgr.Error().Err(err).Msg("Failed to seed event catalog, proceeding anyway...")
		}
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Database: database,
		Logger:   lgr,
		Metrics:  metrics.New(),
	}

	deps.Repos = appRepos.NewRepositories(database.Pool)

	uploader, err := filestorage.NewProofUploader(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize proof uploader")
		return nil, fmt.Errorf("failed to initialize proof uploader: %w", err)
	}
	if uploader == nil {
		lgr.Warn().Str("provider", cfg.Upload.Provider).Msg("Proof uploads not configured, storing placeholder URLs")
	}
	deps.Uploader = uploader

	deps.Publisher = notify.New(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	if len(cfg.Kafka.Brokers) > 0 {
		lgr.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("Registration events enabled")
	}

	deps.Limiter, deps.RedisClient = buildLimiter(ctx, cfg, lgr)

	engine := appServices.NewReservationEngine(deps.Repos.EventRepository, deps.Metrics, lgr)
	deps.EventService = appServices.NewEventService(deps.Repos.EventRepository)
	deps.RegistrationService = appServices.NewRegistrationService(
		deps.Repos.EventRepository,
		deps.Repos.RegistrationRepository,
		engine,
		deps.Uploader,
		deps.Publisher,
		deps.Metrics,
		lgr,
	)
	deps.HealthService = appServices.NewHealthService(
		database,
		deps.Repos.EventRepository,
		deps.Repos.RegistrationRepository,
		environmentFlags(cfg),
	)

	deps.EventController = appControllers.NewEventController(deps.EventService)
	deps.RegistrationController = appControllers.NewRegistrationController(deps.RegistrationService, cfg.Server.MaxUploadBytes)
	deps.HealthController = appControllers.NewHealthController(deps.HealthService)

	return deps, nil
}

// buildLimiter prefers Redis so windows are shared between instances and
// falls back to process memory when Redis is absent or unreachable.
func buildLimiter(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*limiter.Limiter, *redis.Client) {
	if cfg.RateLimit.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RateLimit.RedisAddr,
			Password: cfg.RateLimit.RedisPassword,
			DB:       cfg.RateLimit.RedisDB,
		})

		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		err := client.Ping(pingCtx).Err()
		if err == nil {
			var lim *limiter.Limiter
			lim, err = ratelimit.NewRedis(client, cfg.RateLimit.Max, cfg.RateLimit.Window)
			if err == nil {
				lgr.Info().Str("addr", cfg.RateLimit.RedisAddr).Msg("Rate limiter backed by Redis")
				return lim, client
			}
		}
		lgr.Warn().Err(err).Str("addr", cfg.RateLimit.RedisAddr).Msg("Redis unreachable, using in-memory rate limiter")
		_ = client.Close()
	}

	return ratelimit.NewMemory(cfg.RateLimit.Max, cfg.RateLimit.Window), nil
}

func environmentFlags(cfg *config.Config) dto.EnvironmentFlags {
	return dto.EnvironmentFlags{
		Mode:           cfg.Server.Mode,
		HasFrontendURL: cfg.Server.FrontendURL != "",
		FrontendURL:    cfg.Server.FrontendURL,
		HasDatabaseURL: cfg.Database.URL != "",
		HasImgbbKey:    cfg.Upload.ImgBBAPIKey != "",
		UploadProvider: cfg.Upload.Provider,
	}
}

// SetupJobs schedules the background jobs and starts the scheduler.
func SetupJobs(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) error {
	scheduler, err := jobs.NewScheduler(lgr)
	if err != nil {
		return err
	}

	monitor := jobs.NewDriftMonitor(deps.Repos.EventRepository, deps.Metrics, lgr)
	if err := scheduler.Every("capacity-drift", cfg.Jobs.DriftCheckInterval, monitor.Run); err != nil {
		_ = scheduler.Shutdown()
		return err
	}

	scheduler.Start()
	deps.Scheduler = scheduler
	return nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()

	origins := append([]string{cfg.Server.FrontendURL}, cfg.Server.AllowedOrigins...)
	router.Use(
		appMiddleware.Recovery(),
		appMiddleware.RequestID(),
		appMiddleware.RequestLogger(lgr),
		appMiddleware.Metrics(deps.Metrics),
		appMiddleware.CORS(origins),
		appMiddleware.CacheControl(),
	)

	opts := appRoutes.Options{RegisterLimiter: deps.Limiter}
	if cfg.Metrics.Enabled {
		opts.MetricsPath = cfg.Metrics.Path
		opts.MetricsHandler = deps.Metrics.Handler()
	}
	if local, ok := deps.Uploader.(*filestorage.LocalStorage); ok {
		opts.UploadsDir = local.Dir()
		lgr.Info().Str("path", local.Dir()).Msg("Static file serving configured for uploads directory")
	}

	appRoutes.SetupRouter(router, appRoutes.Controllers{
		Event:        deps.EventController,
		Registration: deps.RegistrationController,
		Health:       deps.HealthController,
	}, opts)

	return router
}

// Close drains background work and releases every external connection.
// The database pool is closed last.
func (d *Dependencies) Close() error {
	var errs error

	if d.Scheduler != nil {
		if err := d.Scheduler.Shutdown(); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	if d.RegistrationService != nil {
		d.RegistrationService.Drain()
	}
	if d.Publisher != nil {
		if err := d.Publisher.Close(); err != nil {
			errs = errors.Join(errs, fmt.Errorf("close publisher: %w", err))
		}
	}
	if d.RedisClient != nil {
		if err := d.RedisClient.Close(); err != nil {
			errs = errors.Join(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if d.Database != nil {
		d.Database.Close()
	}

	return errs
}
