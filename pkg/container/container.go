package container

import (
	"context"
	"fmt"
	"time"

	"talenthub-backend/internal/config"
	infracache "talenthub-backend/internal/infrastructure/cache"
	"talenthub-backend/internal/infrastructure/database"
	"talenthub-backend/internal/infrastructure/storage"
	"talenthub-backend/pkg/cache"
	"talenthub-backend/pkg/jwt"
	"talenthub-backend/pkg/logger"

	bookingHandler "talenthub-backend/internal/domains/booking/handler"
	bookingRepo "talenthub-backend/internal/domains/booking/repository"
	bookingService "talenthub-backend/internal/domains/booking/service"
	notificationHandler "talenthub-backend/internal/domains/notification/handler"
	notificationRepo "talenthub-backend/internal/domains/notification/repository"
	notificationService "talenthub-backend/internal/domains/notification/service"
	reviewHandler "talenthub-backend/internal/domains/review/handler"
	reviewRepo "talenthub-backend/internal/domains/review/repository"
	reviewService "talenthub-backend/internal/domains/review/service"
	talentHandler "talenthub-backend/internal/domains/talent/handler"
	talentRepo "talenthub-backend/internal/domains/talent/repository"
	talentService "talenthub-backend/internal/domains/talent/service"
	userHandler "talenthub-backend/internal/domains/user/handler"
	userRepo "talenthub-backend/internal/domains/user/repository"
	userService "talenthub-backend/internal/domains/user/service"
)

// =====================================================
// CONTAINER
// =====================================================

// Container holds every dependency of the application. It is the root
// of the dependency graph: infrastructure first, then repositories,
// services and handlers on top. All components are singletons.
type Container struct {
	// Infrastructure
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	Storage    *storage.MinIOStorage
	JWTManager *jwt.Manager

	// Repositories
	UserRepo         userRepo.UserRepository
	TalentRepo       talentRepo.TalentRepository
	BookingRepo      bookingRepo.BookingRepository
	NotificationRepo notificationRepo.NotificationRepository
	ReviewRepo       reviewRepo.ReviewRepository

	// Services
	UserService         userService.UserService
	TalentService       talentService.TalentService
	BookingService      bookingService.BookingService
	NotificationService notificationService.NotificationService
	ReviewService       reviewService.ReviewService

	// Handlers
	UserHandler         *userHandler.UserHandler
	TalentHandler       *talentHandler.TalentHandler
	BookingHandler      *bookingHandler.BookingHandler
	NotificationHandler *notificationHandler.NotificationHandler
	ReviewHandler       *reviewHandler.ReviewHandler
}

// NewContainer builds the full dependency graph. Initialization order
// matters: config, then infrastructure, then repositories, services
// and handlers. Any failure aborts startup.
func NewContainer() (*Container, error) {
	c := &Container{}

	// Step 1: Configuration
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	logger.Init(cfg.App.Environment)
	logger.Info("config loaded", map[string]interface{}{"environment": cfg.App.Environment})

	// Step 2: PostgreSQL
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db
	logger.Info("database connected", nil)

	// Step 3: Redis. A failed connection is not fatal: cached reads
	// fall through to the database and lockout counters degrade.
	redisCache := infracache.NewRedisCache(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if err := redisCache.Ping(context.Background()); err != nil {
		logger.Warn("redis connection failed, continuing without cache", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		logger.Info("redis connected", nil)
	}
	c.Cache = redisCache

	// Step 4: MinIO object storage
	minioStorage, err := storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("failed to init object storage: %w", err)
	}
	c.Storage = minioStorage
	logger.Info("object storage ready", map[string]interface{}{"bucket": cfg.MinIO.Bucket})

	// Step 5: JWT manager
	c.JWTManager = jwt.NewManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Hour,
	)

	// Step 6: Repositories, services, handlers
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	logger.Info("container initialized", nil)
	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresUserRepository(pool)
	c.TalentRepo = talentRepo.NewPostgresTalentRepository(pool)
	c.BookingRepo = bookingRepo.NewPostgresBookingRepository(pool)
	c.NotificationRepo = notificationRepo.NewPostgresNotificationRepository(pool)
	c.ReviewRepo = reviewRepo.NewPostgresReviewRepository(pool)
}

func (c *Container) initServices() {
	// Notifications go first: talent, booking and review services all
	// fan events out through the notification service's Emitter.
	c.NotificationService = notificationService.NewNotificationService(c.NotificationRepo, c.Cache)

	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager, c.Cache, c.Storage)
	c.TalentService = talentService.NewTalentService(c.TalentRepo, c.NotificationService, c.Storage)
	c.BookingService = bookingService.NewBookingService(c.BookingRepo, c.TalentRepo, c.NotificationService)
	c.ReviewService = reviewService.NewReviewService(c.ReviewRepo, c.BookingRepo, c.NotificationService)
}

func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.TalentHandler = talentHandler.NewTalentHandler(c.TalentService)
	c.BookingHandler = bookingHandler.NewBookingHandler(c.BookingService)
	c.NotificationHandler = notificationHandler.NewNotificationHandler(c.NotificationService)
	c.ReviewHandler = reviewHandler.NewReviewHandler(c.ReviewService)
}

// Cleanup releases infrastructure resources. Called from the server's
// graceful shutdown path.
func (c *Container) Cleanup() {
	if c.DB != nil && c.DB.Pool != nil {
		c.DB.Pool.Close()
		logger.Info("database connections closed", nil)
	}

	if c.Cache != nil {
		if rc, ok := c.Cache.(*infracache.RedisCache); ok {
			if err := rc.Close(); err != nil {
				logger.Error("failed to close redis", err)
			}
		}
	}
}
