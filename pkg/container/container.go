package container

import (
	"context"
	"fmt"
	"log"

	"github.com/hibiken/asynq"

	"journal-backend/internal/config"
	infraCache "journal-backend/internal/infrastructure/cache"
	"journal-backend/internal/infrastructure/database"
	"journal-backend/internal/infrastructure/storage"
	"journal-backend/pkg/cache"
	"journal-backend/pkg/jwt"

	fileHandler "journal-backend/internal/domains/file/handler"
	fileRepo "journal-backend/internal/domains/file/repository"
	fileService "journal-backend/internal/domains/file/service"
	submissionHandler "journal-backend/internal/domains/submission/handler"
	submissionRepo "journal-backend/internal/domains/submission/repository"
	submissionService "journal-backend/internal/domains/submission/service"
	userHandler "journal-backend/internal/domains/user/handler"
	userRepo "journal-backend/internal/domains/user/repository"
	userService "journal-backend/internal/domains/user/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph. Everything in it is a
// singleton built once at startup, in dependency order.
type Container struct {
	// Infrastructure
	Config      *config.Config
	DB          *database.PostgresDB
	Cache       cache.Cache
	Storage     storage.FileStorage
	AsynqClient *asynq.Client
	JWTManager  *jwt.Manager

	// Repositories
	SubmissionRepo submissionRepo.SubmissionRepository
	FileRepo       fileRepo.FileRepository
	UserRepo       userRepo.UserRepository

	// Services
	SubmissionService submissionService.SubmissionService
	FileService       fileService.FileService
	UserService       userService.UserService

	// HTTP handlers
	SubmissionHandler *submissionHandler.SubmissionHandler
	FileHandler       *fileHandler.FileHandler
	UserHandler       *userHandler.UserHandler
}

// ========================================
// CONSTRUCTOR
// ========================================

// NewContainer builds the whole graph: config, infrastructure,
// repositories, services, handlers. Order matters.
func NewContainer() (*Container, error) {
	log.Println("🔧 Initializing DI Container...")

	c := &Container{}
	ctx := context.Background()

	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	c.Config = cfg
	log.Printf("✅ Config loaded (Environment: %s)", cfg.App.Environment)

	// 2. PostgreSQL
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}
	c.DB = database.NewPostgresDB(dbConfig)
	if err := c.DB.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("✅ PostgreSQL connected")

	// 3. Redis cache
	redisCache := infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisCache.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	c.Cache = redisCache
	log.Println("✅ Redis connected")

	// 4. Object storage
	minioStorage, err := storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object storage: %w", err)
	}
	c.Storage = minioStorage
	log.Println("✅ MinIO ready")

	// 5. Task queue client
	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// 6. JWT
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)

	// 7. Repositories
	c.SubmissionRepo = submissionRepo.NewPostgresSubmissionRepository(c.DB.Pool)
	c.FileRepo = fileRepo.NewPostgresFileRepository(c.DB.Pool)
	c.UserRepo = userRepo.NewPostgresUserRepository(c.DB.Pool, c.Cache)

	// 8. Services
	c.SubmissionService = submissionService.NewSubmissionService(
		c.SubmissionRepo, c.FileRepo, c.AsynqClient, cfg.Submission)
	c.FileService = fileService.NewFileService(c.FileRepo, c.SubmissionRepo, c.Storage)
	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager)

	// 9. Handlers
	c.SubmissionHandler = submissionHandler.NewSubmissionHandler(c.SubmissionService)
	c.FileHandler = fileHandler.NewFileHandler(c.FileService)
	c.UserHandler = userHandler.NewUserHandler(c.UserService)

	log.Println("✅ DI Container ready")
	return c, nil
}

// Cleanup closes every connection the container owns.
func (c *Container) Cleanup() {
	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Printf("⚠️  Failed to close asynq client: %v", err)
		}
	}
	if closer, ok := c.Cache.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			log.Printf("⚠️  Failed to close redis: %v", err)
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			log.Printf("⚠️  Failed to close database: %v", err)
		}
	}
}
