package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"jbook-backend/internal/config"
	"jbook-backend/internal/domains/book/handler"
	"jbook-backend/internal/domains/book/repository"
	"jbook-backend/internal/domains/book/service"
	infraCache "jbook-backend/internal/infrastructure/cache"
	"jbook-backend/internal/infrastructure/database"
	"jbook-backend/pkg/cache"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds every dependency of the application and is the root of the
// dependency graph. All members are singletons for the process lifetime.
type Container struct {
	// Infrastructure, shared across domains
	Config *config.Config
	DB     *database.MySQLDB
	Cache  cache.Cache

	// Book domain, wired repository -> service -> handler
	BookRepo    repository.BookRepository
	BookService service.BookService
	BookHandler *handler.BookHandler
}

// ========================================
// CONSTRUCTOR
// ========================================

// NewContainer builds the full dependency graph. Initialization order
// matters: config first, then infrastructure, then the domain layers on top.
func NewContainer() (*Container, error) {
	log.Println("🔧 Initializing DI container...")

	c := &Container{}

	// ========================================
	// STEP 1: CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("✅ Config loaded (environment: %s)", cfg.App.Environment)

	// ========================================
	// STEP 2: DATABASE
	// ========================================
	log.Println("🗄️  Connecting to MySQL...")

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}
	db := database.NewMySQLDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}

	c.DB = db
	log.Println("✅ Database connected")

	// ========================================
	// STEP 3: CACHE
	// ========================================
	// Redis failure is not fatal, reads fall through to the database.
	log.Println("🔴 Connecting to Redis...")

	redisCache := infraCache.NewRedisCache(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if err := redisCache.Connect(context.Background()); err != nil {
		log.Printf("⚠️  Redis connection failed (non-critical): %v", err)
	} else {
		c.Cache = redisCache
		log.Println("✅ Redis connected")
	}

	// ========================================
	// STEP 4: DOMAIN WIRING
	// ========================================
	c.BookRepo = repository.NewMySQLRepository(db.DB)
	c.BookService = service.NewBookService(c.BookRepo)
	c.BookHandler = handler.NewBookHandler(c.BookService, c.Cache)

	log.Println("🎉 DI container initialized")
	return c, nil
}

// ========================================
// CLEANUP
// ========================================

// Cleanup releases infrastructure resources during graceful shutdown.
func (c *Container) Cleanup() {
	log.Println("🧹 Cleaning up container resources...")

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			log.Printf("⚠️  Failed to close database: %v", err)
		} else {
			log.Println("✅ Database connections closed")
		}
	}

	if rc, ok := c.Cache.(*infraCache.RedisCache); ok && rc != nil {
		if err := rc.Close(); err != nil {
			log.Printf("⚠️  Failed to close Redis: %v", err)
		} else {
			log.Println("✅ Redis connections closed")
		}
	}
}
