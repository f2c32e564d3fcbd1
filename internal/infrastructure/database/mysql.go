package database

import (
	"context"
	"fmt"
	"log"
	"time"

	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DBConfig centralizes everything needed to open and pool MySQL connections.
type DBConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	DBName   string

	// Connection pool tuning on the underlying *sql.DB.
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration

	// Startup retry behavior.
	MaxRetries     int
	RetryDelay     time.Duration
	ConnectTimeout time.Duration

	// LogSQL enables gorm's statement logging (development only).
	LogSQL bool
}

// MySQLDB wraps the gorm handle and manages its lifecycle.
type MySQLDB struct {
	DB     *gorm.DB
	Config *DBConfig
}

func NewMySQLDB(config *DBConfig) *MySQLDB {
	return &MySQLDB{Config: config}
}

// buildDSN renders the go-sql-driver DSN.
// clientFoundRows=true makes UPDATE report matched rows instead of changed
// rows; without it a same-values update of a live row would look like a
// missing resource.
func (db *MySQLDB) buildDSN() string {
	return fmt.Sprintf(
		"%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&clientFoundRows=true&timeout=%s",
		db.Config.Username,
		db.Config.Password,
		db.Config.Host,
		db.Config.Port,
		db.Config.DBName,
		db.Config.ConnectTimeout,
	)
}

// Connect opens the gorm handle with retry and exponential backoff, then
// configures the underlying connection pool.
func (db *MySQLDB) Connect(ctx context.Context) error {
	log.Println("[DATABASE] Initializing MySQL connection...")

	logLevel := gormlogger.Warn
	if db.Config.LogSQL {
		logLevel = gormlogger.Info
	}
	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	}

	dsn := db.buildDSN()

	var gormDB *gorm.DB
	var lastErr error
	for attempt := 1; attempt <= db.Config.MaxRetries; attempt++ {
		log.Printf("[DATABASE] Connection attempt %d/%d", attempt, db.Config.MaxRetries)

		gormDB, lastErr = gorm.Open(gormmysql.Open(dsn), gormConfig)
		if lastErr == nil {
			break
		}

		log.Printf("[DATABASE] Attempt %d failed: %v", attempt, lastErr)

		if attempt < db.Config.MaxRetries {
			// delay = base * 2^(attempt-1)
			delay := db.Config.RetryDelay * time.Duration(1<<uint(attempt-1))
			log.Printf("[DATABASE] Retrying in %v...", delay)

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return fmt.Errorf("connection cancelled: %w", ctx.Err())
			}
		}
	}
	if lastErr != nil {
		return fmt.Errorf("failed to connect after %d attempts: %w", db.Config.MaxRetries, lastErr)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return fmt.Errorf("failed to access connection pool: %w", err)
	}

	sqlDB.SetMaxOpenConns(db.Config.MaxOpenConns)
	sqlDB.SetMaxIdleConns(db.Config.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(db.Config.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(db.Config.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, db.Config.ConnectTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	db.DB = gormDB
	log.Println("[DATABASE] MySQL connection established successfully")
	return nil
}

// HealthCheck verifies connectivity. Called by the health endpoint.
func (db *MySQLDB) HealthCheck(ctx context.Context) error {
	if db.DB == nil {
		return fmt.Errorf("database is not initialized")
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to access connection pool: %w", err)
	}

	healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(healthCtx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (db *MySQLDB) Close() error {
	if db.DB == nil {
		return nil
	}
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
