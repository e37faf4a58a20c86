package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var (
	db *gorm.DB
)

// ErrMissingEnv is returned by RequireEnv when a required variable is absent.
// Callers treat it as fatal and exit before any catalog I/O happens.
var ErrMissingEnv = errors.New("required environment variable is not set")

func GetDB() *gorm.DB {
	return db
}

func init() {
	// Load env from .env.local first (local overrides), then .env.
	godotenv.Load(".env.local")
	godotenv.Load()
}

// RequireEnv returns the value of key or ErrMissingEnv when empty.
func RequireEnv(key string) (string, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingEnv, key)
	}
	return v, nil
}

// DatabaseDSN builds the Postgres DSN from the environment. Both values are
// required; the service key is what grants the maintenance tools write access
// to the hosted catalog, so its absence is a configuration error even though
// the DSN alone would connect.
func DatabaseDSN() (string, error) {
	dbURL, err := RequireEnv("SUPABASE_DB_URL")
	if err != nil {
		return "", err
	}
	if _, err := RequireEnv("SUPABASE_SERVICE_ROLE_KEY"); err != nil {
		return "", err
	}
	return dbURL, nil
}

// ConnectDatabase validates configuration, connects and sets the global DB.
// Missing configuration is reported immediately; transient connection errors
// are retried with capped exponential backoff up to maxAttempts.
func ConnectDatabase() error {
	dsn, err := DatabaseDSN()
	if err != nil {
		return err
	}

	const maxAttempts = 5
	var attempt int
	for {
		attempt++
		db, err = gorm.Open(postgres.Open(dsn), initConfig())
		if err == nil {
			if sqlDB, derr := db.DB(); derr == nil && sqlDB != nil {
				maxOpen := intFromEnv("DB_MAX_OPEN_CONNS", 10)
				maxIdle := intFromEnv("DB_MAX_IDLE_CONNS", 5)
				connMaxLife := time.Duration(intFromEnv("DB_CONN_MAX_LIFETIME_SECONDS", 300)) * time.Second

				if maxOpen > 0 {
					sqlDB.SetMaxOpenConns(maxOpen)
				}
				if maxIdle >= 0 {
					sqlDB.SetMaxIdleConns(maxIdle)
				}
				if connMaxLife > 0 {
					sqlDB.SetConnMaxLifetime(connMaxLife)
				}
			}
			log.Printf("connected to database (attempt=%d)", attempt)
			return nil
		}
		if attempt >= maxAttempts {
			return fmt.Errorf("failed to connect database after %d attempts: %w", attempt, err)
		}

		sleep := time.Second * time.Duration(1<<min(attempt, 4))
		if sleep > 15*time.Second {
			sleep = 15 * time.Second
		}
		log.Printf("failed to connect database (attempt=%d): %v; retrying in %s", attempt, err, sleep)
		time.Sleep(sleep)
	}
}

func intFromEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func initConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         initLog(),
		NamingStrategy: initNamingStrategy(),
	}
}

func initLog() logger.Interface {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			Colorful:      false,
			LogLevel:      logger.Error,
			SlowThreshold: time.Second,
		},
	)
	return newLogger
}

func initNamingStrategy() *schema.NamingStrategy {
	return &schema.NamingStrategy{
		SingularTable: false,
		TablePrefix:   "",
	}
}
