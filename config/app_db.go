package config

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/mcsoccercamp/camp-api/internal/log"
	"github.com/mcsoccercamp/camp-api/pkg/retry"
	"github.com/mcsoccercamp/camp-api/pkg/utils"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// databaseURLKeys are checked in order; hosted Postgres providers inject one of the
// later names.
var databaseURLKeys = []string{"APP_DATABASE_URL", "DATABASE_URL", "POSTGRES_URL"}

type DBConfig struct {
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	SSLMode         string
	ConnectAttempts int
	// LogLevel is one of silent, error, warn, info.
	LogLevel string
}

// NewDBConfig sizes the pool for the runtime. A Lambda instance serves one request at
// a time, so it keeps only a couple of connections.
func NewDBConfig() *DBConfig {
	maxOpen, maxIdle := 25, 10
	if IsLambdaRuntime() {
		maxOpen, maxIdle = 2, 1
	}

	return &DBConfig{
		MaxIdleConns:    utils.GetEnvInt("DB_MAX_IDLE_CONNS", maxIdle),
		MaxOpenConns:    utils.GetEnvInt("DB_MAX_OPEN_CONNS", maxOpen),
		ConnMaxLifetime: utils.GetEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		SSLMode:         "require",
		ConnectAttempts: utils.GetEnvInt("DB_CONNECT_ATTEMPTS", 3),
		LogLevel:        utils.GetEnvTrimmedOrDefault("DB_LOG_LEVEL", "warn"),
	}
}

func NewDatabase(logger *log.Logger, cfg *DBConfig) (*gorm.DB, error) {
	if cfg == nil {
		cfg = NewDBConfig()
	}
	if cfg.ConnectAttempts <= 0 {
		cfg.ConnectAttempts = 3
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "require"
	}

	dsn, err := resolveDSN(cfg.SSLMode, logger)
	if err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
		TranslateError: true,
	})
	if err != nil {
		logger.Error("Failed to open database", "error", err)
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// Cold starts can race the database becoming reachable.
	policy := retry.NewExponentialBackoff(&retry.Config{
		MaxAttempts: cfg.ConnectAttempts,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    5 * time.Second,
		Multiplier:  2.0,
		Retryable:   func(error) bool { return true },
		OnRetry: func(attempt int, delay time.Duration, err error) {
			logger.Warn("Database ping failed; retrying", "attempt", attempt, "delay", delay.String(), "error", err)
		},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := policy.Execute(ctx, sqlDB.PingContext); err != nil {
		logger.Error("Database unreachable", "attempts", cfg.ConnectAttempts, "exhausted", retry.IsMaxRetriesExceeded(err), "error", err)
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	logger.Info("Database connected", "max_open_conns", cfg.MaxOpenConns)
	return gdb, nil
}

// resolveDSN prefers a connection URL and otherwise builds a key/value DSN from the
// POSTGRES_* variables. Credentials are never logged.
func resolveDSN(defaultSSLMode string, logger *log.Logger) (string, error) {
	for _, key := range databaseURLKeys {
		if v := sanitizeEnv(GetValueFromEnvironmentVariable(key, "")); v != "" {
			logger.Info("Using database URL", "env", key)
			return v, nil
		}
	}

	env := readPostgresEnv()
	if env.SSLMode == "" {
		env.SSLMode = defaultSSLMode
	}

	dsn, err := env.dsn()
	if err != nil {
		logger.Error("Database configuration incomplete", "error", err)
		return "", err
	}

	logger.Info("Connecting to database", "addr", net.JoinHostPort(env.Host, env.Port), "dbname", env.DBName, "sslmode", env.SSLMode)
	return dsn, nil
}

type postgresEnv struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func readPostgresEnv() postgresEnv {
	get := func(key string) string {
		return sanitizeEnv(GetValueFromEnvironmentVariable(key, ""))
	}
	return postgresEnv{
		Host:     get("POSTGRES_HOST"),
		Port:     get("POSTGRES_PORT"),
		User:     get("POSTGRES_USER"),
		Password: get("POSTGRES_PASSWORD"),
		DBName:   get("POSTGRES_DB_NAME"),
		SSLMode:  get("POSTGRES_SSLMODE"),
	}
}

func (e postgresEnv) dsn() (string, error) {
	var missing []string
	if e.Host == "" {
		missing = append(missing, "POSTGRES_HOST")
	}
	if e.Port == "" {
		missing = append(missing, "POSTGRES_PORT")
	}
	if e.User == "" {
		missing = append(missing, "POSTGRES_USER")
	}
	if e.DBName == "" {
		missing = append(missing, "POSTGRES_DB_NAME")
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("missing required database env vars: %s (or set APP_DATABASE_URL)", strings.Join(missing, ", "))
	}

	port, err := strconv.Atoi(e.Port)
	if err != nil {
		return "", fmt.Errorf("invalid POSTGRES_PORT %q: %w", e.Port, err)
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		e.Host, port, e.User, e.Password, e.DBName, e.SSLMode,
	), nil
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

// sanitizeEnv strips surrounding whitespace and one pair of matching quotes, which
// some dashboards keep when values are pasted.
func sanitizeEnv(v string) string {
	s := strings.TrimSpace(v)

	if len(s) >= 2 && ((s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'')) {
		s = s[1 : len(s)-1]
	}

	return s
}

// AutoMigrate is the development shortcut; shared databases use the SQL migrations.
func AutoMigrate(logger *log.Logger, db *gorm.DB, models ...interface{}) error {
	if db == nil {
		return fmt.Errorf("cannot migrate: db is nil")
	}

	if err := db.AutoMigrate(models...); err != nil {
		logger.Error("Auto-migrate failed", "error", err)
		return fmt.Errorf("auto-migrate failed: %w", err)
	}

	logger.Info("Auto-migrate completed", "models", len(models))
	return nil
}

func CloseDatabase(db *gorm.DB, logger *log.Logger) {
	if db == nil {
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("Failed to get SQL DB instance", "error", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		logger.Error("Failed to close database", "error", err)
		return
	}
	logger.Info("Database closed")
}
