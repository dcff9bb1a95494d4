package config

import (
	"testing"

	"github.com/mcsoccercamp/camp-api/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"
)

func clearDatabaseEnv(t *testing.T) {
	t.Helper()
	for _, key := range append(databaseURLKeys,
		"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB_NAME", "POSTGRES_SSLMODE",
	) {
		t.Setenv(key, "")
	}
}

func TestResolveDSN_URLPrecedence(t *testing.T) {
	clearDatabaseEnv(t)
	t.Setenv("POSTGRES_URL", "postgres://camp@neon.example.com/camp")
	t.Setenv("DATABASE_URL", `"postgres://camp@db.example.com/camp"`)

	dsn, err := resolveDSN("require", log.NewLoggerWithJSONOutput())

	require.NoError(t, err)
	assert.Equal(t, "postgres://camp@db.example.com/camp", dsn)
}

func TestResolveDSN_FromParts(t *testing.T) {
	clearDatabaseEnv(t)
	t.Setenv("POSTGRES_HOST", "localhost")
	t.Setenv("POSTGRES_PORT", "5432")
	t.Setenv("POSTGRES_USER", "camp")
	t.Setenv("POSTGRES_PASSWORD", "'s3cret'")
	t.Setenv("POSTGRES_DB_NAME", "camp")

	dsn, err := resolveDSN("disable", log.NewLoggerWithJSONOutput())

	require.NoError(t, err)
	assert.Equal(t, "host=localhost port=5432 user=camp password=s3cret dbname=camp sslmode=disable", dsn)
}

func TestResolveDSN_ReportsMissingVars(t *testing.T) {
	clearDatabaseEnv(t)
	t.Setenv("POSTGRES_HOST", "localhost")

	_, err := resolveDSN("require", log.NewLoggerWithJSONOutput())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSTGRES_PORT, POSTGRES_USER, POSTGRES_DB_NAME")
}

func TestPostgresEnv_InvalidPort(t *testing.T) {
	_, err := postgresEnv{Host: "h", Port: "five", User: "u", DBName: "d"}.dsn()
	assert.ErrorContains(t, err, "invalid POSTGRES_PORT")
}

func TestNewDBConfig_LambdaPool(t *testing.T) {
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "camp-api")
	t.Setenv("DB_MAX_OPEN_CONNS", "")

	cfg := NewDBConfig()

	assert.Equal(t, 2, cfg.MaxOpenConns)
	assert.Equal(t, 1, cfg.MaxIdleConns)
}

func TestGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, gormLogLevel("SILENT"))
	assert.Equal(t, gormlogger.Info, gormLogLevel("info"))
	assert.Equal(t, gormlogger.Warn, gormLogLevel("verbose"))
}
