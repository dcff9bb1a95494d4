package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvInt(t *testing.T) {
	t.Setenv("CAMP_TEST_INT", "42")
	assert.Equal(t, 42, GetEnvInt("CAMP_TEST_INT", 7))

	t.Setenv("CAMP_TEST_INT", "-3")
	assert.Equal(t, 7, GetEnvInt("CAMP_TEST_INT", 7))

	t.Setenv("CAMP_TEST_INT", "abc")
	assert.Equal(t, 7, GetEnvInt("CAMP_TEST_INT", 7))
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("CAMP_TEST_TTL", "90s")
	assert.Equal(t, 90*time.Second, GetEnvDuration("CAMP_TEST_TTL", time.Minute))

	t.Setenv("CAMP_TEST_TTL", "")
	assert.Equal(t, time.Minute, GetEnvDuration("CAMP_TEST_TTL", time.Minute))
}

func TestOTelServiceName_Default(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "  ")
	assert.Equal(t, "camp-api", OTelServiceName())

	t.Setenv("OTEL_SERVICE_NAME", "camp-api-lambda")
	assert.Equal(t, "camp-api-lambda", OTelServiceName())
}

func TestIsTracingEnabled(t *testing.T) {
	t.Setenv("OTEL_TRACES_ENABLED", "true")
	assert.True(t, IsTracingEnabled())

	t.Setenv("OTEL_TRACES_ENABLED", "nope")
	assert.False(t, IsTracingEnabled())
}
