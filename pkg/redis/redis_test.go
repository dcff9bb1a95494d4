package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientOptions_FromHost(t *testing.T) {
	opts, err := clientOptions(&Config{Host: "cache.internal", Port: "6379", Password: "pw", DB: 2})
	require.NoError(t, err)

	assert.Equal(t, "cache.internal:6379", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 3*time.Second, opts.DialTimeout)
	assert.Nil(t, opts.TLSConfig)
}

func TestClientOptions_URLWins(t *testing.T) {
	opts, err := clientOptions(&Config{
		URL:         "rediss://:secret@managed.example.com:6380/1",
		Host:        "ignored",
		DialTimeout: time.Second,
	})
	require.NoError(t, err)

	assert.Equal(t, "managed.example.com:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 1, opts.DB)
	assert.NotNil(t, opts.TLSConfig)
	assert.Equal(t, time.Second, opts.DialTimeout)
}

func TestClientOptions_Errors(t *testing.T) {
	_, err := clientOptions(nil)
	assert.Error(t, err)

	_, err = clientOptions(&Config{})
	assert.Error(t, err)

	_, err = clientOptions(&Config{URL: "http://not-redis"})
	assert.Error(t, err)
}
