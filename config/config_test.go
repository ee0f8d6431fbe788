package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("SYMBOLS", "BTC-USD,ETH-USD")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"BTC-USD", "ETH-USD"}, cfg.Symbols)
	assert.Equal(t, 4096, cfg.QueueCapacity)
	assert.Equal(t, 20, cfg.DepthLevels)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadOverridesFromEnvWithPrefixedSections(t *testing.T) {
	t.Setenv("SYMBOLS", "BTC-USD")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_TOPIC", "custom-trades")
	t.Setenv("REDIS_ADDR", "redis:6380")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, "custom-trades", cfg.Kafka.Topic)
	assert.Equal(t, "redis:6380", cfg.Redis.Addr)
}

func TestLoadRequiresSymbols(t *testing.T) {
	_, err := Load()
	assert.Error(t, err)
}
