// Package config loads the engine's runtime configuration from environment
// variables (with an optional .env file for local development).
package config

import (
	"errors"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the top-level runtime configuration for an engine process.
type Config struct {
	// Symbols is the set of symbols to create books for at startup.
	Symbols []string `env:"SYMBOLS,required"`

	// QueueCapacity is the initial buffered capacity of the global event
	// queue (spec.md §4.3). Nothing in this repository reads it:
	// match.NewMatchingEngine always sizes its queue with
	// match.DefaultQueueCapacity.
	QueueCapacity int `env:"QUEUE_CAPACITY" envDefault:"4096"`

	// DepthLevels is the default number of price levels returned by depth
	// queries when a caller does not specify one.
	DepthLevels int `env:"DEPTH_LEVELS" envDefault:"20"`

	// ShutdownTimeout bounds how long a process waits for the event queue
	// to drain and outbound sinks to flush during a graceful shutdown.
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	Kafka   KafkaConfig   `envPrefix:"KAFKA_"`
	Redis   RedisConfig   `envPrefix:"REDIS_"`
	Metrics MetricsConfig `envPrefix:"METRICS_"`
}

// KafkaConfig configures the Kafka trade sink.
type KafkaConfig struct {
	Enabled bool     `env:"ENABLED" envDefault:"false"`
	Brokers []string `env:"BROKERS" envDefault:""`
	Topic   string   `env:"TOPIC" envDefault:"trades"`
}

// RedisConfig configures the Redis BBO sink.
type RedisConfig struct {
	Enabled       bool   `env:"ENABLED" envDefault:"false"`
	Addr          string `env:"ADDR" envDefault:"localhost:6379"`
	ChannelPrefix string `env:"CHANNEL_PREFIX" envDefault:"bbo:"`
}

// MetricsConfig configures the Prometheus metrics endpoint.
type MetricsConfig struct {
	Enabled bool   `env:"ENABLED" envDefault:"true"`
	Addr    string `env:"ADDR" envDefault:":2112"`
}

// Load reads Config from the environment, after loading a .env file in the
// working directory if one is present. A missing .env file is not an
// error; a malformed one, or a missing required variable, is.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
