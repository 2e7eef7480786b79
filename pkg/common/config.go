package common

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// TimeoutConfig holds server and shutdown related timeouts.
type TimeoutConfig struct {
	ReadHeader time.Duration `env:"READ_HEADER_TIMEOUT" envDefault:"5s"`
	Read       time.Duration `env:"READ_TIMEOUT" envDefault:"10s"`
	Write      time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	Idle       time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`
	Shutdown   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
	Hook       time.Duration `env:"HOOK_TIMEOUT" envDefault:"5s"`
}

type Config struct {
	DatasetPath   string        `env:"DATASET_PATH" envDefault:"data/rooms.json"`
	DatasetUrl    string        `env:"DATASET_URL"`
	ListenAddress string        `env:"LISTEN_ADDRESS" envDefault:":8080"`
	DebugAddress  string        `env:"DEBUG_ADDRESS" envDefault:":8081"`
	RedisUrl      string        `env:"REDIS_URL"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RabbitUrl     string        `env:"RABBIT_URL"`
	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	Timeouts      TimeoutConfig
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
