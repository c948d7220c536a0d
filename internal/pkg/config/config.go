package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// Timezone determines the calendar day boundary for attendance
	// (IANA name, "Local", or "UTC").
	Timezone string `env:"TIMEZONE, default=Local"`

	Mongo MongoConfig
	Redis RedisConfig
	Match MatchConfig

	// CooldownSeconds is the debounce window after a successful mark.
	// 0 disables the guard.
	CooldownSeconds int `env:"COOLDOWN_SECONDS, default=30"`

	// EventWorkers is the audit dispatcher worker count.
	EventWorkers int `env:"EVENT_WORKERS, default=4"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=face_attendance"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type MatchConfig struct {
	// Threshold is the maximum euclidean distance accepted as a match.
	Threshold float64 `env:"MATCH_THRESHOLD, default=0.5"`
	// Engine selects the matcher implementation: linear or hnsw.
	Engine string `env:"MATCH_ENGINE, default=linear"`
	// DescriptorDim is the enforced embedding dimension; 0 accepts any.
	DescriptorDim int `env:"DESCRIPTOR_DIM, default=128"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
