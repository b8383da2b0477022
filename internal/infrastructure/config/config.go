package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=7160"`
	Env       string `env:"ENV,       default=development"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	Remote RemoteConfig
	Store  StoreConfig
	Redis  RedisConfig
}

type RemoteConfig struct {
	BaseURL string        `env:"REMOTE_BASE_URL, default=https://tohpitoh-api.onrender.com/api/v1"`
	Timeout time.Duration `env:"REMOTE_TIMEOUT,  default=30s"`
}

type StoreConfig struct {
	// Backend selects the token store adapter: file or redis.
	Backend string `env:"STORE_BACKEND, default=file"`
	Path    string `env:"STORE_PATH,    default=.portal/state.json"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
