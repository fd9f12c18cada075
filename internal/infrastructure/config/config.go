package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds every environment-level option the service recognises. The
// defaults are safe for development only; production deployments must
// override SECRET_KEY.
type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Token TokenConfig
	Admin AdminConfig
	Mongo MongoConfig
	Redis RedisConfig
	Login LoginConfig
}

// TokenConfig is the trust boundary: every service validating tokens must
// share the same secret and algorithm.
type TokenConfig struct {
	Secret    string        `env:"SECRET_KEY, default=dev-secret-change-me"`
	Algorithm string        `env:"ALGORITHM,  default=HS256"`
	TTL       time.Duration `env:"ACCESS_TOKEN_TTL, default=30m"`
}

// AdminConfig seeds the bootstrap admin account on startup.
type AdminConfig struct {
	Username string `env:"ADMIN_USERNAME, default=admin"`
	Password string `env:"ADMIN_PASSWORD, default=admin"`
	Email    string `env:"ADMIN_EMAIL,    default=admin@example.com"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=cesizen_auth"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// LoginConfig bounds repeated authentication attempts per account.
type LoginConfig struct {
	MaxAttempts int64         `env:"LOGIN_MAX_ATTEMPTS, default=10"`
	Window      time.Duration `env:"LOGIN_ATTEMPT_WINDOW, default=15m"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

// Production reports whether the service runs with the production profile.
func (c *Config) Production() bool {
	return c.Env == "production"
}
