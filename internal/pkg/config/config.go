package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type AuthConfig struct {
	JWTSecret string `env:"JWT_SECRET"`
	// TokenTTL is the credential lifetime; the session cookie expires with it.
	TokenTTL     time.Duration `env:"TOKEN_TTL,             default=168h"`
	CookieName   string        `env:"SESSION_COOKIE,        default=portal_session"`
	CookieSecure bool          `env:"SESSION_COOKIE_SECURE, default=false"`
	AuditWorkers int           `env:"AUDIT_WORKERS,         default=2"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=conference_portal"`
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

// IsProduction reports whether the service runs with production hardening,
// which forces the session cookie to Secure regardless of SESSION_COOKIE_SECURE.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
