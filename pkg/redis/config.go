package redis

import "time"

// Config controls the Redis connection. Fields can be populated from the
// environment via pkg/config.
type Config struct {
	// ConnectionURL in the form "redis://:password@localhost:6379/0".
	ConnectionURL string `env:"FLAGKIT_REDIS_URL" envDefault:"redis://localhost:6379/0"`
	// RetryAttempts bounds how many times Connect retries before giving up.
	RetryAttempts int `env:"FLAGKIT_REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	// RetryInterval is the pause between attempts.
	RetryInterval time.Duration `env:"FLAGKIT_REDIS_RETRY_INTERVAL" envDefault:"5s"`
	// ConnectTimeout bounds the whole connect sequence, retries included.
	ConnectTimeout time.Duration `env:"FLAGKIT_REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
}
