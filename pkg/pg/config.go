package pg

import "time"

// Config controls the PostgreSQL connection pool. Fields can be populated
// from the environment via pkg/config.
type Config struct {
	// ConnectionString is a pgx-compatible DSN or URL.
	ConnectionString string `env:"FLAGKIT_PG_CONN_URL,required"`
	// MaxOpenConns caps the pool size.
	MaxOpenConns int32 `env:"FLAGKIT_PG_MAX_OPEN_CONNS" envDefault:"10"`
	// MaxIdleConns is the minimum number of connections kept warm.
	MaxIdleConns int32 `env:"FLAGKIT_PG_MAX_IDLE_CONNS" envDefault:"5"`
	// HealthCheckPeriod is the pool's background liveness cadence.
	HealthCheckPeriod time.Duration `env:"FLAGKIT_PG_HEALTHCHECK_PERIOD" envDefault:"1m"`
	// MaxConnIdleTime retires connections idle for longer than this.
	MaxConnIdleTime time.Duration `env:"FLAGKIT_PG_MAX_CONN_IDLE_TIME" envDefault:"10m"`
	// MaxConnLifetime retires connections regardless of activity.
	MaxConnLifetime time.Duration `env:"FLAGKIT_PG_MAX_CONN_LIFETIME" envDefault:"30m"`

	// RetryAttempts bounds how many times Connect retries before giving up.
	RetryAttempts int `env:"FLAGKIT_PG_RETRY_ATTEMPTS" envDefault:"3"`
	// RetryInterval is the base pause between attempts; it grows linearly.
	RetryInterval time.Duration `env:"FLAGKIT_PG_RETRY_INTERVAL" envDefault:"5s"`
}
