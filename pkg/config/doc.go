// Package config loads SDK configuration structs from environment
// variables.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env to turn
// env-tagged structs into parsed configuration:
//
//	type EventConfig struct {
//		BatchSize     int           `env:"FLAGKIT_EVENT_BATCH_SIZE" envDefault:"10"`
//		FlushInterval time.Duration `env:"FLAGKIT_EVENT_FLUSH_INTERVAL" envDefault:"30s"`
//	}
//
//	var cfg EventConfig
//	if err := config.Load(&cfg); err != nil {
//		// handle
//	}
//
// LoadEnv reads one or more .env files into the process environment first;
// Load falls back to a best-effort read of ./.env when LoadEnv was never
// called. Missing .env files are not an error, and environment variables
// set by the host always win.
package config
