package event

import "time"

// Config tunes the batching processor. Fields can be populated from the
// environment via pkg/config.
type Config struct {
	// BatchSize closes a buffer once it holds this many events.
	BatchSize int `env:"FLAGKIT_EVENT_BATCH_SIZE" envDefault:"10"`
	// FlushInterval closes a buffer this long after its first event. Zero
	// disables the age trigger; buffers then close on size or flush only.
	FlushInterval time.Duration `env:"FLAGKIT_EVENT_FLUSH_INTERVAL" envDefault:"30s"`
	// MaxInFlight bounds concurrently draining batches. Producers block
	// when the bound is reached.
	MaxInFlight int `env:"FLAGKIT_EVENT_MAX_IN_FLIGHT" envDefault:"4"`
}

// DefaultConfig returns the settings used when none are provided.
func DefaultConfig() Config {
	return Config{
		BatchSize:     10,
		FlushInterval: 30 * time.Second,
		MaxInFlight:   4,
	}
}

// normalize clamps nonsensical values to the defaults.
func (c Config) normalize() Config {
	def := DefaultConfig()
	if c.BatchSize <= 0 {
		c.BatchSize = def.BatchSize
	}
	if c.FlushInterval < 0 {
		c.FlushInterval = def.FlushInterval
	}
	if c.MaxInFlight <= 0 {
		c.MaxInFlight = def.MaxInFlight
	}
	return c
}
