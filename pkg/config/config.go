package config

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Predefined errors for the config package.
var (
	// ErrParsing indicates the environment could not be parsed into the
	// struct, typically a malformed value or a missing required variable.
	ErrParsing = errors.New("failed to parse environment into config")

	// ErrNilPointer indicates Load was called with a nil destination.
	ErrNilPointer = errors.New("nil pointer provided to config loader")
)

var defaultEnvOnce sync.Once

// LoadEnv reads the given .env files into the process environment. Files
// are applied in order; variables already set in the environment are never
// overwritten. A missing file is an error here, unlike the implicit default
// load: if a path was named, it is expected to exist.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load env file %q: %w", p, err)
		}
	}
	return nil
}

// Load parses environment variables into the env-tagged struct v. On first
// use it reads ./.env best-effort so local development works without
// exporting anything.
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	defaultEnvOnce.Do(func() {
		if _, err := os.Stat(".env"); err == nil {
			_ = godotenv.Load()
		}
	})
	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsing, err)
	}
	return nil
}

// MustLoad works like Load but panics on failure, for configuration the
// host cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
}
