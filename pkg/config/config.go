// Package config loads typed configuration structs from environment
// variables, with optional .env file support for local development.
//
// Fields are declared with `env` struct tags:
//
//	type TokenConfig struct {
//		AccessSecret string        `env:"ACCESS_TOKEN_SECRET,required"`
//		AccessTTL    time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
//	}
package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	ErrNilPointer    = errors.New("config: nil pointer passed to Load")
	ErrParsingFailed = errors.New("config: failed to parse environment")
)

var dotenvOnce sync.Once

// Load parses environment variables into the provided struct. A .env file in
// the working directory is loaded once per process if present; a missing
// file is not an error.
func Load[T any](v *T) error {
	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})

	if v == nil {
		return ErrNilPointer
	}

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingFailed, err)
	}
	return nil
}

// MustLoad works like Load but panics on failure. Intended for configuration
// the process cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}
