package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var defaultEnvLoaded sync.Once

// Load parses environment variables into the provided configuration struct.
//
// The function first attempts to load the default .env file if it hasn't been
// loaded yet, then parses environment variables into the struct based on
// field tags. Components receive their configuration via explicit structs
// rather than reading files or globals themselves.
//
// Example:
//
//	type MailerConfig struct {
//		Provider  string `env:"EMAIL_PROVIDER" envDefault:"brevo"`
//		FromEmail string `env:"EMAIL_FROM,required"`
//	}
//
//	var cfg MailerConfig
//	if err := config.Load(&cfg); err != nil {
//		// Handle error
//	}
func Load[T any](v *T) error {
	defaultEnvLoaded.Do(func() {
		// The .env file is optional; missing files are not an error.
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
// Used for configurations that are required for the application to start.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}
