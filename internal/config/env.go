package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

// WithEnvFile returns an Option that loads environment variables from a
// dotenv file. A missing file is not an error, and variables already present
// in the environment are never overwritten.
func WithEnvFile(path string) Option {
	return func(_ *Config) error {
		if path == "" {
			return nil
		}

		err := godotenv.Load(path)
		if err == nil || errors.Is(err, os.ErrNotExist) {
			return nil
		}

		return errReadEnvFile.Fmt(path).Wrap(err)
	}
}
