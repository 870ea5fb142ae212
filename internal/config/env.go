package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Environment variables read by Load.
const (
	EnvConfig      = "SURVEY_CONFIG" // path to survey.toml
	EnvEnvironment = "SURVEY_ENV"    // production | test
	EnvStore       = "SURVEY_STORE"  // store path, overrides the environment's path
)

// LoadDotEnv loads variables from a .env file in dir into the process
// environment. Variables already set are not overridden. A missing file is
// not an error.
func LoadDotEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if env := os.Getenv(EnvEnvironment); env != "" {
		cfg.Store.Environment = env
	}
	if p := os.Getenv(EnvStore); p != "" {
		if cfg.Store.Environment == EnvTest {
			cfg.Store.TestPath = p
		} else {
			cfg.Store.Path = p
		}
	}
}
