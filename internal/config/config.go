// Package config loads CLI defaults from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the environment-level defaults. Command-line flags override them.
type Config struct {
	File      string `env:"BOXOFFICE_FILE" envDefault:"top_ten_movies_per_year_DFE.csv"`
	ChartOut  string `env:"BOXOFFICE_CHART_OUT"`
	Format    string `env:"BOXOFFICE_FORMAT" envDefault:"text"`
	LogLevel  string `env:"BOXOFFICE_LOG_LEVEL" envDefault:"warn"`
	LogFormat string `env:"BOXOFFICE_LOG_FORMAT" envDefault:"console"`
	TopN      int    `env:"BOXOFFICE_TOP_N" envDefault:"5"`
	Delimiter string `env:"BOXOFFICE_DELIMITER" envDefault:","`
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads the given .env files (missing files are ignored) and then the
// process environment. Variables already set in the environment win.
func Load(dotenvFiles ...string) (Config, error) {
	if len(dotenvFiles) == 0 {
		dotenvFiles = []string{".env"}
	}
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.TopN <= 0 {
		return Config{}, fmt.Errorf("BOXOFFICE_TOP_N must be positive, got %d", cfg.TopN)
	}
	return cfg, nil
}
