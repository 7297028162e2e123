package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"golang.org/x/text/language"
)

const (
	DefaultLocalesDir = "locales"
	DefaultLocale     = "en-US"
)

// Config holds defaults taken from the environment. Command line flags override them.
type Config struct {
	LocalesDir    string `env:"FTL_LOCALES_DIR" envDefault:"locales"`
	DefaultLocale string `env:"FTL_DEFAULT_LOCALE" envDefault:"en-US"`
	UseIsolating  bool   `env:"FTL_USE_ISOLATING" envDefault:"false"`
	Strict        bool   `env:"FTL_STRICT" envDefault:"false"`
}

// Load reads the optional dotenv files, then the environment.
// Variables already set in the environment win over dotenv values.
func Load(dotenvFiles ...string) (*Config, error) {
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Locale returns the parsed default locale.
func (c *Config) Locale() language.Tag {
	return language.MustParse(c.DefaultLocale)
}

func (c *Config) validate() error {
	if c.LocalesDir == "" {
		return errors.New("config: FTL_LOCALES_DIR must not be empty")
	}
	if _, err := language.Parse(c.DefaultLocale); err != nil {
		return fmt.Errorf("config: FTL_DEFAULT_LOCALE %q: %w", c.DefaultLocale, err)
	}
	return nil
}
