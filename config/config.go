// Package config reads the environment shared by the command line tools.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/mtgban/go-mtgcollate/dataio"
)

type Config struct {
	AllPrintingsPath string `env:"ALLPRINTINGS5_PATH"`

	// Fixed seed for reproducible boosters, zero means random
	Seed int64 `env:"COLLATE_SEED"`

	MaxConcurrency int `env:"MAX_CONCURRENCY" envDefault:"8"`

	Storage dataio.Config
}

// Load parses the environment, the command line tools also pick up any
// .env file in the working directory.
func Load() (Config, error) {
	var cfg Config
	err := env.Parse(&cfg)
	if err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
