// Package config reads the CLI process configuration from the environment.
package config

import (
	"github.com/kelseyhightower/envconfig"
)

// Prefix of every recognised environment variable.
const Prefix = "GOTAKEOFF"

type Config struct {
	LogLevel  string `envconfig:"LOG_LEVEL" default:"warn"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"console"`
	// Settings is a default settings file applied when a command gets none.
	Settings string `envconfig:"SETTINGS"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
