package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/creasty/defaults"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/0xERR0R/nsecguard/log"
)

// Configurable is implemented by every configuration section
type Configurable interface {
	// IsEnabled returns true when the feature configured by this section is active
	IsEnabled() bool

	// LogConfig logs the section
	LogConfig(*logrus.Entry)
}

// Config main configuration
type Config struct {
	Server       Server       `yaml:"server"`
	Records      Records      `yaml:"records"`
	Keys         Keys         `yaml:"keys"`
	LowProfiling LowProfiling `yaml:"lowProfiling"`
	Metrics      Metrics      `yaml:"metrics"`
	Client       Client       `yaml:"client"`
	Evaluation   Evaluation   `yaml:"evaluation"`
	Log          log.Config   `yaml:"log"`
}

// LoadConfig creates new config from YAML file and NSECGUARD_ environment variables.
// If the file is not mandatory and does not exist, the default configuration is used.
func LoadConfig(path string, mandatory bool) (*Config, error) {
	cfg := new(Config)

	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("can't apply default values: %w", err)
	}

	k, err := newKoanf(path, mandatory)
	if err != nil {
		return nil, err
	}

	if err := unmarshalKoanf(k, cfg); err != nil {
		return nil, fmt.Errorf("wrong file structure: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}

	return false, err
}

func (cfg *Config) validate() error {
	var err *multierror.Error

	err = multierror.Append(err,
		cfg.Server.validate(),
		cfg.LowProfiling.validate(),
		cfg.Keys.validate(),
		cfg.Evaluation.Validate(),
	)

	return err.ErrorOrNil()
}

// LogConfig logs every configurable section
func (cfg *Config) LogConfig(logger *logrus.Entry) {
	sections := []struct {
		name string
		c    Configurable
	}{
		{"server", &cfg.Server},
		{"records", &cfg.Records},
		{"keys", &cfg.Keys},
		{"lowProfiling", &cfg.LowProfiling},
		{"metrics", &cfg.Metrics},
	}

	for _, s := range sections {
		if !s.c.IsEnabled() {
			logger.Infof("%s: disabled", s.name)

			continue
		}

		logger.Infof("%s:", s.name)
		s.c.LogConfig(logger.WithField("prefix", s.name))
	}
}
