package config

import (
	"errors"

	"github.com/sirupsen/logrus"
)

// LowProfiling configuration of the zone walking detector
type LowProfiling struct {
	Enable          bool     `yaml:"enable" default:"true"`
	RetentionPeriod Duration `yaml:"retentionPeriod" default:"5m"`
	CooldownPeriod  Duration `yaml:"cooldownPeriod" default:"2m"`
	WindowThreshold uint     `yaml:"windowThreshold" default:"10"`
}

// IsEnabled implements `config.Configurable`.
func (c *LowProfiling) IsEnabled() bool {
	return c.Enable
}

// LogConfig implements `config.Configurable`.
func (c *LowProfiling) LogConfig(logger *logrus.Entry) {
	logger.Infof("retention period = %s", c.RetentionPeriod)
	logger.Infof("cooldown period = %s", c.CooldownPeriod)
	logger.Infof("window threshold = %d", c.WindowThreshold)
}

func (c *LowProfiling) validate() error {
	if !c.Enable {
		return nil
	}

	if c.WindowThreshold == 0 {
		return errors.New("lowProfiling.windowThreshold must be greater than 0")
	}

	if !c.RetentionPeriod.IsAboveZero() || !c.CooldownPeriod.IsAtLeastZero() {
		return errors.New("lowProfiling periods must not be negative and retention must be set")
	}

	return nil
}
