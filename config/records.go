package config

import "github.com/sirupsen/logrus"

// Records configuration of the record source
type Records struct {
	File string `yaml:"file" default:"domain_ip.csv"`
}

// IsEnabled implements `config.Configurable`.
func (c *Records) IsEnabled() bool {
	return c.File != ""
}

// LogConfig implements `config.Configurable`.
func (c *Records) LogConfig(logger *logrus.Entry) {
	logger.Infof("file = %s", c.File)
}
