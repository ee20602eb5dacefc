package config

import (
	"errors"

	"github.com/sirupsen/logrus"
)

// Server configuration of the connection dispatcher
type Server struct {
	Port    uint16 `yaml:"port" default:"45678"`
	Workers uint   `yaml:"workers" default:"10"`
}

// IsEnabled implements `config.Configurable`.
func (c *Server) IsEnabled() bool {
	return true
}

// LogConfig implements `config.Configurable`.
func (c *Server) LogConfig(logger *logrus.Entry) {
	logger.Infof("port = %d", c.Port)
	logger.Infof("workers = %d", c.Workers)
}

func (c *Server) validate() error {
	if c.Workers == 0 {
		return errors.New("server.workers must be greater than 0")
	}

	return nil
}
