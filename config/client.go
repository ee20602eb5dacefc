package config

import "github.com/sirupsen/logrus"

// Client configuration used by the query, walk and evaluate commands
type Client struct {
	Server          string   `yaml:"server" default:"127.0.0.1:45678"`
	ID              string   `yaml:"id" default:"127.0.0.1"`
	ConnectAttempts uint     `yaml:"connectAttempts" default:"5"`
	ConnectCooldown Duration `yaml:"connectCooldown" default:"500ms"`
}

// IsEnabled implements `config.Configurable`.
func (c *Client) IsEnabled() bool {
	return c.Server != ""
}

// LogConfig implements `config.Configurable`.
func (c *Client) LogConfig(logger *logrus.Entry) {
	logger.Infof("server = %s", c.Server)
	logger.Infof("id = %s", c.ID)
	logger.Infof("connect attempts = %d, cooldown = %s", c.ConnectAttempts, c.ConnectCooldown)
}
