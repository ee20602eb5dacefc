package config

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// maxAttackers IPv4 host addresses available below a /24 prefix
const maxAttackers = 254

// Evaluation configuration of the batch attack evaluation
type Evaluation struct {
	Attackers  uint    `yaml:"attackers" default:"250"`
	Iterations uint    `yaml:"iterations" default:"10"`
	IPPrefix   string  `yaml:"ipPrefix" default:"10.121.100."`
	MinNoise   float64 `yaml:"minNoise" default:"0"`
	MaxNoise   float64 `yaml:"maxNoise" default:"1"`
	Output     string  `yaml:"output" default:"data.csv"`
}

// IsEnabled implements `config.Configurable`.
func (c *Evaluation) IsEnabled() bool {
	return c.Attackers > 0 && c.Iterations > 0
}

// LogConfig implements `config.Configurable`.
func (c *Evaluation) LogConfig(logger *logrus.Entry) {
	logger.Infof("attackers = %d, iterations = %d", c.Attackers, c.Iterations)
	logger.Infof("noise = [%.2f, %.2f]", c.MinNoise, c.MaxNoise)
	logger.Infof("output = %s", c.Output)
}

// Validate checks the attacker limit and the noise bounds
func (c *Evaluation) Validate() error {
	if c.Attackers > maxAttackers {
		return fmt.Errorf("evaluation.attackers must not exceed %d", maxAttackers)
	}

	if c.MinNoise < 0 || c.MaxNoise > 1 || c.MinNoise > c.MaxNoise {
		return errors.New("evaluation noise must satisfy 0 <= minNoise <= maxNoise <= 1")
	}

	return nil
}
