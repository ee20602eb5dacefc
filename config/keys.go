package config

import (
	"fmt"

	"github.com/miekg/dns"
	"github.com/sirupsen/logrus"
)

// Keys configuration of the zone signing key pair
type Keys struct {
	Zone       string `yaml:"zone" default:"nsec.test."`
	Algorithm  string `yaml:"algorithm" default:"ECDSAP256SHA256"`
	PublicKey  string `yaml:"publicKey" default:"keys/zone.key"`
	PrivateKey string `yaml:"privateKey" default:"keys/zone.private"`
}

// IsEnabled implements `config.Configurable`.
func (c *Keys) IsEnabled() bool {
	return c.PublicKey != ""
}

// LogConfig implements `config.Configurable`.
func (c *Keys) LogConfig(logger *logrus.Entry) {
	logger.Infof("zone = %s", c.Zone)
	logger.Infof("algorithm = %s", c.Algorithm)
	logger.Infof("public key = %s", c.PublicKey)
	logger.Infof("private key = %s", c.PrivateKey)
}

// AlgorithmNumber returns the DNSSEC algorithm number of the configured algorithm
func (c *Keys) AlgorithmNumber() (uint8, error) {
	alg, ok := dns.StringToAlgorithm[c.Algorithm]
	if !ok {
		return 0, fmt.Errorf("unknown key algorithm '%s'", c.Algorithm)
	}

	return alg, nil
}

func (c *Keys) validate() error {
	if _, ok := dns.IsDomainName(c.Zone); !ok {
		return fmt.Errorf("keys.zone '%s' is not a domain name", c.Zone)
	}

	_, err := c.AlgorithmNumber()

	return err
}
