package signature

import (
	"crypto"
	"fmt"
	"os"
	"path/filepath"

	"github.com/miekg/dns"

	"github.com/0xERR0R/nsecguard/config"
)

const (
	zoneKeyFlags = 257
	keyProtocol  = 3
	keyTTL       = 3600

	publicKeyFileMode  = 0o644
	privateKeyFileMode = 0o600
)

// nolint:gochecknoglobals
var keyBits = map[uint8]int{
	dns.RSASHA256:       2048,
	dns.RSASHA512:       2048,
	dns.ECDSAP256SHA256: 256,
	dns.ECDSAP384SHA384: 384,
	dns.ED25519:         256,
}

// GenerateKeyPair creates a new zone key for the algorithm
func GenerateKeyPair(zone string, algorithm uint8) (*dns.DNSKEY, crypto.PrivateKey, error) {
	bits, ok := keyBits[algorithm]
	if !ok {
		return nil, nil, fmt.Errorf("unsupported key algorithm %s", dns.AlgorithmToString[algorithm])
	}

	key := &dns.DNSKEY{
		Hdr: dns.RR_Header{
			Name:   dns.Fqdn(zone),
			Rrtype: dns.TypeDNSKEY,
			Class:  dns.ClassINET,
			Ttl:    keyTTL,
		},
		Flags:     zoneKeyFlags,
		Protocol:  keyProtocol,
		Algorithm: algorithm,
	}

	privateKey, err := key.Generate(bits)
	if err != nil {
		return nil, nil, fmt.Errorf("can't generate %s key: %w", dns.AlgorithmToString[algorithm], err)
	}

	return key, privateKey, nil
}

// WriteKeyPair stores the public key in zone file presentation format and the private key in BIND format
func WriteKeyPair(key *dns.DNSKEY, privateKey crypto.PrivateKey, publicPath, privatePath string) error {
	for _, p := range []string{publicPath, privatePath} {
		if err := os.MkdirAll(filepath.Dir(p), os.ModePerm); err != nil {
			return fmt.Errorf("can't create key directory: %w", err)
		}
	}

	if err := os.WriteFile(publicPath, []byte(key.String()+"\n"), publicKeyFileMode); err != nil {
		return fmt.Errorf("can't write public key: %w", err)
	}

	if err := os.WriteFile(privatePath, []byte(key.PrivateKeyString(privateKey)), privateKeyFileMode); err != nil {
		return fmt.Errorf("can't write private key: %w", err)
	}

	return nil
}

// ReadPublicKey reads the first DNSKEY record of a zone file
func ReadPublicKey(path string) (*dns.DNSKEY, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("can't open public key: %w", err)
	}
	defer f.Close()

	zp := dns.NewZoneParser(f, "", path)

	for rr, ok := zp.Next(); ok; rr, ok = zp.Next() {
		if key, isKey := rr.(*dns.DNSKEY); isKey {
			return key, nil
		}
	}

	if err := zp.Err(); err != nil {
		return nil, fmt.Errorf("can't parse public key: %w", err)
	}

	return nil, fmt.Errorf("no DNSKEY record found in '%s'", path)
}

// ReadPrivateKey reads a BIND private key file belonging to the public key
func ReadPrivateKey(key *dns.DNSKEY, path string) (crypto.PrivateKey, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("can't open private key: %w", err)
	}
	defer f.Close()

	privateKey, err := key.ReadPrivateKey(f, path)
	if err != nil {
		return nil, fmt.Errorf("can't parse private key: %w", err)
	}

	return privateKey, nil
}

// NewServiceFromConfig loads the configured key pair. Clients only need the public key.
func NewServiceFromConfig(cfg config.Keys, withPrivateKey bool) (*Service, error) {
	key, err := ReadPublicKey(cfg.PublicKey)
	if err != nil {
		return nil, err
	}

	if !withPrivateKey {
		return NewService(key, nil)
	}

	privateKey, err := ReadPrivateKey(key, cfg.PrivateKey)
	if err != nil {
		return nil, err
	}

	return NewService(key, privateKey)
}
