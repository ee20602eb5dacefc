package signature

import (
	"crypto"
	"errors"
	"fmt"
	"strings"

	"github.com/miekg/dns"
	"github.com/sirupsen/logrus"

	"github.com/0xERR0R/nsecguard/log"
)

const (
	messageTTL = 3600

	// maxTxtStringLen is the maximum length of one TXT character string
	maxTxtStringLen = 255

	// signatures of a simulated zone never expire
	signatureInception  uint32 = 0
	signatureExpiration uint32 = 1<<32 - 1
)

// ErrNoPrivateKey is returned by Sign if the service was created for verification only
var ErrNoPrivateKey = errors.New("no private key available")

// Signer creates signatures over messages
type Signer interface {
	Sign(message string) (string, error)
}

// Verifier checks signatures created by a Signer. It never fails: any error means false.
type Verifier interface {
	Verify(message, signature string) bool
}

// Service signs and verifies messages with the zone key. The message is carried as TXT RRset at
// the zone apex and signed with a DNSSEC RRSIG, the returned signature is the base64 RRSIG signature.
type Service struct {
	key    *dns.DNSKEY
	signer crypto.Signer
	logger *logrus.Entry
}

// NewService creates a service for the public key. privateKey may be nil for verification only use.
func NewService(key *dns.DNSKEY, privateKey crypto.PrivateKey) (*Service, error) {
	if key == nil {
		return nil, errors.New("public key is missing")
	}

	s := &Service{
		key:    key,
		logger: log.PrefixedLog("signature"),
	}

	if privateKey != nil {
		signer, ok := privateKey.(crypto.Signer)
		if !ok {
			return nil, fmt.Errorf("private key of type %T can't sign", privateKey)
		}

		s.signer = signer
	}

	return s, nil
}

// Sign implements `Signer`
func (s *Service) Sign(message string) (string, error) {
	if s.signer == nil {
		return "", ErrNoPrivateKey
	}

	rrsig := s.newRRSIG()

	if err := rrsig.Sign(s.signer, s.messageRRSet(message)); err != nil {
		return "", fmt.Errorf("can't sign message '%s': %w", message, err)
	}

	return rrsig.Signature, nil
}

// Verify implements `Verifier`
func (s *Service) Verify(message, signature string) (valid bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warnf("verification of '%s' panicked: %v", log.EscapeInput(message), r)

			valid = false
		}
	}()

	rrsig := s.newRRSIG()
	rrsig.Signature = signature

	if err := rrsig.Verify(s.key, s.messageRRSet(message)); err != nil {
		s.logger.Debugf("signature of '%s' is not valid: %v", log.EscapeInput(message), err)

		return false
	}

	return true
}

// Key returns the public key
func (s *Service) Key() *dns.DNSKEY {
	return s.key
}

func (s *Service) newRRSIG() *dns.RRSIG {
	zone := s.key.Hdr.Name

	return &dns.RRSIG{
		Hdr: dns.RR_Header{
			Name:   zone,
			Rrtype: dns.TypeRRSIG,
			Class:  dns.ClassINET,
			Ttl:    messageTTL,
		},
		TypeCovered: dns.TypeTXT,
		Algorithm:   s.key.Algorithm,
		Labels:      uint8(dns.CountLabel(zone)),
		OrigTtl:     messageTTL,
		Expiration:  signatureExpiration,
		Inception:   signatureInception,
		KeyTag:      s.key.KeyTag(),
		SignerName:  zone,
	}
}

func (s *Service) messageRRSet(message string) []dns.RR {
	txt := &dns.TXT{
		Hdr: dns.RR_Header{
			Name:   s.key.Hdr.Name,
			Rrtype: dns.TypeTXT,
			Class:  dns.ClassINET,
			Ttl:    messageTTL,
		},
		Txt: splitTxt(message),
	}

	return []dns.RR{txt}
}

// splitTxt splits the message into TXT character strings. Backslashes are escaped so that
// the packed wire data equals the message bytes.
func splitTxt(message string) []string {
	parts := make([]string, 0, len(message)/maxTxtStringLen+1)

	for len(message) > maxTxtStringLen {
		parts = append(parts, escapeTxt(message[:maxTxtStringLen]))
		message = message[maxTxtStringLen:]
	}

	return append(parts, escapeTxt(message))
}

func escapeTxt(s string) string {
	return strings.ReplaceAll(s, `\`, `\\`)
}
