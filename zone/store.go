package zone

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/0xERR0R/nsecguard/evt"
	"github.com/0xERR0R/nsecguard/log"
	"github.com/0xERR0R/nsecguard/signature"
)

const (
	// StartSentinel lower bound of the NSEC chain, sorts before every legal domain
	StartSentinel = "!"

	// EndSentinel upper bound of the NSEC chain, sorts after every legal domain
	EndSentinel = "~"

	// FieldSeparator separates the two values of a signed message
	FieldSeparator = ","

	// TokenSeparator separates the tokens of a wire line
	TokenSeparator = " "
)

var (
	// ErrOutOfBounds domain is not strictly between the sentinels
	ErrOutOfBounds = errors.New("domain is out of the chain bounds")

	// ErrInvalidDomain domain contains a separator of the wire format
	ErrInvalidDomain = errors.New("domain contains a separator character")

	// ErrDuplicateDomain domain was defined more than once
	ErrDuplicateDomain = errors.New("duplicate domain")
)

// Record maps a domain to its IPv4 address
type Record struct {
	Domain string
	IP     string
}

// Message returns the signed content of the record
func (r Record) Message() string {
	return r.Domain + FieldSeparator + r.IP
}

// SignedRecord a record with its signature
type SignedRecord struct {
	Record
	Signature string
}

// SignedRange proves that no domain exists strictly between Start and End
type SignedRange struct {
	Start     string
	End       string
	Signature string
}

// Message returns the signed content of the range
func (r SignedRange) Message() string {
	return r.Start + FieldSeparator + r.End
}

// CheckDomain returns an error if the domain can't be part of a request or a record
func CheckDomain(domain string) error {
	if strings.Contains(domain, FieldSeparator) || strings.Contains(domain, TokenSeparator) {
		return ErrInvalidDomain
	}

	if domain <= StartSentinel || domain >= EndSentinel {
		return ErrOutOfBounds
	}

	return nil
}

// Store holds the signed records and the signed NSEC chain. It is read-only after creation.
type Store struct {
	// sorted domains without sentinels
	domains []string
	records map[string]SignedRecord
	// ranges[i] covers (chain[i], chain[i+1]) of the chain [S, domains..., E]
	ranges []SignedRange
}

// NewStore sorts and signs the records and builds the signed NSEC chain
func NewStore(records []Record, signer signature.Signer) (*Store, error) {
	logger := log.PrefixedLog("zone")

	sorted := make([]Record, len(records))
	copy(sorted, records)

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Domain < sorted[j].Domain
	})

	s := &Store{
		domains: make([]string, 0, len(sorted)),
		records: make(map[string]SignedRecord, len(sorted)),
		ranges:  make([]SignedRange, 0, len(sorted)+1),
	}

	for i, r := range sorted {
		if err := CheckDomain(r.Domain); err != nil {
			return nil, fmt.Errorf("record '%s': %w", r.Domain, err)
		}

		if i > 0 && sorted[i-1].Domain == r.Domain {
			return nil, fmt.Errorf("record '%s': %w", r.Domain, ErrDuplicateDomain)
		}

		sig, err := signer.Sign(r.Message())
		if err != nil {
			return nil, fmt.Errorf("can't sign record '%s': %w", r.Domain, err)
		}

		s.domains = append(s.domains, r.Domain)
		s.records[r.Domain] = SignedRecord{Record: r, Signature: sig}
	}

	chain := s.Chain()

	for i := 0; i < len(chain)-1; i++ {
		rng := SignedRange{Start: chain[i], End: chain[i+1]}

		sig, err := signer.Sign(rng.Message())
		if err != nil {
			return nil, fmt.Errorf("can't sign range '%s': %w", rng.Message(), err)
		}

		rng.Signature = sig
		s.ranges = append(s.ranges, rng)
	}

	logger.WithFields(logrus.Fields{
		"records": len(s.records),
		"ranges":  len(s.ranges),
	}).Info("record store is ready")

	evt.Bus().Publish(evt.RecordStoreLoaded, len(s.records))

	return s, nil
}

// Lookup returns the signed record of the domain
func (s *Store) Lookup(domain string) (SignedRecord, bool) {
	r, ok := s.records[domain]

	return r, ok
}

// Cover returns the signed range whose start is the greatest chain element <= domain
func (s *Store) Cover(domain string) (SignedRange, error) {
	if domain <= StartSentinel || domain >= EndSentinel {
		return SignedRange{}, ErrOutOfBounds
	}

	// number of domains <= domain equals the index of the covering range
	idx := sort.Search(len(s.domains), func(i int) bool {
		return s.domains[i] > domain
	})

	return s.ranges[idx], nil
}

// Len returns the number of records
func (s *Store) Len() int {
	return len(s.domains)
}

// Chain returns a copy of the NSEC chain including both sentinels
func (s *Store) Chain() []string {
	chain := make([]string, 0, len(s.domains)+2)
	chain = append(chain, StartSentinel)
	chain = append(chain, s.domains...)

	return append(chain, EndSentinel)
}
