package protocol

import (
	"errors"
	"fmt"
	"strings"

	"github.com/0xERR0R/nsecguard/model"
	"github.com/0xERR0R/nsecguard/zone"
)

const (
	// NSECHeader first token of a non-existence answer
	NSECHeader = "NSEC"

	// InvalidRequestLine answer to a request with a separator or an out of bound domain
	InvalidRequestLine = "Request is completely invalid: probable invisible character found."

	// InvalidClientLine answer to a request of a client with an identifier which is no IPv4 address
	InvalidClientLine = "Client IP address is not valid."

	// BlockedLine answer to a request of a throttled client
	BlockedLine = "This client IP address is blocked for suspicious activity. Please try later."

	// answers with more tokens are free text messages of the server
	maxAnswerTokens = 3
)

var (
	// ErrServerMessage the line is a free text message of the server
	ErrServerMessage = errors.New("server message")

	// ErrMalformed the line is neither a record nor a NSEC answer
	ErrMalformed = errors.New("malformed answer")
)

// Answer parsed response line
type Answer struct {
	Type      model.ResponseType
	Domain    string
	IP        string
	Start     string
	End       string
	Signature string
}

// Message returns the signed content of the answer
func (a *Answer) Message() string {
	if a.Type == model.ResponseTypeNSEC {
		return a.Start + zone.FieldSeparator + a.End
	}

	return a.Domain + zone.FieldSeparator + a.IP
}

// FormatRecord formats the existence answer "<domain>,<ip> <signature>"
func FormatRecord(r zone.SignedRecord) string {
	return r.Message() + zone.TokenSeparator + r.Signature
}

// FormatRange formats the non-existence answer "NSEC <start>,<end> <signature>"
func FormatRange(r zone.SignedRange) string {
	return NSECHeader + zone.TokenSeparator + r.Message() + zone.TokenSeparator + r.Signature
}

// Parse parses a response line. Free text lines of the server return ErrServerMessage.
func Parse(line string) (*Answer, error) {
	tokens := strings.Split(line, zone.TokenSeparator)

	switch {
	case len(tokens) > maxAnswerTokens:
		return nil, fmt.Errorf("%w: %s", ErrServerMessage, line)

	case len(tokens) == maxAnswerTokens && tokens[0] == NSECHeader:
		start, end, ok := splitPair(tokens[1])
		if !ok {
			return nil, fmt.Errorf("%w: invalid range '%s'", ErrMalformed, tokens[1])
		}

		return &Answer{Type: model.ResponseTypeNSEC, Start: start, End: end, Signature: tokens[2]}, nil

	case len(tokens) == 2:
		domain, ip, ok := splitPair(tokens[0])
		if !ok {
			return nil, fmt.Errorf("%w: invalid record '%s'", ErrMalformed, tokens[0])
		}

		return &Answer{Type: model.ResponseTypeRECORD, Domain: domain, IP: ip, Signature: tokens[1]}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrMalformed, line)
}

func splitPair(s string) (string, string, bool) {
	parts := strings.Split(s, zone.FieldSeparator)
	if len(parts) != 2 {
		return "", "", false
	}

	return parts[0], parts[1], true
}
