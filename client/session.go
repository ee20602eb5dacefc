package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/avast/retry-go/v4"
	"github.com/sirupsen/logrus"

	"github.com/0xERR0R/nsecguard/config"
	"github.com/0xERR0R/nsecguard/log"
	"github.com/0xERR0R/nsecguard/model"
	"github.com/0xERR0R/nsecguard/protocol"
	"github.com/0xERR0R/nsecguard/signature"
)

// ErrConnectionClosed the server closed the connection
var ErrConnectionClosed = errors.New("connection closed by server")

// Result is the parsed answer to one query
type Result struct {
	*protocol.Answer

	// Query is the requested domain
	Query string

	// Verified is true if the signature is valid and the answer matches the query
	Verified bool
}

// Session is one client connection to the server
type Session struct {
	conn     net.Conn
	scanner  *bufio.Scanner
	writer   *bufio.Writer
	verifier signature.Verifier
	logger   *logrus.Entry
}

// Dial connects to the server and identifies the client. verifier may be nil to skip verification.
func Dial(ctx context.Context, cfg config.Client, clientID string, verifier signature.Verifier) (*Session, error) {
	logger := log.PrefixedLog("client").WithField("client_id", log.Obfuscate(clientID))

	var (
		conn   net.Conn
		dialer net.Dialer
	)

	err := retry.Do(
		func() error {
			var err error

			conn, err = dialer.DialContext(ctx, "tcp", cfg.Server)

			return err
		},
		retry.Context(ctx),
		retry.Attempts(cfg.ConnectAttempts),
		retry.DelayType(retry.FixedDelay),
		retry.Delay(cfg.ConnectCooldown.ToDuration()),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.WithField("attempt", fmt.Sprintf("%d/%d", n+1, cfg.ConnectAttempts)).
				Debugf("can't connect to %s: %v", cfg.Server, err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("can't connect to %s: %w", cfg.Server, err)
	}

	s := &Session{
		conn:     conn,
		scanner:  bufio.NewScanner(conn),
		writer:   bufio.NewWriter(conn),
		verifier: verifier,
		logger:   logger,
	}

	if err := s.writeLine(clientID); err != nil {
		conn.Close()

		return nil, fmt.Errorf("can't send client identifier: %w", err)
	}

	return s, nil
}

// Query sends the domain and parses the answer. Free text answers of the server return
// an error wrapping protocol.ErrServerMessage.
func (s *Session) Query(domain string) (*Result, error) {
	if err := s.writeLine(domain); err != nil {
		return nil, fmt.Errorf("can't send query: %w", err)
	}

	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return nil, fmt.Errorf("can't read answer: %w", err)
		}

		return nil, ErrConnectionClosed
	}

	line := s.scanner.Text()

	answer, err := protocol.Parse(line)
	if err != nil {
		s.logger.Debugf("query '%s': %v", domain, err)

		return nil, err
	}

	result := &Result{Answer: answer, Query: domain}
	result.Verified = s.verify(result)

	s.logger.WithFields(logrus.Fields{
		"query":    domain,
		"type":     answer.Type,
		"verified": result.Verified,
	}).Trace("answer received")

	return result, nil
}

// Close closes the connection
func (s *Session) Close() error {
	return s.conn.Close()
}

func (s *Session) verify(r *Result) bool {
	if s.verifier == nil {
		return false
	}

	switch r.Type {
	case model.ResponseTypeRECORD:
		if r.Domain != r.Query {
			return false
		}
	case model.ResponseTypeNSEC:
		if r.Start >= r.Query || r.Query >= r.End {
			return false
		}
	default:
		return false
	}

	return s.verifier.Verify(r.Message(), r.Signature)
}

func (s *Session) writeLine(line string) error {
	if _, err := io.WriteString(s.writer, line+"\n"); err != nil {
		return err
	}

	return s.writer.Flush()
}
