package responder

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/0xERR0R/nsecguard/config"
	"github.com/0xERR0R/nsecguard/model"
)

// Responder answers one request line of a client session
type Responder interface {
	config.Configurable

	// Type returns a short, user friendly name for the responder
	Type() string

	// Respond performs the request and returns the line to write back
	Respond(ctx context.Context, req *model.Request) (*model.Response, error)
}

// ChainedResponder represents a responder, which can delegate the request to the next one
type ChainedResponder interface {
	Responder

	// Next sets the next responder
	Next(n Responder)

	// GetNext returns the next responder
	GetNext() Responder
}

// NextResponder is the base implementation of ChainedResponder
type NextResponder struct {
	next Responder
}

// Next sets the next responder
func (r *NextResponder) Next(n Responder) {
	r.next = n
}

// GetNext returns the next responder
func (r *NextResponder) GetNext() Responder {
	return r.next
}

// Chain creates a chain of responders and returns its head
func Chain(responders ...Responder) Responder {
	for i, res := range responders {
		if i+1 < len(responders) {
			if cr, ok := res.(ChainedResponder); ok {
				cr.Next(responders[i+1])
			}
		}
	}

	return responders[0]
}

// Name returns a user friendly name of a responder
func Name(r Responder) string {
	return r.Type()
}

// ForEach iterates over all responders in the chain
func ForEach(r Responder, fn func(Responder)) {
	for r != nil {
		fn(r)

		cr, ok := r.(ChainedResponder)
		if !ok {
			return
		}

		r = cr.GetNext()
	}
}

// LogResponderConfig logs the configuration of every responder of the chain
func LogResponderConfig(r Responder, logger *logrus.Entry) {
	ForEach(r, func(r Responder) {
		if !r.IsEnabled() {
			logger.Infof("-> %s: disabled", r.Type())

			return
		}

		logger.Infof("-> %s:", r.Type())
		r.LogConfig(logger.WithField("prefix", r.Type()))
	})
}

type typed struct {
	typeName string
}

func withType(t string) typed {
	return typed{typeName: t}
}

func (t *typed) Type() string {
	return t.typeName
}

func (t *typed) String() string {
	return t.Type()
}

type configurable[T config.Configurable] struct {
	cfg T
}

func withConfig[T config.Configurable](cfg T) configurable[T] {
	return configurable[T]{cfg: cfg}
}

// IsEnabled implements `config.Configurable`
func (c *configurable[T]) IsEnabled() bool {
	return c.cfg.IsEnabled()
}

// LogConfig implements `config.Configurable`
func (c *configurable[T]) LogConfig(logger *logrus.Entry) {
	c.cfg.LogConfig(logger)
}
