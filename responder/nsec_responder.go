package responder

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/0xERR0R/nsecguard/model"
	"github.com/0xERR0R/nsecguard/protocol"
	"github.com/0xERR0R/nsecguard/zone"
)

// RecordStore provides the signed answers
type RecordStore interface {
	Lookup(domain string) (zone.SignedRecord, bool)
	Cover(domain string) (zone.SignedRange, error)
	Len() int
}

// NSECResponder answers with the signed record or with the signed range proving the non-existence
type NSECResponder struct {
	typed

	store RecordStore
}

func NewNSECResponder(store RecordStore) *NSECResponder {
	return &NSECResponder{
		typed: withType("nsec"),
		store: store,
	}
}

// IsEnabled implements `config.Configurable`
func (r *NSECResponder) IsEnabled() bool {
	return true
}

// LogConfig implements `config.Configurable`
func (r *NSECResponder) LogConfig(logger *logrus.Entry) {
	logger.Infof("records = %d", r.store.Len())
}

// Respond implements `Responder`
func (r *NSECResponder) Respond(_ context.Context, request *model.Request) (*model.Response, error) {
	if record, ok := r.store.Lookup(request.Domain); ok {
		return &model.Response{
			Line:   protocol.FormatRecord(record),
			Reason: "EXISTS",
			RType:  model.ResponseTypeRECORD,
		}, nil
	}

	rng, err := r.store.Cover(request.Domain)
	if err != nil {
		return nil, fmt.Errorf("can't find range of '%s': %w", request.Domain, err)
	}

	return &model.Response{
		Line:   protocol.FormatRange(rng),
		Reason: fmt.Sprintf("NOT EXISTS (%s)", rng.Message()),
		RType:  model.ResponseTypeNSEC,
	}, nil
}
