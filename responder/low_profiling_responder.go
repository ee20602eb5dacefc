package responder

import (
	"context"
	"net/netip"

	"github.com/0xERR0R/nsecguard/config"
	"github.com/0xERR0R/nsecguard/log"
	"github.com/0xERR0R/nsecguard/model"
	"github.com/0xERR0R/nsecguard/protocol"
)

// Detector decides if a client is walking the zone
type Detector interface {
	IsSuspicious(clientID, domain string) bool
}

// LowProfilingResponder throttles clients showing a zone walking traffic pattern
type LowProfilingResponder struct {
	configurable[*config.LowProfiling]
	NextResponder
	typed

	detector Detector
}

func NewLowProfilingResponder(cfg config.LowProfiling, detector Detector) *LowProfilingResponder {
	return &LowProfilingResponder{
		configurable: withConfig(&cfg),
		typed:        withType("low_profiling"),
		detector:     detector,
	}
}

// Respond implements `Responder`
func (r *LowProfilingResponder) Respond(ctx context.Context, request *model.Request) (*model.Response, error) {
	if addr, err := netip.ParseAddr(request.ClientID); err != nil || !addr.Is4() {
		log.FromCtx(ctx).Debugf("client id '%s' is not an IPv4 address", log.EscapeInput(request.ClientID))

		return &model.Response{
			Line:   protocol.InvalidClientLine,
			Reason: "INVALID CLIENT",
			RType:  model.ResponseTypeINVALID,
		}, nil
	}

	if r.detector.IsSuspicious(request.ClientID, request.Domain) {
		log.FromCtx(ctx).WithField("domain", log.EscapeInput(request.Domain)).Debug("client is blocked")

		return &model.Response{
			Line:   protocol.BlockedLine,
			Reason: "SUSPICIOUS",
			RType:  model.ResponseTypeBLOCKED,
		}, nil
	}

	return r.next.Respond(ctx, request)
}
