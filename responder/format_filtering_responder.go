package responder

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/0xERR0R/nsecguard/log"
	"github.com/0xERR0R/nsecguard/model"
	"github.com/0xERR0R/nsecguard/protocol"
	"github.com/0xERR0R/nsecguard/zone"
)

// FormatFilteringResponder rejects requests which contain a separator of the wire format or lie
// outside the chain bounds. Rejected requests never reach the following responders.
type FormatFilteringResponder struct {
	NextResponder
	typed
}

func NewFormatFilteringResponder() *FormatFilteringResponder {
	return &FormatFilteringResponder{
		typed: withType("format_filtering"),
	}
}

// IsEnabled implements `config.Configurable`
func (r *FormatFilteringResponder) IsEnabled() bool {
	return true
}

// LogConfig implements `config.Configurable`
func (r *FormatFilteringResponder) LogConfig(logger *logrus.Entry) {
	logger.Infof("bounds = (%s, %s)", zone.StartSentinel, zone.EndSentinel)
}

// Respond implements `Responder`
func (r *FormatFilteringResponder) Respond(ctx context.Context, request *model.Request) (*model.Response, error) {
	if err := zone.CheckDomain(request.Domain); err != nil {
		log.FromCtx(ctx).WithField("domain", log.EscapeInput(request.Domain)).Debugf("invalid request: %v", err)

		return &model.Response{
			Line:   protocol.InvalidRequestLine,
			Reason: err.Error(),
			RType:  model.ResponseTypeINVALID,
		}, nil
	}

	return r.next.Respond(ctx, request)
}
