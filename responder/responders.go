package responder

import (
	"github.com/0xERR0R/nsecguard/config"
)

// NewResponder assembles the responder chain
func NewResponder(cfg *config.Config, store RecordStore, detector Detector) Responder {
	var responders []Responder

	if cfg.Metrics.IsEnabled() {
		responders = append(responders, NewMetricsResponder(cfg.Metrics))
	}

	responders = append(responders, NewFormatFilteringResponder())

	if cfg.LowProfiling.IsEnabled() {
		responders = append(responders, NewLowProfilingResponder(cfg.LowProfiling, detector))
	}

	responders = append(responders, NewNSECResponder(store))

	return Chain(responders...)
}
