package metrics

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/0xERR0R/nsecguard/log"
)

//nolint:gochecknoglobals
var (
	reg         = prometheus.NewRegistry()
	collectOnce sync.Once
)

// RegisterMetric registers prometheus collector. A collector registered twice is kept once.
func RegisterMetric(c prometheus.Collector) {
	err := reg.Register(c)

	var already prometheus.AlreadyRegisteredError
	if err != nil && !errors.As(err, &already) {
		log.PrefixedLog("metrics").Warnf("can't register collector: %v", err)
	}
}

// StartCollection registers the runtime collectors and subscribes the event listeners.
// Only the first call per process has an effect.
func StartCollection() {
	collectOnce.Do(func() {
		RegisterMetric(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		RegisterMetric(collectors.NewGoCollector())

		registerEventListeners()
	})
}
