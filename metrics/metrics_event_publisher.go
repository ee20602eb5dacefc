package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/0xERR0R/nsecguard/evt"
	"github.com/0xERR0R/nsecguard/util"
)

func registerEventListeners() {
	registerApplicationEventListeners()
	registerZoneEventListeners()
	registerLowProfilingEventListeners()
	registerServerEventListeners()
}

func registerApplicationEventListeners() {
	v := versionNumberGauge()
	RegisterMetric(v)

	subscribe(evt.ApplicationStarted, func(version, buildTime string) {
		v.WithLabelValues(version, buildTime).Set(1)
	})
}

func versionNumberGauge() *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "nsecguard_build_info",
			Help: "Version number and build info",
		}, []string{"version", "build_time"},
	)
}

func registerZoneEventListeners() {
	records := recordCount()
	RegisterMetric(records)

	subscribe(evt.RecordStoreLoaded, func(cnt int) {
		records.Set(float64(cnt))
	})
}

func recordCount() prometheus.Gauge {
	return prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "nsecguard_records",
			Help: "Number of signed records in the zone",
		},
	)
}

func registerLowProfilingEventListeners() {
	blocked := blockedClientCount()
	rejected := rejectedRequestCount()

	RegisterMetric(blocked)
	RegisterMetric(rejected)

	subscribe(evt.ClientBlocked, func(_ string) {
		blocked.Inc()
	})

	subscribe(evt.ClientRejected, func(_ string) {
		rejected.Inc()
	})
}

func blockedClientCount() prometheus.Counter {
	return prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "nsecguard_blocked_client_total",
			Help: "Number of clients marked as zone walkers",
		},
	)
}

func rejectedRequestCount() prometheus.Counter {
	return prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "nsecguard_rejected_request_total",
			Help: "Number of requests rejected during the cooldown of a client",
		},
	)
}

func registerServerEventListeners() {
	active := activeConnections()
	total := totalConnections()

	RegisterMetric(active)
	RegisterMetric(total)

	subscribe(evt.ConnectionOpened, func(_ string) {
		active.Inc()
		total.Inc()
	})

	subscribe(evt.ConnectionClosed, func(_ string) {
		active.Dec()
	})
}

func activeConnections() prometheus.Gauge {
	return prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "nsecguard_active_connections",
			Help: "Number of connections served by a worker",
		},
	)
}

func totalConnections() prometheus.Counter {
	return prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "nsecguard_connection_total",
			Help: "Number of served connections",
		},
	)
}

func subscribe(topic string, fn interface{}) {
	util.FatalOnError(fmt.Sprintf("can't subscribe topic '%s'", topic), evt.Bus().Subscribe(topic, fn))
}
