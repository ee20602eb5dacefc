package detector

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/0xERR0R/nsecguard/config"
	"github.com/0xERR0R/nsecguard/evt"
	"github.com/0xERR0R/nsecguard/log"
)

// Detector classifies clients sending a strictly increasing stream of domains as zone walkers.
// A single repeated or decreasing domain resets the history of a client, so an attacker
// interleaving decoy queries can avoid detection.
type Detector struct {
	cfg    config.LowProfiling
	logger *logrus.Entry
	now    func() time.Time

	// guards the lazy insert only, each activity has its own lock
	mu      sync.Mutex
	clients map[string]*activity
}

type query struct {
	domain string
	ts     time.Time
}

type activity struct {
	mu         sync.Mutex
	history    []query
	suspicious bool
	blockedAt  time.Time
}

// Option configures a Detector
type Option func(*Detector)

// WithClock replaces the time source
func WithClock(now func() time.Time) Option {
	return func(d *Detector) {
		d.now = now
	}
}

// NewDetector creates a detector with the configured tunables
func NewDetector(cfg config.LowProfiling, opts ...Option) *Detector {
	d := &Detector{
		cfg:     cfg,
		logger:  log.PrefixedLog("detector"),
		now:     time.Now,
		clients: make(map[string]*activity),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// IsSuspicious records the query of the client and returns true if the client is blocked
func (d *Detector) IsSuspicious(clientID, domain string) bool {
	a := d.activity(clientID)

	suspicious, topic := d.observe(a, clientID, domain)

	// published without holding the client lock
	if topic != "" {
		evt.Bus().Publish(topic, clientID)
	}

	return suspicious
}

// observe runs the state machine of one client and returns the verdict and the event to publish
func (d *Detector) observe(a *activity, clientID, domain string) (bool, string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	// read under the lock, so the history stays ordered by time
	now := d.now()

	if a.suspicious {
		if now.Sub(a.blockedAt) < d.cfg.CooldownPeriod.ToDuration() {
			return true, evt.ClientRejected
		}

		a.suspicious = false

		d.logger.Debugf("cooldown of client '%s' is over", log.Obfuscate(clientID))
	}

	a.prune(now, d.cfg.RetentionPeriod.ToDuration())

	topic := ""

	if len(a.history) > 0 {
		last := a.history[len(a.history)-1]

		switch {
		case last.domain >= domain:
			a.history = a.history[:0]
		case uint(len(a.history)) >= d.cfg.WindowThreshold:
			a.suspicious = true
			a.blockedAt = now
			a.history = a.history[1:]
			topic = evt.ClientBlocked

			d.logger.WithField("domain", log.EscapeInput(domain)).
				Infof("client '%s' is walking the zone, blocking for %s", log.Obfuscate(clientID), d.cfg.CooldownPeriod)
		}
	}

	a.history = append(a.history, query{domain: domain, ts: now})

	return a.suspicious, topic
}

// Clients returns the number of known clients
func (d *Detector) Clients() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.clients)
}

func (d *Detector) activity(clientID string) *activity {
	d.mu.Lock()
	defer d.mu.Unlock()

	a, ok := d.clients[clientID]
	if !ok {
		a = &activity{}
		d.clients[clientID] = a
	}

	return a
}

// prune drops the stale prefix of the time ordered history
func (a *activity) prune(now time.Time, retention time.Duration) {
	stale := 0

	for stale < len(a.history) && now.Sub(a.history[stale].ts) >= retention {
		stale++
	}

	a.history = a.history[stale:]
}
