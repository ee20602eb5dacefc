package client

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/mroth/weightedrand"
	"github.com/sirupsen/logrus"

	"github.com/0xERR0R/nsecguard/log"
	"github.com/0xERR0R/nsecguard/model"
)

// DefaultSeed first guessed domain of an automated walk
const DefaultSeed = string(FirstChar)

// weight of a certain decision
const noiseResolution = 1_000_000

// ErrUnexpectedRecord a guessed domain exists, the walk can't continue
var ErrUnexpectedRecord = errors.New("unexpected record for guessed domain")

// Querier sends one query
type Querier interface {
	Query(domain string) (*Result, error)
}

// Attacker enumerates the zone by following the NSEC chain. With probability Noise it sends
// a decoy query for a domain sorting before the last fetched one.
type Attacker struct {
	noise   float64
	rnd     *rand.Rand
	chooser *weightedrand.Chooser
	logger  *logrus.Entry
}

// WalkResult summarizes one walk
type WalkResult struct {
	Noise   float64
	Fetched int
	Runtime time.Duration
	// Records fetched existing domains in chain order
	Records []*Result
	// StopReason why the walk ended
	StopReason error
}

// Speed returns fetched domains per millisecond
func (r WalkResult) Speed() float64 {
	ms := float64(r.Runtime) / float64(time.Millisecond)
	if ms <= 0 {
		return 0
	}

	return float64(r.Fetched) / ms
}

// NewAttacker creates an attacker with the noise probability in [0,1]
func NewAttacker(noise float64, seed int64) (*Attacker, error) {
	if noise < 0 || noise > 1 || math.IsNaN(noise) {
		return nil, fmt.Errorf("noise %f is not a probability", noise)
	}

	decoyWeight := uint(math.Round(noise * noiseResolution))

	chooser, err := weightedrand.NewChooser(
		weightedrand.Choice{Item: true, Weight: decoyWeight},
		weightedrand.Choice{Item: false, Weight: noiseResolution - decoyWeight},
	)
	if err != nil {
		return nil, fmt.Errorf("can't create noise chooser: %w", err)
	}

	return &Attacker{
		noise:   noise,
		rnd:     rand.New(rand.NewSource(seed)), //nolint:gosec
		chooser: chooser,
		logger:  log.PrefixedLog("attacker"),
	}, nil
}

// Noise returns the decoy probability
func (a *Attacker) Noise() float64 {
	return a.noise
}

// Walk enumerates the zone starting with the non-existing seed domain until the server stops
// answering with records or the context is done
func (a *Attacker) Walk(ctx context.Context, q Querier, seed string) WalkResult {
	result := WalkResult{Noise: a.noise}
	start := time.Now()

	result.StopReason = a.walk(ctx, q, seed, &result)
	result.Runtime = time.Since(start)

	a.logger.WithFields(logrus.Fields{
		"noise":   a.noise,
		"fetched": result.Fetched,
		"runtime": result.Runtime,
	}).Debugf("walk stopped: %v", result.StopReason)

	return result
}

func (a *Attacker) walk(ctx context.Context, q Querier, domain string, result *WalkResult) error {
	answer, err := q.Query(domain)

	for err == nil {
		if answer.Type == model.ResponseTypeRECORD {
			return fmt.Errorf("%w: %s", ErrUnexpectedRecord, domain)
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		domain = answer.End

		answer, err = q.Query(domain)
		if err != nil {
			return err
		}

		result.Fetched++
		result.Records = append(result.Records, answer)

		if a.decoy() {
			// the answer only varies the pattern seen by the server
			_, _ = q.Query(PreviousDomain(domain))
		}

		domain = NextDomain(domain)
		answer, err = q.Query(domain)
	}

	return err
}

func (a *Attacker) decoy() bool {
	return a.chooser.PickSource(a.rnd).(bool)
}
