package client

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/0xERR0R/nsecguard/config"
	"github.com/0xERR0R/nsecguard/log"
	"github.com/0xERR0R/nsecguard/signature"
)

// EvaluationHeader header line of the evaluation CSV
//
//nolint:gochecknoglobals
var EvaluationHeader = []string{
	"AttackNoise",
	"DomainFetched",
	"AttackCoverage",
	"AttackRuntime (msec)",
	"AttackSpeed (domain per msec)",
}

// Target is a freshly started server for one evaluation iteration
type Target struct {
	Addr string
	Stop func(ctx context.Context) error
}

// TargetFactory starts a new server, so that every iteration starts without detector state
type TargetFactory func(ctx context.Context) (*Target, error)

// Evaluator runs concurrent attackers with random noise against fresh servers and writes one
// CSV line per attacker
type Evaluator struct {
	cfg       config.Evaluation
	clientCfg config.Client
	verifier  signature.Verifier
	zoneSize  int
	newTarget TargetFactory
	rnd       *rand.Rand
}

// NewEvaluator creates an evaluator, zoneSize is the number of records used for the coverage
func NewEvaluator(cfg config.Evaluation, clientCfg config.Client, verifier signature.Verifier,
	zoneSize int, newTarget TargetFactory, seed int64,
) *Evaluator {
	return &Evaluator{
		cfg:       cfg,
		clientCfg: clientCfg,
		verifier:  verifier,
		zoneSize:  zoneSize,
		newTarget: newTarget,
		rnd:       rand.New(rand.NewSource(seed)), //nolint:gosec
	}
}

// Run executes all iterations and writes the results
func (e *Evaluator) Run(ctx context.Context, out io.Writer) error {
	logger := log.PrefixedLog("evaluation")

	w := csv.NewWriter(out)

	if err := w.Write(EvaluationHeader); err != nil {
		return fmt.Errorf("can't write header: %w", err)
	}

	for it := uint(0); it < e.cfg.Iterations; it++ {
		start := time.Now()

		results, err := e.iteration(ctx)
		if err != nil {
			return fmt.Errorf("iteration %d failed: %w", it+1, err)
		}

		for _, r := range results {
			if err := w.Write(e.row(r)); err != nil {
				return fmt.Errorf("can't write result: %w", err)
			}
		}

		w.Flush()

		if err := w.Error(); err != nil {
			return fmt.Errorf("can't write results: %w", err)
		}

		logger.Infof("iteration %d/%d finished in %s", it+1, e.cfg.Iterations, time.Since(start))
	}

	return nil
}

func (e *Evaluator) iteration(ctx context.Context) (results []WalkResult, rerr error) {
	target, err := e.newTarget(ctx)
	if err != nil {
		return nil, fmt.Errorf("can't start server: %w", err)
	}

	defer func() {
		if err := target.Stop(context.WithoutCancel(ctx)); err != nil && rerr == nil {
			rerr = fmt.Errorf("can't stop server: %w", err)
		}
	}()

	attackers := make([]*Attacker, e.cfg.Attackers)

	for i := range attackers {
		noise := e.cfg.MinNoise + e.rnd.Float64()*(e.cfg.MaxNoise-e.cfg.MinNoise)

		attackers[i], err = NewAttacker(noise, e.rnd.Int63())
		if err != nil {
			return nil, err
		}
	}

	clientCfg := e.clientCfg
	clientCfg.Server = target.Addr

	results = make([]WalkResult, len(attackers))

	g, gctx := errgroup.WithContext(ctx)

	for i, attacker := range attackers {
		i, attacker := i, attacker

		g.Go(func() error {
			session, err := Dial(gctx, clientCfg, e.cfg.IPPrefix+strconv.Itoa(i+1), e.verifier)
			if err != nil {
				return err
			}

			defer session.Close()

			results[i] = attacker.Walk(gctx, session, DefaultSeed)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func (e *Evaluator) row(r WalkResult) []string {
	coverage := 0.0
	if e.zoneSize > 0 {
		coverage = float64(r.Fetched) / float64(e.zoneSize)
	}

	return []string{
		strconv.FormatFloat(r.Noise, 'f', -1, 64),
		strconv.Itoa(r.Fetched),
		strconv.FormatFloat(coverage, 'f', -1, 64),
		strconv.FormatInt(r.Runtime.Milliseconds(), 10),
		strconv.FormatFloat(r.Speed(), 'f', -1, 64),
	}
}
