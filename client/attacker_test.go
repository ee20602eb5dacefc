package client

import (
	"context"
	"errors"

	"github.com/0xERR0R/nsecguard/protocol"
	"github.com/0xERR0R/nsecguard/zone"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// storeQuerier answers from the store without a server and records the queries
type storeQuerier struct {
	store   *zone.Store
	queries []string
}

func (q *storeQuerier) Query(domain string) (*Result, error) {
	q.queries = append(q.queries, domain)

	if err := zone.CheckDomain(domain); err != nil {
		return protocolResult(protocol.InvalidRequestLine, domain)
	}

	if r, ok := q.store.Lookup(domain); ok {
		return protocolResult(protocol.FormatRecord(r), domain)
	}

	rng, err := q.store.Cover(domain)
	if err != nil {
		return nil, err
	}

	return protocolResult(protocol.FormatRange(rng), domain)
}

func protocolResult(line, query string) (*Result, error) {
	answer, err := protocol.Parse(line)
	if err != nil {
		return nil, err
	}

	return &Result{Answer: answer, Query: query}, nil
}

var _ = Describe("Attacker", func() {
	var (
		querier *storeQuerier
		ctx     context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		querier = &storeQuerier{store: newStore()}
	})

	It("should reject invalid noise", func() {
		_, err := NewAttacker(1.5, 1)
		Expect(err).Should(HaveOccurred())

		_, err = NewAttacker(-0.1, 1)
		Expect(err).Should(HaveOccurred())
	})

	When("no noise is used", func() {
		It("should fetch every record exactly once", func() {
			sut, err := NewAttacker(0, 1)
			Expect(err).Should(Succeed())

			res := sut.Walk(ctx, querier, DefaultSeed)

			Expect(res.Fetched).Should(Equal(len(testRecords)))
			Expect(res.StopReason).Should(MatchError(protocol.ErrServerMessage))

			var domains []string
			for _, r := range res.Records {
				domains = append(domains, r.Domain)
			}

			Expect(domains).Should(Equal([]string{"alpha.com", "bravo.com", "charlie.com", "delta.com", "echo.com"}))
			Expect(querier.queries).Should(Equal([]string{
				"0", "alpha.com", "alpha.con",
				"bravo.com", "bravo.con",
				"charlie.com", "charlie.con",
				"delta.com", "delta.con",
				"echo.com", "echo.con", "~",
			}))
		})
	})

	When("full noise is used", func() {
		It("should send a decoy after every fetched record", func() {
			sut, err := NewAttacker(1, 1)
			Expect(err).Should(Succeed())

			res := sut.Walk(ctx, querier, DefaultSeed)

			Expect(res.Fetched).Should(Equal(len(testRecords)))
			Expect(querier.queries[:5]).Should(Equal([]string{"0", "alpha.com", "alpha.col", "alpha.con", "bravo.com"}))
		})
	})

	It("should make reproducible decisions for the seed", func() {
		decisions := func() []bool {
			sut, err := NewAttacker(0.5, 42)
			Expect(err).Should(Succeed())

			d := make([]bool, 50)
			for i := range d {
				d[i] = sut.decoy()
			}

			return d
		}

		first := decisions()
		Expect(decisions()).Should(Equal(first))
		Expect(first).Should(ContainElements(true, false))
	})

	It("should stop on an existing guessed domain", func() {
		sut, err := NewAttacker(0, 1)
		Expect(err).Should(Succeed())

		res := sut.Walk(ctx, querier, "alpha.com")

		Expect(res.Fetched).Should(BeZero())
		Expect(res.StopReason).Should(MatchError(ErrUnexpectedRecord))
	})

	It("should stop if the context is done", func() {
		sut, err := NewAttacker(0, 1)
		Expect(err).Should(Succeed())

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		res := sut.Walk(cancelled, querier, DefaultSeed)

		Expect(res.Fetched).Should(BeZero())
		Expect(errors.Is(res.StopReason, context.Canceled)).Should(BeTrue())
	})

	Describe("against a server", func() {
		It("should fetch the whole zone without detection", func() {
			cfg := defaultConfig()
			cfg.LowProfiling.Enable = false
			cfg.Client.Server = startServer(cfg)

			session, err := Dial(ctx, cfg.Client, "10.0.0.1", zoneKey)
			Expect(err).Should(Succeed())

			DeferCleanup(session.Close)

			sut, err := NewAttacker(0, 1)
			Expect(err).Should(Succeed())

			res := sut.Walk(ctx, session, DefaultSeed)

			Expect(res.Fetched).Should(Equal(len(testRecords)))
			Expect(res.Speed()).Should(BeNumerically(">=", 0))

			for _, r := range res.Records {
				Expect(r.Verified).Should(BeTrue())
			}
		})

		It("should be blocked by the low profiling detector", func() {
			cfg := defaultConfig()
			cfg.LowProfiling.WindowThreshold = 3
			cfg.Client.Server = startServer(cfg)

			session, err := Dial(ctx, cfg.Client, "10.0.0.1", zoneKey)
			Expect(err).Should(Succeed())

			DeferCleanup(session.Close)

			sut, err := NewAttacker(0, 1)
			Expect(err).Should(Succeed())

			res := sut.Walk(ctx, session, DefaultSeed)

			Expect(res.Fetched).Should(BeNumerically("<", len(testRecords)))
			Expect(res.StopReason).Should(MatchError(protocol.ErrServerMessage))
		})
	})
})
