package protocol

import (
	"github.com/0xERR0R/nsecguard/model"
	"github.com/0xERR0R/nsecguard/zone"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Protocol", func() {
	Describe("Format", func() {
		It("should format records", func() {
			line := FormatRecord(zone.SignedRecord{
				Record:    zone.Record{Domain: "b.com", IP: "2.2.2.2"},
				Signature: "c2ln",
			})

			Expect(line).Should(Equal("b.com,2.2.2.2 c2ln"))
		})

		It("should format ranges", func() {
			line := FormatRange(zone.SignedRange{Start: "b.com", End: "c.com", Signature: "c2ln"})

			Expect(line).Should(Equal("NSEC b.com,c.com c2ln"))
		})
	})

	Describe("Parse", func() {
		It("should parse records", func() {
			a, err := Parse("b.com,2.2.2.2 c2ln")

			Expect(err).Should(Succeed())
			Expect(a.Type).Should(Equal(model.ResponseTypeRECORD))
			Expect(a.Domain).Should(Equal("b.com"))
			Expect(a.IP).Should(Equal("2.2.2.2"))
			Expect(a.Signature).Should(Equal("c2ln"))
			Expect(a.Message()).Should(Equal("b.com,2.2.2.2"))
		})

		It("should parse NSEC answers", func() {
			a, err := Parse("NSEC b.com,~ c2ln")

			Expect(err).Should(Succeed())
			Expect(a.Type).Should(Equal(model.ResponseTypeNSEC))
			Expect(a.Start).Should(Equal("b.com"))
			Expect(a.End).Should(Equal("~"))
			Expect(a.Message()).Should(Equal("b.com,~"))
		})

		DescribeTable("should detect server messages",
			func(line string) {
				a, err := Parse(line)

				Expect(a).Should(BeNil())
				Expect(err).Should(MatchError(ErrServerMessage))
			},
			Entry("invalid request", InvalidRequestLine),
			Entry("invalid client", InvalidClientLine),
			Entry("blocked", BlockedLine),
		)

		DescribeTable("should reject malformed answers",
			func(line string) {
				_, err := Parse(line)

				Expect(err).Should(MatchError(ErrMalformed))
			},
			Entry("empty", ""),
			Entry("single token", "b.com,2.2.2.2"),
			Entry("record without ip", "b.com sig"),
			Entry("range without end", "NSEC b.com sig"),
			Entry("three tokens without header", "RANGE b.com,c.com sig"),
		)
	})
})
