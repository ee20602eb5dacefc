package signature

import (
	"strings"

	"github.com/miekg/dns"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Service", func() {
	var (
		sut *Service
		key *dns.DNSKEY
		err error
	)

	BeforeEach(func() {
		var privateKey any

		key, privateKey, err = GenerateKeyPair("nsec.test.", dns.ED25519)
		Expect(err).Should(Succeed())

		sut, err = NewService(key, privateKey)
		Expect(err).Should(Succeed())
	})

	Describe("Sign and Verify", func() {
		DescribeTable("should verify own signatures",
			func(message string) {
				sig, err := sut.Sign(message)
				Expect(err).Should(Succeed())
				Expect(sig).ShouldNot(ContainSubstring(" "))
				Expect(sig).ShouldNot(ContainSubstring(","))

				Expect(sut.Verify(message, sig)).Should(BeTrue())
			},
			Entry("record", "example.com,1.2.3.4"),
			Entry("range", "!,a.com"),
			Entry("empty", ""),
			Entry("backslash", `a\b,c`),
			Entry("longer than one TXT string", strings.Repeat("abcdefghij", 60)),
		)

		It("should reject a mutated message", func() {
			sig, err := sut.Sign("a.com,b.com")
			Expect(err).Should(Succeed())

			Expect(sut.Verify("a.com,b.con", sig)).Should(BeFalse())
			Expect(sut.Verify("a.com,b.co", sig)).Should(BeFalse())
		})

		It("should distinguish escaped content", func() {
			sig, err := sut.Sign(`a\\b`)
			Expect(err).Should(Succeed())

			Expect(sut.Verify(`a\b`, sig)).Should(BeFalse())
		})

		It("should reject a mutated signature", func() {
			sig, err := sut.Sign("a.com,1.1.1.1")
			Expect(err).Should(Succeed())

			mutated := []byte(sig)
			if mutated[0] == 'A' {
				mutated[0] = 'B'
			} else {
				mutated[0] = 'A'
			}

			Expect(sut.Verify("a.com,1.1.1.1", string(mutated))).Should(BeFalse())
		})

		It("should fail closed on malformed signatures", func() {
			Expect(sut.Verify("a.com,1.1.1.1", "")).Should(BeFalse())
			Expect(sut.Verify("a.com,1.1.1.1", "not base64 !!")).Should(BeFalse())
			Expect(sut.Verify("a.com,1.1.1.1", "AAAA")).Should(BeFalse())
		})

		It("should not verify signatures of another key", func() {
			otherKey, otherPrivate, err := GenerateKeyPair("nsec.test.", dns.ED25519)
			Expect(err).Should(Succeed())

			other, err := NewService(otherKey, otherPrivate)
			Expect(err).Should(Succeed())

			sig, err := other.Sign("a.com,1.1.1.1")
			Expect(err).Should(Succeed())

			Expect(sut.Verify("a.com,1.1.1.1", sig)).Should(BeFalse())
		})
	})

	When("ECDSA key is used", func() {
		It("should verify randomized signatures", func() {
			ecKey, ecPrivate, err := GenerateKeyPair("nsec.test.", dns.ECDSAP256SHA256)
			Expect(err).Should(Succeed())

			ec, err := NewService(ecKey, ecPrivate)
			Expect(err).Should(Succeed())

			first, err := ec.Sign("b.com,c.com")
			Expect(err).Should(Succeed())
			second, err := ec.Sign("b.com,c.com")
			Expect(err).Should(Succeed())

			Expect(ec.Verify("b.com,c.com", first)).Should(BeTrue())
			Expect(ec.Verify("b.com,c.com", second)).Should(BeTrue())
			Expect(ec.Verify("b.com,c.co", first)).Should(BeFalse())
		})
	})

	When("service has no private key", func() {
		It("should verify but not sign", func() {
			sig, err := sut.Sign("a.com,1.1.1.1")
			Expect(err).Should(Succeed())

			verifier, err := NewService(key, nil)
			Expect(err).Should(Succeed())

			Expect(verifier.Verify("a.com,1.1.1.1", sig)).Should(BeTrue())

			_, err = verifier.Sign("a.com,1.1.1.1")
			Expect(err).Should(MatchError(ErrNoPrivateKey))
		})
	})

	It("should require a public key", func() {
		_, err := NewService(nil, nil)
		Expect(err).Should(HaveOccurred())
	})

	It("should return the public key", func() {
		Expect(sut.Key()).Should(BeIdenticalTo(key))
	})
})
