package signature

import (
	"github.com/0xERR0R/nsecguard/config"
	"github.com/0xERR0R/nsecguard/helpertest"
	"github.com/miekg/dns"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Keys", func() {
	var tmpDir *helpertest.TmpFolder

	BeforeEach(func() {
		tmpDir = helpertest.NewTmpFolder("keys")
		Expect(tmpDir.Error).Should(Succeed())
	})

	Describe("GenerateKeyPair", func() {
		DescribeTable("should create zone keys",
			func(algorithm uint8) {
				key, privateKey, err := GenerateKeyPair("nsec.test", algorithm)
				Expect(err).Should(Succeed())
				Expect(privateKey).ShouldNot(BeNil())

				Expect(key.Hdr.Name).Should(Equal("nsec.test."))
				Expect(key.Hdr.Class).Should(Equal(uint16(dns.ClassINET)))
				Expect(key.Flags).Should(Equal(uint16(zoneKeyFlags)))
				Expect(key.Algorithm).Should(Equal(algorithm))
			},
			Entry("ECDSA P-256", dns.ECDSAP256SHA256),
			Entry("ED25519", dns.ED25519),
		)

		It("should reject unsupported algorithms", func() {
			_, _, err := GenerateKeyPair("nsec.test.", dns.DSA)
			Expect(err).Should(HaveOccurred())
		})
	})

	Describe("key files", func() {
		var cfg config.Keys

		BeforeEach(func() {
			cfg = config.Keys{
				Zone:       "nsec.test.",
				Algorithm:  "ED25519",
				PublicKey:  tmpDir.JoinPath("zone/zone.key"),
				PrivateKey: tmpDir.JoinPath("zone/zone.private"),
			}

			key, privateKey, err := GenerateKeyPair(cfg.Zone, dns.ED25519)
			Expect(err).Should(Succeed())

			Expect(WriteKeyPair(key, privateKey, cfg.PublicKey, cfg.PrivateKey)).Should(Succeed())
		})

		It("should load a signing service", func() {
			sut, err := NewServiceFromConfig(cfg, true)
			Expect(err).Should(Succeed())

			sig, err := sut.Sign("a.com,1.2.3.4")
			Expect(err).Should(Succeed())

			verifier, err := NewServiceFromConfig(cfg, false)
			Expect(err).Should(Succeed())
			Expect(verifier.Verify("a.com,1.2.3.4", sig)).Should(BeTrue())
		})

		It("should fail if the public key is missing", func() {
			cfg.PublicKey = tmpDir.JoinPath("missing.key")

			_, err := NewServiceFromConfig(cfg, false)
			Expect(err).Should(HaveOccurred())
		})

		It("should fail if the private key is missing", func() {
			cfg.PrivateKey = tmpDir.JoinPath("missing.private")

			_, err := NewServiceFromConfig(cfg, true)
			Expect(err).Should(HaveOccurred())
		})

		It("should fail if the file contains no DNSKEY", func() {
			f := tmpDir.CreateStringFile("a.key", "nsec.test. 3600 IN A 1.2.3.4")
			Expect(f.Error).Should(Succeed())

			_, err := ReadPublicKey(f.Path)
			Expect(err).Should(MatchError(ContainSubstring("no DNSKEY")))
		})
	})
})
