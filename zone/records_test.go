package zone

import (
	"strings"

	"github.com/0xERR0R/nsecguard/helpertest"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Records", func() {
	Describe("ReadRecords", func() {
		It("should parse and normalize records", func() {
			records, err := ReadRecords(strings.NewReader("Example.COM,1.2.3.4\nbücher.de, 5.6.7.8\n"))

			Expect(err).Should(Succeed())
			Expect(records).Should(Equal([]Record{
				{Domain: "example.com", IP: "1.2.3.4"},
				{Domain: "xn--bcher-kva.de", IP: "5.6.7.8"},
			}))
		})

		It("should stop at the first line without two fields", func() {
			records, err := ReadRecords(strings.NewReader("a.com,1.1.1.1\nb.com\nc.com,3.3.3.3\n"))

			Expect(err).Should(Succeed())
			Expect(records).Should(HaveLen(1))
		})

		It("should stop at an empty line", func() {
			records, err := ReadRecords(strings.NewReader("a.com,1.1.1.1\n\nb.com,2.2.2.2\n"))

			Expect(err).Should(Succeed())
			Expect(records).Should(Equal([]Record{{Domain: "a.com", IP: "1.1.1.1"}}))
		})

		It("should stop at a line with more than two fields", func() {
			records, err := ReadRecords(strings.NewReader("a.com,1.1.1.1\nb.com,2.2.2.2,x\nc.com,3.3.3.3\n"))

			Expect(err).Should(Succeed())
			Expect(records).Should(HaveLen(1))
		})

		It("should accept CRLF line endings and a trailing separator", func() {
			records, err := ReadRecords(strings.NewReader("a.com,1.1.1.1\r\nb.com,2.2.2.2,\r\n"))

			Expect(err).Should(Succeed())
			Expect(records).Should(Equal([]Record{
				{Domain: "a.com", IP: "1.1.1.1"},
				{Domain: "b.com", IP: "2.2.2.2"},
			}))
		})

		It("should report all invalid entries", func() {
			_, err := ReadRecords(strings.NewReader(strings.Join([]string{
				"a.com,1.1.1.1",
				"b.com,::1",
				"c.com,300.1.1.1",
				"d d.com,4.4.4.4",
			}, "\n")))

			Expect(err).Should(HaveOccurred())
			Expect(err.Error()).Should(ContainSubstring("3 errors occurred"))
			Expect(err.Error()).Should(ContainSubstring("line 2"))
			Expect(err.Error()).Should(ContainSubstring("not IPv4"))
		})
	})

	Describe("LoadRecords", func() {
		It("should read the file", func() {
			tmpDir := helpertest.NewTmpFolder("records")
			Expect(tmpDir.Error).Should(Succeed())

			f := tmpDir.CreateStringFile("domain_ip.csv", "a.com,1.1.1.1", "b.com,2.2.2.2")
			Expect(f.Error).Should(Succeed())

			records, err := LoadRecords(f.Path)
			Expect(err).Should(Succeed())
			Expect(records).Should(HaveLen(2))
		})

		It("should fail if the file does not exist", func() {
			_, err := LoadRecords("/does/not/exist.csv")

			Expect(err).Should(HaveOccurred())
		})
	})
})
