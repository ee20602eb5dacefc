package client

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Probe domains", func() {
	DescribeTable("NextDomain",
		func(in, expected string) {
			Expect(NextDomain(in)).Should(Equal(expected))
			Expect(NextDomain(in) > in).Should(BeTrue())
		},
		Entry("increments last char", "a.com", "a.con"),
		Entry("appends after z", "abz", "abz0"),
		Entry("single char", "0", "1"),
		Entry("char below alphabet", "a-", "a."),
		Entry("empty", "", "0"),
	)

	DescribeTable("PreviousDomain",
		func(in, expected string) {
			Expect(PreviousDomain(in)).Should(Equal(expected))
		},
		Entry("decrements last char", "a.com", "a.col"),
		Entry("drops trailing first char", "ab0", "ab"),
		Entry("keeps single first char", "0", "0"),
		Entry("drops char below alphabet", "a.", "a"),
		Entry("empty", "", "0"),
	)

	It("should invert NextDomain for chars inside the alphabet", func() {
		for _, s := range []string{"a", "abc", "x.com", "abz"} {
			Expect(PreviousDomain(NextDomain(s))).Should(Equal(s))
		}
	})
})
