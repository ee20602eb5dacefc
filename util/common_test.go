package util

import (
	"errors"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Common function tests", func() {
	var code int

	BeforeEach(func() {
		code = -1
		exitFn = func(c int) { code = c }
		DeferCleanup(func() { exitFn = os.Exit })
	})

	Describe("ExitOnError", func() {
		It("should exit with the given code on error", func() {
			ExitOnError(3, "bind failed: ", errors.New("address already in use"))
			Expect(code).Should(Equal(3))
		})

		It("should do nothing without error", func() {
			ExitOnError(2, "nothing", nil)
			Expect(code).Should(Equal(-1))
		})
	})

	Describe("FatalOnError", func() {
		It("should exit with code 1 on error", func() {
			FatalOnError("subscription failed: ", errors.New("boom"))
			Expect(code).Should(Equal(1))
		})

		It("should do nothing without error", func() {
			FatalOnError("nothing", nil)
			Expect(code).Should(Equal(-1))
		})
	})
})
