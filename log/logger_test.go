package log

import (
	"context"

	"github.com/sirupsen/logrus"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Logger", func() {
	AfterEach(func() {
		ConfigureLogger(Config{Level: LevelInfo, Format: FormatTypeText, Timestamp: true})
	})

	Describe("ConfigureLogger", func() {
		It("should apply the log level", func() {
			ConfigureLogger(Config{Level: LevelDebug, Format: FormatTypeText})

			Expect(Log().GetLevel()).Should(Equal(logrus.DebugLevel))
		})

		It("should use the JSON formatter", func() {
			ConfigureLogger(Config{Level: LevelInfo, Format: FormatTypeJson})

			Expect(Log().Formatter).Should(BeAssignableToTypeOf(&logrus.JSONFormatter{}))
		})
	})

	Describe("EscapeInput", func() {
		It("should remove line breaks", func() {
			Expect(EscapeInput("a.com\r\nb.com\n")).Should(Equal("a.comb.com"))
		})
	})

	Describe("Obfuscate", func() {
		It("should keep the input without privacy mode", func() {
			Expect(Obfuscate("10.0.0.1")).Should(Equal("10.0.0.1"))
		})

		It("should mask the input in privacy mode", func() {
			ConfigureLogger(Config{Level: LevelInfo, Format: FormatTypeText, Privacy: true})

			Expect(Obfuscate("10.0.0.1")).Should(Equal("********"))
		})
	})

	Describe("Level", func() {
		It("should parse known names", func() {
			l, err := ParseLevel("warn")
			Expect(err).Should(Succeed())
			Expect(l).Should(Equal(LevelWarn))
		})

		It("should fail on unknown names", func() {
			_, err := ParseLevel("loud")
			Expect(err).Should(MatchError(ErrInvalidLevel))
		})
	})

	Describe("context logger", func() {
		It("should fall back to the global logger", func() {
			Expect(FromCtx(context.Background()).Logger).Should(Equal(Log()))
		})

		It("should carry fields", func() {
			ctx, _ := CtxWithFields(context.Background(), logrus.Fields{"session_id": "abc"})

			Expect(FromCtx(ctx).Data).Should(HaveKeyWithValue("session_id", "abc"))
		})
	})

	Describe("MockLoggerHook", func() {
		It("should record messages", func() {
			entry, hook := NewMockEntry()
			entry.Info("hello")

			Expect(hook.Messages).Should(ContainElement("hello"))

			hook.Reset()
			Expect(hook.Messages).Should(BeEmpty())
			Expect(hook.Entries()).Should(BeZero())
		})

		It("should record fields of context loggers", func() {
			entry, hook := NewMockEntry()

			ctx, _ := NewCtx(context.Background(), entry.WithField("session_id", "abc"))
			ctx, _ = CtxWithFields(ctx, logrus.Fields{"client_id": "1.2.3.4"})

			FromCtx(ctx).Debug("request answered")

			Expect(hook.Messages).Should(Equal([]string{"request answered"}))
			Expect(hook.Fields[0]).Should(HaveKeyWithValue("session_id", "abc"))
			Expect(hook.Fields[0]).Should(HaveKeyWithValue("client_id", "1.2.3.4"))
		})
	})
})
