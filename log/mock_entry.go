package log

import (
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// NewMockEntry creates a trace level entry writing nowhere. The hook records every entry.
func NewMockEntry() (*logrus.Entry, *MockLoggerHook) {
	logger, _ := test.NewNullLogger()
	logger.Level = logrus.TraceLevel

	hook := &MockLoggerHook{}
	logger.AddHook(hook)

	return logrus.NewEntry(logger), hook
}

// MockLoggerHook keeps messages and fields of fired entries
type MockLoggerHook struct {
	mu sync.Mutex

	Messages []string
	Fields   []logrus.Fields
}

// Levels implements `logrus.Hook`.
func (h *MockLoggerHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire implements `logrus.Hook`.
func (h *MockLoggerHook) Fire(entry *logrus.Entry) error {
	fields := make(logrus.Fields, len(entry.Data))
	for k, v := range entry.Data {
		fields[k] = v
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.Messages = append(h.Messages, entry.Message)
	h.Fields = append(h.Fields, fields)

	return nil
}

// Entries returns the number of fired entries
func (h *MockLoggerHook) Entries() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.Messages)
}

// Reset drops everything recorded so far
func (h *MockLoggerHook) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.Messages = nil
	h.Fields = nil
}
