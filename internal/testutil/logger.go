package testutil

import (
	"sync"

	"github.com/hupe1980/dialogmesh/logging"
)

// Entry is one captured log record.
type Entry struct {
	Level logging.LogLevel
	Msg   string
	Args  []any
}

// RecordingLogger captures log records for assertions. Safe for concurrent use.
type RecordingLogger struct {
	mu      sync.Mutex
	entries []Entry
}

var _ logging.Logger = (*RecordingLogger)(nil)

// NewRecordingLogger creates an empty RecordingLogger.
func NewRecordingLogger() *RecordingLogger { return &RecordingLogger{} }

func (l *RecordingLogger) record(level logging.LogLevel, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, Entry{Level: level, Msg: msg, Args: args})
}

// Debug implements logging.Logger.
func (l *RecordingLogger) Debug(msg string, args ...any) { l.record(logging.LogLevelDebug, msg, args) }

// Info implements logging.Logger.
func (l *RecordingLogger) Info(msg string, args ...any) { l.record(logging.LogLevelInfo, msg, args) }

// Warn implements logging.Logger.
func (l *RecordingLogger) Warn(msg string, args ...any) { l.record(logging.LogLevelWarn, msg, args) }

// Error implements logging.Logger.
func (l *RecordingLogger) Error(msg string, args ...any) { l.record(logging.LogLevelError, msg, args) }

// Entries returns a snapshot of captured records.
func (l *RecordingLogger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Entry(nil), l.entries...)
}

// Has reports whether a record with msg was captured.
func (l *RecordingLogger) Has(msg string) bool {
	return l.Count(msg) > 0
}

// Count returns the number of records with msg.
func (l *RecordingLogger) Count(msg string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.entries {
		if e.Msg == msg {
			n++
		}
	}
	return n
}
