// Package logpanel provides the request log used by the settings surface.
// The GigaChat client writes through an abstract sink rather than a concrete
// UI element; when no sink is attached entries are dropped silently.
package logpanel

import (
	"fmt"
	"sync"
	"time"
)

// Sink receives log entries. The settings surface supplies one while its
// log panel is visible and detaches it afterwards.
type Sink interface {
	Append(entry string)
}

// Logger forwards formatted entries to the attached sink. A Logger with no
// sink, or with logging disabled, drops every entry. The zero value is
// usable and silent.
type Logger struct {
	mu      sync.RWMutex
	sink    Sink
	enabled bool
}

// NewLogger returns a logger with no sink attached.
func NewLogger() *Logger {
	return &Logger{}
}

// SetSink attaches or detaches (nil) the output sink.
func (l *Logger) SetSink(sink Sink) {
	l.mu.Lock()
	l.sink = sink
	l.mu.Unlock()
}

// SetEnabled toggles logging. The toggle follows the LogMessages setting.
func (l *Logger) SetEnabled(enabled bool) {
	l.mu.Lock()
	l.enabled = enabled
	l.mu.Unlock()
}

// Logf formats and appends one entry if logging is enabled and a sink is
// attached.
func (l *Logger) Logf(format string, args ...interface{}) {
	l.mu.RLock()
	sink := l.sink
	enabled := l.enabled
	l.mu.RUnlock()

	if !enabled || sink == nil {
		return
	}
	sink.Append(fmt.Sprintf(format, args...))
}

// Buffer is an append-only in-memory sink backing the log panel. It is safe
// for concurrent use.
type Buffer struct {
	mu      sync.Mutex
	entries []string
}

// NewBuffer returns an empty log buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Append adds one timestamped entry to the buffer.
func (b *Buffer) Append(entry string) {
	b.mu.Lock()
	b.entries = append(b.entries, time.Now().Format("15:04:05")+" "+entry)
	b.mu.Unlock()
}

// Entries returns a snapshot of the buffer contents.
func (b *Buffer) Entries() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.entries))
	copy(out, b.entries)
	return out
}
