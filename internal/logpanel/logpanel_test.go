package logpanel

import (
	"strings"
	"sync"
	"testing"
)

func TestLoggerWithoutSinkDropsEntries(t *testing.T) {
	l := NewLogger()
	l.SetEnabled(true)

	// Must not panic with no sink attached.
	l.Logf("entry %d", 1)
}

func TestLoggerDisabledDropsEntries(t *testing.T) {
	l := NewLogger()
	b := NewBuffer()
	l.SetSink(b)

	l.Logf("dropped while disabled")

	if got := len(b.Entries()); got != 0 {
		t.Errorf("buffer has %d entries, want 0 while logging is disabled", got)
	}
}

func TestLoggerForwardsToSink(t *testing.T) {
	l := NewLogger()
	b := NewBuffer()
	l.SetSink(b)
	l.SetEnabled(true)

	l.Logf("token expires in %ds", 1800)

	entries := b.Entries()
	if len(entries) != 1 {
		t.Fatalf("buffer has %d entries, want 1", len(entries))
	}
	if !strings.HasSuffix(entries[0], "token expires in 1800s") {
		t.Errorf("entry = %q, want formatted message suffix", entries[0])
	}
}

func TestLoggerDetachSink(t *testing.T) {
	l := NewLogger()
	b := NewBuffer()
	l.SetSink(b)
	l.SetEnabled(true)

	l.Logf("first")
	l.SetSink(nil)
	l.Logf("second")

	if got := len(b.Entries()); got != 1 {
		t.Errorf("buffer has %d entries, want 1 after sink detached", got)
	}
}

func TestBufferAppendOrder(t *testing.T) {
	b := NewBuffer()
	b.Append("one")
	b.Append("two")

	entries := b.Entries()
	if len(entries) != 2 {
		t.Fatalf("Entries() length = %d, want 2", len(entries))
	}
	if !strings.HasSuffix(entries[0], "one") || !strings.HasSuffix(entries[1], "two") {
		t.Errorf("Entries() = %v, want append order preserved", entries)
	}
}

func TestBufferSnapshotIsIndependent(t *testing.T) {
	b := NewBuffer()
	b.Append("one")

	snapshot := b.Entries()
	snapshot[0] = "mutated"

	if got := b.Entries()[0]; strings.HasPrefix(got, "mutated") {
		t.Error("mutating a snapshot changed the buffer contents")
	}
}

func TestBufferConcurrentAppend(t *testing.T) {
	b := NewBuffer()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Append("entry")
		}()
	}
	wg.Wait()

	if got := len(b.Entries()); got != 20 {
		t.Errorf("buffer has %d entries, want 20", got)
	}
}
