package main

import (
	"bytes"
	"sync"
	"testing"
	"time"
)

var t0 = time.Unix(1000, 0).UTC()

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timeout: %s", msg)
}

// syncBuffer is a bytes.Buffer safe for one writer goroutine and one reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestState(t *testing.T) *DaemonState {
	t.Helper()
	return NewDaemonState(DefaultSettings(), NewSwitchMapping(), t0)
}

// feed reduces every byte of in and merges the results.
func feed(s *DaemonState, in string) ReduceResult {
	out := ReduceResult{State: s}
	for i := 0; i < len(in); i++ {
		rr := Reduce(s, ByteReceived{B: in[i], At: t0})
		out.Commands = append(out.Commands, rr.Commands...)
		out.Broadcasts = append(out.Broadcasts, rr.Broadcasts...)
	}
	return out
}

func statusLines(cmds []Command) []string {
	var lines []string
	for _, c := range cmds {
		if w, ok := c.(CmdWriteStatus); ok {
			lines = append(lines, w.Line)
		}
	}
	return lines
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
