package main

import (
	"context"
	"image/color"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

type daemonHarness struct {
	events     chan Event
	deb        *DebounceState
	status     *syncBuffer
	shows      atomic.Int64
	brightness atomic.Int32
	firstPixel atomic.Uint32
	cancel     context.CancelFunc
	done       chan struct{}
}

func startTestDaemon(t *testing.T, setup func(*DaemonState)) *daemonHarness {
	t.Helper()

	// History starts a second in the past so presses are accepted at once.
	now := time.Now().Add(-time.Second)
	settings := DefaultSettings()
	switches := NewSwitchMapping()
	state := NewDaemonState(settings, switches, now)
	if setup != nil {
		setup(state)
	}

	h := &daemonHarness{
		events: make(chan Event, 16),
		deb:    NewDebounceState(now, settings.Debounce, switches),
		status: &syncBuffer{},
		done:   make(chan struct{}),
	}

	strip := newMemStrip(numLEDs + settings.SkipLEDs)
	strip.onShow = func(pixels []color.RGBA, brightness uint8) {
		h.shows.Add(1)
		h.brightness.Store(int32(brightness))
		p := pixels[settings.SkipLEDs]
		h.firstPixel.Store(uint32(p.R)<<16 | uint32(p.G)<<8 | uint32(p.B))
	}

	fx := &Effects{Status: h.status, Strip: strip, Debounce: h.deb}

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go func() {
		defer close(h.done)
		runDaemon(ctx, h.events, h.deb, systemClock{}, fx, state, time.Millisecond, slog.Default())
	}()
	return h
}

func (h *daemonHarness) stop(t *testing.T) {
	t.Helper()
	h.cancel()
	select {
	case <-h.done:
	case <-time.After(time.Second):
		t.Fatalf("daemon did not stop")
	}
}

func (h *daemonHarness) send(s string) {
	for i := 0; i < len(s); i++ {
		h.events <- ByteReceived{B: s[i], At: time.Now()}
	}
}

func TestDaemon_PressBecomesTwistAndSolve(t *testing.T) {
	h := startTestDaemon(t, func(s *DaemonState) {
		_ = s.Switches.Install(TwistF, 5)
		_ = s.Cube.Twists("f'")
	})
	defer h.stop(t)

	h.deb.OnEdge(5, true, time.Now())
	waitUntil(t, time.Second, func() bool {
		return strings.Contains(h.status.String(), "*f ;\n#\n")
	}, "expected twist and solved lines")

	h.deb.OnEdge(5, false, time.Now())
}

func TestDaemon_ConfigReportsInput(t *testing.T) {
	h := startTestDaemon(t, nil)
	defer h.stop(t)

	h.send("c")
	// The inverse flag reaches the debouncer through the effect stage.
	waitUntil(t, time.Second, func() bool {
		return h.deb.allowInverse.Load()
	}, "config mode not applied")

	h.deb.OnEdge(7, true, time.Now())
	waitUntil(t, time.Second, func() bool {
		return h.status.String() == "i7;\n"
	}, "expected i7; line")
	h.deb.OnEdge(7, false, time.Now())
}

func TestDaemon_BrightnessAndPaint(t *testing.T) {
	h := startTestDaemon(t, nil)
	defer h.stop(t)

	waitUntil(t, time.Second, func() bool {
		return h.shows.Load() > 0 && h.brightness.Load() == defaultBrightness
	}, "boot brightness not applied")

	// Solved cube, default map: the first LED shows the top face.
	if got := h.firstPixel.Load(); got != 0xffffff {
		t.Fatalf("first pixel = %06x, want ffffff", got)
	}

	h.send("%" + string(rune(80)))
	waitUntil(t, time.Second, func() bool {
		return h.brightness.Load() == 80
	}, "brightness 80 not applied")

	if got := h.status.String(); got != "" {
		t.Fatalf("unexpected status output %q", got)
	}
}

func TestDaemon_ProtocolErrorWrittenToStatus(t *testing.T) {
	h := startTestDaemon(t, nil)
	defer h.stop(t)

	h.send("a22" + strings.Repeat("99", numTwists-1))
	waitUntil(t, time.Second, func() bool {
		return strings.Count(h.status.String(), "?numtoohigh;\n") == numTwists
	}, "expected one numtoohigh per entry")
}
