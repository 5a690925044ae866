//go:build linux && !tinygo

package main

import (
	"os"
	"sync/atomic"
	"testing"
	"time"
)

func startEpollReader(t *testing.T, events chan inputEvent) (w *os.File, done chan struct{}, exited *atomic.Bool) {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	t.Cleanup(func() {
		r.Close()
		w.Close()
	})

	done = make(chan struct{})
	exited = &atomic.Bool{}
	readErr := make(chan error, 1)
	go func() {
		readInputEventsEpoll(done, []*os.File{r}, events, readErr)
		exited.Store(true)
	}()
	return w, done, exited
}

func TestEpollReaderForwardsBatchedRecords(t *testing.T) {
	events := make(chan inputEvent, 4)
	w, done, exited := startEpollReader(t, events)

	batch := append(encodeInputEvent(EV_KEY, 0x2c5, evValuePress), encodeInputEvent(EV_KEY, 0x2c5, evValueRelease)...)
	if _, err := w.Write(batch); err != nil {
		t.Fatalf("write: %v", err)
	}

	for _, want := range []int32{evValuePress, evValueRelease} {
		select {
		case ev := <-events:
			if ev.Code != 0x2c5 || ev.Value != want {
				t.Fatalf("event = %+v, want value %d", ev, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("no event with value %d", want)
		}
	}

	close(done)
	waitUntil(t, time.Second, exited.Load, "reader did not stop after done was closed")
}

func TestEpollReaderStopsWhileIdle(t *testing.T) {
	_, done, exited := startEpollReader(t, make(chan inputEvent))

	close(done)
	waitUntil(t, time.Second, exited.Load, "idle reader did not stop")
}

func TestEpollReaderStopsWhenConsumerIsGone(t *testing.T) {
	// Unbuffered and never drained: the reader blocks handing over a record.
	w, done, exited := startEpollReader(t, make(chan inputEvent))

	if _, err := w.Write(encodeInputEvent(EV_KEY, 0x2c5, evValuePress)); err != nil {
		t.Fatalf("write: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	close(done)
	waitUntil(t, time.Second, exited.Load, "reader stayed blocked on a full channel")
}
