//go:build !tinygo

package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"os"
)

// inputEvent represents a Linux input event structure
// struct input_event { struct timeval time; __u16 type; __u16 code; __s32 value; };
type inputEvent struct {
	Sec   int64
	Usec  int64
	Type  uint16
	Code  uint16
	Value int32
}

var inputEventSize = binary.Size(inputEvent{})

func decodeInputEvent(buf []byte) (inputEvent, bool) {
	if len(buf) < inputEventSize {
		return inputEvent{}, false
	}
	return inputEvent{
		Sec:   int64(binary.LittleEndian.Uint64(buf[0:8])),
		Usec:  int64(binary.LittleEndian.Uint64(buf[8:16])),
		Type:  binary.LittleEndian.Uint16(buf[16:18]),
		Code:  binary.LittleEndian.Uint16(buf[18:20]),
		Value: int32(binary.LittleEndian.Uint32(buf[20:24])),
	}, true
}

// edgeFromEvent turns a gpio-keys event into an input edge. Autorepeat and
// non-key events are ignored.
func edgeFromEvent(ev inputEvent, keys *InputConfig) (input int, pressed bool, ok bool) {
	if ev.Type != EV_KEY {
		return 0, false, false
	}
	switch ev.Value {
	case evValuePress:
		pressed = true
	case evValueRelease:
		pressed = false
	default:
		return 0, false, false
	}
	input, ok = keys.KeyInput(ev.Code)
	return input, pressed, ok
}

// runSwitchInput opens the evdev devices and feeds their edges to the
// debouncer until ctx is canceled or a device fails. This goroutine is the
// edge context on Linux hosts.
func runSwitchInput(ctx context.Context, paths []string, keys InputConfig, deb *DebounceState, clock Clock, logger *slog.Logger) error {
	files := make([]*os.File, 0, len(paths))
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			for _, o := range files {
				o.Close()
			}
			return fmt.Errorf("open input device %s: %w", p, err)
		}
		files = append(files, f)
	}
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()

	events := make(chan inputEvent, 64)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		readInputEventsEpoll(done, files, events, readErr)
	}()
	// Stop the reader before the deferred cleanup closes its files.
	defer func() {
		close(done)
		<-stopped
	}()

	logger.Info("switch input listening", "devices", paths)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			return fmt.Errorf("input reader stopped: %w", err)
		case ev := <-events:
			input, pressed, ok := edgeFromEvent(ev, &keys)
			if !ok {
				continue
			}
			deb.OnEdge(input, pressed, clock.Now())
		}
	}
}
