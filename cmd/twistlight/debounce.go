package main

import (
	"sync/atomic"
	"time"
)

// Clock supplies monotonic timestamps. Tests inject a fake.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// DebounceTiming holds the three debounce thresholds.
type DebounceTiming struct {
	RepressDelay    time.Duration // minimum gap between presses of one input
	InverseCooldown time.Duration // minimum gap after the inverse input is released
	ConfirmDelay    time.Duration // a pending press must still be held after this
}

func defaultDebounceTiming() DebounceTiming {
	return DebounceTiming{
		RepressDelay:    defaultRepressDelay,
		InverseCooldown: defaultInverseCooldown,
		ConfirmDelay:    defaultConfirmDelay,
	}
}

type inputRecord struct {
	lastPress   atomic.Int64
	lastRelease atomic.Int64
	blocked     atomic.Bool

	pending   atomic.Bool
	pendingAt atomic.Int64
}

// DebounceState is shared between the edge context, which calls OnEdge, and
// the daemon loop, which calls CheckPending. Times are stored as nanoseconds
// since the state was created so they can live in atomics.
//
// Ordering on press: evaluate canAccept and arm the pending record, then set
// blocked, then stamp the press time. On release: stamp the release time,
// then clear blocked.
type DebounceState struct {
	base     time.Time
	timing   DebounceTiming
	switches *SwitchMapping

	allowInverse atomic.Bool
	inputs       [numInputs]inputRecord

	// held reports whether an input is still physically down. When nil the
	// blocked flag is used.
	held func(input int) bool
}

// NewDebounceState creates debounce state whose press and release history
// starts at now, so no press is accepted until the thresholds have elapsed.
func NewDebounceState(now time.Time, timing DebounceTiming, switches *SwitchMapping) *DebounceState {
	return &DebounceState{
		base:     now,
		timing:   timing,
		switches: switches,
	}
}

// SetHeldFunc installs a probe of the physical input level.
func (d *DebounceState) SetHeldFunc(held func(input int) bool) {
	d.held = held
}

// SetAllowInverse is set while the device is in Config mode.
func (d *DebounceState) SetAllowInverse(allow bool) {
	d.allowInverse.Store(allow)
}

func (d *DebounceState) since(now time.Time) int64 {
	return int64(now.Sub(d.base))
}

// OnEdge records a press or release. It runs in the edge context and does not
// allocate or block.
func (d *DebounceState) OnEdge(input int, pressed bool, now time.Time) {
	if input < 0 || input >= numInputs {
		return
	}
	t := d.since(now)
	rec := &d.inputs[input]

	if pressed {
		if d.canAccept(input, t, d.allowInverse.Load()) {
			rec.pendingAt.Store(t)
			rec.pending.Store(true)
		}
		rec.blocked.Store(true)
		rec.lastPress.Store(t)
		return
	}

	rec.lastRelease.Store(t)
	rec.blocked.Store(false)
}

func (d *DebounceState) canAccept(input int, t int64, allowInverse bool) bool {
	rec := &d.inputs[input]
	if rec.blocked.Load() {
		return false
	}

	inv := d.switches.InverseInput(input)
	var invRec *inputRecord
	if inv != noInput {
		invRec = &d.inputs[inv]
	}

	if !allowInverse && invRec != nil && invRec.blocked.Load() {
		return false
	}
	if t-rec.lastPress.Load() < int64(d.timing.RepressDelay) {
		return false
	}
	if allowInverse || invRec == nil {
		return true
	}
	return t-invRec.lastRelease.Load() >= int64(d.timing.InverseCooldown)
}

// CanAccept reports whether a press of input at now would arm a twist.
func (d *DebounceState) CanAccept(input int, now time.Time, allowInverse bool) bool {
	if input < 0 || input >= numInputs {
		return false
	}
	return d.canAccept(input, d.since(now), allowInverse)
}

// CheckPending clears every armed record older than the confirm delay and
// appends the inputs still held to dst. Quick taps are dropped silently.
func (d *DebounceState) CheckPending(now time.Time, dst []int) []int {
	t := d.since(now)
	for input := range d.inputs {
		rec := &d.inputs[input]
		if !rec.pending.Load() {
			continue
		}
		if t-rec.pendingAt.Load() <= int64(d.timing.ConfirmDelay) {
			continue
		}
		rec.pending.Store(false)
		if d.isHeld(input) {
			dst = append(dst, input)
		}
	}
	return dst
}

func (d *DebounceState) isHeld(input int) bool {
	if d.held != nil {
		return d.held(input)
	}
	return d.inputs[input].blocked.Load()
}

// Blocked reports whether input is currently pressed.
func (d *DebounceState) Blocked(input int) bool {
	if input < 0 || input >= numInputs {
		return false
	}
	return d.inputs[input].blocked.Load()
}
