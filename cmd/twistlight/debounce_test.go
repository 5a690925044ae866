package main

import (
	"testing"
	"time"
)

func newTestDebounce(t *testing.T) (*DebounceState, *SwitchMapping) {
	t.Helper()
	m := NewSwitchMapping()
	if err := m.Install(TwistF, 5); err != nil {
		t.Fatalf("install f: %v", err)
	}
	if err := m.Install(TwistFi, 7); err != nil {
		t.Fatalf("install f': %v", err)
	}
	return NewDebounceState(t0, defaultDebounceTiming(), m), m
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

func TestDebounce_RepressWithin150msRejected(t *testing.T) {
	d, _ := newTestDebounce(t)
	base := t0.Add(time.Second)

	d.OnEdge(5, true, base)
	if got := d.CheckPending(base.Add(ms(10)), nil); len(got) != 1 || got[0] != 5 {
		t.Fatalf("first press: got %v, want [5]", got)
	}
	d.OnEdge(5, false, base.Add(ms(20)))

	// 100ms after the last press.
	d.OnEdge(5, true, base.Add(ms(100)))
	if got := d.CheckPending(base.Add(ms(110)), nil); len(got) != 0 {
		t.Fatalf("re-press at 100ms: got %v, want none", got)
	}
	d.OnEdge(5, false, base.Add(ms(120)))

	// The rejected press still counts as the last press.
	d.OnEdge(5, true, base.Add(ms(240)))
	if got := d.CheckPending(base.Add(ms(250)), nil); len(got) != 0 {
		t.Fatalf("re-press 140ms after rejected press: got %v, want none", got)
	}
	d.OnEdge(5, false, base.Add(ms(260)))

	d.OnEdge(5, true, base.Add(ms(390)))
	if got := d.CheckPending(base.Add(ms(400)), nil); len(got) != 1 {
		t.Fatalf("press 150ms later: got %v, want [5]", got)
	}
}

func TestDebounce_InverseCooldown(t *testing.T) {
	tests := []struct {
		name         string
		allowInverse bool
		gap          time.Duration
		want         bool
	}{
		{"play within cooldown", false, ms(300), false},
		{"play at cooldown", false, ms(500), true},
		{"config within cooldown", true, ms(300), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := newTestDebounce(t)
			d.SetAllowInverse(tt.allowInverse)
			base := t0.Add(time.Second)

			d.OnEdge(5, true, base)
			d.OnEdge(5, false, base.Add(ms(20)))
			_ = d.CheckPending(base.Add(ms(30)), nil)

			at := base.Add(ms(20) + tt.gap)
			d.OnEdge(7, true, at)
			got := d.CheckPending(at.Add(ms(10)), nil)
			if (len(got) == 1) != tt.want {
				t.Fatalf("inverse press after %v: got %v, want accepted=%v", tt.gap, got, tt.want)
			}
		})
	}
}

func TestDebounce_InverseHeldBlocksPress(t *testing.T) {
	d, _ := newTestDebounce(t)
	base := t0.Add(time.Second)

	d.OnEdge(5, true, base)
	if d.CanAccept(7, base.Add(ms(10)), false) {
		t.Fatalf("expected inverse press rejected while input 5 is held")
	}
	if !d.CanAccept(7, base.Add(ms(10)), true) {
		t.Fatalf("expected inverse press accepted in config while input 5 is held")
	}
}

func TestDebounce_FastTapDiscarded(t *testing.T) {
	d, _ := newTestDebounce(t)
	base := t0.Add(time.Second)

	d.OnEdge(5, true, base)
	d.OnEdge(5, false, base.Add(ms(2)))

	if got := d.CheckPending(base.Add(ms(10)), nil); len(got) != 0 {
		t.Fatalf("fast tap: got %v, want none", got)
	}
	// The pending record is gone for good.
	if got := d.CheckPending(base.Add(ms(20)), nil); len(got) != 0 {
		t.Fatalf("second check: got %v, want none", got)
	}
}

func TestDebounce_ConfirmDelayIsStrict(t *testing.T) {
	d, _ := newTestDebounce(t)
	base := t0.Add(time.Second)

	d.OnEdge(5, true, base)
	if got := d.CheckPending(base.Add(ms(5)), nil); len(got) != 0 {
		t.Fatalf("at exactly 5ms: got %v, want none", got)
	}
	if got := d.CheckPending(base.Add(ms(6)), nil); len(got) != 1 {
		t.Fatalf("at 6ms: got %v, want [5]", got)
	}
}

func TestDebounce_NoPressRightAfterBoot(t *testing.T) {
	d, _ := newTestDebounce(t)
	d.OnEdge(5, true, t0.Add(ms(100)))
	if got := d.CheckPending(t0.Add(ms(110)), nil); len(got) != 0 {
		t.Fatalf("press 100ms after boot: got %v, want none", got)
	}
}

func TestDebounce_HeldFuncOverridesBlocked(t *testing.T) {
	d, _ := newTestDebounce(t)
	d.SetHeldFunc(func(int) bool { return false })
	base := t0.Add(time.Second)

	d.OnEdge(5, true, base)
	if got := d.CheckPending(base.Add(ms(10)), nil); len(got) != 0 {
		t.Fatalf("pin reads released: got %v, want none", got)
	}
}

func TestDebounce_OutOfRangeInputIgnored(t *testing.T) {
	d, _ := newTestDebounce(t)
	d.OnEdge(-1, true, t0.Add(time.Second))
	d.OnEdge(numInputs, true, t0.Add(time.Second))
	if d.Blocked(-1) || d.Blocked(numInputs) {
		t.Fatalf("out of range inputs must never block")
	}
}
