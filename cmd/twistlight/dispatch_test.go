package main

import (
	"testing"

	"twistlight/cube"
)

func TestDispatch_PlayTwistSolvesCube(t *testing.T) {
	s := newTestState(t)
	_ = s.Switches.Install(TwistF, 5)
	if err := s.Cube.Twists("f'"); err != nil {
		t.Fatalf("Twists: %v", err)
	}

	rr := Reduce(s, InputConfirmed{Input: 5, At: t0})
	if lines := statusLines(rr.Commands); !equalLines(lines, []string{"*f ;", "#"}) {
		t.Fatalf("status = %q, want [\"*f ;\" \"#\"]", lines)
	}
	if !s.Cube.IsSolved() {
		t.Fatalf("cube not solved after f")
	}
	if s.Render.Cursor() != 0 {
		t.Fatalf("cursor = %d, want 0", s.Render.Cursor())
	}

	var sawTwist, sawSolved bool
	for _, b := range rr.Broadcasts {
		switch ev := b.(type) {
		case BroadcastTwist:
			sawTwist = ev.Input == 5 && ev.Twist == TwistF
		case BroadcastSolved:
			sawSolved = true
		}
	}
	if !sawTwist || !sawSolved {
		t.Fatalf("broadcasts = %#v", rr.Broadcasts)
	}
}

func TestDispatch_PlayTwistWithoutSolve(t *testing.T) {
	s := newTestState(t)
	_ = s.Switches.Install(TwistUi, 12)

	rr := Reduce(s, InputConfirmed{Input: 12, At: t0})
	if lines := statusLines(rr.Commands); !equalLines(lines, []string{"*u';"}) {
		t.Fatalf("status = %q", lines)
	}

	want := cube.New()
	_ = want.Twists("u'")
	if s.Cube.Serialise() != want.Serialise() {
		t.Fatalf("cube = %q, want %q", s.Cube.Serialise(), want.Serialise())
	}
}

func TestDispatch_UnmappedInputIsSilent(t *testing.T) {
	s := newTestState(t)
	before := s.Cube.Serialise()

	rr := Reduce(s, InputConfirmed{Input: 9, At: t0})
	if len(rr.Commands) != 0 || len(rr.Broadcasts) != 0 {
		t.Fatalf("unmapped input produced %v / %v", rr.Commands, rr.Broadcasts)
	}
	if s.Cube.Serialise() != before {
		t.Fatalf("unmapped input changed the cube")
	}
	if s.Render.Cursor() != settledFrame {
		t.Fatalf("unmapped input restarted the animation")
	}
}

func TestDispatch_ConfigReportsInput(t *testing.T) {
	s := newTestState(t)
	_ = s.Switches.Install(TwistR, 7)
	before := s.Cube.Serialise()

	feed(s, "c")
	rr := Reduce(s, InputConfirmed{Input: 7, At: t0})
	if lines := statusLines(rr.Commands); !equalLines(lines, []string{"i7;"}) {
		t.Fatalf("status = %q, want [\"i7;\"]", lines)
	}
	if s.Cube.Serialise() != before {
		t.Fatalf("config press changed the cube")
	}
	if len(rr.Broadcasts) != 1 {
		t.Fatalf("broadcasts = %#v", rr.Broadcasts)
	}
	if in, ok := rr.Broadcasts[0].(BroadcastInput); !ok || in.Input != 7 {
		t.Fatalf("broadcast = %#v", rr.Broadcasts[0])
	}
}

func TestDispatch_ReadModesIgnorePresses(t *testing.T) {
	for _, cmd := range []string{"u", "m", "a"} {
		s := newTestState(t)
		_ = s.Switches.Install(TwistF, 5)
		feed(s, cmd)

		rr := Reduce(s, InputConfirmed{Input: 5, At: t0})
		if len(rr.Commands) != 0 {
			t.Fatalf("%s: press produced %v", s.Mode, rr.Commands)
		}
	}
}
