package main

import "testing"

func assertInvertible(t *testing.T, m *SwitchMapping) {
	t.Helper()
	for in := 0; in < numInputs; in++ {
		tw := m.TwistFor(in)
		if tw.Valid() && m.InputFor(tw) != in {
			t.Fatalf("input %d -> %s -> input %d", in, tw, m.InputFor(tw))
		}
	}
	for tw := LogicalTwist(0); tw < TwistNone; tw++ {
		in := m.InputFor(tw)
		if in != noInput && m.TwistFor(in) != tw {
			t.Fatalf("twist %s -> input %d -> %s", tw, in, m.TwistFor(in))
		}
	}
}

func TestSwitchMapping_NewIsUnmapped(t *testing.T) {
	m := NewSwitchMapping()
	for in := 0; in < numInputs; in++ {
		if got := m.TwistFor(in); got != TwistNone {
			t.Fatalf("input %d: got %s, want none", in, got)
		}
	}
	if got := m.Serialise(); got != "999999999999999999999999999999999999" {
		t.Fatalf("Serialise() = %q", got)
	}
}

func TestSwitchMapping_InstallKeepsTablesInverse(t *testing.T) {
	m := NewSwitchMapping()
	steps := []struct {
		twist LogicalTwist
		input int
	}{
		{TwistF, 5},
		{TwistFi, 7},
		{TwistF, 9},  // f moves; 5 becomes unmapped
		{TwistU, 7},  // 7 moves from f' to u
		{TwistUi, 7}, // and again
	}
	for _, st := range steps {
		if err := m.Install(st.twist, st.input); err != nil {
			t.Fatalf("Install(%s, %d): %v", st.twist, st.input, err)
		}
		assertInvertible(t, m)
	}

	if got := m.TwistFor(5); got != TwistNone {
		t.Fatalf("input 5: got %s, want none", got)
	}
	if got := m.InputFor(TwistFi); got != noInput {
		t.Fatalf("f': got input %d, want none", got)
	}
	if got := m.InputFor(TwistU); got != noInput {
		t.Fatalf("u: got input %d, want none", got)
	}
	if got := m.TwistFor(7); got != TwistUi {
		t.Fatalf("input 7: got %s, want u'", got)
	}
}

func TestSwitchMapping_InverseInput(t *testing.T) {
	m := NewSwitchMapping()
	_ = m.Install(TwistR, 3)
	_ = m.Install(TwistRi, 4)

	if got := m.InverseInput(3); got != 4 {
		t.Fatalf("InverseInput(3) = %d, want 4", got)
	}
	if got := m.InverseInput(10); got != noInput {
		t.Fatalf("InverseInput(unmapped) = %d, want none", got)
	}
}

func TestSwitchMapping_InstallRejectsBadArgs(t *testing.T) {
	m := NewSwitchMapping()
	if err := m.Install(TwistNone, 3); err == nil {
		t.Fatalf("expected error for TwistNone")
	}
	if err := m.Install(TwistF, maxInputNum+1); err == nil {
		t.Fatalf("expected error for input out of range")
	}
}

func TestParseSwitchNumber(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"00", 0, true},
		{"05", 5, true},
		{"21", 21, true},
		{"22", 22, false},
		{"99", 99, false},
		{"x1", 0, false},
		{"1 ", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseSwitchNumber(tt.in[0], tt.in[1])
		if ok != tt.ok || (ok && got != tt.want) {
			t.Fatalf("parseSwitchNumber(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
