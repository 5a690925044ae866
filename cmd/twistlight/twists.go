package main

import (
	"strings"

	"twistlight/cube"
)

// LogicalTwist is one of the 18 quarter turns the switches can report. The
// order pairs each twist with its inverse so that flipping the low bit
// inverts it.
type LogicalTwist uint8

const (
	TwistF LogicalTwist = iota
	TwistFi
	TwistB
	TwistBi
	TwistR
	TwistRi
	TwistL
	TwistLi
	TwistU
	TwistUi
	TwistD
	TwistDi
	TwistE
	TwistEi
	TwistM
	TwistMi
	TwistS
	TwistSi

	// TwistNone is what an unmapped input resolves to.
	TwistNone
)

var twistCodes = [numTwists]string{
	"f ", "f'", "b ", "b'", "r ", "r'", "l ", "l'", "u ", "u'",
	"d ", "d'", "e ", "e'", "m ", "m'", "s ", "s'",
}

var twistFaces = [numTwists / 2]int{
	cube.Front, cube.Back, cube.Right, cube.Left, cube.Top,
	cube.Bottom, cube.CenterBT, cube.CenterLR, cube.CenterFB,
}

// Valid reports whether t is one of the 18 real twists.
func (t LogicalTwist) Valid() bool { return t < TwistNone }

// Inverse returns the opposite turn. TwistNone is its own inverse.
func (t LogicalTwist) Inverse() LogicalTwist {
	if !t.Valid() {
		return TwistNone
	}
	return t ^ 1
}

// Code is the two character name used on the status line, e.g. "f " or "u'".
func (t LogicalTwist) Code() string {
	if !t.Valid() {
		return "  "
	}
	return twistCodes[t]
}

// String is the code without padding, e.g. "f" or "u'".
func (t LogicalTwist) String() string {
	if !t.Valid() {
		return "none"
	}
	return strings.TrimSpace(twistCodes[t])
}

// CubeTwist converts t for the cube model.
func (t LogicalTwist) CubeTwist() (cube.Twist, bool) {
	if !t.Valid() {
		return cube.Twist{}, false
	}
	return cube.Twist{Face: twistFaces[t/2], Reverse: t&1 == 1}, true
}

// parseLogicalTwist accepts either the two character code or the bare letter
// form ("f", "f'").
func parseLogicalTwist(s string) (LogicalTwist, bool) {
	if len(s) == 1 {
		s += " "
	}
	for i, c := range twistCodes {
		if c == s {
			return LogicalTwist(i), true
		}
	}
	return TwistNone, false
}
