package cube

import (
	"errors"
	"fmt"
	"strings"
)

// Face indices. Faces at or above FakeFaceMin are never displayed; they exist so
// that slice moves can be expressed as a twist of an imaginary centre face.
const (
	Top = iota
	Front
	Left
	Back
	Right
	Bottom

	FakeFaceMin
	CenterFB = FakeFaceMin
	CenterLR = FakeFaceMin + 1
	CenterBT = FakeFaceMin + 2

	numFaces = 9
)

// VisibleFaces is the number of real faces on the puzzle.
const VisibleFaces = 6

// ErrInvalidTwist is returned when a twist string cannot be parsed.
var ErrInvalidTwist = errors.New("invalid twist string")

// Twist is a single quarter turn in the quarter slice turn metric. It cannot
// describe half turns or whole-cube rotations.
type Twist struct {
	Face    int
	Reverse bool
}

// AllTwists lists every distinct quarter slice turn.
var AllTwists = [18]Twist{
	{Face: Bottom}, {Face: CenterBT}, {Face: Top},
	{Face: Left}, {Face: CenterLR}, {Face: Right},
	{Face: Front}, {Face: CenterFB}, {Face: Back},
	{Face: Bottom, Reverse: true}, {Face: CenterBT, Reverse: true}, {Face: Top, Reverse: true},
	{Face: Left, Reverse: true}, {Face: CenterLR, Reverse: true}, {Face: Right, Reverse: true},
	{Face: Front, Reverse: true}, {Face: CenterFB, Reverse: true}, {Face: Back, Reverse: true},
}

// ParseTwist parses a one to three byte twist such as "U", "f'", "b " or "Bo'".
// A trailing apostrophe marks the reverse direction. "B" alone means back; the
// two letter forms "Ba"/"Bo" disambiguate back and bottom.
func ParseTwist(s string) (Twist, error) {
	l := len(s)
	if l < 1 || l > 3 {
		return Twist{}, ErrInvalidTwist
	}
	reverse := s[l-1] == '\''

	var face int
	switch s[0] {
	case 'T', 't', 'U', 'u':
		face = Top
	case 'F', 'f':
		face = Front
	case 'L', 'l':
		face = Left
	case 'B', 'b':
		switch {
		case (l == 1 && !reverse) || (l == 2 && reverse):
			face = Back
		case (l == 2 && !reverse) || (l == 3 && reverse):
			switch s[1] {
			case 'A', 'a', ' ':
				face = Back
			case 'O', 'o':
				face = Bottom
			default:
				return Twist{}, ErrInvalidTwist
			}
		default:
			return Twist{}, ErrInvalidTwist
		}
	case 'R', 'r':
		face = Right
	case 'D', 'd':
		face = Bottom
	case 'S', 's':
		face = CenterFB
	case 'M', 'm':
		face = CenterLR
	case 'E', 'e':
		face = CenterBT
	default:
		return Twist{}, ErrInvalidTwist
	}
	return Twist{Face: face, Reverse: reverse}, nil
}

// ParseSequence parses whitespace separated twists. A trailing "2" repeats the
// twist, so "U2" yields two quarter turns.
func ParseSequence(s string) ([]Twist, error) {
	var seq []Twist
	for _, m := range strings.Fields(s) {
		if m[len(m)-1] == '2' {
			t, err := ParseTwist(m[:len(m)-1])
			if err != nil {
				return nil, fmt.Errorf("parse %q: %w", m, err)
			}
			seq = append(seq, t, t)
			continue
		}
		t, err := ParseTwist(m)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", m, err)
		}
		seq = append(seq, t)
	}
	return seq, nil
}

func (t Twist) String() string {
	var name string
	switch t.Face {
	case Top:
		name = "U"
	case Front:
		name = "F"
	case Left:
		name = "L"
	case Back:
		name = "B"
	case Right:
		name = "R"
	case Bottom:
		name = "D"
	case CenterFB:
		name = "S"
	case CenterLR:
		name = "M"
	case CenterBT:
		name = "E"
	default:
		name = "?"
	}
	if t.Reverse {
		return name + "'"
	}
	return name
}
