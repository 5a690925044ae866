package cube

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
)

// OutputLen is the number of LEDs driven from the cube: five faces of nine.
// The bottom face is not lit.
const OutputLen = 45

// MapDigits is the length of a remap payload: a face and a subface digit per
// output.
const MapDigits = OutputLen * 2

// ErrOutputRange reports a remap entry outside the real faces or subfaces.
var ErrOutputRange = errors.New("output entry out of range")

// Output names the subface an LED shows.
type Output struct {
	Face    uint8
	Subface uint8
}

// OutputMap assigns a subface to each LED position.
type OutputMap [OutputLen]Output

// DefaultOutputMap lays LEDs out face by face: Top, Front, Left, Back, Right.
func DefaultOutputMap() OutputMap {
	var m OutputMap
	for i := range m {
		m[i] = Output{Face: uint8(i / 9), Subface: uint8(i % 9)}
	}
	return m
}

// Valid reports whether the entry points at a real face and subface.
func (o Output) Valid() bool {
	return int(o.Face) < VisibleFaces && o.Subface < 9
}

// RemapOutputs replaces entries from a list of face/subface digit pairs, each
// already reduced to its numeric value. Entries that fail validation keep
// their previous value; their positions are returned alongside
// ErrOutputRange. Extra digits past MapDigits are ignored.
func (m *OutputMap) RemapOutputs(digits []byte) ([]int, error) {
	if len(digits) < MapDigits {
		return nil, fmt.Errorf("remap: need %d digits, got %d", MapDigits, len(digits))
	}
	var bad []int
	for i := range m {
		o := Output{Face: digits[2*i], Subface: digits[2*i+1]}
		if !o.Valid() {
			bad = append(bad, i)
			continue
		}
		m[i] = o
	}
	if len(bad) > 0 {
		return bad, ErrOutputRange
	}
	return nil, nil
}

// Serialise writes each entry as its face digit followed by its subface digit.
func (m *OutputMap) Serialise() string {
	var b strings.Builder
	b.Grow(MapDigits)
	for _, o := range m {
		fmt.Fprintf(&b, "%d%d", o.Face, o.Subface)
	}
	return b.String()
}

// Colors resolves every LED position through m.
func (c *Cube) Colors(m *OutputMap) [OutputLen]Color {
	var out [OutputLen]Color
	for i, o := range m {
		if !o.Valid() {
			continue
		}
		out[i] = c.faces[o.Face][o.Subface].color
	}
	return out
}

// GetData fills dst with the RGB value of each LED position and returns the
// number written.
func (c *Cube) GetData(m *OutputMap, dst []color.RGBA) int {
	cols := c.Colors(m)
	n := 0
	for i := 0; i < len(cols) && i < len(dst); i++ {
		dst[i] = cols[i].RGBA()
		n++
	}
	return n
}
