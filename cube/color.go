package cube

import "image/color"

// Color is a sticker colour.
type Color uint8

const (
	Blank Color = iota
	White
	Red
	Blue
	Green
	Yellow
	Orange
)

var palette = [...]struct {
	short byte
	rgb   uint32
}{
	Blank:  {' ', 0x000000},
	White:  {'W', 0xffffff},
	Red:    {'R', 0xff0000},
	Blue:   {'B', 0x0000ff},
	Green:  {'G', 0x00ff00},
	Yellow: {'Y', 0xffff00},
	Orange: {'O', 0xff3000},
}

// Shortname returns the single letter used in serialised state.
func (c Color) Shortname() byte {
	if int(c) >= len(palette) {
		return ' '
	}
	return palette[c].short
}

// ColorFromShortname maps a state letter to its colour. Unknown letters are
// Blank.
func ColorFromShortname(b byte) Color {
	switch b {
	case 'W':
		return White
	case 'R':
		return Red
	case 'B':
		return Blue
	case 'G':
		return Green
	case 'Y':
		return Yellow
	case 'O':
		return Orange
	}
	return Blank
}

// RGB returns the colour as 0xRRGGBB.
func (c Color) RGB() uint32 {
	if int(c) >= len(palette) {
		return 0
	}
	return palette[c].rgb
}

// RGBA returns the colour at full intensity and opaque alpha.
func (c Color) RGBA() color.RGBA {
	v := c.RGB()
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Red:
		return "red"
	case Blue:
		return "blue"
	case Green:
		return "green"
	case Yellow:
		return "yellow"
	case Orange:
		return "orange"
	}
	return "blank"
}
