// Package cube models a 3x3 twisty puzzle as nine faces of nine subfaces.
// Six faces are real; three imaginary centre faces let slice moves reuse the
// face twist machinery. Every twist also yields three intermediate cubes that
// can be shown in sequence to animate the move.
package cube

import (
	"errors"
	"strings"
)

// StateLen is the length of a serialised cube: one colour letter per subface
// across the six real faces.
const StateLen = VisibleFaces * 9

// ErrShortState is returned by Deserialise when the input is too short.
var ErrShortState = errors.New("not enough data, incomplete cube state")

type subface struct {
	color Color
	next  Color
}

type faceState [9]subface

// adjacency names a neighbouring face and the strip of three subfaces on it
// that borders the twisting face: offset, offset+step, offset+2*step.
type adjacency struct {
	face   int
	offset int
	step   int
}

var adjacent = [numFaces][4]adjacency{
	Top:      {{Back, 0, 1}, {Right, 0, 1}, {Front, 0, 1}, {Left, 0, 1}},
	Front:    {{Top, 8, -1}, {Right, 6, -3}, {Bottom, 8, -1}, {Left, 2, 3}},
	Left:     {{Top, 6, -3}, {Front, 6, -3}, {Bottom, 2, 3}, {Back, 2, 3}},
	Back:     {{Top, 0, 1}, {Left, 6, -3}, {Bottom, 0, 1}, {Right, 2, 3}},
	Right:    {{Top, 2, 3}, {Back, 6, -3}, {Bottom, 6, -3}, {Front, 2, 3}},
	Bottom:   {{Front, 8, -1}, {Right, 8, -1}, {Back, 8, -1}, {Left, 8, -1}},
	CenterFB: {{Left, 1, 3}, {Top, 5, -1}, {Right, 7, -3}, {Bottom, 5, -1}},
	CenterLR: {{Back, 1, 3}, {Top, 7, -3}, {Front, 7, -3}, {Bottom, 1, 3}},
	CenterBT: {{Left, 5, -1}, {Front, 5, -1}, {Right, 5, -1}, {Back, 5, -1}},
}

var startColors = [numFaces]Color{White, Red, Green, Orange, Blue, Yellow, White, White, White}

// Cube is a value type; copying it copies the whole state.
type Cube struct {
	faces [numFaces]faceState
}

// New returns a solved cube: white top, red front, green left, orange back,
// blue right, yellow bottom.
func New() Cube {
	var c Cube
	for f := range c.faces {
		for s := range c.faces[f] {
			c.faces[f][s] = subface{color: startColors[f], next: startColors[f]}
		}
	}
	return c
}

// At returns the colour of one subface.
func (c *Cube) At(face, sub int) Color {
	return c.faces[face][sub].color
}

// IsSolved reports whether each real face shows a single colour.
func (c *Cube) IsSolved() bool {
	for f := 0; f < VisibleFaces; f++ {
		col := c.faces[f][0].color
		for s := 1; s < 9; s++ {
			if c.faces[f][s].color != col {
				return false
			}
		}
	}
	return true
}

// Serialise returns the 54 colour letters of the real faces in face order.
func (c *Cube) Serialise() string {
	var b strings.Builder
	b.Grow(StateLen)
	for f := 0; f < VisibleFaces; f++ {
		for _, s := range c.faces[f] {
			b.WriteByte(s.color.Shortname())
		}
	}
	return b.String()
}

// Deserialise overwrites the real faces from a colour letter string. Only the
// first StateLen bytes are read; unknown letters become Blank.
func (c *Cube) Deserialise(data string) error {
	if len(data) < StateLen {
		return ErrShortState
	}
	i := 0
	for f := 0; f < VisibleFaces; f++ {
		for s := range c.faces[f] {
			col := ColorFromShortname(data[i])
			c.faces[f][s] = subface{color: col, next: col}
			i++
		}
	}
	return nil
}

// Twist applies t and returns three intermediate frames that animate the move.
// Frame 0 shows the edge strips one subface along, frame 1 adds the turned
// face half way, frame 2 shows the edges two subfaces along.
func (c *Cube) Twist(t Twist) [3]Cube {
	frames := [3]Cube{*c, *c, *c}
	face, reverse := t.Face, t.Reverse
	if face < 0 || face >= numFaces {
		return frames
	}

	if face < FakeFaceMin {
		anim := c.faces[face].twist(reverse)
		frames[1].faces[face] = anim
		frames[2].faces[face] = anim
	}

	dir := -1
	if reverse {
		dir = 1
	}
	for i := 0; i < 4; i++ {
		dst := adjacent[face][i]
		src := adjacent[face][(i+dir+4)%4]
		subs := c.faces[src.face]

		var edge [2]faceState
		if !reverse {
			edge = c.faces[dst.face].copyFrom(subs, dst.offset, dst.step, src.offset, src.step)
		} else {
			edge = c.faces[dst.face].copyFrom(subs, dst.offset+dst.step*2, -dst.step, src.offset+src.step*2, -src.step)
		}
		frames[0].faces[dst.face] = edge[0]
		frames[1].faces[dst.face] = edge[0]
		frames[2].faces[dst.face] = edge[1]
	}

	for i := 0; i < 4; i++ {
		c.faces[adjacent[face][i].face].update()
	}
	return frames
}

// Twists applies a whitespace separated sequence such as "R U2 R'".
func (c *Cube) Twists(seq string) error {
	ts, err := ParseSequence(seq)
	if err != nil {
		return err
	}
	for _, t := range ts {
		c.Twist(t)
	}
	return nil
}

// String renders the real faces as labelled 3x3 grids.
func (c *Cube) String() string {
	names := [VisibleFaces]string{"Top", "Front", "Left", "Back", "Right", "Bottom"}
	var b strings.Builder
	for f, name := range names {
		if f > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(name)
		b.WriteString(":\n")
		b.WriteString(c.faces[f].String())
	}
	return b.String()
}

// copyFrom stages the three subfaces at doffset (stepping dstep) to take the
// colours of other at soffset (stepping sstep). The new colours land in next
// and become visible on update. The two returned faces are the strip shifted
// by one and by two subfaces.
func (f *faceState) copyFrom(other faceState, doffset, dstep, soffset, sstep int) [2]faceState {
	window := [6]Color{
		f[doffset].color,
		f[doffset+dstep].color,
		f[doffset+2*dstep].color,
		other[soffset].color,
		other[soffset+sstep].color,
		other[soffset+2*sstep].color,
	}

	frames := [2]faceState{*f, *f}
	for fr := 0; fr < 2; fr++ {
		for i := 0; i < 3; i++ {
			d := doffset + i*dstep
			col := window[fr+i+1]
			frames[fr][d] = subface{color: col, next: col}
		}
	}

	for i := 0; i < 3; i++ {
		f[doffset+i*dstep].next = window[3+i]
	}
	return frames
}

func (f *faceState) update() {
	for i := range f {
		f[i].color = f[i].next
	}
}

// twist rotates the face itself a quarter turn and returns the half-way frame.
func (f *faceState) twist(reverse bool) faceState {
	s := *f
	var mid faceState
	if !reverse {
		mid = faceState{
			s[3], s[0], s[1],
			s[6], s[4], s[2],
			s[7], s[8], s[5],
		}
		*f = faceState{
			s[6], s[3], s[0],
			s[7], s[4], s[1],
			s[8], s[5], s[2],
		}
	} else {
		mid = faceState{
			s[1], s[2], s[5],
			s[0], s[4], s[8],
			s[3], s[6], s[7],
		}
		*f = faceState{
			s[2], s[5], s[8],
			s[1], s[4], s[7],
			s[0], s[3], s[6],
		}
	}
	return mid
}

func (f *faceState) String() string {
	var b strings.Builder
	for i, s := range f {
		if i > 0 && i%3 == 0 {
			b.WriteByte('\n')
		}
		b.WriteByte(s.color.Shortname())
	}
	return b.String()
}
