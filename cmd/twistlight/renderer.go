package main

import (
	"image/color"
	"time"

	"twistlight/cube"
)

// settledFrame is the cursor value at which the live cube is shown.
const settledFrame = 3

// Renderer steps through the three intermediate frames of the last twist and
// then shows the settled cube.
type Renderer struct {
	frames   [3]cube.Cube
	cursor   int
	interval time.Duration
	last     time.Time
}

// NewRenderer starts on the settled frame.
func NewRenderer(interval time.Duration, now time.Time) Renderer {
	return Renderer{cursor: settledFrame, interval: interval, last: now}
}

// Start shows a fresh animation from its first frame and restarts the frame
// timer.
func (r *Renderer) Start(frames [3]cube.Cube, now time.Time) {
	r.frames = frames
	r.cursor = 0
	r.last = now
}

// Settle jumps straight to the live cube.
func (r *Renderer) Settle() {
	r.cursor = settledFrame
}

// Advance moves the cursor on by one once the frame interval has passed. It
// reports whether the cursor moved.
func (r *Renderer) Advance(now time.Time) bool {
	if now.Sub(r.last) < r.interval {
		return false
	}
	r.last = now
	if r.cursor >= settledFrame {
		return false
	}
	r.cursor++
	return true
}

// Cursor returns the current frame index, 0..3.
func (r *Renderer) Cursor() int { return r.cursor }

// Frame returns the cube to display.
func (r *Renderer) Frame(live *cube.Cube) *cube.Cube {
	if r.cursor >= settledFrame {
		return live
	}
	return &r.frames[r.cursor]
}

// Pixels resolves the current frame through the output map.
func (r *Renderer) Pixels(live *cube.Cube, outputs *cube.OutputMap) [numLEDs]cube.Color {
	return r.Frame(live).Colors(outputs)
}

// Paint writes pixels to the strip after skip leading pixels, which are held
// black, and shows it.
func Paint(s Strip, pixels [numLEDs]cube.Color, skip int) error {
	for i := 0; i < skip && i < s.Len(); i++ {
		s.SetPixel(i, color.RGBA{A: 0xff})
	}
	for i, c := range pixels {
		pos := i + skip
		if pos >= s.Len() {
			break
		}
		s.SetPixel(pos, c.RGBA())
	}
	return s.Show()
}
