package main

import (
	"errors"
	"image/color"
)

var errNoStrip = errors.New("no LED strip configured")

// Strip is an addressable LED strip. SetPixel stages a colour at full
// intensity; the driver applies brightness when the strip is shown.
type Strip interface {
	Len() int
	SetPixel(i int, c color.RGBA)
	SetBrightness(level uint8)
	Show() error
}

// scale applies a 0..255 brightness to one channel.
func scale(v, level uint8) uint8 {
	return uint8((uint16(v)*uint16(level) + 127) / 255)
}

func scaleRGBA(c color.RGBA, level uint8) color.RGBA {
	return color.RGBA{R: scale(c.R, level), G: scale(c.G, level), B: scale(c.B, level), A: c.A}
}

// memStrip keeps pixels in memory. It backs the simulator and tests.
type memStrip struct {
	pixels     []color.RGBA
	brightness uint8
	shows      int
	onShow     func(pixels []color.RGBA, brightness uint8)
}

func newMemStrip(n int) *memStrip {
	return &memStrip{pixels: make([]color.RGBA, n), brightness: 0xff}
}

func (s *memStrip) Len() int { return len(s.pixels) }

func (s *memStrip) SetPixel(i int, c color.RGBA) {
	if i < 0 || i >= len(s.pixels) {
		return
	}
	s.pixels[i] = c
}

func (s *memStrip) SetBrightness(level uint8) { s.brightness = level }

func (s *memStrip) Show() error {
	s.shows++
	if s.onShow != nil {
		s.onShow(s.pixels, s.brightness)
	}
	return nil
}
