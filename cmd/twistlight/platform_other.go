//go:build !linux && !tinygo

package main

import (
	"errors"
	"image/color"
	"os"
)

var errUnsupportedPlatform = errors.New("not supported on this platform")

func readInputEventsEpoll(done <-chan struct{}, files []*os.File, events chan<- inputEvent, readErr chan<- error) {
	readErr <- errUnsupportedPlatform
}

func openSerialTTY(path string, baud int) (*os.File, error) {
	return nil, errUnsupportedPlatform
}

type spiStrip struct{}

func openSPIStrip(path string, n int, speedHz int) (*spiStrip, error) {
	return nil, errUnsupportedPlatform
}

func (s *spiStrip) Len() int                    { return 0 }
func (s *spiStrip) SetPixel(i int, c color.RGBA) {}
func (s *spiStrip) SetBrightness(level uint8)    {}
func (s *spiStrip) Show() error                  { return errUnsupportedPlatform }
func (s *spiStrip) Close() error                 { return nil }
