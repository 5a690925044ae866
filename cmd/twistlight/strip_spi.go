//go:build linux && !tinygo

package main

import (
	"fmt"
	"image/color"
	"os"

	"golang.org/x/sys/unix"
)

// SPI_IOC_WR_MAX_SPEED_HZ from <linux/spi/spidev.h>.
const spiIocWrMaxSpeedHz = 0x40046b04

// spiResetBytes of low level after the data latch the frame (>80us at
// 2.4MHz).
const spiResetBytes = 32

// spiStrip drives a WS2812 chain from the MOSI line of a spidev device. Each
// data bit is sent as three SPI bits: 1 as 110, 0 as 100.
type spiStrip struct {
	f          *os.File
	pixels     []color.RGBA
	brightness uint8
	buf        []byte
}

func openSPIStrip(path string, n int, speedHz int) (*spiStrip, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open spi %s: %w", path, err)
	}
	if err := unix.IoctlSetPointerInt(int(f.Fd()), spiIocWrMaxSpeedHz, speedHz); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("set spi speed %d on %s: %w", speedHz, path, err)
	}
	return &spiStrip{
		f:          f,
		pixels:     make([]color.RGBA, n),
		brightness: 0xff,
		buf:        make([]byte, 0, n*9+spiResetBytes),
	}, nil
}

func (s *spiStrip) Len() int { return len(s.pixels) }

func (s *spiStrip) SetPixel(i int, c color.RGBA) {
	if i < 0 || i >= len(s.pixels) {
		return
	}
	s.pixels[i] = c
}

func (s *spiStrip) SetBrightness(level uint8) { s.brightness = level }

func (s *spiStrip) Show() error {
	s.buf = encodeWS2812(s.buf[:0], s.pixels, s.brightness)
	if _, err := s.f.Write(s.buf); err != nil {
		return fmt.Errorf("spi write: %w", err)
	}
	return nil
}

func (s *spiStrip) Close() error { return s.f.Close() }

// encodeWS2812 appends the SPI bit stream for pixels in GRB order, followed by
// the reset gap.
func encodeWS2812(dst []byte, pixels []color.RGBA, brightness uint8) []byte {
	for _, p := range pixels {
		c := scaleRGBA(p, brightness)
		dst = appendWS2812Byte(dst, c.G)
		dst = appendWS2812Byte(dst, c.R)
		dst = appendWS2812Byte(dst, c.B)
	}
	for i := 0; i < spiResetBytes; i++ {
		dst = append(dst, 0)
	}
	return dst
}

func appendWS2812Byte(dst []byte, v uint8) []byte {
	var bits uint32
	for i := 7; i >= 0; i-- {
		bits <<= 3
		if v&(1<<uint(i)) != 0 {
			bits |= 0b110
		} else {
			bits |= 0b100
		}
	}
	return append(dst, byte(bits>>16), byte(bits>>8), byte(bits))
}
