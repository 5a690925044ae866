//go:build linux && !tinygo

package main

import (
	"bytes"
	"image/color"
	"testing"
)

func TestEncodeWS2812(t *testing.T) {
	pixels := []color.RGBA{{R: 0xff, G: 0x00, B: 0x80, A: 0xff}}
	got := encodeWS2812(nil, pixels, 0xff)

	want := []byte{
		0x92, 0x49, 0x24, // G = 0x00
		0xdb, 0x6d, 0xb6, // R = 0xff
		0xd2, 0x49, 0x24, // B = 0x80
	}
	if len(got) != len(want)+spiResetBytes {
		t.Fatalf("len = %d, want %d", len(got), len(want)+spiResetBytes)
	}
	if !bytes.Equal(got[:len(want)], want) {
		t.Fatalf("data = % x, want % x", got[:len(want)], want)
	}
	for i, b := range got[len(want):] {
		if b != 0 {
			t.Fatalf("reset byte %d = %#x", i, b)
		}
	}
}

func TestEncodeWS2812_AppliesBrightness(t *testing.T) {
	full := encodeWS2812(nil, []color.RGBA{{R: 0xff, A: 0xff}}, 0)
	off := encodeWS2812(nil, []color.RGBA{{A: 0xff}}, 0xff)
	if !bytes.Equal(full, off) {
		t.Fatalf("brightness 0 must encode black")
	}
}
