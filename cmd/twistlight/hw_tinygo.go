//go:build tinygo

package main

import (
	"image/color"
	"machine"
	"time"

	"tinygo.org/x/drivers/ws2812"
)

const (
	stripPin      = machine.GP7
	statusLEDPin  = machine.LED
	serialPollGap = time.Millisecond
)

// picoStrip drives the WS2812 chain through the ws2812 driver. Brightness is
// applied when the frame is written.
type picoStrip struct {
	dev        ws2812.Device
	pixels     []color.RGBA
	scaled     []color.RGBA
	brightness uint8
}

func newPicoStrip(pin machine.Pin, n int) *picoStrip {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &picoStrip{
		dev:        ws2812.New(pin),
		pixels:     make([]color.RGBA, n),
		scaled:     make([]color.RGBA, n),
		brightness: 0xff,
	}
}

func (s *picoStrip) Len() int { return len(s.pixels) }

func (s *picoStrip) SetPixel(i int, c color.RGBA) {
	if i < 0 || i >= len(s.pixels) {
		return
	}
	s.pixels[i] = c
}

func (s *picoStrip) SetBrightness(level uint8) { s.brightness = level }

func (s *picoStrip) Show() error {
	for i, c := range s.pixels {
		s.scaled[i] = scaleRGBA(c, s.brightness)
	}
	return s.dev.WriteColors(s.scaled)
}

// blinkBoot flashes the on-board LED so a reboot is visible.
func blinkBoot() {
	statusLEDPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	statusLEDPin.High()
	for i := 0; i < 6; i++ {
		time.Sleep(50 * time.Millisecond)
		statusLEDPin.Low()
		time.Sleep(50 * time.Millisecond)
		statusLEDPin.High()
	}
}

// configureSwitches sets every switch pin as a pulled-up input and feeds its
// edges to deb from the pin interrupt. A closed switch reads low.
func configureSwitches(deb *DebounceState, clock Clock) error {
	for _, in := range switchInputs {
		pin := machine.Pin(in)
		pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
		err := pin.SetInterrupt(machine.PinToggle, func(p machine.Pin) {
			deb.OnEdge(int(p), !p.Get(), clock.Now())
		})
		if err != nil {
			return err
		}
	}
	deb.SetHeldFunc(func(input int) bool {
		return !machine.Pin(input).Get()
	})
	return nil
}

// pollSerial forwards protocol bytes from USB serial to the daemon.
func pollSerial(events chan<- Event, clock Clock) {
	for {
		if machine.Serial.Buffered() == 0 {
			time.Sleep(serialPollGap)
			continue
		}
		b, err := machine.Serial.ReadByte()
		if err != nil {
			continue
		}
		events <- ByteReceived{B: b, At: clock.Now()}
	}
}
