//go:build !tinygo

package main

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
)

// simTapHold is how long a simulated key press holds its switch closed. It
// must outlast the confirm delay plus one loop period.
const simTapHold = 80 * time.Millisecond

const simStatusLines = 8

// simulator renders the strip in a terminal and turns key presses into
// switch edges. It stands in for the strip, the switches and the status
// stream when no hardware is attached.
type simulator struct {
	screen tcell.Screen
	logger *slog.Logger

	deb      *DebounceState
	switches *SwitchMapping
	clock    Clock
	keys     map[rune]int
	order    []rune
	chime    *chime

	mu         sync.Mutex
	pixels     []color.RGBA
	brightness uint8
	skip       int
	status     []string
	partial    []byte
	mode       Mode
}

func newSimulator(screen tcell.Screen, keys string, skip int, deb *DebounceState, switches *SwitchMapping, clock Clock, logger *slog.Logger) *simulator {
	s := &simulator{
		screen:   screen,
		logger:   logger,
		deb:      deb,
		switches: switches,
		clock:    clock,
		keys:     make(map[rune]int),
		skip:     skip,
	}
	for i, r := range keys {
		if i >= len(switchInputs) {
			break
		}
		s.keys[r] = switchInputs[i]
		s.order = append(s.order, r)
	}
	return s
}

// attach routes strip shows on m to the screen.
func (s *simulator) attach(m *memStrip) {
	m.onShow = s.onShow
}

func (s *simulator) onShow(pixels []color.RGBA, brightness uint8) {
	s.mu.Lock()
	changed := s.brightness != brightness || len(s.pixels) != len(pixels)
	if !changed {
		for i := range pixels {
			if s.pixels[i] != pixels[i] {
				changed = true
				break
			}
		}
	}
	if changed {
		s.pixels = append(s.pixels[:0], pixels...)
		s.brightness = brightness
	}
	s.mu.Unlock()

	if changed {
		_ = s.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}
}

// Write collects status lines for display.
func (s *simulator) Write(p []byte) (int, error) {
	s.mu.Lock()
	s.partial = append(s.partial, p...)
	for {
		i := strings.IndexByte(string(s.partial), '\n')
		if i < 0 {
			break
		}
		s.status = append(s.status, string(s.partial[:i]))
		s.partial = s.partial[i+1:]
	}
	if n := len(s.status); n > simStatusLines {
		s.status = s.status[n-simStatusLines:]
	}
	s.mu.Unlock()

	_ = s.screen.PostEvent(tcell.NewEventInterrupt(nil))
	return len(p), nil
}

func (s *simulator) press(input int) {
	s.deb.OnEdge(input, true, s.clock.Now())
	time.AfterFunc(simTapHold, func() {
		s.deb.OnEdge(input, false, s.clock.Now())
	})
}

// run draws and handles keys until ctx is canceled or the user quits, in
// which case quit is called.
func (s *simulator) run(ctx context.Context, broadcasts <-chan StateBroadcast, quit func()) error {
	if err := s.screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer s.screen.Fini()

	s.screen.SetStyle(tcell.StyleDefault)
	s.screen.Clear()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := s.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	s.draw()

	for {
		select {
		case <-ctx.Done():
			return nil

		case b := <-broadcasts:
			s.onBroadcast(b)

		case ev := <-eventChan:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
					s.logger.Info("simulator quit")
					quit()
					return nil
				}
				if ev.Key() == tcell.KeyRune {
					if in, ok := s.keys[ev.Rune()]; ok {
						s.press(in)
					}
				}
			case *tcell.EventResize:
				s.screen.Sync()
			}
			s.draw()
		}
	}
}

func (s *simulator) onBroadcast(b StateBroadcast) {
	switch ev := b.(type) {
	case BroadcastSolved:
		if s.chime != nil {
			s.chime.PlaySolved()
		}
	case BroadcastMode:
		s.mu.Lock()
		s.mode = ev.Mode
		s.mu.Unlock()
		s.draw()
	}
}

func (s *simulator) draw() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.screen.Clear()

	header := fmt.Sprintf("twistlight sim  mode=%s  brightness=%d  (esc quits)", s.mode, s.brightness)
	s.drawText(0, 0, header, tcell.StyleDefault.Bold(true))

	// One 3x3 block per group of nine LEDs, in strip order.
	for i := 0; i < numLEDs; i++ {
		pos := i + s.skip
		var c color.RGBA
		if pos < len(s.pixels) {
			c = s.pixels[pos]
		}
		block, cell := i/9, i%9
		x := 2 + block*8 + (cell%3)*2
		y := 2 + cell/3
		style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
		s.screen.SetContent(x, y, '█', nil, style)
		s.screen.SetContent(x+1, y, '█', nil, style)
	}

	var legend strings.Builder
	for _, r := range s.order {
		t := s.switches.TwistFor(s.keys[r])
		if t == TwistNone {
			continue
		}
		fmt.Fprintf(&legend, "%c:%s ", r, strings.TrimSpace(t.Code()))
	}
	s.drawText(0, 6, legend.String(), tcell.StyleDefault.Foreground(tcell.ColorGray))

	for i, line := range s.status {
		style := tcell.StyleDefault
		if strings.HasPrefix(line, "?") {
			style = style.Foreground(tcell.ColorRed)
		} else if line == "#" {
			style = style.Foreground(tcell.ColorGreen)
		}
		s.drawText(0, 8+i, line, style)
	}

	s.screen.Show()
}

func (s *simulator) drawText(x, y int, text string, style tcell.Style) {
	for i, r := range text {
		s.screen.SetContent(x+i, y, r, nil, style)
	}
}
