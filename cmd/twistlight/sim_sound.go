//go:build !tinygo

package main

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const chimeSampleRate = beep.SampleRate(48000)

// chime plays a short two-note arpeggio when the cube is solved.
type chime struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

func newChime() *chime {
	return &chime{mixer: &beep.Mixer{}}
}

func (c *chime) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}
	if err := speaker.Init(chimeSampleRate, chimeSampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(c.mixer)
	c.initialized = true
	return nil
}

func (c *chime) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	speaker.Lock()
	c.mixer.Clear()
	speaker.Unlock()
	c.initialized = false
}

func (c *chime) PlaySolved() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	notes := beep.Seq(
		withVolume(newTone(659.25, 120*time.Millisecond, chimeSampleRate), 0.4),
		withVolume(newTone(987.77, 240*time.Millisecond, chimeSampleRate), 0.4),
	)
	speaker.Lock()
	c.mixer.Add(notes)
	speaker.Unlock()
}

// tone is a sine wave with a linear release over its second half.
type tone struct {
	freq     float64
	phase    float64
	total    int
	position int
	rate     beep.SampleRate
}

func newTone(freq float64, d time.Duration, rate beep.SampleRate) beep.Streamer {
	return &tone{freq: freq, total: rate.N(d), rate: rate}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	half := t.total / 2
	for i := range samples {
		if t.position >= t.total {
			return i, i > 0
		}
		vol := 1.0
		if t.position > half && half > 0 {
			vol = float64(t.total-t.position) / float64(half)
		}
		v := math.Sin(2*math.Pi*t.phase) * vol
		samples[i][0] = v
		samples[i][1] = v

		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.position++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
