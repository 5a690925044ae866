package main

import (
	"time"

	"twistlight/cube"
)

// Settings is the runtime configuration consumed by the daemon. Host builds
// derive it from the YAML config; firmware builds use DefaultSettings.
type Settings struct {
	Debounce      DebounceTiming
	FrameInterval time.Duration
	LoopHz        int
	Brightness    uint8
	SkipLEDs      int

	// SwitchMap holds the input assigned to each twist in canonical order, or
	// noInput.
	SwitchMap [numTwists]int
	Outputs   cube.OutputMap
}

// DefaultSettings leaves every twist unmapped until a switchmap is uploaded.
func DefaultSettings() Settings {
	s := Settings{
		Debounce:      defaultDebounceTiming(),
		FrameInterval: defaultFrameInterval,
		LoopHz:        defaultLoopHz,
		Brightness:    defaultBrightness,
		SkipLEDs:      defaultSkipLEDs,
		Outputs:       cube.DefaultOutputMap(),
	}
	for i := range s.SwitchMap {
		s.SwitchMap[i] = noInput
	}
	return s
}

func (s Settings) loopInterval() time.Duration {
	if s.LoopHz <= 0 {
		return time.Second / defaultLoopHz
	}
	return time.Second / time.Duration(s.LoopHz)
}
