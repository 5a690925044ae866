package main

import (
	"time"

	"twistlight/cube"
)

// Mode is the protocol operating mode.
type Mode uint8

const (
	ModePlay Mode = iota
	ModeConfig
	ModeUpdateRead
	ModeLedmapRead
	ModeSwitchmapRead
	ModeBrightness
)

func (m Mode) String() string {
	switch m {
	case ModePlay:
		return "play"
	case ModeConfig:
		return "config"
	case ModeUpdateRead:
		return "update_read"
	case ModeLedmapRead:
		return "ledmap_read"
	case ModeSwitchmapRead:
		return "switchmap_read"
	case ModeBrightness:
		return "brightness"
	}
	return "unknown"
}

// isRead reports whether m accumulates bytes into the read buffer.
func (m Mode) isRead() bool {
	return m == ModeUpdateRead || m == ModeLedmapRead || m == ModeSwitchmapRead
}

// DaemonState is owned by the daemon loop. Nothing outside the loop reads or
// writes it, except Switches, whose tables are also read from the edge
// context.
type DaemonState struct {
	Mode     Mode
	NextMode Mode

	buf    [readBufferLen]byte
	bufPos int

	Cube       cube.Cube
	Outputs    cube.OutputMap
	Switches   *SwitchMapping
	Render     Renderer
	Brightness uint8
	SkipLEDs   int
}

// NewDaemonState builds the boot state from settings: a solved cube in Play
// mode with the configured maps installed.
func NewDaemonState(s Settings, switches *SwitchMapping, now time.Time) *DaemonState {
	st := &DaemonState{
		Mode:       ModePlay,
		NextMode:   ModePlay,
		Cube:       cube.New(),
		Outputs:    s.Outputs,
		Switches:   switches,
		Render:     NewRenderer(s.FrameInterval, now),
		Brightness: s.Brightness,
		SkipLEDs:   s.SkipLEDs,
	}
	for t, in := range s.SwitchMap {
		if in == noInput {
			continue
		}
		_ = switches.Install(LogicalTwist(t), in)
	}
	return st
}

// StateSnapshot is a copy of the observable state for the monitor.
type StateSnapshot struct {
	Mode       Mode
	Brightness uint8
	Cube       string
	Solved     bool
	Switchmap  string
	Ledmap     string
	At         time.Time
}

// Snapshot copies the observable state.
func (s *DaemonState) Snapshot(now time.Time) StateSnapshot {
	return StateSnapshot{
		Mode:       s.Mode,
		Brightness: s.Brightness,
		Cube:       s.Cube.Serialise(),
		Solved:     s.Cube.IsSolved(),
		Switchmap:  s.Switches.Serialise(),
		Ledmap:     s.Outputs.Serialise(),
		At:         now,
	}
}
