package main

import (
	"errors"
	"time"

	"twistlight/cube"
)

// feedByte runs one byte through the protocol state machine.
//
// Brightness mode takes the byte verbatim. Otherwise the command bytes
// c p u m a % switch mode from any mode, dropping a partial read, and any
// other byte is data for the active read mode.
func feedByte(s *DaemonState, b byte, at time.Time, r *ReduceResult) {
	prev := s.Mode
	defer func() {
		if s.Mode != prev {
			modeChanged(s, prev, at, r)
		}
	}()

	if s.Mode == ModeBrightness {
		s.Brightness = b
		r.emit(CmdSetBrightness{Level: b})
		s.Mode = s.NextMode
		return
	}

	switch b {
	case cmdConfig:
		s.Mode = ModeConfig
	case cmdPlay:
		s.Mode = ModePlay
	case cmdUpdate:
		beginRead(s, ModeUpdateRead)
	case cmdLedmap:
		beginRead(s, ModeLedmapRead)
	case cmdSwitchmap:
		beginRead(s, ModeSwitchmapRead)
	case cmdBrightness:
		rememberMode(s)
		s.Mode = ModeBrightness
	default:
		if s.Mode.isRead() {
			readByte(s, b, at, r)
		}
	}
}

func beginRead(s *DaemonState, m Mode) {
	rememberMode(s)
	s.Mode = m
	s.bufPos = 0
}

// rememberMode records the mode to return to once a read or brightness byte
// completes. A read mode is never recorded: the abandoned read keeps the mode
// it would have returned to, and its partial buffer is dropped.
func rememberMode(s *DaemonState) {
	if s.Mode.isRead() {
		return
	}
	s.NextMode = s.Mode
}

func modeChanged(s *DaemonState, prev Mode, at time.Time, r *ReduceResult) {
	if (prev == ModeConfig) != (s.Mode == ModeConfig) {
		r.emit(CmdSetAllowInverse{Allow: s.Mode == ModeConfig})
	}
	r.broadcast(BroadcastMode{Mode: s.Mode, At: at})
}

func readTarget(m Mode) string {
	switch m {
	case ModeUpdateRead:
		return "update"
	case ModeLedmapRead:
		return "ledmap"
	case ModeSwitchmapRead:
		return "switchmap"
	}
	return ""
}

func readByte(s *DaemonState, b byte, at time.Time, r *ReduceResult) {
	if s.bufPos >= len(s.buf) {
		r.protocolError("badstate"+readTarget(s.Mode), at)
		return
	}

	switch s.Mode {
	case ModeUpdateRead:
		s.buf[s.bufPos] = b
		s.bufPos++
		if s.bufPos >= stateBytes {
			s.Mode = s.NextMode
			applyState(s, at, r)
		}

	case ModeLedmapRead:
		s.buf[s.bufPos] = b - '0'
		s.bufPos++
		if s.bufPos >= ledmapBytes {
			s.Mode = s.NextMode
			applyLedmap(s, at, r)
		}

	case ModeSwitchmapRead:
		s.buf[s.bufPos] = b
		s.bufPos++
		if s.bufPos >= switchmapBytes {
			s.Mode = s.NextMode
			applySwitchmap(s, at, r)
		}
	}
}

func applyState(s *DaemonState, at time.Time, r *ReduceResult) {
	if err := s.Cube.Deserialise(string(s.buf[:stateBytes])); err != nil {
		r.protocolError("badstateupdate", at)
		return
	}
	s.Render.Settle()
	r.broadcast(BroadcastState{Cube: s.Cube.Serialise(), At: at})
}

func applyLedmap(s *DaemonState, at time.Time, r *ReduceResult) {
	bad, err := s.Outputs.RemapOutputs(s.buf[:ledmapBytes])
	if errors.Is(err, cube.ErrOutputRange) {
		for range bad {
			r.protocolError("badledmap", at)
		}
		return
	}
	if err != nil {
		r.protocolError("badledmap", at)
	}
}

func applySwitchmap(s *DaemonState, at time.Time, r *ReduceResult) {
	for t := 0; t < numTwists; t++ {
		n, ok := parseSwitchNumber(s.buf[2*t], s.buf[2*t+1])
		if !ok {
			r.protocolError("numtoohigh", at)
			continue
		}
		if err := s.Switches.Install(LogicalTwist(t), n); err != nil {
			r.protocolError("numtoohigh", at)
		}
	}
}
