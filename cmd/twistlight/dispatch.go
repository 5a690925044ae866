package main

import "time"

// dispatch handles a confirmed press. Play mode twists the cube; Config mode
// only reports which input was pressed so a host tool can learn the layout.
// Read modes ignore presses.
func dispatch(s *DaemonState, input int, at time.Time, r *ReduceResult) {
	switch s.Mode {
	case ModePlay:
		t := s.Switches.TwistFor(input)
		ct, ok := t.CubeTwist()
		if !ok {
			// unmapped input: identity
			return
		}
		frames := s.Cube.Twist(ct)
		s.Render.Start(frames, at)

		r.emit(statusTwist(t))
		r.broadcast(BroadcastTwist{Input: input, Twist: t, Cube: s.Cube.Serialise(), At: at})
		if s.Cube.IsSolved() {
			r.emit(statusSolved())
			r.broadcast(BroadcastSolved{At: at})
		}

	case ModeConfig:
		r.emit(statusInput(input))
		r.broadcast(BroadcastInput{Input: input, At: at})
	}
}
