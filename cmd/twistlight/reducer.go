package main

import "time"

// The daemon follows a reducer layout:
//
//   - Events: protocol bytes, confirmed presses, ticks, snapshot requests
//   - Reduce: updates DaemonState and returns Commands and Broadcasts
//   - Effects: the daemon loop runs Commands against the strip, the status
//     stream and the debouncer, and forwards Broadcasts to the monitor
//
// Reduce performs no I/O. It does write the switch tables, which the edge
// context reads, because the daemon loop is their only writer.

// StateBroadcast is a monitor notification emitted by the reducer.
type StateBroadcast interface {
	broadcastMarker()
}

// BroadcastTwist reports a twist applied in Play mode.
type BroadcastTwist struct {
	Input int
	Twist LogicalTwist
	Cube  string
	At    time.Time
}

// BroadcastSolved reports that the last twist solved the cube.
type BroadcastSolved struct {
	At time.Time
}

// BroadcastInput reports a confirmed press in Config mode.
type BroadcastInput struct {
	Input int
	At    time.Time
}

// BroadcastProtocolError mirrors a "?" status line.
type BroadcastProtocolError struct {
	Message string
	At      time.Time
}

// BroadcastMode reports a mode change.
type BroadcastMode struct {
	Mode Mode
	At   time.Time
}

// BroadcastState reports a cube state loaded over the protocol.
type BroadcastState struct {
	Cube string
	At   time.Time
}

func (BroadcastTwist) broadcastMarker()         {}
func (BroadcastSolved) broadcastMarker()        {}
func (BroadcastInput) broadcastMarker()         {}
func (BroadcastProtocolError) broadcastMarker() {}
func (BroadcastMode) broadcastMarker()          {}
func (BroadcastState) broadcastMarker()         {}

// ReduceResult is the output of Reduce.
type ReduceResult struct {
	State      *DaemonState
	Commands   []Command
	Broadcasts []StateBroadcast
}

func (r *ReduceResult) emit(c Command) {
	r.Commands = append(r.Commands, c)
}

func (r *ReduceResult) broadcast(b StateBroadcast) {
	r.Broadcasts = append(r.Broadcasts, b)
}

func (r *ReduceResult) protocolError(msg string, at time.Time) {
	r.emit(statusError(msg))
	r.broadcast(BroadcastProtocolError{Message: msg, At: at})
}

// Reduce applies one event to s.
func Reduce(s *DaemonState, e Event) ReduceResult {
	r := ReduceResult{State: s}
	if s == nil {
		return r
	}

	switch ev := e.(type) {
	case Tick:
		s.Render.Advance(ev.Now)
		r.emit(CmdPaint{
			Pixels: s.Render.Pixels(&s.Cube, &s.Outputs),
			Skip:   s.SkipLEDs,
		})

	case ByteReceived:
		feedByte(s, ev.B, ev.At, &r)

	case InputConfirmed:
		dispatch(s, ev.Input, ev.At, &r)

	case RequestStateSnapshot:
		r.emit(CmdPublishStateSnapshot{Reply: ev.Reply, Snapshot: s.Snapshot(time.Now())})

	case StripShowFailed:
		// Nothing to recover; the next tick repaints.
		_ = ev

	default:
	}

	return r
}
