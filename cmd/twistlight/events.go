package main

import "time"

// Event is the input to the reducer.
type Event interface {
	eventMarker()
}

// ByteReceived is one byte from the serial protocol stream.
type ByteReceived struct {
	B  byte
	At time.Time
}

func (ByteReceived) eventMarker() {}

// InputConfirmed is a press that survived the debounce confirm delay.
type InputConfirmed struct {
	Input int
	At    time.Time
}

func (InputConfirmed) eventMarker() {}

// Tick is emitted by the daemon loop at a fixed cadence.
type Tick struct {
	Now time.Time
}

func (Tick) eventMarker() {}

// RequestStateSnapshot asks the daemon loop for a snapshot. The reply is sent
// by the effects layer.
type RequestStateSnapshot struct {
	Reply chan<- StateSnapshot
}

func (RequestStateSnapshot) eventMarker() {}

// StripShowFailed reports a failed strip transmit back to the reducer.
type StripShowFailed struct {
	Err error
	At  time.Time
}

func (StripShowFailed) eventMarker() {}
