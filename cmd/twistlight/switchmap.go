package main

import (
	"fmt"
	"sync/atomic"
)

// noInput marks a twist with no switch assigned.
const noInput = -1

// SwitchMapping holds the input→twist and twist→input tables. Only the daemon
// loop writes it; the edge context reads it without locking.
type SwitchMapping struct {
	twistFor [numInputs]atomic.Int32
	inputFor [numTwists]atomic.Int32
}

// NewSwitchMapping returns a mapping with every input unassigned.
func NewSwitchMapping() *SwitchMapping {
	m := &SwitchMapping{}
	for i := range m.twistFor {
		m.twistFor[i].Store(int32(TwistNone))
	}
	for i := range m.inputFor {
		m.inputFor[i].Store(noInput)
	}
	return m
}

// TwistFor returns the twist assigned to input, or TwistNone.
func (m *SwitchMapping) TwistFor(input int) LogicalTwist {
	if input < 0 || input >= numInputs {
		return TwistNone
	}
	return LogicalTwist(m.twistFor[input].Load())
}

// InputFor returns the input assigned to t, or noInput.
func (m *SwitchMapping) InputFor(t LogicalTwist) int {
	if !t.Valid() {
		return noInput
	}
	return int(m.inputFor[t].Load())
}

// InverseInput returns the input mapped to the inverse of input's twist.
func (m *SwitchMapping) InverseInput(input int) int {
	return m.InputFor(m.TwistFor(input).Inverse())
}

// Install assigns input to t in both tables. Any input previously holding t
// becomes unmapped, and any twist previously held by input loses its input.
func (m *SwitchMapping) Install(t LogicalTwist, input int) error {
	if !t.Valid() {
		return fmt.Errorf("install: invalid twist %d", t)
	}
	if input < 0 || input > maxInputNum {
		return fmt.Errorf("install: input %d out of range", input)
	}

	if old := int(m.inputFor[t].Load()); old != noInput && old != input {
		m.twistFor[old].Store(int32(TwistNone))
	}
	if prev := LogicalTwist(m.twistFor[input].Load()); prev.Valid() && prev != t {
		m.inputFor[prev].Store(noInput)
	}

	m.twistFor[input].Store(int32(t))
	m.inputFor[t].Store(int32(input))
	return nil
}

// Serialise renders the mapping in switchmap payload form: two digits per
// twist in canonical order. Unassigned twists render as "99".
func (m *SwitchMapping) Serialise() string {
	b := make([]byte, 0, switchmapBytes)
	for t := LogicalTwist(0); t < TwistNone; t++ {
		in := m.InputFor(t)
		if in == noInput {
			b = append(b, '9', '9')
			continue
		}
		b = append(b, byte('0'+in/10), byte('0'+in%10))
	}
	return string(b)
}

// parseSwitchNumber decodes one two-digit input number from a switchmap
// payload.
func parseSwitchNumber(hi, lo byte) (int, bool) {
	if hi < '0' || hi > '9' || lo < '0' || lo > '9' {
		return 0, false
	}
	n := int(hi-'0')*10 + int(lo-'0')
	if n > maxInputNum {
		return n, false
	}
	return n, true
}
