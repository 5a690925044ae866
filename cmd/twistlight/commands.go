package main

import (
	"fmt"
	"strconv"

	"twistlight/cube"
)

// Command is a side effect requested by the reducer and run by the daemon
// loop.
type Command interface {
	commandMarker()
	String() string
}

// CmdWriteStatus writes one status line to the protocol stream. Line excludes
// the trailing newline.
type CmdWriteStatus struct {
	Line string
}

func (CmdWriteStatus) commandMarker()   {}
func (c CmdWriteStatus) String() string { return fmt.Sprintf("CmdWriteStatus(%q)", c.Line) }

// CmdSetBrightness applies a new strip brightness.
type CmdSetBrightness struct {
	Level uint8
}

func (CmdSetBrightness) commandMarker()   {}
func (c CmdSetBrightness) String() string { return fmt.Sprintf("CmdSetBrightness(%d)", c.Level) }

// CmdPaint writes a full frame to the strip.
type CmdPaint struct {
	Pixels [numLEDs]cube.Color
	Skip   int
}

func (CmdPaint) commandMarker() {}
func (CmdPaint) String() string { return "CmdPaint()" }

// CmdSetAllowInverse tells the debouncer whether inverse presses are allowed.
type CmdSetAllowInverse struct {
	Allow bool
}

func (CmdSetAllowInverse) commandMarker()   {}
func (c CmdSetAllowInverse) String() string { return fmt.Sprintf("CmdSetAllowInverse(%v)", c.Allow) }

// CmdPublishStateSnapshot delivers a snapshot to a requester.
type CmdPublishStateSnapshot struct {
	Reply    chan<- StateSnapshot
	Snapshot StateSnapshot
}

func (CmdPublishStateSnapshot) commandMarker() {}
func (CmdPublishStateSnapshot) String() string { return "CmdPublishStateSnapshot()" }

// Status lines.

func statusTwist(t LogicalTwist) CmdWriteStatus { return CmdWriteStatus{Line: "*" + t.Code() + ";"} }

func statusSolved() CmdWriteStatus { return CmdWriteStatus{Line: "#"} }

func statusInput(input int) CmdWriteStatus {
	return CmdWriteStatus{Line: "i" + strconv.Itoa(input) + ";"}
}

func statusError(msg string) CmdWriteStatus { return CmdWriteStatus{Line: "?" + msg + ";"} }
