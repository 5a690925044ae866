package main

import (
	"io"
	"log/slog"
	"time"
)

// Effects holds the collaborators that reducer commands act on. Any field
// may be nil; the matching commands are then skipped.
type Effects struct {
	Status     io.Writer
	Strip      Strip
	Debounce   *DebounceState
	Broadcasts chan<- StateBroadcast
}

// runEffect executes one command. Failures are logged and reported back as
// events; none of them stop the daemon.
func runEffect(fx *Effects, cmd Command, logger *slog.Logger, onEvent func(Event)) {
	switch c := cmd.(type) {
	case CmdWriteStatus:
		if fx.Status == nil {
			return
		}
		if _, err := io.WriteString(fx.Status, c.Line+"\n"); err != nil {
			logger.Warn("status write failed", "line", c.Line, "error", err)
		}
		if len(c.Line) > 0 && c.Line[0] == '?' {
			logger.Warn("protocol error", "message", c.Line[1:len(c.Line)-1])
		} else {
			logger.Debug("status", "line", c.Line)
		}

	case CmdSetBrightness:
		if fx.Strip == nil {
			return
		}
		fx.Strip.SetBrightness(c.Level)
		logger.Info("brightness set", "level", c.Level)

	case CmdPaint:
		if fx.Strip == nil {
			return
		}
		if err := Paint(fx.Strip, c.Pixels, c.Skip); err != nil {
			logger.Warn("strip show failed", "error", err)
			if onEvent != nil {
				onEvent(StripShowFailed{Err: err, At: time.Now()})
			}
		}

	case CmdSetAllowInverse:
		if fx.Debounce != nil {
			fx.Debounce.SetAllowInverse(c.Allow)
		}

	case CmdPublishStateSnapshot:
		if c.Reply == nil {
			logger.Warn("state snapshot requested with nil reply channel")
			return
		}
		select {
		case c.Reply <- c.Snapshot:
		default:
			logger.Warn("state snapshot reply channel not ready; dropping snapshot")
		}

	default:
		logger.Warn("unknown command type", "command", cmd.String())
	}
}

// publish forwards reducer broadcasts without blocking the loop.
func (fx *Effects) publish(bs []StateBroadcast, logger *slog.Logger) {
	if fx.Broadcasts == nil {
		return
	}
	for _, b := range bs {
		select {
		case fx.Broadcasts <- b:
		default:
			logger.Debug("monitor queue full, dropping broadcast")
		}
	}
}
