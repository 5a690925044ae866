package main

import (
	"context"
	"log/slog"
	"time"
)

// runDaemon is the single owner of DaemonState. Each tick it confirms
// pending presses, then advances and paints the renderer. Protocol bytes and
// other events are reduced as they arrive.
//
// It exits when ctx is canceled or the events channel is closed.
func runDaemon(
	ctx context.Context,
	events <-chan Event,
	deb *DebounceState,
	clock Clock,
	fx *Effects,
	state *DaemonState,
	interval time.Duration,
	logger *slog.Logger,
) {
	if state == nil {
		logger.Error("daemon state is nil")
		return
	}
	if clock == nil {
		clock = systemClock{}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var eventQueue []Event
	var cmdQueue []Command
	confirmed := make([]int, 0, numInputs)

	enqueueEvent := func(ev Event) {
		eventQueue = append(eventQueue, ev)
	}

	flushEvents := func() {
		for len(eventQueue) > 0 {
			ev := eventQueue[0]
			eventQueue = eventQueue[1:]

			rr := Reduce(state, ev)
			if rr.State != nil {
				state = rr.State
			}
			cmdQueue = append(cmdQueue, rr.Commands...)
			fx.publish(rr.Broadcasts, logger)
		}
	}

	flushCommands := func() {
		for len(cmdQueue) > 0 {
			cmd := cmdQueue[0]
			cmdQueue = cmdQueue[1:]
			runEffect(fx, cmd, logger, enqueueEvent)
			flushEvents()
		}
	}

	// Boot: push the initial brightness and clear inverse handling.
	cmdQueue = append(cmdQueue,
		CmdSetBrightness{Level: state.Brightness},
		CmdSetAllowInverse{Allow: state.Mode == ModeConfig},
	)
	flushCommands()

	for {
		select {
		case <-ctx.Done():
			logger.Info("daemon stopping (context canceled)")
			return

		case ev, ok := <-events:
			if !ok {
				logger.Info("daemon stopping (events channel closed)")
				return
			}
			enqueueEvent(ev)
			flushEvents()
			flushCommands()

		case <-ticker.C:
			now := clock.Now()
			if deb != nil {
				confirmed = deb.CheckPending(now, confirmed[:0])
				for _, in := range confirmed {
					enqueueEvent(InputConfirmed{Input: in, At: now})
				}
			}
			enqueueEvent(Tick{Now: now})
			flushEvents()
			flushCommands()
		}
	}
}
