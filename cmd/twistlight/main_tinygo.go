//go:build tinygo

package main

import (
	"context"
	"log/slog"
	"machine"
)

func main() {
	blinkBoot()

	// Logs go to UART0; USB serial carries only the protocol.
	machine.UART0.Configure(machine.UARTConfig{BaudRate: 115200})
	logger := setupLogger(machine.UART0, slog.LevelInfo)

	settings := DefaultSettings()
	clock := systemClock{}
	now := clock.Now()

	switches := NewSwitchMapping()
	state := NewDaemonState(settings, switches, now)
	deb := NewDebounceState(now, settings.Debounce, switches)

	strip := newPicoStrip(stripPin, numLEDs+settings.SkipLEDs)

	if err := configureSwitches(deb, clock); err != nil {
		logger.Error("switch setup failed", "error", err)
	}

	events := make(chan Event, 64)
	go pollSerial(events, clock)

	fx := &Effects{
		Status:   machine.Serial,
		Strip:    strip,
		Debounce: deb,
	}

	logger.Info("twistlight firmware ready", "leds", strip.Len(), "brightness", settings.Brightness)
	runDaemon(context.Background(), events, deb, clock, fx, state, settings.loopInterval(), logger)
}
