package main

import "time"

// Physical inputs are identified by their GPIO number on the controller
// board. Only the pins in switchInputs carry a switch.
const (
	maxInputNum = 21
	numInputs   = maxInputNum + 1
	numTwists   = 18
)

var switchInputs = [numTwists]int{
	2, 3, 4, 5, 6, 8,
	10, 11, 12, 13, 14, 15,
	16, 17, 18, 19, 20, 21,
}

// Debounce and render timing.
const (
	defaultRepressDelay    = 150 * time.Millisecond
	defaultInverseCooldown = 500 * time.Millisecond
	defaultConfirmDelay    = 5 * time.Millisecond
	defaultFrameInterval   = 50 * time.Millisecond
	defaultLoopHz          = 1000
)

// Strip layout.
const (
	numLEDs           = 45
	defaultSkipLEDs   = 1
	defaultBrightness = 40
)

// Protocol payload sizes. The accumulation buffer is sized for two bytes per
// subface plus one, which covers every read mode.
const (
	stateBytes     = 6 * 9
	ledmapBytes    = numLEDs * 2
	switchmapBytes = numTwists * 2
	readBufferLen  = stateBytes*2 + 1
)

// Protocol command bytes.
const (
	cmdConfig     = 'c'
	cmdPlay       = 'p'
	cmdUpdate     = 'u'
	cmdLedmap     = 'm'
	cmdSwitchmap  = 'a'
	cmdBrightness = '%'
)

// Linux input event types and values (from <linux/input.h>).
const (
	EV_KEY = 0x01

	evValueRelease = 0
	evValuePress   = 1
	evValueRepeat  = 2
)
