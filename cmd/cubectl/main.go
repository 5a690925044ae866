package main

import (
	"fmt"
	"os"
	"time"
)

// ============================================================================
// cubectl - protocol client for the twistlight daemon
// ============================================================================
// Usage:
//   cubectl play
//   cubectl brightness 80
//   cubectl state -twists "r u r' u'"
//   cubectl learn
//   cubectl shell
//
// Options:
//   -socket PATH    Unix domain socket path (default: /tmp/twistlight.sock)
//   -tty PATH       Serial device instead of the socket (switched to raw mode)
// ============================================================================

const (
	defaultSocketPath = "/tmp/twistlight.sock"
	replyWait         = 300 * time.Millisecond
	learnWait         = 30 * time.Second
)

func main() {
	socketPath := defaultSocketPath
	ttyPath := ""

	args := os.Args[1:]
	for len(args) > 0 {
		switch args[0] {
		case "-socket", "--socket":
			if len(args) < 2 {
				fmt.Fprintf(os.Stderr, "error: -socket requires an argument\n")
				os.Exit(1)
			}
			socketPath = args[1]
			args = args[2:]
			continue
		case "-tty", "--tty":
			if len(args) < 2 {
				fmt.Fprintf(os.Stderr, "error: -tty requires an argument\n")
				os.Exit(1)
			}
			ttyPath = args[1]
			args = args[2:]
			continue
		}
		break
	}

	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printUsage()
		return
	}

	c, err := dial(socketPath, ttyPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer c.Close()

	if args[0] == "shell" {
		if err := runShell(c, os.Stdin, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := runCommand(c, args, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `cubectl - drive a twistlight controller over its byte protocol

Usage:
  cubectl [options] <command> [args]

Options:
  -socket PATH    Unix domain socket path (default: %s)
  -tty PATH       Serial device, switched to raw mode (e.g. /dev/ttyACM0)

Commands:
  play                       Switch to play mode
  config                     Switch to config mode (presses report i<n>;)
  brightness <0-255>         Set strip brightness
  state <54 letters>         Load a raw cube state (W R B G Y O per subface)
  state -twists "<seq>"      Load the state reached from solved by a sequence
  ledmap <90 digits>         Upload the LED map ("default" restores it)
  switchmap <36 digits>      Upload the switch map, one input pair per twist
  learn                      Press each twist when asked; uploads the switch map
                             and leaves the controller in play mode
  watch                      Print status lines until interrupted
  shell                      Read commands from stdin
  help, -h, --help           Show this help message

Examples:
  cubectl brightness 120
  cubectl state -twists "r u r' u'"
  cubectl -tty /dev/ttyACM0 learn
`, defaultSocketPath)
}
