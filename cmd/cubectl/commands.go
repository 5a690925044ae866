package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"twistlight/cube"
)

const (
	numTwists   = 18
	maxInputNum = 21
)

var twistCodes = [numTwists]string{
	"f ", "f'", "b ", "b'", "r ", "r'", "l ", "l'", "u ", "u'",
	"d ", "d'", "e ", "e'", "m ", "m'", "s ", "s'",
}

// runCommand executes one command line.
func runCommand(c *client, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errors.New("missing command")
	}

	switch args[0] {
	case "play":
		return c.send([]byte{'p'})

	case "config":
		return c.send([]byte{'c'})

	case "brightness":
		if len(args) < 2 {
			return errors.New("brightness requires a level")
		}
		payload, err := encodeBrightness(args[1])
		if err != nil {
			return err
		}
		return c.send(payload)

	case "state":
		payload, err := encodeState(args[1:])
		if err != nil {
			return err
		}
		return sendChecked(c, payload)

	case "ledmap":
		if len(args) < 2 {
			return errors.New("ledmap requires 90 digits or \"default\"")
		}
		payload, err := encodeLedmap(args[1])
		if err != nil {
			return err
		}
		return sendChecked(c, payload)

	case "switchmap":
		if len(args) < 2 {
			return errors.New("switchmap requires 36 digits")
		}
		payload, err := encodeSwitchmap(args[1])
		if err != nil {
			return err
		}
		return sendChecked(c, payload)

	case "learn":
		return runLearn(c, out)

	case "watch":
		for {
			line, err := c.next(learnWait)
			if errors.Is(err, errTimeout) {
				continue
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(out, describeLine(line))
		}

	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

// sendChecked sends payload and reports any protocol errors the controller
// answers with.
func sendChecked(c *client, payload []byte) error {
	if err := c.send(payload); err != nil {
		return err
	}
	if errs := protocolErrors(c.drain(replyWait)); len(errs) > 0 {
		return fmt.Errorf("controller reported: %s", strings.Join(errs, ", "))
	}
	return nil
}

func encodeBrightness(s string) ([]byte, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 255 {
		return nil, fmt.Errorf("brightness must be 0-255, got %q", s)
	}
	return []byte{'%', byte(n)}, nil
}

func encodeState(args []string) ([]byte, error) {
	if len(args) == 0 {
		return nil, errors.New("state requires 54 letters or -twists")
	}
	var state string
	if args[0] == "-twists" {
		if len(args) < 2 {
			return nil, errors.New("-twists requires a sequence")
		}
		c := cube.New()
		if err := c.Twists(strings.Join(args[1:], " ")); err != nil {
			return nil, err
		}
		state = c.Serialise()
	} else {
		state = strings.ToUpper(args[0])
		if len(state) != cube.StateLen {
			return nil, fmt.Errorf("state must have %d letters, got %d", cube.StateLen, len(state))
		}
		for i := 0; i < len(state); i++ {
			if cube.ColorFromShortname(state[i]) == cube.Blank {
				return nil, fmt.Errorf("state letter %d: %q is not a colour", i, state[i])
			}
		}
	}
	return append([]byte{'u'}, state...), nil
}

func encodeLedmap(s string) ([]byte, error) {
	if s == "default" {
		m := cube.DefaultOutputMap()
		s = m.Serialise()
	}
	if len(s) != cube.MapDigits {
		return nil, fmt.Errorf("ledmap must have %d digits, got %d", cube.MapDigits, len(s))
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return nil, fmt.Errorf("ledmap position %d: %q is not a digit", i, s[i])
		}
	}
	return append([]byte{'m'}, s...), nil
}

func encodeSwitchmap(s string) ([]byte, error) {
	if len(s) != numTwists*2 {
		return nil, fmt.Errorf("switchmap must have %d digits, got %d", numTwists*2, len(s))
	}
	for i := 0; i < numTwists; i++ {
		n, err := strconv.Atoi(s[2*i : 2*i+2])
		if err != nil || n > maxInputNum {
			return nil, fmt.Errorf("switchmap twist %s: bad input %q", strings.TrimSpace(twistCodes[i]), s[2*i:2*i+2])
		}
	}
	return append([]byte{'a'}, s...), nil
}

// describeLine renders a status line for people.
func describeLine(line string) string {
	switch {
	case line == "#":
		return "[SOLVED]"
	case strings.HasPrefix(line, "*"):
		return "[TWIST] " + strings.TrimSpace(strings.TrimSuffix(line[1:], ";"))
	case strings.HasPrefix(line, "i"):
		return "[INPUT] " + strings.TrimSuffix(line[1:], ";")
	case strings.HasPrefix(line, "?"):
		return "[ERROR] " + strings.TrimSuffix(line[1:], ";")
	}
	return line
}
