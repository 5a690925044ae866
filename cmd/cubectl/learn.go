package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// runLearn puts the controller in config mode, asks for each twist in turn,
// records which input reported it, and uploads the resulting switch map. The
// protocol cannot report the previous mode, so the controller is always left
// in play mode.
func runLearn(c *client, out io.Writer) (err error) {
	if err := c.send([]byte{'c'}); err != nil {
		return err
	}
	defer func() {
		if perr := c.send([]byte{'p'}); perr != nil {
			fmt.Fprintf(out, "could not return the controller to play mode: %v\n", perr)
			if err == nil {
				err = perr
			}
		}
	}()
	c.drain(replyWait)

	var inputs [numTwists]int
	seen := make(map[int]int)

	for t := 0; t < numTwists; t++ {
		fmt.Fprintf(out, "twist %s ... ", strings.TrimSpace(twistCodes[t]))
		in, err := waitForInput(c)
		if err != nil {
			fmt.Fprintln(out)
			return err
		}
		if prev, ok := seen[in]; ok {
			fmt.Fprintf(out, "input %d already used for %s, try again\n", in, strings.TrimSpace(twistCodes[prev]))
			t--
			continue
		}
		seen[in] = t
		inputs[t] = in
		fmt.Fprintf(out, "input %d\n", in)
	}

	digits := switchmapDigits(inputs)
	fmt.Fprintf(out, "switchmap %s\n", digits)
	return sendChecked(c, append([]byte{'a'}, digits...))
}

func waitForInput(c *client) (int, error) {
	for {
		line, err := c.next(learnWait)
		if err != nil {
			return 0, err
		}
		if in, ok := parseInputLine(line); ok {
			return in, nil
		}
	}
}

// parseInputLine decodes an "i<n>;" status line.
func parseInputLine(line string) (int, bool) {
	if !strings.HasPrefix(line, "i") || !strings.HasSuffix(line, ";") {
		return 0, false
	}
	n, err := strconv.Atoi(line[1 : len(line)-1])
	if err != nil || n < 0 || n > maxInputNum {
		return 0, false
	}
	return n, true
}

func switchmapDigits(inputs [numTwists]int) string {
	var b strings.Builder
	for _, in := range inputs {
		fmt.Fprintf(&b, "%02d", in)
	}
	return b.String()
}
