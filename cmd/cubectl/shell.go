package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/google/shlex"
)

// runShell reads commands line by line. Quoting follows shell rules, so
// state -twists "r u r' u'" works as it does on the command line.
func runShell(c *client, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	fmt.Fprint(out, "cube> ")
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			fmt.Fprint(out, "cube> ")
			continue
		}
		args, err := shlex.Split(line)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			fmt.Fprint(out, "cube> ")
			continue
		}
		if args[0] == "quit" || args[0] == "exit" {
			return nil
		}
		if args[0] == "lines" {
			for _, l := range c.drain(replyWait) {
				fmt.Fprintln(out, describeLine(l))
			}
		} else if err := runCommand(c, args, out); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		} else {
			fmt.Fprintln(out, "ok")
		}
		fmt.Fprint(out, "cube> ")
	}
	return sc.Err()
}
