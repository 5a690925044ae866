package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"
)

// client is one protocol connection. Status lines from the device are read
// in the background and queued on lines.
type client struct {
	rw    io.ReadWriteCloser
	lines chan string
	errc  chan error
}

func dial(socketPath, ttyPath string) (*client, error) {
	var rw io.ReadWriteCloser
	if ttyPath != "" {
		f, err := os.OpenFile(ttyPath, os.O_RDWR, 0)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", ttyPath, err)
		}
		if err := makeRaw(f); err != nil {
			f.Close()
			return nil, err
		}
		rw = f
	} else {
		conn, err := net.Dial("unix", socketPath)
		if err != nil {
			return nil, fmt.Errorf("connect to %s: %w", socketPath, err)
		}
		rw = conn
	}
	return newClient(rw), nil
}

func newClient(rw io.ReadWriteCloser) *client {
	c := &client{
		rw:    rw,
		lines: make(chan string, 64),
		errc:  make(chan error, 1),
	}
	go c.readLines()
	return c
}

func (c *client) readLines() {
	sc := bufio.NewScanner(c.rw)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		c.lines <- line
	}
	err := sc.Err()
	if err == nil {
		err = io.EOF
	}
	c.errc <- err
	close(c.lines)
}

func (c *client) Close() error { return c.rw.Close() }

func (c *client) send(payload []byte) error {
	if _, err := c.rw.Write(payload); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	return nil
}

// drain collects status lines until none arrives for d.
func (c *client) drain(d time.Duration) []string {
	var out []string
	for {
		select {
		case line, ok := <-c.lines:
			if !ok {
				return out
			}
			out = append(out, line)
		case <-time.After(d):
			return out
		}
	}
}

// next waits up to d for one status line.
func (c *client) next(d time.Duration) (string, error) {
	select {
	case line, ok := <-c.lines:
		if !ok {
			return "", <-c.errc
		}
		return line, nil
	case <-time.After(d):
		return "", errTimeout
	}
}

var errTimeout = errors.New("timed out waiting for the controller")

// protocolErrors returns the messages of any "?" lines.
func protocolErrors(lines []string) []string {
	var out []string
	for _, l := range lines {
		if strings.HasPrefix(l, "?") {
			out = append(out, strings.TrimSuffix(strings.TrimPrefix(l, "?"), ";"))
		}
	}
	return out
}
