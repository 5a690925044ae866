//go:build !tinygo

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"strings"
	"sync"
	"time"
)

const bridgeWriteWait = 100 * time.Millisecond

// SerialBridge exposes the serial protocol on a Unix domain socket so host
// tools can drive the daemon without a tty. Bytes from every client feed the
// same protocol stream; status lines go to every client.
type SerialBridge struct {
	logger *slog.Logger

	mu    sync.Mutex
	conns map[net.Conn]struct{}
}

func NewSerialBridge(logger *slog.Logger) *SerialBridge {
	return &SerialBridge{
		logger: logger,
		conns:  make(map[net.Conn]struct{}),
	}
}

// Write sends p to every connected client. Clients that fail are dropped; the
// write itself never fails.
func (b *SerialBridge) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for c := range b.conns {
		_ = c.SetWriteDeadline(time.Now().Add(bridgeWriteWait))
		if _, err := c.Write(p); err != nil {
			b.logger.Debug("serial bridge client write failed", "remote_addr", c.RemoteAddr(), "error", err)
			_ = c.Close()
			delete(b.conns, c)
		}
	}
	return len(p), nil
}

func (b *SerialBridge) add(c net.Conn) {
	b.mu.Lock()
	b.conns[c] = struct{}{}
	b.mu.Unlock()
}

func (b *SerialBridge) remove(c net.Conn) {
	b.mu.Lock()
	delete(b.conns, c)
	b.mu.Unlock()
}

// Serve listens on socketPath until ctx is canceled.
func (b *SerialBridge) Serve(ctx context.Context, socketPath string, events chan<- Event, clock Clock) error {
	if err := os.RemoveAll(socketPath); err != nil {
		return fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", socketPath, err)
	}
	defer listener.Close()
	defer os.Remove(socketPath)

	if err := os.Chmod(socketPath, 0666); err != nil {
		return fmt.Errorf("chmod socket: %w", err)
	}

	b.logger.Info("serial bridge listening", "socket", socketPath)

	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				b.logger.Debug("serial bridge closed (shutdown)")
				return nil
			}
			if errors.Is(err, net.ErrClosed) || strings.Contains(err.Error(), "use of closed network connection") {
				b.logger.Debug("serial bridge closed")
				return nil
			}
			b.logger.Error("serial bridge accept error", "error", err)
			continue
		}

		b.add(conn)
		go func() {
			defer conn.Close()
			defer b.remove(conn)
			b.logger.Debug("serial bridge connection", "remote_addr", conn.RemoteAddr())
			if err := pumpBytes(ctx, conn, events, clock); err != nil && !errors.Is(err, io.EOF) {
				b.logger.Debug("serial bridge connection ended", "error", err)
			}
		}()
	}
}

// pumpBytes forwards every byte read from r to the daemon as ByteReceived.
func pumpBytes(ctx context.Context, r io.Reader, events chan<- Event, clock Clock) error {
	buf := make([]byte, 256)
	for {
		n, err := r.Read(buf)
		for i := 0; i < n; i++ {
			select {
			case events <- ByteReceived{B: buf[i], At: clock.Now()}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err != nil {
			return err
		}
	}
}
