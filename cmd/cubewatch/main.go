package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
)

const (
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
	retryMax     = 10 * time.Second
)

func main() {
	var (
		wsURL   = flag.String("ws", "ws://127.0.0.1:8090/ws", "twistlight monitor websocket URL")
		rawJSON = flag.Bool("raw", false, "Print frames as received")
		board   = flag.Bool("board", false, "Print the cube as text after every state change")
		once    = flag.Bool("once", false, "Exit when the connection drops instead of reconnecting")
	)
	flag.Parse()

	u, err := url.Parse(*wsURL)
	if err != nil {
		log.Fatalf("invalid websocket URL: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := &printer{w: os.Stdout, raw: *rawJSON, board: *board}

	backoff := 500 * time.Millisecond
	for {
		err := watch(ctx, u.String(), p)
		if ctx.Err() != nil {
			log.Printf("shutting down...")
			return
		}
		if *once {
			if err != nil {
				log.Fatalf("%v", err)
			}
			return
		}
		log.Printf("%v; retrying in %s", err, backoff)
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, retryMax)
	}
}

// watch holds one monitor connection open and prints its frames until the
// connection drops or ctx ends.
func watch(ctx context.Context, addr string, p *printer) error {
	d := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	conn, _, err := d.DialContext(ctx, addr, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	log.Printf("connected to %s", addr)

	var writeMu sync.Mutex
	write := func(kind int, data []byte) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		return conn.WriteMessage(kind, data)
	}

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan error, 1)
	go func() {
		for {
			kind, message, err := conn.ReadMessage()
			if err != nil {
				done <- err
				return
			}
			conn.SetReadDeadline(time.Now().Add(pongWait))
			if kind == websocket.TextMessage {
				p.handle(message)
			}
		}
	}()

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return ctx.Err()
		case <-ping.C:
			if err := write(websocket.PingMessage, nil); err != nil {
				return err
			}
		case err := <-done:
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return errors.New("monitor closed the connection")
			}
			return err
		}
	}
}
