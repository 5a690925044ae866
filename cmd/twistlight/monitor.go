//go:build !tinygo

package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// The monitor is a read-only WebSocket feed of what the controller is doing.
//
//   - A Hub tracks connected clients
//   - Each client has its own write pump so one slow client doesn't block others
//   - A broadcaster reads reducer broadcasts and fans them out
//
// Messages are JSON text frames with an envelope: {type, ts, data}. The first
// message on connect is "state_init", produced through the daemon loop.

type wsStateInit struct {
	Mode       string `json:"mode"`
	Brightness uint8  `json:"brightness"`
	Cube       string `json:"cube"`
	Solved     bool   `json:"solved"`
	Switchmap  string `json:"switchmap"`
	Ledmap     string `json:"ledmap"`
}

type wsTwistData struct {
	Input int    `json:"input"`
	Twist string `json:"twist"`
	Cube  string `json:"cube"`
}

type wsInputData struct {
	Input int `json:"input"`
}

type wsProtocolErrorData struct {
	Message string `json:"message"`
}

type wsModeData struct {
	Mode string `json:"mode"`
}

type wsStateData struct {
	Cube string `json:"cube"`
}

type wsOutboundEvent struct {
	Type string
	Data any
	At   time.Time
}

type envelope struct {
	Type string     `json:"type"`
	Ts   *time.Time `json:"ts,omitempty"`
	Data any        `json:"data,omitempty"`
}

// ============================================================================
// Hub
// ============================================================================

type Hub struct {
	logger *slog.Logger

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu      sync.Mutex
	clients map[*Client]struct{}

	sendBuf int
}

type HubConfig struct {
	SendBuf      int
	BroadcastBuf int
}

// NewHub constructs a hub. Call Run(ctx) to start it.
func NewHub(logger *slog.Logger, cfg HubConfig) *Hub {
	sendBuf := cfg.SendBuf
	if sendBuf <= 0 {
		sendBuf = 32
	}
	bcastBuf := cfg.BroadcastBuf
	if bcastBuf <= 0 {
		bcastBuf = 128
	}

	return &Hub{
		logger:     logger,
		broadcast:  make(chan []byte, bcastBuf),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		clients:    make(map[*Client]struct{}),
		sendBuf:    sendBuf,
	}
}

// Run processes hub events until ctx is canceled, then disconnects everyone.
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("monitor hub starting")

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("monitor hub stopping (context canceled)")
			h.closeAllClients()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			n := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("monitor client registered", "remote_addr", c.remoteAddr, "clients", n)

		case c := <-h.unregister:
			h.removeClient(c, "unregister")

		case msg := <-h.broadcast:
			var slow []*Client

			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					slow = append(slow, c)
				}
			}
			h.mu.Unlock()

			for _, c := range slow {
				h.removeClient(c, "slow_client")
			}
		}
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if c.conn != nil {
			_ = c.conn.Close()
		}
		safeCloseChan(c.send)
		delete(h.clients, c)
	}
}

func (h *Hub) removeClient(c *Client, reason string) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
	}
	n := len(h.clients)
	h.mu.Unlock()

	if ok {
		if c.conn != nil {
			_ = c.conn.Close()
		}
		safeCloseChan(c.send)
		h.logger.Info("monitor client disconnected", "remote_addr", c.remoteAddr, "reason", reason, "clients", n)
	}
}

func safeCloseChan(ch chan []byte) {
	defer func() {
		_ = recover() // close of closed channel
	}()
	close(ch)
}

// BroadcastBytes enqueues a serialized frame. It drops the frame if the hub
// queue is full.
func (h *Hub) BroadcastBytes(msg []byte) {
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("monitor hub broadcast queue full, dropping message", "bytes", len(msg))
	}
}

// ============================================================================
// Client
// ============================================================================

type Client struct {
	hub *Hub

	conn *websocket.Conn
	send chan []byte

	remoteAddr string
	logger     *slog.Logger
}

func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string, logger *slog.Logger) *Client {
	sendBuf := 32
	if hub != nil && hub.sendBuf > 0 {
		sendBuf = hub.sendBuf
	}
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBuf),
		remoteAddr: remoteAddr,
		logger:     logger,
	}
}

const (
	writeWait  = 5 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 20 * time.Second
)

func closeStatus(err error) (code int, text string, ok bool) {
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		return ce.Code, ce.Text, true
	}
	return 0, "", false
}

func (c *Client) logExit(pump string, err error) {
	if errors.Is(err, websocket.ErrCloseSent) {
		return
	}
	if code, text, ok := closeStatus(err); ok {
		c.logger.Info("monitor "+pump+" exiting (close)", "remote_addr", c.remoteAddr, "code", code, "reason", text)
		return
	}
	c.logger.Info("monitor "+pump+" exiting", "remote_addr", c.remoteAddr, "error", err)
}

// writePump writes queued frames and pings. It exits on write error or when
// send is closed.
func (c *Client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.logExit("writePump", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logExit("writePump", err)
				return
			}
		}
	}
}

// readPump discards incoming messages so control frames are handled and
// disconnects are noticed.
func (c *Client) readPump(ctx context.Context) {
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if ctx.Err() != nil {
			return
		}
		if _, _, err := c.conn.ReadMessage(); err != nil {
			c.logExit("readPump", err)
			if c.hub != nil {
				c.hub.unregister <- c
			}
			return
		}
	}
}

// ============================================================================
// HTTP handler
// ============================================================================

type MonitorServer struct {
	logger *slog.Logger
	hub    *Hub
	events chan<- Event
}

func NewMonitorServer(logger *slog.Logger, events chan<- Event, cfg HubConfig) *MonitorServer {
	return &MonitorServer{
		logger: logger,
		hub:    NewHub(logger, cfg),
		events: events,
	}
}

func (s *MonitorServer) Hub() *Hub { return s.hub }

// Register registers the monitor handler on mux.
func (s *MonitorServer) Register(mux *http.ServeMux, path string) {
	if mux == nil {
		return
	}
	mux.HandleFunc(path, s.handleMonitorWS)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (s *MonitorServer) handleMonitorWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("monitor upgrade failed", "error", err)
		return
	}

	client := NewClient(s.hub, conn, r.RemoteAddr, s.logger)
	s.hub.register <- client

	// The pumps outlive the request; the hub and socket errors end them.
	go client.writePump(context.Background())
	go client.readPump(context.Background())

	if s.events == nil {
		return
	}

	reply := make(chan StateSnapshot, 1)
	select {
	case <-r.Context().Done():
		return
	case s.events <- RequestStateSnapshot{Reply: reply}:
	}

	waitCtx, cancel := context.WithTimeout(r.Context(), time.Second)
	defer cancel()

	select {
	case <-waitCtx.Done():
		if !errors.Is(waitCtx.Err(), context.Canceled) {
			s.logger.Warn("monitor snapshot request failed", "error", waitCtx.Err())
		}
		return

	case snap := <-reply:
		msg, err := marshalEnvelope(wsOutboundEvent{Type: "state_init", Data: snapshotPayload(snap), At: snap.At})
		if err != nil {
			s.logger.Warn("monitor snapshot marshal failed", "error", err)
			return
		}
		select {
		case client.send <- msg:
		default:
			s.hub.unregister <- client
		}
	}
}

func snapshotPayload(snap StateSnapshot) wsStateInit {
	return wsStateInit{
		Mode:       snap.Mode.String(),
		Brightness: snap.Brightness,
		Cube:       snap.Cube,
		Solved:     snap.Solved,
		Switchmap:  snap.Switchmap,
		Ledmap:     snap.Ledmap,
	}
}

func marshalEnvelope(ev wsOutboundEvent) ([]byte, error) {
	ts := ev.At
	if ts.IsZero() {
		ts = time.Now()
	}
	ts = ts.UTC()
	return json.Marshal(envelope{Type: ev.Type, Ts: &ts, Data: ev.Data})
}

// ============================================================================
// Broadcaster
// ============================================================================

// RunBroadcaster turns reducer broadcasts into frames for the hub. Run it as a
// single goroutine.
func RunBroadcaster(ctx context.Context, hub *Hub, src <-chan StateBroadcast, logger *slog.Logger) {
	if hub == nil || src == nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return

		case b, ok := <-src:
			if !ok {
				logger.Info("monitor broadcaster stopping (source ended)")
				return
			}
			ev, ok := convertBroadcast(b)
			if !ok {
				continue
			}
			msg, err := marshalEnvelope(ev)
			if err != nil {
				logger.Warn("monitor broadcaster marshal failed", "error", err, "type", ev.Type)
				continue
			}
			hub.BroadcastBytes(msg)
		}
	}
}

func convertBroadcast(b StateBroadcast) (wsOutboundEvent, bool) {
	switch ev := b.(type) {
	case BroadcastTwist:
		return wsOutboundEvent{
			Type: "twist",
			Data: wsTwistData{Input: ev.Input, Twist: ev.Twist.String(), Cube: ev.Cube},
			At:   ev.At,
		}, true
	case BroadcastSolved:
		return wsOutboundEvent{Type: "solved", At: ev.At}, true
	case BroadcastInput:
		return wsOutboundEvent{Type: "input", Data: wsInputData{Input: ev.Input}, At: ev.At}, true
	case BroadcastProtocolError:
		return wsOutboundEvent{Type: "protocol_error", Data: wsProtocolErrorData{Message: ev.Message}, At: ev.At}, true
	case BroadcastMode:
		return wsOutboundEvent{Type: "mode", Data: wsModeData{Mode: ev.Mode.String()}, At: ev.At}, true
	case BroadcastState:
		return wsOutboundEvent{Type: "state", Data: wsStateData{Cube: ev.Cube}, At: ev.At}, true
	default:
		return wsOutboundEvent{}, false
	}
}

// runMonitorServer serves the monitor on addr until ctx is canceled.
func runMonitorServer(ctx context.Context, addr, path string, srv *MonitorServer, logger *slog.Logger) error {
	mux := http.NewServeMux()
	srv.Register(mux, path)

	httpSrv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	logger.Info("monitor listening", "addr", addr, "path", path)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
