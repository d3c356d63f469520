// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package viewer broadcasts committed LED frames to WebSocket clients as
// CBOR snapshots.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Thermoquad/moonlight/pkg/moonboard"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// Path is the HTTP path the hub is served on
const Path = "/frames"

const (
	sendBuffer   = 8
	writeTimeout = 5 * time.Second
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans committed frames out to connected viewers. Slow viewers that fall
// more than a few frames behind are disconnected.
type Hub struct {
	upgrader websocket.Upgrader
	log      log.FieldLogger

	mu      sync.Mutex
	clients map[*client]struct{}
	last    []byte // Latest snapshot, sent to new viewers
}

// NewHub creates a hub. A nil logger uses the standard logrus logger.
func NewHub(logger log.FieldLogger) *Hub {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log:     logger,
		clients: make(map[*client]struct{}),
	}
}

// Publish encodes a frame and queues it for every viewer. It has the
// strip.CommitHook signature.
func (h *Hub) Publish(seq uint64, frame []moonboard.Color) {
	data, err := moonboard.EncodeSnapshot(moonboard.NewSnapshot(seq, time.Now(), frame))
	if err != nil {
		h.log.WithError(err).Error("viewer: failed to encode frame")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.last = data
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.log.WithField("remote", c.conn.RemoteAddr().String()).Warn("viewer: client too slow, dropping")
			h.removeLocked(c)
		}
	}
}

// Clients returns the number of connected viewers
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and streams frames until the viewer leaves
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("viewer: upgrade failed")
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	if h.last != nil {
		c.send <- h.last
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	h.log.WithField("remote", conn.RemoteAddr().String()).Info("viewer: client connected")

	go h.writeLoop(c)
	h.readLoop(c)
}

// readLoop discards viewer input and unregisters the client when it closes
func (h *Hub) readLoop(c *client) {
	defer h.remove(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	defer c.conn.Close()
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
			h.remove(c)
			return
		}
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

// Close disconnects every viewer
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.removeLocked(c)
	}
}

// Serve runs an HTTP server for the hub until ctx is cancelled
func Serve(ctx context.Context, addr string, hub *Hub) error {
	mux := http.NewServeMux()
	mux.Handle(Path, hub)

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("viewer server failed: %w", err)
	case <-ctx.Done():
		hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
