// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package viewer

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Thermoquad/moonlight/pkg/moonboard"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

func quietLogger() log.FieldLogger {
	logger := log.New()
	logger.SetOutput(io.Discard)
	return logger
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() != n {
		if time.Now().After(deadline) {
			t.Fatalf("clients = %d, want %d", hub.Clients(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_BroadcastsFrames(t *testing.T) {
	hub := NewHub(quietLogger())
	server := httptest.NewServer(hub)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	received := make(chan moonboard.Snapshot, 1)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, wsURL(server), func(s moonboard.Snapshot) {
			received <- s
			cancel()
		})
	}()

	waitForClients(t, hub, 1)
	frame := []moonboard.Color{{G: 150}, {}, {R: 150}}
	hub.Publish(7, frame)

	select {
	case s := <-received:
		if s.Seq != 7 {
			t.Errorf("seq = %d, want 7", s.Seq)
		}
		colors := s.Colors()
		if len(colors) != 3 || colors[0] != frame[0] || colors[2] != frame[2] {
			t.Errorf("colors = %v", colors)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no snapshot received")
	}

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Watch returned %v, want context.Canceled", err)
	}
}

func TestHub_NewClientGetsLastFrame(t *testing.T) {
	hub := NewHub(quietLogger())
	server := httptest.NewServer(hub)
	defer server.Close()

	hub.Publish(3, []moonboard.Color{{B: 1}})

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server), nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	messageType, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if messageType != websocket.BinaryMessage {
		t.Fatalf("message type = %d, want binary", messageType)
	}
	s, err := moonboard.DecodeSnapshot(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if s.Seq != 3 {
		t.Errorf("seq = %d, want 3", s.Seq)
	}
}

func TestHub_ClientDisconnect(t *testing.T) {
	hub := NewHub(quietLogger())
	server := httptest.NewServer(hub)
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server), nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	waitForClients(t, hub, 1)

	conn.Close()
	waitForClients(t, hub, 0)

	// Publishing with no clients must not block or panic
	hub.Publish(1, []moonboard.Color{{}})
}

func TestHub_Close(t *testing.T) {
	hub := NewHub(quietLogger())
	server := httptest.NewServer(hub)
	defer server.Close()

	done := make(chan error, 1)
	go func() {
		done <- Watch(context.Background(), wsURL(server), func(moonboard.Snapshot) {})
	}()

	waitForClients(t, hub, 1)
	hub.Close()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned %v, want nil on normal closure", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after hub closed")
	}
}

func TestWatch_DialError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := Watch(ctx, "ws://127.0.0.1:1/frames", func(moonboard.Snapshot) {}); err == nil {
		t.Error("expected dial error")
	}
}
