// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Thermoquad/moonlight/internal/config"
	"github.com/gorilla/websocket"
)

// bridgeServer serves the given messages to one WebSocket client, then
// closes normally
func bridgeServer(t *testing.T, messages []string) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for i, msg := range messages {
			messageType := websocket.TextMessage
			if i%2 == 1 {
				messageType = websocket.BinaryMessage
			}
			if err := conn.WriteMessage(messageType, []byte(msg)); err != nil {
				return
			}
		}
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.ReadMessage()
	}))
}

func TestWebSocketConnection_ReadsTextAndBinary(t *testing.T) {
	server := bridgeServer(t, []string{"~Dl#S1", "", ",E20#"})
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, err := OpenWebSocketConnection(url, "", "", false)
	if err != nil {
		t.Fatalf("OpenWebSocketConnection() error = %v", err)
	}
	defer conn.Close()

	var got []byte
	buf := make([]byte, 4)
	for {
		n, err := conn.Read(buf)
		got = append(got, buf[:n]...)
		if err != nil {
			if !errors.Is(err, ErrConnectionClosed) {
				t.Fatalf("Read() error = %v, want ErrConnectionClosed", err)
			}
			break
		}
	}

	if string(got) != "~Dl#S1,E20#" {
		t.Errorf("read %q, want %q", got, "~Dl#S1,E20#")
	}

	// Reads after close keep failing without touching the socket
	if _, err := conn.Read(buf); !errors.Is(err, ErrConnectionClosed) {
		t.Errorf("Read() after close error = %v", err)
	}
}

func TestOpenWebSocketConnection_RejectsScheme(t *testing.T) {
	_, err := OpenWebSocketConnection("http://localhost/ws", "", "", false)
	if err == nil || !strings.Contains(err.Error(), "unsupported URL scheme") {
		t.Errorf("error = %v, want unsupported URL scheme", err)
	}
}

func TestOpenConnection_RequiresTransport(t *testing.T) {
	_, _, err := OpenConnection(config.TransportConfig{Baud: 9600})
	if err == nil {
		t.Fatal("expected an error without port or URL")
	}
}
