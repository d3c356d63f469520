// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package viewer

import (
	"context"
	"fmt"
	"time"

	"github.com/Thermoquad/moonlight/pkg/moonboard"
	"github.com/gorilla/websocket"
)

// Watch connects to a hub and calls fn for every received snapshot until the
// connection closes or ctx is cancelled
func Watch(ctx context.Context, url string, fn func(moonboard.Snapshot)) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, resp, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("viewer connection failed (HTTP %d): %w", resp.StatusCode, err)
		}
		return fmt.Errorf("viewer connection failed: %w", err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() {
		conn.Close()
	})
	defer stop()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("viewer read failed: %w", err)
		}
		if messageType != websocket.BinaryMessage {
			continue
		}

		snapshot, err := moonboard.DecodeSnapshot(data)
		if err != nil {
			return err
		}
		fn(snapshot)
	}
}
