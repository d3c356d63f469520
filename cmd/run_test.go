// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/Thermoquad/moonlight/internal/config"
	"github.com/Thermoquad/moonlight/internal/strip"
	"github.com/Thermoquad/moonlight/pkg/moonboard"
)

// nopConnection is a Connection that never delivers data
type nopConnection struct {
	closed bool
}

func (c *nopConnection) Read(p []byte) (int, error)  { return 0, ErrConnectionClosed }
func (c *nopConnection) Write(p []byte) (int, error) { return len(p), nil }

func (c *nopConnection) Close() error {
	c.closed = true
	return nil
}

func testRunConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.SelfTest.StepMS = 0
	return cfg
}

func TestConnectAndTest_OpensBeforeSelfTest(t *testing.T) {
	cfg := testRunConfig()
	fb := strip.NewFramebuffer(4)

	var events []string
	fb.OnCommit(func(seq uint64, frame []moonboard.Color) {
		events = append(events, "commit")
	})

	conn := &nopConnection{}
	got, info, err := connectAndTest(context.Background(), cfg, fb, true, func() (Connection, string, error) {
		events = append(events, "open")
		return conn, "test", nil
	})
	if err != nil {
		t.Fatalf("connectAndTest() error = %v", err)
	}
	if got != conn || info != "test" {
		t.Errorf("connectAndTest() = %v, %q", got, info)
	}

	if len(events) < 2 || events[0] != "open" {
		t.Fatalf("events = %v, want open before any commit", events)
	}
	if !slices.Contains(events[1:], "commit") {
		t.Error("self-test did not run after opening the connection")
	}
}

func TestConnectAndTest_TransportFailureSkipsSelfTest(t *testing.T) {
	cfg := testRunConfig()
	palette := cfg.Palette()
	fb := strip.NewFramebuffer(4)

	sawSelfTest := false
	fb.OnCommit(func(seq uint64, frame []moonboard.Color) {
		if slices.Contains(frame, palette.Start) {
			sawSelfTest = true
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	openErr := errors.New("no such port")
	_, _, err := connectAndTest(ctx, cfg, fb, true, func() (Connection, string, error) {
		return nil, "", openErr
	})
	if !errors.Is(err, openErr) {
		t.Fatalf("connectAndTest() error = %v, want %v", err, openErr)
	}
	if sawSelfTest {
		t.Error("self-test ran after a transport failure")
	}
	if fb.Commits() == 0 {
		t.Error("transport failure was not shown on the strip")
	}
	if !fb.Pixel(0).IsOff() {
		t.Errorf("strip left lit after interrupt: %v", fb.Pixel(0))
	}
}

func TestConnectAndTest_SelfTestDisabled(t *testing.T) {
	cfg := testRunConfig()
	fb := strip.NewFramebuffer(4)

	_, _, err := connectAndTest(context.Background(), cfg, fb, false, func() (Connection, string, error) {
		return &nopConnection{}, "test", nil
	})
	if err != nil {
		t.Fatalf("connectAndTest() error = %v", err)
	}
	if fb.Commits() != 0 {
		t.Errorf("commits = %d, want 0 with the self-test disabled", fb.Commits())
	}
}

func TestConnectAndTest_SelfTestCancelledClosesConnection(t *testing.T) {
	cfg := testRunConfig()
	fb := strip.NewFramebuffer(4)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	conn := &nopConnection{}
	_, _, err := connectAndTest(ctx, cfg, fb, true, func() (Connection, string, error) {
		return conn, "test", nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("connectAndTest() error = %v, want context.Canceled", err)
	}
	if !conn.closed {
		t.Error("connection left open after a cancelled self-test")
	}
}
