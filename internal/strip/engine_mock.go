// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

//go:build !pi

package strip

import (
	log "github.com/sirupsen/logrus"
)

// mockEngine stands in for the ws281x hardware on non-pi builds
type mockEngine struct {
	leds    []uint32
	renders int
}

func newEngine(pixels, gpioPin int) (engine, error) {
	log.WithField("gpio", gpioPin).Warn("strip: built without the pi tag, LED output is simulated")
	return &mockEngine{leds: make([]uint32, pixels)}, nil
}

func (e *mockEngine) Init() error {
	return nil
}

func (e *mockEngine) Render() error {
	e.renders++
	log.Debugf("strip: render %d", e.renders)
	return nil
}

func (e *mockEngine) Wait() error {
	return nil
}

func (e *mockEngine) Fini() {
	log.Debug("strip: fini")
}

func (e *mockEngine) Leds(_ int) []uint32 {
	return e.leds
}
