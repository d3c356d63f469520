// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package strip

import (
	"fmt"

	"github.com/Thermoquad/moonlight/pkg/moonboard"
)

// engine drives the physical strip
type engine interface {
	Init() error
	Render() error
	Wait() error
	Fini()
	Leds(channel int) []uint32
}

// Options configures a ws281x strip
type Options struct {
	Pixels  int
	GPIOPin int
	Order   moonboard.ColorOrder
}

// Strip is a ws281x LED strip. Pixels are buffered in a Framebuffer and
// shifted out on Commit.
type Strip struct {
	*Framebuffer
	engine engine
	order  moonboard.ColorOrder
}

// Open initialises the strip hardware
func Open(opts Options) (*Strip, error) {
	if opts.Pixels <= 0 {
		return nil, fmt.Errorf("invalid pixel count: %d", opts.Pixels)
	}

	eng, err := newEngine(opts.Pixels, opts.GPIOPin)
	if err != nil {
		return nil, fmt.Errorf("failed to create strip engine: %w", err)
	}
	return newStrip(eng, opts)
}

func newStrip(eng engine, opts Options) (*Strip, error) {
	if err := eng.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialise strip: %w", err)
	}

	s := &Strip{
		Framebuffer: NewFramebuffer(opts.Pixels),
		engine:      eng,
		order:       opts.Order,
	}

	// Start dark
	if err := s.Commit(); err != nil {
		eng.Fini()
		return nil, err
	}
	return s, nil
}

// Commit shifts the pending buffer out to the LEDs
func (s *Strip) Commit() error {
	leds := s.engine.Leds(0)
	for i, c := range s.Pending() {
		if i >= len(leds) {
			break
		}
		leds[i] = c.Pack(s.order)
	}

	if err := s.engine.Render(); err != nil {
		return fmt.Errorf("failed to render strip: %w", err)
	}
	if err := s.engine.Wait(); err != nil {
		return fmt.Errorf("failed to wait for strip: %w", err)
	}
	return s.Framebuffer.Commit()
}

// Close turns the strip off and releases the hardware
func (s *Strip) Close() error {
	s.ClearAll(moonboard.Color{})
	err := s.Commit()
	s.engine.Fini()
	return err
}
