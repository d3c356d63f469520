// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package moonboard

import (
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// ByteSource is a pollable byte stream
type ByteSource interface {
	// Available returns the number of bytes that can be read without blocking
	Available() int
	// ReadByte returns the next byte
	ReadByte() (byte, error)
}

// ProblemHandler is notified after every render
type ProblemHandler func(p *Problem, result RenderResult, err error)

// Controller runs the parse, render and auto-off pipeline for one control
// loop. It is not safe for concurrent use.
type Controller struct {
	parser   *Parser
	renderer *Renderer
	monitor  *InactivityMonitor
	clock    Clock
	stats    *Statistics
	log      log.FieldLogger

	onProblem ProblemHandler
	onAutoOff func()
}

// ControllerOption configures a Controller
type ControllerOption func(*Controller)

// WithClock sets the clock used to timestamp problems and drive auto-off
func WithClock(clock Clock) ControllerOption {
	return func(c *Controller) { c.clock = clock }
}

// WithLogger sets the diagnostic logger
func WithLogger(logger log.FieldLogger) ControllerOption {
	return func(c *Controller) { c.log = logger }
}

// OnProblem registers a callback run after every render
func OnProblem(fn ProblemHandler) ControllerOption {
	return func(c *Controller) { c.onProblem = fn }
}

// OnAutoOff registers a callback run after an inactivity clear
func OnAutoOff(fn func()) ControllerOption {
	return func(c *Controller) { c.onAutoOff = fn }
}

// NewController creates a controller
func NewController(renderer *Renderer, monitor *InactivityMonitor, opts ...ControllerOption) *Controller {
	c := &Controller{
		parser:   NewParser(),
		renderer: renderer,
		monitor:  monitor,
		clock:    SystemClock{},
		stats:    NewStatistics(),
		log:      log.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.parser.SetClock(c.clock)
	return c
}

// Parser returns the controller's frame parser
func (c *Controller) Parser() *Parser {
	return c.parser
}

// Monitor returns the controller's inactivity monitor
func (c *Controller) Monitor() *InactivityMonitor {
	return c.monitor
}

// Statistics returns a copy of the current counters
func (c *Controller) Statistics() Statistics {
	c.stats.CalculateRates()
	return *c.stats
}

// Feed processes one byte. A completed frame is rendered before Feed returns,
// after which the parser is reset whatever the render outcome.
func (c *Controller) Feed(b byte) error {
	problem, err := c.parser.ParseByte(b)
	if err != nil {
		if errors.Is(err, ErrPayloadOverflow) {
			c.stats.RecordOverflow()
		}
		c.log.WithError(err).Warn("Frame discarded")
		return nil
	}
	if problem == nil {
		return nil
	}

	result, renderErr := c.renderer.Render(problem)
	c.stats.Update(result, renderErr)
	if renderErr == nil {
		c.monitor.MarkLoaded(c.clock.Now())
	}
	c.parser.Reset()

	if c.onProblem != nil {
		c.onProblem(problem, result, renderErr)
	}
	return renderErr
}

// Drain feeds every byte currently available from src
func (c *Controller) Drain(src ByteSource) error {
	for src.Available() > 0 {
		b, err := src.ReadByte()
		if err != nil {
			return fmt.Errorf("failed to read byte: %w", err)
		}
		if err := c.Feed(b); err != nil {
			c.log.WithError(err).Error("Render failed")
		}
	}
	return nil
}

// Tick polls the inactivity monitor and clears the display when it fires.
// Returns true when the display was cleared.
func (c *Controller) Tick(now time.Time) (bool, error) {
	if !c.monitor.Tick(now) {
		return false, nil
	}

	c.log.Info("Turning off LEDs due to inactivity")
	c.stats.RecordAutoOff()
	if err := c.renderer.Clear(); err != nil {
		return true, err
	}
	if c.onAutoOff != nil {
		c.onAutoOff()
	}
	return true, nil
}

// Step runs one control loop iteration: drain the source, then check for
// inactivity
func (c *Controller) Step(src ByteSource) error {
	if err := c.Drain(src); err != nil {
		return err
	}
	_, err := c.Tick(c.clock.Now())
	return err
}
