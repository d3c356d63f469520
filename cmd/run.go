// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Thermoquad/moonlight/internal/config"
	"github.com/Thermoquad/moonlight/internal/strip"
	"github.com/Thermoquad/moonlight/internal/viewer"
	"github.com/Thermoquad/moonlight/pkg/moonboard"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// stepInterval is the control loop period
const stepInterval = 10 * time.Millisecond

var (
	runServe      string
	runNoSelfTest bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Light up received problems on the LED strip",
	Long: `Run the board controller on a ws281x LED strip.

The strip is tested at start-up by wiping every palette color across it.
Problems received from the connection are then rendered as they arrive, and
the strip is turned off after the configured period of inactivity.

With --serve, committed frames are also published to WebSocket viewers at
ws://<addr>/frames (see the watch command).

If the connection cannot be opened the error is logged every second, with
the first pixel blinking red, until the command is interrupted.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runServe, "serve", "", "Serve frames to viewers on this address (e.g. :8080)")
	runCmd.Flags().BoolVar(&runNoSelfTest, "no-self-test", false, "Skip the start-up LED test")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	leds, err := strip.Open(strip.Options{
		Pixels:  cfg.Strip.Pixels,
		GPIOPin: cfg.Strip.GPIOPin,
		Order:   cfg.ColorOrder(),
	})
	if err != nil {
		return err
	}
	defer leds.Close()

	listen := cfg.Viewer.Listen
	if runServe != "" {
		listen = runServe
	}
	if listen != "" {
		hub := viewer.NewHub(log.StandardLogger())
		leds.OnCommit(hub.Publish)
		go func() {
			if err := viewer.Serve(ctx, listen, hub); err != nil {
				log.WithError(err).Error("Viewer stopped")
			}
		}()
		log.WithField("addr", listen).Info("Serving frames")
	}

	conn, connInfo, err := connectAndTest(ctx, cfg, leds, !runNoSelfTest, func() (Connection, string, error) {
		return OpenConnection(cfg.Transport)
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	defer conn.Close()
	log.WithField("connection", connInfo).Info("Waiting for problems")

	controller, err := newController(cfg, leds,
		moonboard.OnProblem(func(p *moonboard.Problem, result moonboard.RenderResult, err error) {
			log.WithFields(log.Fields{
				"holds":     len(result.Writes),
				"discarded": len(result.Discarded),
			}).Info("Problem loaded")
		}),
	)
	if err != nil {
		return err
	}

	src := newStreamSource(conn)
	defer src.Close()

	err = controlLoop(ctx, controller, src, nil)
	stats := controller.Statistics()
	log.Info(stats.Summary())
	return err
}

// connectAndTest opens the transport and then runs the start-up self-test.
// When the transport fails the strip stays in the diagnostic loop until ctx
// is cancelled and the self-test never runs.
func connectAndTest(ctx context.Context, cfg *config.Config, leds strip.Shifter, selfTest bool, open func() (Connection, string, error)) (Connection, string, error) {
	conn, connInfo, err := open()
	if err != nil {
		transportFailure(ctx, leds, cfg.Strip.Brightness, err)
		return nil, "", err
	}

	if selfTest && cfg.SelfTest.Enabled {
		palette := cfg.Palette()
		if err := strip.SelfTest(ctx, leds, palette.SelfTestSequence(), cfg.SelfTestStep()); err != nil {
			conn.Close()
			if errors.Is(err, context.Canceled) {
				return nil, "", err
			}
			return nil, "", fmt.Errorf("self test failed: %w", err)
		}
	}
	return conn, connInfo, nil
}

// newController assembles the renderer, inactivity monitor and controller
// for a display
func newController(cfg *config.Config, display moonboard.Display, opts ...moonboard.ControllerOption) (*moonboard.Controller, error) {
	holds, err := cfg.HoldMap()
	if err != nil {
		return nil, err
	}

	renderer := moonboard.NewRenderer(holds, cfg.Palette(), display, log.StandardLogger())
	monitor := moonboard.NewInactivityMonitor(cfg.AutoOffTimeout())
	if monitor.Enabled() {
		log.WithField("timeout", monitor.Timeout()).Info("Auto-off enabled")
	}

	opts = append([]moonboard.ControllerOption{moonboard.WithLogger(log.StandardLogger())}, opts...)
	return moonboard.NewController(renderer, monitor, opts...), nil
}

// controlLoop steps the controller until ctx is cancelled or the source
// stops. onStep, if set, runs after every step.
func controlLoop(ctx context.Context, controller *moonboard.Controller, src *streamSource, onStep func()) error {
	ticker := time.NewTicker(stepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-src.Done():
			// Render whatever arrived before the connection went away
			if err := controller.Drain(src); err != nil {
				return err
			}
			if err := src.Err(); err != nil && !errors.Is(err, ErrConnectionClosed) {
				return fmt.Errorf("connection lost: %w", err)
			}
			log.Info("Connection closed")
			return nil
		case <-ticker.C:
			if err := controller.Step(src); err != nil {
				log.WithError(err).Error("Control loop step failed")
			}
			if onStep != nil {
				onStep()
			}
		}
	}
}

// transportFailure keeps reporting a transport error until ctx is cancelled.
// The first pixel blinks red so the failure is visible on the board.
func transportFailure(ctx context.Context, leds moonboard.Display, brightness uint8, err error) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	red := moonboard.NewPalette(brightness, 0).End
	on := false
	for {
		log.WithError(err).Error("Failed to open connection")

		on = !on
		leds.ClearAll(moonboard.Color{})
		if on {
			leds.SetPixel(0, red)
		}
		if commitErr := leds.Commit(); commitErr != nil {
			log.WithError(commitErr).Warn("Failed to update strip")
		}

		select {
		case <-ctx.Done():
			leds.ClearAll(moonboard.Color{})
			_ = leds.Commit()
			return
		case <-ticker.C:
		}
	}
}
