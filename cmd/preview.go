// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Thermoquad/moonlight/internal/strip"
	"github.com/Thermoquad/moonlight/pkg/moonboard"
	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var previewLogFile string

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show received problems on a board in the terminal",
	Long: `Run the board controller against a virtual strip and draw the board in
the terminal.

Each hold is drawn in the color of its LED; holds with a lit additional LED
are underlined. Problems can also be typed in directly (e.g. "S12 R40 E197"),
which works without any connection.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().StringVar(&previewLogFile, "log-file", "", "Write log output to this file")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	// The TUI owns the terminal
	if previewLogFile != "" {
		f, err := os.OpenFile(previewLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		log.SetOutput(f)
	} else {
		log.SetOutput(io.Discard)
	}

	holds, err := cfg.HoldMap()
	if err != nil {
		return err
	}

	var src *streamSource
	connInfo := "Offline"
	if cfg.Transport.Port != "" || cfg.Transport.URL != "" {
		conn, info, err := OpenConnection(cfg.Transport)
		if err != nil {
			return err
		}
		defer conn.Close()
		src = newStreamSource(conn)
		connInfo = info
	} else {
		src = newStreamSource(nil)
	}
	defer src.Close()

	m := newPreviewModel(connInfo, cfg.Palette(), holds, src.Inject)
	p := tea.NewProgram(m)

	fb := strip.NewFramebuffer(max(cfg.Strip.Pixels, holds.MaxPixel()+1))
	fb.OnCommit(func(seq uint64, frame []moonboard.Color) {
		p.Send(frameMsg{seq: seq, frame: frame})
	})

	controller, err := newController(cfg, fb,
		moonboard.OnProblem(func(problem *moonboard.Problem, result moonboard.RenderResult, err error) {
			if err != nil {
				p.Send(eventMsg{message: fmt.Sprintf("Render failed: %v", err), isError: true})
				return
			}
			p.Send(eventMsg{message: fmt.Sprintf("Loaded %s (%d holds, %d markers)",
				problem.Payload(), result.PrimaryWrites(), result.AdditionalWrites())})
			for _, discarded := range result.Discarded {
				p.Send(eventMsg{message: fmt.Sprintf("Discarded %v", discarded), isError: true})
			}
		}),
		moonboard.OnAutoOff(func() {
			p.Send(eventMsg{message: "Turned off LEDs due to inactivity"})
		}),
	)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	go func() {
		var lastStatus time.Time
		sendStatus := func() {
			if time.Since(lastStatus) < 250*time.Millisecond {
				return
			}
			lastStatus = time.Now()
			loaded, ok := controller.Monitor().Loaded()
			p.Send(statusMsg{
				stats:     controller.Statistics(),
				loaded:    loaded,
				hasLoaded: ok,
				autoOff:   controller.Monitor().Timeout(),
			})
		}

		if err := controlLoop(ctx, controller, src, sendStatus); err != nil {
			p.Send(eventMsg{message: err.Error(), isError: true})
			return
		}
		if ctx.Err() == nil {
			p.Send(eventMsg{message: "Connection closed", isError: true})
		}
	}()

	// Run TUI
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %v", err)
	}

	return nil
}
