// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Thermoquad/moonlight/internal/viewer"
	"github.com/Thermoquad/moonlight/pkg/moonboard"
	"github.com/spf13/cobra"
)

var watchAll bool

var watchCmd = &cobra.Command{
	Use:   "watch URL",
	Short: "Print frames published by a running controller",
	Long: `Connect to the frame viewer of "moonlight run --serve" and print every
committed frame.

Only lit pixels are listed unless --all is given.

Example:
  moonlight watch ws://raspberrypi.local:8080/frames`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchAll, "all", false, "Print every pixel, including dark ones")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	palette := cfg.Palette()
	out := cmd.OutOrStdout()
	err := viewer.Watch(ctx, args[0], func(s moonboard.Snapshot) {
		printSnapshot(out, s, palette, watchAll)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// printSnapshot writes one frame, one pixel per line
func printSnapshot(w io.Writer, s moonboard.Snapshot, palette moonboard.Palette, all bool) {
	colors := s.Colors()

	lit := 0
	var lines strings.Builder
	for i, c := range colors {
		if c.IsOff() && !all {
			continue
		}
		if !c.IsOff() {
			lit++
		}
		fmt.Fprintf(&lines, "  %3d  %s\n", i, palette.ColorName(c))
	}

	fmt.Fprintf(w, "[%s] FRAME #%d (%d of %d lit)\n", s.Time().Format("15:04:05.000"), s.Seq, lit, len(colors))
	fmt.Fprint(w, lines.String())
}
