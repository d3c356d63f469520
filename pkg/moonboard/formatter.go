// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package moonboard

import (
	"fmt"
	"strings"
)

// FormatProblem formats a problem and its render result for display
func FormatProblem(p *Problem, result RenderResult, palette Palette) string {
	var s strings.Builder

	timestamp := p.Timestamp().Format("15:04:05.000")
	options := ""
	if p.UseAdditionalLEDs() {
		options = " [additional LEDs]"
	}
	fmt.Fprintf(&s, "[%s] PROBLEM%s\n", timestamp, options)
	fmt.Fprintf(&s, "  Payload: %s\n", p.Payload())

	for _, w := range result.Writes {
		suffix := ""
		if w.Additional {
			suffix = ", additional"
		}
		fmt.Fprintf(&s, "  %-5s %-6s --> %3d (%s%s)\n", w.Hold, w.Hold.Kind, w.Pixel, palette.ColorName(w.Color), suffix)
	}

	for _, err := range result.Discarded {
		fmt.Fprintf(&s, "  DISCARDED: %v\n", err)
	}

	return s.String()
}

// FormatHolds decodes a problem without rendering it, one hold per line
func FormatHolds(p *Problem) string {
	var s strings.Builder

	timestamp := p.Timestamp().Format("15:04:05.000")
	fmt.Fprintf(&s, "[%s] PROBLEM additional=%v\n", timestamp, p.UseAdditionalLEDs())

	for hold, err := range p.Holds() {
		if err != nil {
			fmt.Fprintf(&s, "  INVALID: %v\n", err)
			continue
		}
		position := "?"
		if pos, ok := HoldPosition(hold.Index); ok {
			position = pos.String()
		}
		fmt.Fprintf(&s, "  %-5s %-6s %s\n", hold, hold.Kind, position)
	}

	return s.String()
}
