// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"strings"
	"testing"

	"github.com/Thermoquad/moonlight/pkg/moonboard"
)

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		ms   uint64
		want string
	}{
		{0, "0 seconds"},
		{1000, "1 second"},
		{61000, "1 minute and 1 second"},
		{3600000, "1 hour"},
		{90061000, "1 day, 1 hour, 1 minute, and 1 second"},
	}

	for _, tt := range tests {
		if got := formatElapsed(tt.ms); got != tt.want {
			t.Errorf("formatElapsed(%d) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}

func TestSplitHoldInput(t *testing.T) {
	got := splitHoldInput(" S12 R5,E20\t")
	want := []string{"S12", "R5", "E20"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("splitHoldInput() = %v, want %v", got, want)
	}
}

func TestPreviewModel_Submit(t *testing.T) {
	var sent []byte
	holds, err := moonboard.NewSequentialHoldMap(moonboard.DefaultHoldCount, 1)
	if err != nil {
		t.Fatal(err)
	}
	palette := moonboard.NewPalette(moonboard.DefaultBrightness, moonboard.DefaultAdditionalBrightness)
	m := newPreviewModel("test", palette, holds, func(data []byte) bool {
		sent = append([]byte(nil), data...)
		return true
	})

	m.input.SetValue("S12, E20")
	m.additional = true
	m.submit()
	if string(sent) != "~Dl#S12,E20#" {
		t.Errorf("sent %q, want %q", sent, "~Dl#S12,E20#")
	}
	if m.input.Value() != "" {
		t.Error("input should be cleared after sending")
	}

	sent = nil
	m.input.SetValue("S12 X3")
	m.submit()
	if sent != nil {
		t.Errorf("invalid input should not be sent, got %q", sent)
	}
	if len(m.events) == 0 || !m.events[len(m.events)-1].isError {
		t.Error("invalid input should log an error event")
	}
}

func TestPreviewModel_RenderCell(t *testing.T) {
	holds, err := moonboard.NewSequentialHoldMap(moonboard.DefaultHoldCount, 1)
	if err != nil {
		t.Fatal(err)
	}
	palette := moonboard.NewPalette(moonboard.DefaultBrightness, moonboard.DefaultAdditionalBrightness)
	m := newPreviewModel("test", palette, holds, func([]byte) bool { return true })

	frame := make([]moonboard.Color, moonboard.DefaultHoldCount)
	frame[0] = palette.Start
	m.frame = frame

	if got := m.renderCell(moonboard.Position{Column: 0, Row: 0}); !strings.Contains(got, "●") {
		t.Errorf("lit hold rendered as %q", got)
	}
	if got := m.renderCell(moonboard.Position{Column: 1, Row: 0}); !strings.Contains(got, "·") {
		t.Errorf("dark hold rendered as %q", got)
	}
}
