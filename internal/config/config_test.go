// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Thermoquad/moonlight/pkg/moonboard"
	log "github.com/sirupsen/logrus"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "moonlight.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	holds, err := cfg.HoldMap()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if holds.Len() != moonboard.DefaultHoldCount {
		t.Errorf("holds = %d, want %d", holds.Len(), moonboard.DefaultHoldCount)
	}
	if cfg.AutoOffTimeout() != time.Hour {
		t.Errorf("auto-off = %v, want 1h", cfg.AutoOffTimeout())
	}
	if cfg.ColorOrder() != moonboard.OrderGRB {
		t.Error("default color order should be GRB")
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
transport:
  port: /dev/rfcomm0
strip:
  pixels: 400
  color_order: rgb
  brightness: 200
  additional_brightness: 30
holds:
  count: 198
  pixels_per_hold: 2
auto_off:
  enabled: true
  minutes: 15
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Level() != log.DebugLevel {
		t.Errorf("level = %v", cfg.Level())
	}
	if cfg.Transport.Port != "/dev/rfcomm0" || cfg.Transport.Baud != 9600 {
		t.Errorf("transport = %+v", cfg.Transport)
	}
	if cfg.ColorOrder() != moonboard.OrderRGB {
		t.Error("color order not applied")
	}
	if cfg.AutoOffTimeout() != 15*time.Minute {
		t.Errorf("auto-off = %v", cfg.AutoOffTimeout())
	}
	if !cfg.SelfTest.Enabled {
		t.Error("self-test default lost")
	}

	palette := cfg.Palette()
	if palette.End != (moonboard.Color{R: 200}) || palette.Marker != (moonboard.Color{R: 30, G: 30}) {
		t.Errorf("palette = %+v", palette)
	}

	holds, _ := cfg.HoldMap()
	if e, _ := holds.Lookup(197); e.Pixel != 394 || e.AdditionalPixel() != 395 {
		t.Errorf("last hold = %+v", e)
	}
}

func TestLoadConfig_ExplicitTable(t *testing.T) {
	path := writeConfig(t, `
strip:
  pixels: 10
holds:
  table:
    - {pixel: 9, additional: -1}
    - {pixel: 0}
    - {pixel: 4, additional: 2}
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	holds, _ := cfg.HoldMap()
	if holds.Len() != 3 {
		t.Fatalf("holds = %d, want 3", holds.Len())
	}
	if e, _ := holds.Lookup(0); e.AdditionalPixel() != 8 {
		t.Errorf("hold 0 = %+v", e)
	}
	if e, _ := holds.Lookup(1); e.HasAdditional() {
		t.Errorf("hold 1 = %+v", e)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"unknown field", "bogus: 1\n", ""},
		{"bad yaml", "strip: [\n", ""},
		{"bad level", "log_level: loud\n", "log_level"},
		{"bad order", "strip:\n  color_order: bgr\n", "strip.color_order"},
		{"zero pixels", "strip:\n  pixels: 0\n", "strip.pixels"},
		{"hold outside strip", "strip:\n  pixels: 100\n", "holds"},
		{"bad pixels per hold", "holds:\n  pixels_per_hold: 3\n", "holds"},
		{"auto-off without minutes", "auto_off:\n  enabled: true\n  minutes: 0\n", "auto_off.minutes"},
		{"negative step", "self_test:\n  step_ms: -5\n", "self_test.step_ms"},
		{"brightness overflow", "strip:\n  brightness: 300\n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.field == "" {
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Field != tt.field {
				t.Errorf("error = %v, want validation error on %s", err, tt.field)
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestAutoOffDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AutoOff.Enabled = false
	cfg.AutoOff.Minutes = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AutoOffTimeout() != 0 {
		t.Error("disabled auto-off should have zero timeout")
	}
}
