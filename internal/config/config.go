// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package config loads the Moonlight YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Thermoquad/moonlight/pkg/moonboard"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	LogLevel  string          `yaml:"log_level"`
	Transport TransportConfig `yaml:"transport"`
	Strip     StripConfig     `yaml:"strip"`
	Holds     HoldsConfig     `yaml:"holds"`
	AutoOff   AutoOffConfig   `yaml:"auto_off"`
	SelfTest  SelfTestConfig  `yaml:"self_test"`
	Viewer    ViewerConfig    `yaml:"viewer"`
}

// TransportConfig selects the byte source
type TransportConfig struct {
	Port        string `yaml:"port"`
	Baud        int    `yaml:"baud"`
	URL         string `yaml:"url"`
	Username    string `yaml:"username"`
	NoSSLVerify bool   `yaml:"no_ssl_verify"`
}

// StripConfig describes the LED strip
type StripConfig struct {
	Pixels               int    `yaml:"pixels"`
	GPIOPin              int    `yaml:"gpio_pin"`
	ColorOrder           string `yaml:"color_order"`
	Brightness           uint8  `yaml:"brightness"`
	AdditionalBrightness uint8  `yaml:"additional_brightness"`
}

// HoldEntryConfig is one explicit hold map row
type HoldEntryConfig struct {
	Pixel      int `yaml:"pixel"`
	Additional int `yaml:"additional"`
}

// HoldsConfig describes the hold to pixel mapping. An explicit table wins
// over the generated sequential layout.
type HoldsConfig struct {
	Count         int               `yaml:"count"`
	PixelsPerHold int               `yaml:"pixels_per_hold"`
	Table         []HoldEntryConfig `yaml:"table"`
}

// AutoOffConfig controls the inactivity timeout
type AutoOffConfig struct {
	Enabled bool `yaml:"enabled"`
	Minutes int  `yaml:"minutes"`
}

// SelfTestConfig controls the start-up LED test
type SelfTestConfig struct {
	Enabled bool `yaml:"enabled"`
	StepMS  int  `yaml:"step_ms"`
}

// ViewerConfig controls the WebSocket frame viewer
type ViewerConfig struct {
	Listen string `yaml:"listen"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Transport: TransportConfig{
			Baud: 9600,
		},
		Strip: StripConfig{
			Pixels:               moonboard.DefaultHoldCount,
			GPIOPin:              18,
			ColorOrder:           "grb",
			Brightness:           moonboard.DefaultBrightness,
			AdditionalBrightness: moonboard.DefaultAdditionalBrightness,
		},
		Holds: HoldsConfig{
			Count:         moonboard.DefaultHoldCount,
			PixelsPerHold: 1,
		},
		AutoOff: AutoOffConfig{
			Enabled: true,
			Minutes: 60,
		},
		SelfTest: SelfTestConfig{
			Enabled: true,
			StepMS:  10,
		},
	}
}

// LoadConfig loads the configuration from a file. Fields missing from the
// file keep their default values.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ValidationError describes an invalid configuration field
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (v *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", v.Field, v.Message)
}

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	var errs []error

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, &ValidationError{"log_level", err.Error()})
	}
	if c.Transport.Baud <= 0 {
		errs = append(errs, &ValidationError{"transport.baud", fmt.Sprintf("must be positive, got %d", c.Transport.Baud)})
	}
	if c.Strip.Pixels <= 0 {
		errs = append(errs, &ValidationError{"strip.pixels", fmt.Sprintf("must be positive, got %d", c.Strip.Pixels)})
	}
	if _, err := moonboard.ParseColorOrder(c.Strip.ColorOrder); err != nil {
		errs = append(errs, &ValidationError{"strip.color_order", err.Error()})
	}
	if c.AutoOff.Enabled && c.AutoOff.Minutes <= 0 {
		errs = append(errs, &ValidationError{"auto_off.minutes", fmt.Sprintf("must be positive when enabled, got %d", c.AutoOff.Minutes)})
	}
	if c.SelfTest.StepMS < 0 {
		errs = append(errs, &ValidationError{"self_test.step_ms", fmt.Sprintf("must not be negative, got %d", c.SelfTest.StepMS)})
	}

	holds, err := c.HoldMap()
	if err != nil {
		errs = append(errs, &ValidationError{"holds", err.Error()})
	} else if c.Strip.Pixels > 0 && holds.MaxPixel() >= c.Strip.Pixels {
		errs = append(errs, &ValidationError{"holds", fmt.Sprintf("pixel %d outside strip of %d pixels", holds.MaxPixel(), c.Strip.Pixels)})
	}

	return errors.Join(errs...)
}

// HoldMap builds the hold map described by the configuration
func (c *Config) HoldMap() (*moonboard.HoldMap, error) {
	if len(c.Holds.Table) > 0 {
		entries := make([]moonboard.HoldEntry, len(c.Holds.Table))
		for i, e := range c.Holds.Table {
			entries[i] = moonboard.HoldEntry{Pixel: e.Pixel, AdditionalOffset: e.Additional}
		}
		return moonboard.NewHoldMap(entries)
	}
	return moonboard.NewSequentialHoldMap(c.Holds.Count, c.Holds.PixelsPerHold)
}

// Palette returns the rendering palette
func (c *Config) Palette() moonboard.Palette {
	return moonboard.NewPalette(c.Strip.Brightness, c.Strip.AdditionalBrightness)
}

// ColorOrder returns the strip color order, defaulting to GRB
func (c *Config) ColorOrder() moonboard.ColorOrder {
	order, err := moonboard.ParseColorOrder(c.Strip.ColorOrder)
	if err != nil {
		return moonboard.OrderGRB
	}
	return order
}

// AutoOffTimeout returns the inactivity timeout, 0 when disabled
func (c *Config) AutoOffTimeout() time.Duration {
	if !c.AutoOff.Enabled {
		return 0
	}
	return time.Duration(c.AutoOff.Minutes) * time.Minute
}

// SelfTestStep returns the delay between self-test frames
func (c *Config) SelfTestStep() time.Duration {
	return time.Duration(c.SelfTest.StepMS) * time.Millisecond
}

// Level returns the configured log level, defaulting to info
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
