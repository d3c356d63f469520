// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package moonboard

import "fmt"

// Color is an RGB pixel value
type Color struct {
	R, G, B uint8
}

// ColorOrder is the byte order a strip expects
type ColorOrder int

const (
	OrderRGB ColorOrder = iota
	OrderGRB
)

// ParseColorOrder parses "rgb" or "grb"
func ParseColorOrder(s string) (ColorOrder, error) {
	switch s {
	case "rgb", "RGB":
		return OrderRGB, nil
	case "grb", "GRB":
		return OrderGRB, nil
	default:
		return OrderRGB, fmt.Errorf("unknown color order: %q (use rgb or grb)", s)
	}
}

// Pack returns the color as a 24-bit word in the given order
func (c Color) Pack(order ColorOrder) uint32 {
	if order == OrderGRB {
		return uint32(c.G)<<16 | uint32(c.R)<<8 | uint32(c.B)
	}
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// RGB returns the color as 0xRRGGBB
func (c Color) RGB() uint32 {
	return c.Pack(OrderRGB)
}

// ColorFromRGB unpacks 0xRRGGBB
func ColorFromRGB(v uint32) Color {
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}

// Hex returns the color as "#rrggbb"
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// IsOff reports whether all channels are zero
func (c Color) IsOff() bool {
	return c == Color{}
}

// Palette holds the colors used for rendering
type Palette struct {
	Start  Color
	Right  Color // Also used for power holds
	Left   Color
	Match  Color
	Foot   Color
	End    Color
	Marker Color // Additional LEDs
	Off    Color
}

// NewPalette builds the standard palette. brightness caps the hold colors and
// markerBrightness caps the additional LED color.
func NewPalette(brightness, markerBrightness uint8) Palette {
	b := brightness
	return Palette{
		Start:  Color{0, b, 0},
		Right:  Color{0, 0, b},
		Left:   Color{b / 2, 0, b},
		Match:  Color{b, 0, b / 2},
		Foot:   Color{0, b, b},
		End:    Color{b, 0, 0},
		Marker: Color{markerBrightness, markerBrightness, 0},
	}
}

// Primary returns the color of a hold's primary pixel.
// The second result is false for HoldUnknown.
func (p Palette) Primary(kind HoldKind) (Color, bool) {
	switch kind {
	case HoldStart:
		return p.Start, true
	case HoldRight, HoldPower:
		return p.Right, true
	case HoldLeft:
		return p.Left, true
	case HoldMatch:
		return p.Match, true
	case HoldFoot:
		return p.Foot, true
	case HoldEnd:
		return p.End, true
	default:
		return Color{}, false
	}
}

// ColorName returns a human readable name for palette colors
func (p Palette) ColorName(c Color) string {
	switch c {
	case p.Start:
		return "green"
	case p.Right:
		return "blue"
	case p.Left:
		return "violet"
	case p.Match:
		return "pink"
	case p.Foot:
		return "cyan"
	case p.End:
		return "red"
	case p.Marker:
		return "yellow"
	case p.Off:
		return "off"
	default:
		return c.Hex()
	}
}

// SelfTestSequence returns the colors shown by the start-up test, in order
func (p Palette) SelfTestSequence() []Color {
	return []Color{p.Start, p.Right, p.Marker, p.Foot, p.Match, p.Left, p.End}
}
