// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package moonboard

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Display is the pixel sink the renderer draws on. Changes become visible
// only on Commit.
type Display interface {
	SetPixel(index int, c Color)
	ClearAll(c Color)
	Commit() error
}

// PixelWrite records one pixel assignment made during a render
type PixelWrite struct {
	Hold       Hold
	Pixel      int
	Color      Color
	Additional bool
}

// RenderResult summarises a render pass
type RenderResult struct {
	Writes    []PixelWrite // In write order
	Discarded []error      // One *HoldError per discarded token (primary pass)
}

// PrimaryWrites returns the number of primary pixel writes
func (r RenderResult) PrimaryWrites() int {
	n := 0
	for _, w := range r.Writes {
		if !w.Additional {
			n++
		}
	}
	return n
}

// AdditionalWrites returns the number of additional pixel writes
func (r RenderResult) AdditionalWrites() int {
	return len(r.Writes) - r.PrimaryWrites()
}

// Renderer draws problems onto a Display
type Renderer struct {
	holds   *HoldMap
	palette Palette
	display Display
	log     log.FieldLogger
}

// NewRenderer creates a renderer. A nil logger uses the standard logrus logger.
func NewRenderer(holds *HoldMap, palette Palette, display Display, logger log.FieldLogger) *Renderer {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Renderer{
		holds:   holds,
		palette: palette,
		display: display,
		log:     logger,
	}
}

// Palette returns the renderer's palette
func (r *Renderer) Palette() Palette {
	return r.palette
}

// HoldMap returns the renderer's hold map
func (r *Renderer) HoldMap() *HoldMap {
	return r.holds
}

// resolve decodes a token and looks it up in the hold map
func (r *Renderer) resolve(hold Hold, err error) (HoldEntry, error) {
	if err != nil {
		return HoldEntry{}, err
	}
	entry, ok := r.holds.Lookup(hold.Index)
	if !ok {
		return HoldEntry{}, &HoldError{Token: hold.String(), Err: ErrHoldOutOfRange}
	}
	return entry, nil
}

// Render clears the display, draws every hold of the problem and commits
// exactly once. Invalid tokens are discarded and reported in the result; they
// never stop the pass.
func (r *Renderer) Render(p *Problem) (RenderResult, error) {
	var result RenderResult

	r.display.ClearAll(r.palette.Off)
	r.log.WithField("payload", p.Payload()).Info("Problem received")

	// Additional LEDs first so primary pixels win on overlap
	if p.UseAdditionalLEDs() {
		for hold, decodeErr := range p.Holds() {
			entry, err := r.resolve(hold, decodeErr)
			if err != nil || !entry.HasAdditional() || !hold.Kind.HasAdditional() {
				continue
			}
			pixel := entry.AdditionalPixel()
			r.display.SetPixel(pixel, r.palette.Marker)
			result.Writes = append(result.Writes, PixelWrite{
				Hold:       hold,
				Pixel:      pixel,
				Color:      r.palette.Marker,
				Additional: true,
			})
			r.log.Debugf("%s --> %d (%s, additional)", hold, pixel, r.palette.ColorName(r.palette.Marker))
		}
	}

	for hold, decodeErr := range p.Holds() {
		entry, err := r.resolve(hold, decodeErr)
		if err != nil {
			result.Discarded = append(result.Discarded, err)
			r.log.WithError(err).Warn("Discarding hold")
			continue
		}
		c, _ := r.palette.Primary(hold.Kind)
		r.display.SetPixel(entry.Pixel, c)
		result.Writes = append(result.Writes, PixelWrite{
			Hold:  hold,
			Pixel: entry.Pixel,
			Color: c,
		})
		r.log.Debugf("%s --> %d (%s)", hold, entry.Pixel, r.palette.ColorName(c))
	}

	if err := r.display.Commit(); err != nil {
		return result, fmt.Errorf("failed to commit display: %w", err)
	}
	return result, nil
}

// Clear turns every pixel off and commits
func (r *Renderer) Clear() error {
	r.display.ClearAll(r.palette.Off)
	if err := r.display.Commit(); err != nil {
		return fmt.Errorf("failed to commit display: %w", err)
	}
	return nil
}
