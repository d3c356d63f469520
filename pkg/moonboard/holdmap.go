// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package moonboard

import "fmt"

// HoldEntry locates a hold on the LED strip
type HoldEntry struct {
	Pixel            int // Primary pixel
	AdditionalOffset int // Offset of the additional pixel, 0 for none
}

// HasAdditional reports whether the hold has an additional pixel
func (e HoldEntry) HasAdditional() bool {
	return e.AdditionalOffset != 0
}

// AdditionalPixel returns the index of the additional pixel
func (e HoldEntry) AdditionalPixel() int {
	return e.Pixel + e.AdditionalOffset
}

// HoldMap is the immutable hold index to pixel lookup table
type HoldMap struct {
	entries []HoldEntry
}

// NewHoldMap creates a hold map from a table of entries, one per hold index
func NewHoldMap(entries []HoldEntry) (*HoldMap, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("hold map is empty")
	}
	for i, e := range entries {
		if e.Pixel < 0 {
			return nil, fmt.Errorf("hold %d: negative pixel %d", i, e.Pixel)
		}
		if e.AdditionalPixel() < 0 {
			return nil, fmt.Errorf("hold %d: additional pixel %d is negative", i, e.AdditionalPixel())
		}
	}

	table := make([]HoldEntry, len(entries))
	copy(table, entries)
	return &HoldMap{entries: table}, nil
}

// NewSequentialHoldMap lays holds out one after another along the strip.
// With pixelsPerHold == 2 every hold owns a primary pixel followed by its
// additional pixel.
func NewSequentialHoldMap(holds, pixelsPerHold int) (*HoldMap, error) {
	if holds <= 0 {
		return nil, fmt.Errorf("invalid hold count: %d", holds)
	}
	if pixelsPerHold != 1 && pixelsPerHold != 2 {
		return nil, fmt.Errorf("invalid pixels per hold: %d (must be 1 or 2)", pixelsPerHold)
	}

	entries := make([]HoldEntry, holds)
	for i := range entries {
		entries[i].Pixel = i * pixelsPerHold
		if pixelsPerHold == 2 {
			entries[i].AdditionalOffset = 1
		}
	}
	return NewHoldMap(entries)
}

// Len returns the number of holds in the map
func (m *HoldMap) Len() int {
	return len(m.entries)
}

// Lookup returns the entry for a hold index. The second result is false when
// the index is outside the table.
func (m *HoldMap) Lookup(index int) (HoldEntry, bool) {
	if index < 0 || index >= len(m.entries) {
		return HoldEntry{}, false
	}
	return m.entries[index], true
}

// MaxPixel returns the highest pixel index any hold can write
func (m *HoldMap) MaxPixel() int {
	highest := 0
	for _, e := range m.entries {
		highest = max(highest, e.Pixel)
		if e.HasAdditional() {
			highest = max(highest, e.AdditionalPixel())
		}
	}
	return highest
}
