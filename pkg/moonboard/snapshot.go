// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package moonboard

import (
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Snapshot is a committed frame as sent to remote viewers
type Snapshot struct {
	Seq       uint64   `cbor:"0,keyasint"`
	Timestamp int64    `cbor:"1,keyasint"` // Unix milliseconds
	Pixels    []uint32 `cbor:"2,keyasint"` // 0xRRGGBB per pixel
}

// NewSnapshot captures a frame
func NewSnapshot(seq uint64, t time.Time, pixels []Color) Snapshot {
	packed := make([]uint32, len(pixels))
	for i, c := range pixels {
		packed[i] = c.RGB()
	}
	return Snapshot{
		Seq:       seq,
		Timestamp: t.UnixMilli(),
		Pixels:    packed,
	}
}

// Colors unpacks the snapshot pixels
func (s Snapshot) Colors() []Color {
	colors := make([]Color, len(s.Pixels))
	for i, v := range s.Pixels {
		colors[i] = ColorFromRGB(v)
	}
	return colors
}

// Time returns the snapshot timestamp
func (s Snapshot) Time() time.Time {
	return time.UnixMilli(s.Timestamp)
}

// EncodeSnapshot encodes a snapshot as CBOR
func EncodeSnapshot(s Snapshot) ([]byte, error) {
	data, err := cbor.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot decodes a CBOR snapshot
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if len(data) == 0 {
		return s, fmt.Errorf("empty snapshot")
	}
	if err := cbor.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return s, nil
}
