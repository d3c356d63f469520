// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package strip

import (
	"context"
	"time"

	"github.com/Thermoquad/moonlight/pkg/moonboard"
)

// Shifter is a display that can shift its pixels along the strip
type Shifter interface {
	moonboard.Display
	Len() int
	ShiftRight(n int)
}

// SelfTest wipes each color along the whole strip, one pixel per step, then
// turns the strip off.
func SelfTest(ctx context.Context, d Shifter, colors []moonboard.Color, step time.Duration) error {
	var ticker *time.Ticker
	if step > 0 {
		ticker = time.NewTicker(step)
		defer ticker.Stop()
	}

	for _, c := range colors {
		d.SetPixel(0, c)
		for i := 0; i < d.Len(); i++ {
			d.ShiftRight(1)
			if err := d.Commit(); err != nil {
				return err
			}

			if ticker == nil {
				if err := ctx.Err(); err != nil {
					return err
				}
				continue
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}
	}

	d.ClearAll(moonboard.Color{})
	return d.Commit()
}
