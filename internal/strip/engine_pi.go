// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

//go:build pi

package strip

import (
	ws2811 "github.com/rpi-ws281x/rpi-ws281x-go"
)

// newEngine creates the rpi_ws281x engine. Colors are packed by the Strip in
// the configured order, so the library is told the strip is plain RGB and
// runs at full brightness; brightness is applied by the palette.
func newEngine(pixels, gpioPin int) (engine, error) {
	opt := ws2811.DefaultOptions
	opt.Channels[0].GpioPin = gpioPin
	opt.Channels[0].LedCount = pixels
	opt.Channels[0].Brightness = 255
	opt.Channels[0].StripeType = ws2811.WS2811StripRGB

	dev, err := ws2811.MakeWS2811(&opt)
	if err != nil {
		return nil, err
	}
	return dev, nil
}
