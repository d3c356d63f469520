// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad
//
// Moonlight - MoonBoard LED Controller
//
// Receives MoonBoard problems over a serial or WebSocket link and lights
// the holds on an addressable LED strip.

package main

import (
	"os"

	"github.com/Thermoquad/moonlight/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
