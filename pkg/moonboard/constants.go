// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package moonboard implements the MoonBoard problem-string protocol and the
// hold-to-LED rendering engine.
//
// A problem arrives as a framed character stream such as "~Dl#S12,R5,E20#".
// The Parser extracts the payload one byte at a time, the payload is split
// into typed holds, and the Renderer maps every hold through a HoldMap onto
// one or two pixels of an addressable LED strip.
package moonboard

// Protocol framing bytes
const (
	OptionByte     = '~' // Starts the optional configuration prefix
	AdditionalByte = 'D' // Option: render additional LEDs
	StartByte      = 'l' // Starts a problem message
	DelimiterByte  = '#' // Opens and closes the payload
	SeparatorByte  = ',' // Separates hold tokens inside the payload
)

// Payload limits
const (
	// MaxPayloadSize bounds the accumulated payload. A full board of
	// 198 holds encodes to roughly 1000 bytes.
	MaxPayloadSize = 2048
)

// Board defaults (MoonBoard: 11 columns x 18 rows)
const (
	DefaultColumns   = 11
	DefaultRows      = 18
	DefaultHoldCount = DefaultColumns * DefaultRows
)

// Brightness defaults
const (
	DefaultBrightness           = 150
	DefaultAdditionalBrightness = 50
)

// ParserState is the state of the frame parser
type ParserState int

// Parser states
const (
	StateIdle ParserState = iota
	StateAwaitOptionOrStart
	StateAwaitPayloadStart
	StateAccumulating
	StatePayloadComplete
)

// String returns the state name
func (s ParserState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateAwaitOptionOrStart:
		return "AWAIT_OPTION_OR_START"
	case StateAwaitPayloadStart:
		return "AWAIT_PAYLOAD_START"
	case StateAccumulating:
		return "ACCUMULATING"
	case StatePayloadComplete:
		return "PAYLOAD_COMPLETE"
	default:
		return "UNKNOWN"
	}
}
