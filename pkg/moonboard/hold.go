// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package moonboard

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"
)

// HoldKind is the role of a hold within a problem
type HoldKind int

const (
	HoldUnknown HoldKind = iota
	HoldStart
	HoldRight
	HoldLeft
	HoldMatch
	HoldFoot
	HoldPower // Shares the right-hand colour
	HoldEnd
)

// Token decoding errors
var (
	ErrEmptyToken     = errors.New("empty hold token")
	ErrUnknownKind    = errors.New("unknown hold kind")
	ErrInvalidIndex   = errors.New("invalid hold index")
	ErrHoldOutOfRange = errors.New("hold index out of range")
)

// HoldError records why a single hold token was discarded
type HoldError struct {
	Token string
	Err   error
}

// Error implements the error interface
func (e *HoldError) Error() string {
	return fmt.Sprintf("hold %q: %v", e.Token, e.Err)
}

// Unwrap returns the underlying sentinel error
func (e *HoldError) Unwrap() error {
	return e.Err
}

// ParseHoldKind maps a kind character to its HoldKind.
// Unrecognised characters yield HoldUnknown.
func ParseHoldKind(c byte) HoldKind {
	switch c {
	case 'S':
		return HoldStart
	case 'R':
		return HoldRight
	case 'L':
		return HoldLeft
	case 'M':
		return HoldMatch
	case 'F':
		return HoldFoot
	case 'P':
		return HoldPower
	case 'E':
		return HoldEnd
	default:
		return HoldUnknown
	}
}

// Byte returns the wire character for the kind, or 0 for HoldUnknown
func (k HoldKind) Byte() byte {
	switch k {
	case HoldStart:
		return 'S'
	case HoldRight:
		return 'R'
	case HoldLeft:
		return 'L'
	case HoldMatch:
		return 'M'
	case HoldFoot:
		return 'F'
	case HoldPower:
		return 'P'
	case HoldEnd:
		return 'E'
	default:
		return 0
	}
}

// String returns the kind name
func (k HoldKind) String() string {
	switch k {
	case HoldStart:
		return "START"
	case HoldRight:
		return "RIGHT"
	case HoldLeft:
		return "LEFT"
	case HoldMatch:
		return "MATCH"
	case HoldFoot:
		return "FOOT"
	case HoldPower:
		return "POWER"
	case HoldEnd:
		return "END"
	default:
		return "UNKNOWN"
	}
}

// HasAdditional reports whether holds of this kind may light an additional LED.
// End holds never do.
func (k HoldKind) HasAdditional() bool {
	switch k {
	case HoldStart, HoldRight, HoldLeft, HoldMatch, HoldFoot, HoldPower:
		return true
	default:
		return false
	}
}

// Hold is a decoded hold token
type Hold struct {
	Kind  HoldKind
	Index int
}

// String returns the wire form of the hold, e.g. "S12"
func (h Hold) String() string {
	c := h.Kind.Byte()
	if c == 0 {
		c = '?'
	}
	return string(c) + strconv.Itoa(h.Index)
}

// ParseHold decodes one raw hold token. The first byte selects the kind and
// the remainder must be one or more decimal digits.
func ParseHold(token string) (Hold, error) {
	if token == "" {
		return Hold{}, &HoldError{Token: token, Err: ErrEmptyToken}
	}

	kind := ParseHoldKind(token[0])
	if kind == HoldUnknown {
		return Hold{}, &HoldError{Token: token, Err: ErrUnknownKind}
	}

	digits := token[1:]
	if digits == "" {
		return Hold{}, &HoldError{Token: token, Err: ErrInvalidIndex}
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return Hold{}, &HoldError{Token: token, Err: ErrInvalidIndex}
		}
	}

	index, err := strconv.Atoi(digits)
	if err != nil {
		// Only reachable on overflow
		return Hold{}, &HoldError{Token: token, Err: ErrInvalidIndex}
	}

	return Hold{Kind: kind, Index: index}, nil
}

// Tokens splits a payload into raw hold tokens in wire order.
// An empty payload yields a single empty token. Every range over the
// returned sequence starts again from the first token.
func Tokens(payload string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for token := range strings.SplitSeq(payload, string(SeparatorByte)) {
			if !yield(token) {
				return
			}
		}
	}
}

// Holds decodes every token of a payload in wire order. Tokens that fail to
// decode are yielded with a non-nil *HoldError and a zero Hold.
func Holds(payload string) iter.Seq2[Hold, error] {
	return func(yield func(Hold, error) bool) {
		for token := range Tokens(payload) {
			if !yield(ParseHold(token)) {
				return
			}
		}
	}
}
