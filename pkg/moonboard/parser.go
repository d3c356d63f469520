// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package moonboard

import (
	"errors"
	"fmt"
)

// ErrPayloadOverflow is returned when a payload exceeds MaxPayloadSize
var ErrPayloadOverflow = errors.New("payload overflow")

// Parser implements the problem framing state machine.
// It is not safe for concurrent use.
type Parser struct {
	state      ParserState
	buffer     []byte
	additional bool
	clock      Clock
}

// NewParser creates a new frame parser
func NewParser() *Parser {
	return &Parser{
		state:  StateIdle,
		buffer: make([]byte, 0, 256),
		clock:  SystemClock{},
	}
}

// SetClock sets the clock used to timestamp completed problems
func (p *Parser) SetClock(clock Clock) {
	p.clock = clock
}

// Reset returns the parser to idle and drops any buffered payload
func (p *Parser) Reset() {
	p.state = StateIdle
	p.buffer = p.buffer[:0]
	p.additional = false
}

// State returns the current parser state
func (p *Parser) State() ParserState {
	return p.state
}

// Buffered returns the number of payload bytes accumulated so far
func (p *Parser) Buffered() int {
	return len(p.buffer)
}

// UseAdditionalLEDs reports whether the option prefix has been seen for the
// frame in progress
func (p *Parser) UseAdditionalLEDs() bool {
	return p.additional
}

// ParseByte processes a single byte through the parser state machine.
// Returns the completed problem when the closing delimiter arrives, nil
// otherwise. Bytes that do not fit the current state are dropped without an
// error. The only error is ErrPayloadOverflow.
//
// Inside a payload every byte is appended except the frame-start bytes '~'
// and 'l': they abandon the unterminated frame and start a new one, so a
// frame cut off mid-payload never swallows the next message.
//
// After a problem is returned the parser stays in StatePayloadComplete until
// Reset is called; feeding another byte resets it implicitly.
func (p *Parser) ParseByte(b byte) (*Problem, error) {
	if p.state == StatePayloadComplete {
		p.Reset()
	}

	switch p.state {
	case StateIdle:
		switch b {
		case OptionByte:
			p.state = StateAwaitOptionOrStart
		case StartByte:
			p.state = StateAwaitPayloadStart
		}

	case StateAwaitOptionOrStart:
		switch b {
		case AdditionalByte:
			p.additional = true
			p.state = StateAwaitPayloadStart
		case StartByte:
			p.state = StateAwaitPayloadStart
		}

	case StateAwaitPayloadStart:
		if b == DelimiterByte {
			p.buffer = p.buffer[:0]
			p.state = StateAccumulating
		}

	case StateAccumulating:
		switch b {
		case DelimiterByte:
			problem := NewProblemAt(string(p.buffer), p.additional, p.clock.Now())
			p.state = StatePayloadComplete
			return problem, nil

		// Frame-start bytes never occur inside a payload, so they abandon
		// an unterminated frame and restart framing.
		case OptionByte:
			p.Reset()
			p.state = StateAwaitOptionOrStart
		case StartByte:
			p.Reset()
			p.state = StateAwaitPayloadStart

		default:
			if len(p.buffer) >= MaxPayloadSize {
				p.Reset()
				return nil, fmt.Errorf("%w: exceeds %d bytes", ErrPayloadOverflow, MaxPayloadSize)
			}
			p.buffer = append(p.buffer, b)
		}

	default:
		p.Reset()
	}

	return nil, nil
}

// Parse feeds a byte slice through the parser and returns every completed
// problem. Overflow errors are skipped; the parser recovers on the next frame.
func (p *Parser) Parse(data []byte) []*Problem {
	var problems []*Problem
	for _, b := range data {
		problem, err := p.ParseByte(b)
		if err != nil {
			continue
		}
		if problem != nil {
			problems = append(problems, problem)
		}
	}
	return problems
}
