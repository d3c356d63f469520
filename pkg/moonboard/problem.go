// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package moonboard

import (
	"iter"
	"time"
)

// Problem is a completed payload handed from the parser to the renderer
type Problem struct {
	payload    string
	additional bool
	timestamp  time.Time
}

// NewProblem creates a problem from a raw payload, stamped with the
// current time
func NewProblem(payload string, additional bool) *Problem {
	return NewProblemAt(payload, additional, time.Now())
}

// NewProblemAt creates a problem completed at t
func NewProblemAt(payload string, additional bool, t time.Time) *Problem {
	return &Problem{
		payload:    payload,
		additional: additional,
		timestamp:  t,
	}
}

// Payload returns the raw comma separated hold tokens
func (p *Problem) Payload() string {
	return p.payload
}

// UseAdditionalLEDs reports whether the "~D" option preceded the frame
func (p *Problem) UseAdditionalLEDs() bool {
	return p.additional
}

// Timestamp returns when the frame was completed
func (p *Problem) Timestamp() time.Time {
	return p.timestamp
}

// Tokens iterates over the raw hold tokens in wire order
func (p *Problem) Tokens() iter.Seq[string] {
	return Tokens(p.payload)
}

// Holds iterates over the decoded holds in wire order
func (p *Problem) Holds() iter.Seq2[Hold, error] {
	return Holds(p.payload)
}
