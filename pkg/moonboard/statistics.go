// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package moonboard

import (
	"errors"
	"fmt"
	"time"
)

// Statistics tracks problem and hold counters
type Statistics struct {
	StartTime      time.Time
	LastUpdateTime time.Time

	// Counters
	Problems         uint64
	RenderErrors     uint64
	PrimaryWrites    uint64
	AdditionalWrites uint64
	DiscardedHolds   uint64
	EmptyTokens      uint64
	UnknownKinds     uint64
	InvalidIndexes   uint64
	OutOfRange       uint64
	Overflows        uint64
	AutoOffs         uint64

	// Rates (calculated)
	ProblemRate float64 // problems/min
}

// NewStatistics creates a new statistics tracker
func NewStatistics() *Statistics {
	now := time.Now()
	return &Statistics{
		StartTime:      now,
		LastUpdateTime: now,
	}
}

// Update records the outcome of a render
func (s *Statistics) Update(result RenderResult, renderErr error) {
	s.Problems++
	s.LastUpdateTime = time.Now()

	if renderErr != nil {
		s.RenderErrors++
	}

	for _, w := range result.Writes {
		if w.Additional {
			s.AdditionalWrites++
		} else {
			s.PrimaryWrites++
		}
	}

	for _, err := range result.Discarded {
		s.DiscardedHolds++
		switch {
		case errors.Is(err, ErrEmptyToken):
			s.EmptyTokens++
		case errors.Is(err, ErrUnknownKind):
			s.UnknownKinds++
		case errors.Is(err, ErrInvalidIndex):
			s.InvalidIndexes++
		case errors.Is(err, ErrHoldOutOfRange):
			s.OutOfRange++
		}
	}
}

// RecordOverflow counts a payload discarded for exceeding MaxPayloadSize
func (s *Statistics) RecordOverflow() {
	s.Overflows++
	s.LastUpdateTime = time.Now()
}

// RecordAutoOff counts an inactivity clear
func (s *Statistics) RecordAutoOff() {
	s.AutoOffs++
	s.LastUpdateTime = time.Now()
}

// CalculateRates updates the problem rate
func (s *Statistics) CalculateRates() {
	elapsed := time.Since(s.StartTime).Minutes()
	if elapsed > 0 {
		s.ProblemRate = float64(s.Problems) / elapsed
	}
}

// Summary returns a one-line summary
func (s *Statistics) Summary() string {
	return fmt.Sprintf("problems=%d holds=%d additional=%d discarded=%d overflows=%d auto_off=%d",
		s.Problems, s.PrimaryWrites, s.AdditionalWrites, s.DiscardedHolds, s.Overflows, s.AutoOffs)
}
