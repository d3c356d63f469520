// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package moonboard

import (
	"strings"
	"testing"
)

func TestHoldPosition(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{0, "A1"},
		{17, "A18"},
		{18, "B18"},
		{35, "B1"},
		{36, "C1"},
		{197, "K18"},
	}

	for _, tt := range tests {
		pos, ok := HoldPosition(tt.index)
		if !ok {
			t.Errorf("HoldPosition(%d) not ok", tt.index)
			continue
		}
		if pos.String() != tt.want {
			t.Errorf("HoldPosition(%d) = %s, want %s", tt.index, pos, tt.want)
		}
	}
}

func TestHoldPosition_OutOfRange(t *testing.T) {
	for _, index := range []int{-1, DefaultHoldCount, 1000} {
		if _, ok := HoldPosition(index); ok {
			t.Errorf("HoldPosition(%d) should fail", index)
		}
	}
}

func TestHoldIndex_RoundTrip(t *testing.T) {
	for i := 0; i < DefaultHoldCount; i++ {
		pos, _ := HoldPosition(i)
		got, ok := HoldIndex(pos)
		if !ok || got != i {
			t.Fatalf("HoldIndex(%v) = %d, %v; want %d", pos, got, ok, i)
		}
	}

	if _, ok := HoldIndex(Position{Column: DefaultColumns}); ok {
		t.Error("HoldIndex should reject column past K")
	}
}

// ============================================================================
// Formatter Tests
// ============================================================================

func TestFormatHolds(t *testing.T) {
	out := FormatHolds(NewProblem("S0,X5,E197", true))

	for _, want := range []string{"additional=true", "S0", "START", "A1", "INVALID", "E197", "K18"} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatHolds() missing %q:\n%s", want, out)
		}
	}
}

func TestFormatProblem(t *testing.T) {
	r, _, palette := newTestRenderer(t)
	p := NewProblem("S1,E2,Q3", false)

	result, err := r.Render(p)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	out := FormatProblem(p, result, palette)
	for _, want := range []string{"Payload: S1,E2,Q3", "green", "red", "DISCARDED"} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatProblem() missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "additional LEDs") {
		t.Error("FormatProblem() should not mention additional LEDs")
	}
}
