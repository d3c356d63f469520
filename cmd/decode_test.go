// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestDecodeStream(t *testing.T) {
	var out bytes.Buffer
	input := "noise~Dl#S0,R5,E197#l#F7,Z2#"

	if err := decodeStream(strings.NewReader(input), &out); err != nil {
		t.Fatalf("decodeStream() error = %v", err)
	}

	got := out.String()
	if n := strings.Count(got, "PROBLEM"); n != 2 {
		t.Errorf("decoded %d problems, want 2:\n%s", n, got)
	}
	for _, want := range []string{"additional=true", "additional=false", "A1", "K18", "FOOT", "INVALID"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestDecodeStream_Overflow(t *testing.T) {
	var out bytes.Buffer
	input := "l#" + strings.Repeat("S1,", 1000) + "#l#E3#"

	if err := decodeStream(strings.NewReader(input), &out); err != nil {
		t.Fatalf("decodeStream() error = %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "[ERROR]") {
		t.Errorf("expected an overflow error:\n%s", got)
	}
	if !strings.Contains(got, "E3") {
		t.Errorf("parser did not recover after overflow:\n%s", got)
	}
}
