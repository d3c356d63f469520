// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"io"
	"strings"
	"testing"
	"time"
)

func waitDone(t *testing.T, s *streamSource) {
	t.Helper()
	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("reader did not stop")
	}
}

func TestStreamSource_DeliversBytesInOrder(t *testing.T) {
	s := newStreamSource(strings.NewReader("l#S1,E2#"))
	waitDone(t, s)

	if got := s.Available(); got != 8 {
		t.Fatalf("Available() = %d, want 8", got)
	}

	var out []byte
	for s.Available() > 0 {
		b, err := s.ReadByte()
		if err != nil {
			t.Fatalf("ReadByte() error = %v", err)
		}
		out = append(out, b)
	}
	if string(out) != "l#S1,E2#" {
		t.Errorf("read %q, want %q", out, "l#S1,E2#")
	}
	if s.Err() != io.EOF {
		t.Errorf("Err() = %v, want io.EOF", s.Err())
	}
}

func TestStreamSource_ReadByteEmpty(t *testing.T) {
	s := newStreamSource(strings.NewReader(""))
	waitDone(t, s)

	if _, err := s.ReadByte(); err != io.EOF {
		t.Errorf("ReadByte() error = %v, want io.EOF", err)
	}
}

func TestStreamSource_Inject(t *testing.T) {
	s := newStreamSource(nil)

	if !s.Inject([]byte("l#E3#")) {
		t.Fatal("Inject() = false")
	}
	if got := s.Available(); got != 5 {
		t.Fatalf("Available() = %d, want 5", got)
	}

	select {
	case <-s.Done():
		t.Error("source without a reader should never be done")
	default:
	}
}

func TestStreamSource_InjectFull(t *testing.T) {
	s := newStreamSource(nil)

	if s.Inject(make([]byte, streamBufferSize+1)) {
		t.Error("Inject() should refuse data larger than the buffer")
	}
	if got := s.Available(); got != 0 {
		t.Errorf("Available() = %d, want 0", got)
	}
}

// endlessReader returns data on every read
type endlessReader struct{}

func (endlessReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 'x'
	}
	return len(p), nil
}

func TestStreamSource_CloseStopsBlockedReader(t *testing.T) {
	s := newStreamSource(endlessReader{})

	// Wait for the buffer to fill so the reader is blocked on it
	deadline := time.Now().Add(2 * time.Second)
	for s.Available() < streamBufferSize {
		if time.Now().After(deadline) {
			t.Fatal("buffer never filled")
		}
		time.Sleep(time.Millisecond)
	}

	s.Close()
	s.Close()
	waitDone(t, s)
}
