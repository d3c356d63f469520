// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package strip provides pixel displays for the renderer: an in-memory
// framebuffer and a ws281x LED strip built on top of it.
package strip

import "github.com/Thermoquad/moonlight/pkg/moonboard"

// CommitHook receives a copy of every committed frame
type CommitHook func(seq uint64, frame []moonboard.Color)

// Framebuffer is an in-memory moonboard.Display. Writes go to a pending
// buffer and become visible on Commit. Out-of-range writes are dropped.
type Framebuffer struct {
	pending   []moonboard.Color
	committed []moonboard.Color
	seq       uint64
	dropped   uint64
	hooks     []CommitHook
}

// NewFramebuffer creates a framebuffer with the given number of pixels
func NewFramebuffer(pixels int) *Framebuffer {
	return &Framebuffer{
		pending:   make([]moonboard.Color, pixels),
		committed: make([]moonboard.Color, pixels),
	}
}

// OnCommit registers a hook called after every commit
func (f *Framebuffer) OnCommit(hook CommitHook) {
	f.hooks = append(f.hooks, hook)
}

// Len returns the number of pixels
func (f *Framebuffer) Len() int {
	return len(f.pending)
}

// SetPixel sets a pending pixel
func (f *Framebuffer) SetPixel(index int, c moonboard.Color) {
	if index < 0 || index >= len(f.pending) {
		f.dropped++
		return
	}
	f.pending[index] = c
}

// ClearAll sets every pending pixel to c
func (f *Framebuffer) ClearAll(c moonboard.Color) {
	for i := range f.pending {
		f.pending[i] = c
	}
}

// ShiftRight moves pending pixels n places towards the end of the strip.
// The first n pixels keep their previous value.
func (f *Framebuffer) ShiftRight(n int) {
	if n <= 0 || n >= len(f.pending) {
		return
	}
	copy(f.pending[n:], f.pending[:len(f.pending)-n])
}

// Commit publishes the pending buffer
func (f *Framebuffer) Commit() error {
	copy(f.committed, f.pending)
	f.seq++
	for _, hook := range f.hooks {
		frame := make([]moonboard.Color, len(f.committed))
		copy(frame, f.committed)
		hook(f.seq, frame)
	}
	return nil
}

// Pending returns the pending buffer. The slice is owned by the framebuffer.
func (f *Framebuffer) Pending() []moonboard.Color {
	return f.pending
}

// Frame returns a copy of the last committed frame
func (f *Framebuffer) Frame() []moonboard.Color {
	frame := make([]moonboard.Color, len(f.committed))
	copy(frame, f.committed)
	return frame
}

// Pixel returns a committed pixel
func (f *Framebuffer) Pixel(index int) moonboard.Color {
	if index < 0 || index >= len(f.committed) {
		return moonboard.Color{}
	}
	return f.committed[index]
}

// Commits returns the number of commits so far
func (f *Framebuffer) Commits() uint64 {
	return f.seq
}

// Dropped returns the number of out-of-range writes
func (f *Framebuffer) Dropped() uint64 {
	return f.dropped
}
