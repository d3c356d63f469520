// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package moonboard

import "time"

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now, which carries a monotonic reading
type SystemClock struct{}

// Now returns the current time
func (SystemClock) Now() time.Time {
	return time.Now()
}

// InactivityMonitor signals when the display should be turned off because no
// new problem has been loaded for a while
type InactivityMonitor struct {
	timeout time.Duration
	last    time.Time // Zero when unset
}

// NewInactivityMonitor creates a monitor. A timeout <= 0 disables auto-off.
func NewInactivityMonitor(timeout time.Duration) *InactivityMonitor {
	return &InactivityMonitor{timeout: timeout}
}

// Enabled reports whether auto-off is active
func (m *InactivityMonitor) Enabled() bool {
	return m.timeout > 0
}

// Timeout returns the idle threshold
func (m *InactivityMonitor) Timeout() time.Duration {
	return m.timeout
}

// MarkLoaded records that a problem was shown at t
func (m *InactivityMonitor) MarkLoaded(t time.Time) {
	m.last = t
}

// Loaded returns the last load time, or false if unset
func (m *InactivityMonitor) Loaded() (time.Time, bool) {
	return m.last, !m.last.IsZero()
}

// Tick returns true when the idle threshold has been exceeded. The timestamp
// is unset when it fires, so it fires at most once per loaded problem.
func (m *InactivityMonitor) Tick(now time.Time) bool {
	if !m.Enabled() || m.last.IsZero() {
		return false
	}
	if now.Sub(m.last) <= m.timeout {
		return false
	}
	m.last = time.Time{}
	return true
}
