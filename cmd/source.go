// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"errors"
	"io"
	"sync"

	log "github.com/sirupsen/logrus"
)

// streamBufferSize bounds the bytes held between the reader and the
// control loop
const streamBufferSize = 4096

// streamSource adapts a blocking reader to moonboard.ByteSource. A
// goroutine reads the connection into a buffered channel which the control
// loop drains without blocking. A nil reader gives a source fed only by
// Inject.
type streamSource struct {
	bytes chan byte
	done  chan struct{}
	stop  chan struct{}
	once  sync.Once

	mu  sync.Mutex
	err error
}

func newStreamSource(r io.Reader) *streamSource {
	s := &streamSource{
		bytes: make(chan byte, streamBufferSize),
		done:  make(chan struct{}),
		stop:  make(chan struct{}),
	}
	if r != nil {
		go s.readLoop(r)
	}
	return s
}

func (s *streamSource) readLoop(r io.Reader) {
	defer close(s.done)

	buf := make([]byte, 128)
	for {
		n, err := r.Read(buf)
		for i := 0; i < n; i++ {
			select {
			case s.bytes <- buf[i]:
			case <-s.stop:
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, ErrConnectionClosed) {
				log.WithError(err).Warn("Read error")
			}
			s.mu.Lock()
			s.err = err
			s.mu.Unlock()
			return
		}
	}
}

// Available returns the number of buffered bytes
func (s *streamSource) Available() int {
	return len(s.bytes)
}

// ReadByte returns the next buffered byte, or io.EOF when none is buffered
func (s *streamSource) ReadByte() (byte, error) {
	select {
	case b := <-s.bytes:
		return b, nil
	default:
		return 0, io.EOF
	}
}

// Inject queues locally generated bytes behind the received ones. It
// reports false if the buffer is too full to take all of data.
func (s *streamSource) Inject(data []byte) bool {
	if len(data) > cap(s.bytes)-len(s.bytes) {
		return false
	}
	for _, b := range data {
		select {
		case s.bytes <- b:
		default:
			return false
		}
	}
	return true
}

// Close stops the reader goroutine. A Read already blocked in the
// connection returns once the connection itself is closed.
func (s *streamSource) Close() {
	s.once.Do(func() { close(s.stop) })
}

// Done is closed when the reader stops
func (s *streamSource) Done() <-chan struct{} {
	return s.done
}

// Err returns the error that stopped the reader
func (s *streamSource) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
