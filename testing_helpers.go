// go-ft8756
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-ft8756.
//
// go-ft8756 is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-ft8756 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-ft8756; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package ft8756

import (
	"errors"
	"fmt"
	"sync"
)

// ErrNoMockResponse is returned by MockBus when nothing is queued for a transfer
var ErrNoMockResponse = errors.New("mock bus: no response queued")

type mockStep struct {
	err error
	rx  []byte
}

// MockBus is a scripted Bus for tests.
//
// Each Tx consumes the next queued step. Steps are either a response to copy
// into the receive buffer or an error to return. When the queue is empty
// ResponseFunc is consulted; without one the transfer fails with
// ErrNoMockResponse.
type MockBus struct {
	ResponseFunc func(tx []byte) ([]byte, error)
	steps        []mockStep
	sent         [][]byte
	mu           sync.Mutex
	maxTx        int
	closed       bool
}

// NewMockBus creates an empty mock bus
func NewMockBus() *MockBus {
	return &MockBus{}
}

// Queue appends responses to the script in order
func (m *MockBus) Queue(responses ...[]byte) *MockBus {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rx := range responses {
		m.steps = append(m.steps, mockStep{rx: append([]byte(nil), rx...)})
	}
	return m
}

// QueueError appends a failing transfer to the script
func (m *MockBus) QueueError(err error) *MockBus {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = append(m.steps, mockStep{err: err})
	return m
}

// SetMaxTxSize makes the mock report a transfer limit
func (m *MockBus) SetMaxTxSize(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxTx = n
}

// Tx records w and answers with the next scripted step
func (m *MockBus) Tx(w, r []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrBusClosed
	}
	if len(w) != len(r) {
		return fmt.Errorf("mock bus: tx %d bytes, rx %d bytes", len(w), len(r))
	}
	m.sent = append(m.sent, append([]byte(nil), w...))

	var (
		rx  []byte
		err error
	)
	switch {
	case len(m.steps) > 0:
		step := m.steps[0]
		m.steps = m.steps[1:]
		rx, err = step.rx, step.err
	case m.ResponseFunc != nil:
		rx, err = m.ResponseFunc(w)
	default:
		err = ErrNoMockResponse
	}
	if err != nil {
		return err
	}
	copy(r, rx)
	return nil
}

// CallCount returns the number of transfers attempted
func (m *MockBus) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

// Sent returns a copy of every frame clocked out so far
func (m *MockBus) Sent() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.sent))
	for i, f := range m.sent {
		out[i] = append([]byte(nil), f...)
	}
	return out
}

// Pending returns the number of scripted steps not yet consumed
func (m *MockBus) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.steps)
}

// MaxTxSize returns the configured limit, 0 for none
func (m *MockBus) MaxTxSize() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxTx
}

// Close marks the bus closed; later transfers fail with ErrBusClosed
func (m *MockBus) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Type returns BusMock
func (*MockBus) Type() BusType {
	return BusMock
}

// String names the bus in error messages
func (*MockBus) String() string {
	return "mock"
}
