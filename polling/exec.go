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

package polling

import (
	"context"
)

// request is an operation waiting for the loop to hand over the device
type request struct {
	ctx       context.Context
	operation func(ctx context.Context) error
	result    chan error
}

// Do runs operation on the loop goroutine between two report cycles.
//
// The device is not reentrant, so anything else that talks to it while the
// Monitor runs (sleep, register reads) must go through Do. It blocks until
// the operation has run, ctx is done, or the loop stops.
func (m *Monitor) Do(ctx context.Context, operation func(ctx context.Context) error) error {
	if !m.running.Load() {
		return ErrMonitorNotRunning
	}

	// one request at a time
	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.stopMu.Lock()
	done := m.done
	m.stopMu.Unlock()

	req := &request{
		ctx:       ctx,
		operation: operation,
		result:    make(chan error, 1),
	}
	m.pending.Store(req)

	select {
	case err := <-req.result:
		return err
	case <-ctx.Done():
		m.pending.CompareAndSwap(req, nil)
		return ctx.Err()
	case <-done:
		m.pending.CompareAndSwap(req, nil)
		select {
		case err := <-req.result:
			return err
		default:
			return ErrMonitorStopped
		}
	}
}

// processPending runs the queued operation, if any
func (m *Monitor) processPending() {
	req := m.pending.Load()
	if req == nil || !m.pending.CompareAndSwap(req, nil) {
		return
	}

	if err := req.ctx.Err(); err != nil {
		req.result <- err
		return
	}
	req.result <- req.operation(req.ctx)
}

// failPending answers a request that arrived as the loop was exiting
func (m *Monitor) failPending() {
	if req := m.pending.Swap(nil); req != nil {
		req.result <- ErrMonitorStopped
	}
}
