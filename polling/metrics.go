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
	"sync/atomic"
	"time"

	"github.com/ZaparooProject/go-ft8756/touch"
)

// Metrics tracks operational counters of a Monitor
type Metrics struct {
	ReportCycles    int64         // Total number of report reads attempted
	ReadErrors      int64         // Number of failed reads
	Samples         int64         // Contacts dispatched to the sink
	IdleFrames      int64         // Reports that were idle frames
	MalformedSlots  int64         // Slots skipped by the decoder
	LastPollLatency time.Duration // Duration of the last report read
}

type counters struct {
	cycles      atomic.Int64
	readErrors  atomic.Int64
	samples     atomic.Int64
	idleFrames  atomic.Int64
	malformed   atomic.Int64
	lastLatency atomic.Int64 // in nanoseconds
}

// GetMetrics returns current operational metrics
func (m *Monitor) GetMetrics() Metrics {
	return Metrics{
		ReportCycles:    m.counters.cycles.Load(),
		ReadErrors:      m.counters.readErrors.Load(),
		Samples:         m.counters.samples.Load(),
		IdleFrames:      m.counters.idleFrames.Load(),
		MalformedSlots:  m.counters.malformed.Load(),
		LastPollLatency: time.Duration(m.counters.lastLatency.Load()),
	}
}

func (m *Monitor) record(stats touch.Stats) {
	if stats.Idle {
		m.counters.idleFrames.Add(1)
		return
	}
	m.counters.samples.Add(int64(stats.Samples))
	m.counters.malformed.Add(int64(stats.Malformed()))
}
