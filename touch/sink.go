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

package touch

import (
	"errors"
	"fmt"
)

// Sink receives decoded contacts.
//
// Contact is called once per active slot and Sync exactly once after the
// last slot of a report. Individual Contact calls are not synchronization
// points; consumers must wait for Sync before treating a frame as complete.
// Liftoff is left to the sink, inferred from a slot's absence between syncs.
type Sink interface {
	Contact(sample ContactSample) error
	Sync() error
}

// Dispatch forwards samples to the sink followed by one Sync
func Dispatch(sink Sink, samples []ContactSample) error {
	for _, s := range samples {
		if err := sink.Contact(s); err != nil {
			return fmt.Errorf("contact slot %d: %w", s.Slot, err)
		}
	}
	if err := sink.Sync(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	return nil
}

// Process decodes a report and dispatches it. Idle reports emit nothing.
func Process(report []byte, bounds Bounds, sink Sink) (Stats, error) {
	samples, stats, err := Decode(report, bounds)
	if err != nil || stats.Idle {
		return stats, err
	}
	return stats, Dispatch(sink, samples)
}

// Collector is a Sink that keeps every synced frame in memory
type Collector struct {
	pending []ContactSample
	Frames  [][]ContactSample
}

// Contact buffers a sample until the next Sync
func (c *Collector) Contact(sample ContactSample) error {
	c.pending = append(c.pending, sample)
	return nil
}

// Sync closes the current frame
func (c *Collector) Sync() error {
	c.Frames = append(c.Frames, c.pending)
	c.pending = nil
	return nil
}

// Last returns the most recent synced frame
func (c *Collector) Last() []ContactSample {
	if len(c.Frames) == 0 {
		return nil
	}
	return c.Frames[len(c.Frames)-1]
}

// Tee returns a Sink that forwards to every sink in order
func Tee(sinks ...Sink) Sink {
	return teeSink(sinks)
}

type teeSink []Sink

func (t teeSink) Contact(sample ContactSample) error {
	var errs []error
	for _, s := range t {
		if err := s.Contact(sample); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t teeSink) Sync() error {
	var errs []error
	for _, s := range t {
		if err := s.Sync(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
