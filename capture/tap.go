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


package capture

import (
	"context"
	"fmt"

	"github.com/ZaparooProject/go-ft8756/touch"
)

// Source reads and decodes touch reports. *ft8756.Device implements it.
type Source interface {
	ReadTouchReport(ctx context.Context) ([]byte, error)
	Process(report []byte, sink touch.Sink) (touch.Stats, error)
}

// Tap polls a Source and records every report it reads before decoding.
// It satisfies polling.Poller.
type Tap struct {
	source   Source
	recorder *Recorder
}

// NewTap creates a Tap recording reports from source into recorder
func NewTap(source Source, recorder *Recorder) *Tap {
	return &Tap{source: source, recorder: recorder}
}

// Poll reads one report, records it, and dispatches it to sink
func (t *Tap) Poll(ctx context.Context, sink touch.Sink) (touch.Stats, error) {
	report, err := t.source.ReadTouchReport(ctx)
	if err != nil {
		return touch.Stats{}, err
	}
	if err := t.recorder.Record(report); err != nil {
		return touch.Stats{}, fmt.Errorf("cannot record report: %w", err)
	}
	return t.source.Process(report, sink)
}
