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
	"context"
	"fmt"
	"log/slog"

	"github.com/ZaparooProject/go-ft8756/touch"
)

// ReadTouchReport reads the raw 62-byte touch report
func (d *Device) ReadTouchReport(ctx context.Context) ([]byte, error) {
	report, err := d.session.ReadContext(ctx, RegTouchData, touch.ReportSize, d.config.CRC)
	if err != nil {
		return nil, fmt.Errorf("cannot read touch point data: %w", err)
	}
	return report, nil
}

// Poll reads one touch report, decodes it and dispatches the contacts to
// sink followed by one Sync. Idle reports dispatch nothing.
//
// Poll must not be re-entered while a previous call is running; the
// caller's report loop owns the device for the whole cycle.
func (d *Device) Poll(ctx context.Context, sink touch.Sink) (touch.Stats, error) {
	report, err := d.ReadTouchReport(ctx)
	if err != nil {
		return touch.Stats{}, err
	}
	return d.Process(report, sink)
}

// Process decodes a report that was already read and dispatches it
func (d *Device) Process(report []byte, sink touch.Sink) (touch.Stats, error) {
	stats, err := touch.Process(report, d.config.Bounds, sink)
	if err != nil {
		return stats, err
	}
	if stats.Malformed() > 0 && !stats.Idle {
		debugAttrs(d.logger, "skipped slots",
			slog.Int("invalid_id", stats.InvalidID),
			slog.Int("event_code", stats.EventCode),
			slog.Int("out_of_range", stats.OutOfRange))
	}
	return stats, nil
}

// Sleep puts the controller into its low power mode
func (d *Device) Sleep(ctx context.Context) error {
	if err := d.session.WriteContext(ctx, RegPowerMode, []byte{PowerModeSleep}); err != nil {
		return fmt.Errorf("cannot enter sleep: %w", err)
	}
	return nil
}
