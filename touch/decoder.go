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

// Package touch decodes FT8756 touch reports into multi-touch contact samples.
//
// A report is a fixed 62-byte buffer read from register 0x01. Slot i of the
// report starts at byte 6*i; each slot yields at most one ContactSample.
// Malformed slots are skipped and counted, never returned as errors, so a
// report with a few bad slots still produces the good ones.
package touch

import (
	"errors"
	"fmt"
)

// Report layout
const (
	ReportSize = 62
	MaxSlots   = 10
	slotStride = 6
	idleHeader = 6
)

// Contact value limits
const (
	MaxPressure = 255
	MaxArea     = 15
	MaxCoord    = 0x0FFF
)

// Idle sentinels: a report whose first six bytes are all one of these has no data
const (
	SentinelEmpty   = 0xFF
	SentinelInvalid = 0xEF
)

// ErrReportSize is returned for a buffer that is not exactly ReportSize bytes
var ErrReportSize = errors.New("invalid touch report size")

// Slot identifies one of the ten simultaneous contact tracks
type Slot uint8

// EventCode is the 2-bit event field in the top of each slot's X-high byte
type EventCode uint8

const (
	EventDown     EventCode = 0x0
	EventUp       EventCode = 0x1
	EventContact  EventCode = 0x2
	EventReserved EventCode = 0x3
)

// String returns the event name
func (e EventCode) String() string {
	switch e {
	case EventDown:
		return "down"
	case EventUp:
		return "up"
	case EventContact:
		return "contact"
	default:
		return "reserved"
	}
}

// ContactSample is one decoded finger in one report
type ContactSample struct {
	X        uint16
	Y        uint16
	Slot     Slot
	Event    EventCode
	Pressure uint8
	Area     uint8
	Down     bool
}

func (s ContactSample) String() string {
	return fmt.Sprintf("slot=%d %s x=%d y=%d p=%d area=%d", s.Slot, s.Event, s.X, s.Y, s.Pressure, s.Area)
}

// Bounds is the panel's maximum valid coordinate on each axis (inclusive)
type Bounds struct {
	MaxX uint16
	MaxY uint16
}

// DefaultBounds matches the 1080x2400 panel the controller ships with
func DefaultBounds() Bounds {
	return Bounds{MaxX: 1080 - 1, MaxY: 2400 - 1}
}

// Contains reports whether x and y are within the panel
func (b Bounds) Contains(x, y uint16) bool {
	return x <= b.MaxX && y <= b.MaxY
}

// Skip says why a slot produced no sample
type Skip uint8

const (
	// NotSkipped means the slot decoded to a sample
	NotSkipped Skip = iota
	// SkipInvalidID means the finger id was 10 or above
	SkipInvalidID
	// SkipEventCode means the event code was neither down nor contact
	SkipEventCode
	// SkipOutOfRange means the coordinates fell outside the panel bounds
	SkipOutOfRange
)

// String returns the skip reason
func (s Skip) String() string {
	switch s {
	case NotSkipped:
		return "none"
	case SkipInvalidID:
		return "invalid finger id"
	case SkipEventCode:
		return "unsupported event code"
	case SkipOutOfRange:
		return "out of range"
	default:
		return fmt.Sprintf("skip(%d)", uint8(s))
	}
}

// Stats summarizes one decode
type Stats struct {
	Samples    int
	InvalidID  int
	EventCode  int
	OutOfRange int
	Idle       bool
}

// Malformed returns the number of slots that were skipped
func (s Stats) Malformed() int {
	return s.InvalidID + s.EventCode + s.OutOfRange
}

func (s *Stats) count(skip Skip) {
	switch skip {
	case NotSkipped:
		s.Samples++
	case SkipInvalidID:
		s.InvalidID++
	case SkipEventCode:
		s.EventCode++
	case SkipOutOfRange:
		s.OutOfRange++
	}
}

// IsIdle reports whether the report is an idle frame
func IsIdle(report []byte) bool {
	if len(report) < idleHeader {
		return false
	}
	for _, b := range report[:idleHeader] {
		if b != SentinelEmpty && b != SentinelInvalid {
			return false
		}
	}
	return true
}

// DecodeSlot decodes slot index of a report.
// A report shorter than ReportSize or an index outside [0, MaxSlots)
// is reported as SkipInvalidID.
func DecodeSlot(report []byte, index int, bounds Bounds) (ContactSample, Skip) {
	if index < 0 || index >= MaxSlots || len(report) < ReportSize {
		return ContactSample{}, SkipInvalidID
	}
	base := slotStride * index

	id := report[base+4] >> 4
	if id >= MaxSlots {
		return ContactSample{}, SkipInvalidID
	}

	event := EventCode(report[base+2] >> 6)
	if event != EventDown && event != EventContact {
		return ContactSample{}, SkipEventCode
	}

	x := uint16(report[base+2]&0x0F)<<8 | uint16(report[base+3])
	y := uint16(report[base+4]&0x0F)<<8 | uint16(report[base+5])
	if !bounds.Contains(x, y) {
		return ContactSample{}, SkipOutOfRange
	}

	return ContactSample{
		Slot:     Slot(id),
		Event:    event,
		X:        x,
		Y:        y,
		Pressure: pressure(report[base+6]),
		Area:     area(report[base+7] >> 4),
		Down:     true,
	}, NotSkipped
}

// pressure promotes zero to the minimum touching value
func pressure(raw byte) uint8 {
	p := int(raw)
	if p > MaxPressure {
		p = MaxPressure
	}
	if p == 0 {
		p = 1
	}
	return uint8(p)
}

func area(raw byte) uint8 {
	switch {
	case raw == 0:
		return 1
	case raw > MaxArea:
		return MaxArea
	default:
		return raw
	}
}

// Decode turns a report into its active contacts.
// An idle report returns no samples and Stats.Idle set.
func Decode(report []byte, bounds Bounds) ([]ContactSample, Stats, error) {
	var stats Stats
	if len(report) != ReportSize {
		return nil, stats, fmt.Errorf("%w: %d bytes", ErrReportSize, len(report))
	}

	if IsIdle(report) {
		stats.Idle = true
		return nil, stats, nil
	}

	samples := make([]ContactSample, 0, MaxSlots)
	for i := 0; i < MaxSlots; i++ {
		sample, skip := DecodeSlot(report, i, bounds)
		stats.count(skip)
		if skip == NotSkipped {
			samples = append(samples, sample)
		}
	}
	return samples, stats, nil
}
