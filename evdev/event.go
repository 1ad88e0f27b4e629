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

// Package evdev turns decoded touch frames into Linux input events using
// the multitouch type B slot protocol.
package evdev

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

// Event types
const (
	EvSyn = 0x00
	EvKey = 0x01
	EvAbs = 0x03
)

// Event codes
const (
	SynReport = 0x00

	BtnTouch = 0x14A

	AbsMTSlot       = 0x2F
	AbsMTTouchMajor = 0x30
	AbsMTPositionX  = 0x35
	AbsMTPositionY  = 0x36
	AbsMTTrackingID = 0x39
	AbsMTPressure   = 0x3A

	// InputPropDirect marks a touchscreen rather than a touchpad
	InputPropDirect = 0x01
)

// ErrShortEvent is returned when decoding a truncated event stream
var ErrShortEvent = errors.New("truncated input event")

// Event is one struct input_event
type Event struct {
	Time  time.Time
	Type  uint16
	Code  uint16
	Value int32
}

func (e Event) String() string {
	return fmt.Sprintf("type=0x%02X code=0x%03X value=%d", e.Type, e.Code, e.Value)
}

// EventSize is the size of struct input_event on this platform
const EventSize = 2*timevalWord + 8

// AppendEvent appends the kernel encoding of ev to buf
func AppendEvent(buf []byte, ev Event) []byte {
	sec, usec := timeval(ev.Time)
	if timevalWord == 8 {
		buf = binary.NativeEndian.AppendUint64(buf, uint64(sec))
		buf = binary.NativeEndian.AppendUint64(buf, uint64(usec))
	} else {
		buf = binary.NativeEndian.AppendUint32(buf, uint32(sec))
		buf = binary.NativeEndian.AppendUint32(buf, uint32(usec))
	}
	buf = binary.NativeEndian.AppendUint16(buf, ev.Type)
	buf = binary.NativeEndian.AppendUint16(buf, ev.Code)
	return binary.NativeEndian.AppendUint32(buf, uint32(ev.Value))
}

// DecodeEvents parses a stream of input events
func DecodeEvents(data []byte) ([]Event, error) {
	if len(data)%EventSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrShortEvent, len(data))
	}

	events := make([]Event, 0, len(data)/EventSize)
	for off := 0; off < len(data); off += EventSize {
		raw := data[off : off+EventSize]
		var sec, usec int64
		if timevalWord == 8 {
			sec = int64(binary.NativeEndian.Uint64(raw[0:8]))
			usec = int64(binary.NativeEndian.Uint64(raw[8:16]))
		} else {
			sec = int64(int32(binary.NativeEndian.Uint32(raw[0:4])))
			usec = int64(int32(binary.NativeEndian.Uint32(raw[4:8])))
		}
		tail := raw[2*timevalWord:]
		events = append(events, Event{
			Time:  time.Unix(sec, usec*int64(time.Microsecond)),
			Type:  binary.NativeEndian.Uint16(tail[0:2]),
			Code:  binary.NativeEndian.Uint16(tail[2:4]),
			Value: int32(binary.NativeEndian.Uint32(tail[4:8])),
		})
	}
	return events, nil
}
