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

package evdev

import (
	"fmt"
	"io"
	"time"

	"github.com/ZaparooProject/go-ft8756/touch"
)

// Writer is a touch.Sink that encodes each frame as multitouch input events.
//
// Contacts are buffered until Sync, which writes the whole frame ending in
// SYN_REPORT with one Write call. Slots present in the previous frame but
// missing from this one are released with tracking id -1, and BTN_TOUCH
// follows whether any slot is held. Writer is not safe for concurrent use.
type Writer struct {
	w        io.Writer
	props    Properties
	now      func() time.Time
	pending  []touch.ContactSample
	buf      []byte
	tracker  touch.SlotTracker
	touching bool
}

// NewWriter creates a Writer emitting events to w
func NewWriter(w io.Writer, props Properties) *Writer {
	return &Writer{
		w:     w,
		props: props,
		now:   time.Now,
	}
}

// Contact buffers a sample for the current frame
func (w *Writer) Contact(sample touch.ContactSample) error {
	w.pending = append(w.pending, sample)
	return nil
}

// Sync writes the buffered frame
func (w *Writer) Sync() error {
	ts := w.now()
	w.buf = w.buf[:0]

	for _, s := range w.pending {
		id, isNew := w.tracker.Touch(s.Slot)
		if id < 0 {
			continue
		}
		w.emit(ts, EvAbs, AbsMTSlot, int32(s.Slot))
		if isNew {
			w.emit(ts, EvAbs, AbsMTTrackingID, id)
		}
		x, y := w.props.Apply(s.X, s.Y)
		w.emit(ts, EvAbs, AbsMTPositionX, x)
		w.emit(ts, EvAbs, AbsMTPositionY, y)
		w.emit(ts, EvAbs, AbsMTTouchMajor, int32(s.Area))
		w.emit(ts, EvAbs, AbsMTPressure, int32(s.Pressure))
	}
	w.pending = w.pending[:0]

	w.release(ts, w.tracker.EndFrame())
	return w.flush(ts)
}

// Release lifts every held contact, for shutdown
func (w *Writer) Release() error {
	ts := w.now()
	w.buf = w.buf[:0]
	w.pending = w.pending[:0]
	w.release(ts, w.tracker.Reset())
	return w.flush(ts)
}

func (w *Writer) release(ts time.Time, lifted []touch.Slot) {
	for _, slot := range lifted {
		w.emit(ts, EvAbs, AbsMTSlot, int32(slot))
		w.emit(ts, EvAbs, AbsMTTrackingID, -1)
	}
}

func (w *Writer) flush(ts time.Time) error {
	if touching := w.tracker.Count() > 0; touching != w.touching {
		w.touching = touching
		var v int32
		if touching {
			v = 1
		}
		w.emit(ts, EvKey, BtnTouch, v)
	}
	w.emit(ts, EvSyn, SynReport, 0)

	if _, err := w.w.Write(w.buf); err != nil {
		return fmt.Errorf("write input events: %w", err)
	}
	return nil
}

func (w *Writer) emit(ts time.Time, typ, code uint16, value int32) {
	w.buf = AppendEvent(w.buf, Event{Time: ts, Type: typ, Code: code, Value: value})
}
