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
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/ZaparooProject/go-ft8756/touch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type code struct {
	Type  uint16
	Code  uint16
	Value int32
}

func codes(t *testing.T, data []byte) []code {
	t.Helper()
	events, err := DecodeEvents(data)
	require.NoError(t, err)
	out := make([]code, len(events))
	for i, ev := range events {
		out[i] = code{Type: ev.Type, Code: ev.Code, Value: ev.Value}
	}
	return out
}

func newTestWriter() (*Writer, *bytes.Buffer) {
	var buf bytes.Buffer
	w := NewWriter(&buf, DefaultProperties())
	w.now = func() time.Time { return time.Unix(1700000000, 123456000) }
	return w, &buf
}

func frame(t *testing.T, w *Writer, samples ...touch.ContactSample) {
	t.Helper()
	require.NoError(t, touch.Dispatch(w, samples))
}

func TestWriter_TouchMoveLift(t *testing.T) {
	t.Parallel()
	w, buf := newTestWriter()

	frame(t, w, touch.ContactSample{Slot: 4, X: 786, Y: 1383, Pressure: 128, Area: 3, Down: true})
	assert.Equal(t, []code{
		{EvAbs, AbsMTSlot, 4},
		{EvAbs, AbsMTTrackingID, 0},
		{EvAbs, AbsMTPositionX, 786},
		{EvAbs, AbsMTPositionY, 1383},
		{EvAbs, AbsMTTouchMajor, 3},
		{EvAbs, AbsMTPressure, 128},
		{EvKey, BtnTouch, 1},
		{EvSyn, SynReport, 0},
	}, codes(t, buf.Bytes()))

	buf.Reset()
	frame(t, w, touch.ContactSample{Slot: 4, X: 790, Y: 1380, Pressure: 120, Area: 2, Down: true})
	assert.Equal(t, []code{
		{EvAbs, AbsMTSlot, 4},
		{EvAbs, AbsMTPositionX, 790},
		{EvAbs, AbsMTPositionY, 1380},
		{EvAbs, AbsMTTouchMajor, 2},
		{EvAbs, AbsMTPressure, 120},
		{EvSyn, SynReport, 0},
	}, codes(t, buf.Bytes()))

	buf.Reset()
	frame(t, w)
	assert.Equal(t, []code{
		{EvAbs, AbsMTSlot, 4},
		{EvAbs, AbsMTTrackingID, -1},
		{EvKey, BtnTouch, 0},
		{EvSyn, SynReport, 0},
	}, codes(t, buf.Bytes()))
}

func TestWriter_SecondFingerGetsNewTrackingID(t *testing.T) {
	t.Parallel()
	w, buf := newTestWriter()

	frame(t, w, touch.ContactSample{Slot: 0, X: 1, Y: 1, Pressure: 1, Area: 1})
	buf.Reset()
	frame(t, w,
		touch.ContactSample{Slot: 0, X: 1, Y: 1, Pressure: 1, Area: 1},
		touch.ContactSample{Slot: 7, X: 2, Y: 2, Pressure: 1, Area: 1},
	)

	var ids []int32
	for _, c := range codes(t, buf.Bytes()) {
		if c.Code == AbsMTTrackingID {
			ids = append(ids, c.Value)
		}
	}
	assert.Equal(t, []int32{1}, ids)
}

func TestWriter_Release(t *testing.T) {
	t.Parallel()
	w, buf := newTestWriter()

	frame(t, w,
		touch.ContactSample{Slot: 1, X: 1, Y: 1, Pressure: 1, Area: 1},
		touch.ContactSample{Slot: 2, X: 2, Y: 2, Pressure: 1, Area: 1},
	)
	buf.Reset()

	require.NoError(t, w.Release())
	assert.Equal(t, []code{
		{EvAbs, AbsMTSlot, 1},
		{EvAbs, AbsMTTrackingID, -1},
		{EvAbs, AbsMTSlot, 2},
		{EvAbs, AbsMTTrackingID, -1},
		{EvKey, BtnTouch, 0},
		{EvSyn, SynReport, 0},
	}, codes(t, buf.Bytes()))
}

func TestWriter_OneWritePerFrame(t *testing.T) {
	t.Parallel()

	var writes int
	w := NewWriter(writerFunc(func(p []byte) (int, error) {
		writes++
		return len(p), nil
	}), DefaultProperties())

	frame(t, w,
		touch.ContactSample{Slot: 1, X: 1, Y: 1, Pressure: 1, Area: 1},
		touch.ContactSample{Slot: 2, X: 2, Y: 2, Pressure: 1, Area: 1},
	)
	assert.Equal(t, 1, writes)
}

func TestWriter_WriteError(t *testing.T) {
	t.Parallel()

	w := NewWriter(writerFunc(func([]byte) (int, error) {
		return 0, errors.New("device gone")
	}), DefaultProperties())
	require.NoError(t, w.Contact(touch.ContactSample{Slot: 1}))
	err := w.Sync()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device gone")
}

type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }

func TestEvent_RoundTrip(t *testing.T) {
	t.Parallel()

	ts := time.Unix(1700000000, 654321000)
	buf := AppendEvent(nil, Event{Time: ts, Type: EvAbs, Code: AbsMTTrackingID, Value: -1})
	require.Len(t, buf, EventSize)

	events, err := DecodeEvents(buf)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, ts.Equal(events[0].Time))
	assert.Equal(t, int32(-1), events[0].Value)

	_, err = DecodeEvents(buf[:EventSize-1])
	require.ErrorIs(t, err, ErrShortEvent)
}

func TestAxes(t *testing.T) {
	t.Parallel()

	axes := Axes(DefaultProperties())
	byCode := map[uint16]Axis{}
	for _, a := range axes {
		byCode[a.Code] = a
	}
	assert.Equal(t, int32(1079), byCode[AbsMTPositionX].Max)
	assert.Equal(t, int32(2399), byCode[AbsMTPositionY].Max)
	assert.Equal(t, int32(9), byCode[AbsMTSlot].Max)
	assert.Equal(t, int32(15), byCode[AbsMTTouchMajor].Max)
	assert.Equal(t, int32(255), byCode[AbsMTPressure].Max)
}

func TestAxes_SwapXY(t *testing.T) {
	t.Parallel()

	props := DefaultProperties()
	props.SwapXY = true
	byCode := map[uint16]Axis{}
	for _, a := range Axes(props) {
		byCode[a.Code] = a
	}
	assert.Equal(t, int32(2399), byCode[AbsMTPositionX].Max)
	assert.Equal(t, int32(1079), byCode[AbsMTPositionY].Max)
}

func TestProperties_Apply(t *testing.T) {
	t.Parallel()

	bounds := touch.Bounds{MaxX: 1079, MaxY: 2399}
	tests := []struct {
		name  string
		props Properties
		wantX int32
		wantY int32
	}{
		{name: "identity", props: Properties{Bounds: bounds}, wantX: 100, wantY: 200},
		{name: "invert x", props: Properties{Bounds: bounds, InvertX: true}, wantX: 979, wantY: 200},
		{name: "invert y", props: Properties{Bounds: bounds, InvertY: true}, wantX: 100, wantY: 2199},
		{name: "swap", props: Properties{Bounds: bounds, SwapXY: true}, wantX: 200, wantY: 100},
		{
			name:  "invert then swap",
			props: Properties{Bounds: bounds, InvertX: true, SwapXY: true},
			wantX: 200,
			wantY: 979,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			x, y := tt.props.Apply(100, 200)
			assert.Equal(t, tt.wantX, x)
			assert.Equal(t, tt.wantY, y)
		})
	}
}

func TestWriter_AppliesProperties(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	props := DefaultProperties()
	props.InvertY = true
	w := NewWriter(&buf, props)

	frame(t, w, touch.ContactSample{Slot: 0, X: 10, Y: 20, Pressure: 1, Area: 1})
	var x, y int32
	for _, c := range codes(t, buf.Bytes()) {
		switch c.Code {
		case AbsMTPositionX:
			x = c.Value
		case AbsMTPositionY:
			y = c.Value
		}
	}
	assert.Equal(t, int32(10), x)
	assert.Equal(t, int32(2379), y)
}
