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
	"errors"
	"testing"
	"time"

	testutil "github.com/ZaparooProject/go-ft8756/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
)

type mockResetLine struct {
	err    error
	levels []gpio.Level
}

func (m *mockResetLine) Out(l gpio.Level) error {
	if m.err != nil {
		return m.err
	}
	m.levels = append(m.levels, l)
	return nil
}

func idByte(b byte) []byte {
	return testutil.BuildReadResponse([]byte{b}, true)
}

func TestDevice_Identify(t *testing.T) {
	t.Parallel()

	handshake := testutil.BuildWriteResponse(1, 0x00)

	tests := []struct {
		script      func(*MockBus)
		wantErr     error
		wantCause   error
		name        string
		wantVariant Variant
		wantCalls   int
	}{
		{
			name: "primary id",
			script: func(m *MockBus) {
				m.Queue(idByte(testutil.PrimaryIDHigh), idByte(testutil.PrimaryIDLow))
			},
			wantVariant: VariantPrimary,
			wantCalls:   2,
		},
		{
			name: "secondary after primary mismatch",
			script: func(m *MockBus) {
				m.Queue(idByte(0x12), idByte(0x34), handshake,
					testutil.BuildReadResponse([]byte{testutil.SecondaryIDHigh, testutil.SecondaryIDLow}, true))
			},
			wantVariant: VariantSecondary,
			wantCalls:   4,
		},
		{
			name: "secondary after primary read exhausted",
			script: func(m *MockBus) {
				m.QueueError(errGlitch).QueueError(errGlitch).QueueError(errGlitch)
				m.Queue(handshake,
					testutil.BuildReadResponse([]byte{testutil.SecondaryIDHigh, testutil.SecondaryIDLow}, true))
			},
			wantVariant: VariantSecondary,
			wantCalls:   5,
		},
		{
			name: "neither id matches",
			script: func(m *MockBus) {
				m.Queue(idByte(0x00), idByte(0x00), handshake,
					testutil.BuildReadResponse([]byte{0x12, 0x34}, true))
			},
			wantVariant: VariantUnknown,
			wantErr:     ErrUnknownDevice,
			wantCalls:   4,
		},
		{
			name: "handshake fails",
			script: func(m *MockBus) {
				m.Queue(idByte(0x00), idByte(0x00))
				m.QueueError(errGlitch).QueueError(errGlitch).QueueError(errGlitch)
			},
			wantVariant: VariantUnknown,
			wantErr:     ErrIO,
			wantCalls:   5,
		},
		{
			name: "boot id read fails",
			script: func(m *MockBus) {
				m.Queue(idByte(0x00), idByte(0x00), handshake)
				corrupt := testutil.BuildCorruptReadResponse([]byte{0x87, 0x56})
				m.Queue(corrupt, corrupt, corrupt)
			},
			wantVariant: VariantUnknown,
			wantErr:     ErrUnknownDevice,
			wantCause:   ErrCRCMismatch,
			wantCalls:   6,
		},
		{
			name: "boot id read exhausted",
			script: func(m *MockBus) {
				m.Queue(idByte(0x00), idByte(0x00), handshake)
				m.QueueError(errGlitch).QueueError(errGlitch).QueueError(errGlitch)
			},
			wantVariant: VariantUnknown,
			wantErr:     ErrUnknownDevice,
			wantCause:   ErrRetriesExhausted,
			wantCalls:   6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			bus := NewMockBus()
			tt.script(bus)
			device, _ := newTestDevice(t, bus)

			variant, err := device.Identify(context.Background())
			assert.Equal(t, tt.wantVariant, variant)
			assert.Equal(t, tt.wantVariant, device.Variant())
			assert.Equal(t, tt.wantCalls, bus.CallCount())
			assert.Zero(t, bus.Pending())
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				if tt.wantCause != nil {
					require.ErrorIs(t, err, tt.wantCause)
				}
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestDevice_IdentifyFrames(t *testing.T) {
	t.Parallel()

	bus := NewMockBus().Queue(idByte(0x00), idByte(0x00), testutil.BuildWriteResponse(1, 0x00),
		testutil.BuildReadResponse([]byte{0x87, 0x56}, true))
	device, rec := newTestDevice(t, bus)

	_, err := device.Identify(context.Background())
	require.NoError(t, err)

	sent := bus.Sent()
	require.Len(t, sent, 4)
	assert.Equal(t, []byte{testutil.RegChipIDHigh, 0xA0, 0x00, 0x01}, sent[0][:4])
	assert.Equal(t, []byte{testutil.RegChipIDLow, 0xA0, 0x00, 0x01}, sent[1][:4])
	assert.Equal(t, []byte{testutil.CmdStart1, 0x00, 0x00, 0x01, 0, 0, 0, testutil.CmdStart2}, sent[2])
	assert.Equal(t, []byte{testutil.RegReadID, 0xA0, 0x00, 0x02}, sent[3][:4])

	// no reset line: only the handshake settle is waited for
	assert.Equal(t, []time.Duration{15 * time.Millisecond}, rec.waits)
}

func TestDevice_Reset(t *testing.T) {
	t.Parallel()

	line := &mockResetLine{}
	bus := NewMockBus().Queue(idByte(testutil.PrimaryIDHigh), idByte(testutil.PrimaryIDLow))
	device, rec := newTestDevice(t, bus, WithResetLine(line))

	_, err := device.Identify(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []gpio.Level{gpio.Low, gpio.High}, line.levels)
	assert.Equal(t, []time.Duration{time.Millisecond, 200 * time.Millisecond}, rec.waits)
}

func TestDevice_ResetFailure(t *testing.T) {
	t.Parallel()

	line := &mockResetLine{err: errors.New("gpio busy")}
	bus := NewMockBus()
	device, _ := newTestDevice(t, bus, WithResetLine(line))

	_, err := device.Identify(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gpio busy")
	assert.Zero(t, bus.CallCount())
}

func TestDevice_IdentifyCancelled(t *testing.T) {
	t.Parallel()

	bus := NewMockBus()
	device, _ := newTestDevice(t, bus, WithResetLine(&mockResetLine{}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	variant, err := device.Identify(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, VariantUnknown, variant)
	assert.Zero(t, bus.CallCount())
}

func TestVariant_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "primary", VariantPrimary.String())
	assert.Equal(t, "secondary", VariantSecondary.String())
	assert.Equal(t, "unknown", VariantUnknown.String())
	assert.Equal(t, "unknown", Variant(42).String())
}
