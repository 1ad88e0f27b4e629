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


package spi

import (
	"context"
	"testing"
	"time"

	ft8756 "github.com/ZaparooProject/go-ft8756"
	"github.com/ZaparooProject/go-ft8756/internal/frame"
	testutil "github.com/ZaparooProject/go-ft8756/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/spi/spitest"
)

func readOp(t *testing.T, addr byte, payload ...byte) conntest.IO {
	t.Helper()
	w, err := frame.EncodeRead(addr, len(payload), true)
	require.NoError(t, err)
	return conntest.IO{W: w, R: testutil.BuildReadResponse(payload, true)}
}

func newPlayback(ops ...conntest.IO) *spitest.Playback {
	return &spitest.Playback{Playback: conntest.Playback{Ops: ops, DontPanic: true}}
}

func TestTransport_IdentifyPrimary(t *testing.T) {
	t.Parallel()

	port := newPlayback(
		readOp(t, testutil.RegChipIDHigh, testutil.PrimaryIDHigh),
		readOp(t, testutil.RegChipIDLow, testutil.PrimaryIDLow),
	)
	reset := &gpiotest.Pin{N: "RST"}

	tr, err := New(port, 0, Pins{Reset: reset})
	require.NoError(t, err)
	assert.Equal(t, gpio.High, reset.L)

	device, err := ft8756.New(tr,
		ft8756.WithResetLine(tr.ResetLine()),
		ft8756.WithResetTiming(ft8756.ResetTiming{}),
		ft8756.WithSettleDelay(0, 0),
	)
	require.NoError(t, err)

	variant, err := device.Identify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ft8756.VariantPrimary, variant)
	assert.Equal(t, gpio.High, reset.L)

	require.NoError(t, device.Close())
	assert.Equal(t, len(port.Ops), port.Count)
}

func TestTransport_TransferError(t *testing.T) {
	t.Parallel()

	port := newPlayback(conntest.IO{W: []byte{0x01}, R: []byte{0x00}})
	tr, err := New(port, DefaultFrequency, Pins{})
	require.NoError(t, err)

	err = tr.Tx([]byte{0x02}, make([]byte, 1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SPI transfer on playback")
}

func TestTransport_Closed(t *testing.T) {
	t.Parallel()

	tr, err := New(newPlayback(), 0, Pins{})
	require.NoError(t, err)

	require.NoError(t, tr.Close())
	require.NoError(t, tr.Close())
	require.ErrorIs(t, tr.Tx([]byte{0x00}, make([]byte, 1)), ft8756.ErrBusClosed)
}

func TestTransport_Lines(t *testing.T) {
	t.Parallel()

	t.Run("unset", func(t *testing.T) {
		t.Parallel()
		tr, err := New(newPlayback(), 0, Pins{})
		require.NoError(t, err)
		assert.Nil(t, tr.ResetLine())
		assert.Nil(t, tr.IRQLine())
	})

	t.Run("irq armed", func(t *testing.T) {
		t.Parallel()
		irq := &gpiotest.Pin{N: "IRQ", EdgesChan: make(chan gpio.Level, 1)}
		tr, err := New(newPlayback(), 0, Pins{IRQ: irq})
		require.NoError(t, err)

		line := tr.IRQLine()
		require.NotNil(t, line)
		assert.False(t, line.WaitForEdge(time.Millisecond))

		irq.EdgesChan <- gpio.High
		assert.True(t, line.WaitForEdge(time.Second))
	})

	t.Run("irq without edge support", func(t *testing.T) {
		t.Parallel()
		_, err := New(newPlayback(), 0, Pins{IRQ: &gpiotest.Pin{N: "IRQ"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to arm IRQ line")
	})
}

func TestTransport_Describe(t *testing.T) {
	t.Parallel()

	tr, err := New(newPlayback(), 0, Pins{})
	require.NoError(t, err)
	assert.Equal(t, ft8756.BusSPI, tr.Type())
	assert.Equal(t, "playback", tr.String())
	assert.Equal(t, 0, tr.MaxTxSize())
}
