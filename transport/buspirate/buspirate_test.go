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


package buspirate

import (
	"bytes"
	"context"
	"errors"
	"testing"

	ft8756 "github.com/ZaparooProject/go-ft8756"
	testutil "github.com/ZaparooProject/go-ft8756/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePirate answers the binary SPI protocol. Each chip select window
// clocks MISO out of the next queued reply.
type fakePirate struct {
	out      bytes.Buffer
	replies  [][]byte
	mosi     [][]byte
	commands []byte
	miso     []byte
	bulk     int
	mode     string
	csLow    bool
	closed   bool
	silent   bool
}

func (f *fakePirate) Write(p []byte) (int, error) {
	for _, b := range p {
		f.feed(b)
	}
	return len(p), nil
}

func (f *fakePirate) feed(b byte) {
	if f.bulk > 0 {
		f.bulk--
		last := len(f.mosi) - 1
		f.mosi[last] = append(f.mosi[last], b)
		var out byte
		if len(f.miso) > 0 {
			out, f.miso = f.miso[0], f.miso[1:]
		}
		f.out.WriteByte(out)
		return
	}

	f.commands = append(f.commands, b)
	if f.silent {
		return
	}
	switch {
	case b == cmdBitbang:
		f.mode = "bbio"
		f.out.WriteString("BBIO1")
	case b == cmdSPI && f.mode == "bbio":
		f.mode = "spi"
		f.out.WriteString("SPI1")
	case b == cmdCSLow:
		f.csLow = true
		f.mosi = append(f.mosi, nil)
		if len(f.replies) > 0 {
			f.miso, f.replies = f.replies[0], f.replies[1:]
		}
		f.out.WriteByte(ack)
	case b == cmdCSHigh:
		f.csLow = false
		f.out.WriteByte(ack)
	case b&0xF0 == cmdBulk:
		f.bulk = int(b&0x0F) + 1
		f.out.WriteByte(ack)
	case b == cmdExit:
		f.mode = "terminal"
	default:
		f.out.WriteByte(ack)
	}
}

func (f *fakePirate) Read(p []byte) (int, error) {
	if f.out.Len() == 0 {
		return 0, nil
	}
	return f.out.Read(p)
}

func (f *fakePirate) Close() error {
	f.closed = true
	return nil
}

func TestNew_EntersSPIMode(t *testing.T) {
	t.Parallel()

	fake := &fakePirate{}
	tr, err := New(fake, "/dev/ttyUSB0", DefaultConfig("/dev/ttyUSB0"))
	require.NoError(t, err)

	assert.Equal(t, "spi", fake.mode)
	assert.Equal(t, []byte{
		cmdBitbang,
		cmdSPI,
		cmdPeripheral | periphPower,
		cmdSpeed | byte(Speed1MHz),
		cmdConfig | configOutput3V3 | configCKE,
		cmdCSHigh,
	}, fake.commands)
	assert.Equal(t, ft8756.BusBusPirate, tr.Type())
	assert.Equal(t, "/dev/ttyUSB0", tr.String())
}

func TestNew_NoResponse(t *testing.T) {
	t.Parallel()

	fake := &fakePirate{silent: true}
	_, err := New(fake, "x", DefaultConfig("x"))
	require.ErrorIs(t, err, ErrNoResponse)
	assert.Len(t, fake.commands, maxResetAttempts)
}

func TestTransport_TxChunks(t *testing.T) {
	t.Parallel()

	// A 62-byte touch report read is 71 bytes on the wire: five bulk chunks.
	payload := testutil.NewReport().SetSlot(0, 0, 2, 100, 200, 30, 4).Bytes()
	want := testutil.BuildReadResponse(payload, true)

	fake := &fakePirate{replies: [][]byte{want}}
	tr, err := New(fake, "x", DefaultConfig("x"))
	require.NoError(t, err)

	w := make([]byte, len(want))
	w[0] = testutil.RegTouchData
	r := make([]byte, len(want))
	require.NoError(t, tr.Tx(w, r))

	assert.Equal(t, want, r)
	require.Len(t, fake.mosi, 1)
	assert.Equal(t, w, fake.mosi[0])
	assert.False(t, fake.csLow)

	var bulks int
	for _, c := range fake.commands {
		if c&0xF0 == cmdBulk {
			bulks++
		}
	}
	assert.Equal(t, 5, bulks)
}

func TestTransport_DeviceRead(t *testing.T) {
	t.Parallel()

	fake := &fakePirate{replies: [][]byte{
		testutil.BuildReadResponse([]byte{testutil.PrimaryIDHigh}, true),
		testutil.BuildReadResponse([]byte{testutil.PrimaryIDLow}, true),
	}}
	tr, err := New(fake, "x", DefaultConfig("x"))
	require.NoError(t, err)

	device, err := ft8756.New(tr, ft8756.WithSettleDelay(0, 0))
	require.NoError(t, err)

	variant, err := device.Identify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ft8756.VariantPrimary, variant)
}

func TestTransport_LengthMismatch(t *testing.T) {
	t.Parallel()

	tr, err := New(&fakePirate{}, "x", DefaultConfig("x"))
	require.NoError(t, err)
	require.ErrorIs(t, tr.Tx(make([]byte, 2), make([]byte, 3)), ft8756.ErrInvalidParameter)
}

type failingPort struct {
	*fakePirate
	fail bool
}

func (p *failingPort) Write(b []byte) (int, error) {
	if p.fail {
		return 0, errors.New("unplugged")
	}
	return p.fakePirate.Write(b)
}

func TestTransport_WriteError(t *testing.T) {
	t.Parallel()

	port := &failingPort{fakePirate: &fakePirate{}}
	tr, err := New(port, "x", DefaultConfig("x"))
	require.NoError(t, err)

	port.fail = true
	err = tr.Tx([]byte{0x00}, make([]byte, 1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unplugged")
}

func TestTransport_Close(t *testing.T) {
	t.Parallel()

	fake := &fakePirate{}
	tr, err := New(fake, "x", DefaultConfig("x"))
	require.NoError(t, err)

	require.NoError(t, tr.Close())
	require.NoError(t, tr.Close())
	assert.True(t, fake.closed)
	assert.Equal(t, "terminal", fake.mode)
	require.ErrorIs(t, tr.Tx([]byte{0x00}, make([]byte, 1)), ft8756.ErrBusClosed)
}
