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


package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/ZaparooProject/go-ft8756/touch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintSink(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := newPrintSink(&buf)
	p.now = func() time.Time { return time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC) }

	require.NoError(t, touch.Dispatch(p, nil))
	assert.Empty(t, buf.String())

	require.NoError(t, touch.Dispatch(p, []touch.ContactSample{
		{Slot: 4, Event: touch.EventContact, X: 786, Y: 1383, Pressure: 128, Area: 3, Down: true},
	}))
	require.NoError(t, touch.Dispatch(p, nil))
	require.NoError(t, touch.Dispatch(p, nil))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Contains(t, string(lines[0]), "slot=4")
	assert.Contains(t, string(lines[0]), "x=786 y=1383")
	assert.Equal(t, "12:00:00.000 released", string(lines[1]))
}
