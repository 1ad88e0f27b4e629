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

// Package testing holds wire fixtures shared by package tests
package testing

import "github.com/ZaparooProject/go-ft8756/internal/frame"

// Register and command bytes for reference
const (
	RegTouchData   = 0x01
	RegChipIDHigh  = 0xA3
	RegChipIDLow   = 0x9F
	RegReadID      = 0x90
	RegPowerMode   = 0xA5
	CmdStart1      = 0x55
	CmdStart2      = 0xAA
	PowerModeSleep = 0x03
)

// Chip ids
const (
	PrimaryIDHigh   = 0x56
	PrimaryIDLow    = 0x52
	SecondaryIDHigh = 0x87
	SecondaryIDLow  = 0x56
)

// BuildReadResponse creates what the chip clocks back for a successful read
func BuildReadResponse(payload []byte, crc bool) []byte {
	return BuildReadResponseWithStatus(payload, 0x00, crc)
}

// BuildReadResponseWithStatus creates a read response with the given status byte
func BuildReadResponseWithStatus(payload []byte, status byte, crc bool) []byte {
	raw := make([]byte, frame.ReadLen(len(payload), crc))
	raw[frame.StatusByte] = status
	copy(raw[frame.PayloadOffset:], payload)
	if crc {
		sum := frame.CRC16(payload)
		raw[len(raw)-2] = byte(sum)
		raw[len(raw)-1] = byte(sum >> 8)
	}
	return raw
}

// BuildCorruptReadResponse creates a read response whose CRC does not match
func BuildCorruptReadResponse(payload []byte) []byte {
	raw := BuildReadResponse(payload, true)
	raw[len(raw)-1] ^= 0xFF
	return raw
}

// BuildWriteResponse creates the status echo for a write of n value bytes
func BuildWriteResponse(n int, status byte) []byte {
	raw := make([]byte, frame.WriteLen(n))
	raw[frame.StatusByte] = status
	return raw
}

// Report is a 62-byte touch report under construction
type Report []byte

// NewReport returns a report with every slot unused (0xFF)
func NewReport() Report {
	r := make(Report, 62)
	for i := range r {
		r[i] = 0xFF
	}
	return r
}

// NewIdleReport returns a report whose header is made of the given sentinels
func NewIdleReport(sentinels ...byte) Report {
	r := NewReport()
	for i := 0; i < 6 && i < len(sentinels); i++ {
		r[i] = sentinels[i]
	}
	return r
}

// SetSlot writes one slot record. pressure and area are raw bytes as sent by
// the chip; area is shifted into the top nibble.
func (r Report) SetSlot(index int, id, event byte, x, y uint16, pressure, area byte) Report {
	base := 6 * index
	r[base+2] = event<<6 | byte(x>>8)&0x0F
	r[base+3] = byte(x)
	r[base+4] = id<<4 | byte(y>>8)&0x0F
	r[base+5] = byte(y)
	r[base+6] = pressure
	r[base+7] = area << 4
	return r
}

// SetRaw writes raw bytes starting at offset
func (r Report) SetRaw(offset int, b ...byte) Report {
	copy(r[offset:], b)
	return r
}

// Bytes returns the report as a plain slice
func (r Report) Bytes() []byte {
	return []byte(r)
}
