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

package frame

import "testing"

// bitwiseCRC16 is the byte-then-8-rounds form the controller firmware uses
func bitwiseCRC16(data []byte) uint16 {
	crc := uint16(CRCSeed)
	for _, b := range data {
		crc ^= uint16(b)
		for k := 0; k < 8; k++ {
			if crc&1 != 0 {
				crc = (crc >> 1) ^ CRCPolynomial
			} else {
				crc >>= 1
			}
		}
	}
	return crc
}

func TestCRC16(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		data []byte
		want uint16
	}{
		{
			name: "empty data",
			data: []byte{},
			want: 0xFFFF, // seed, no final xor
		},
		{
			name: "check string",
			data: []byte("123456789"),
			want: 0x6F91, // CRC-16/MCRF4XX check value
		},
		{
			name: "single zero byte",
			data: []byte{0x00},
			want: bitwiseCRC16([]byte{0x00}),
		},
		{
			name: "chip id bytes",
			data: []byte{0x87, 0x56},
			want: bitwiseCRC16([]byte{0x87, 0x56}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := CRC16(tt.data); got != tt.want {
				t.Errorf("CRC16() = 0x%04X, want 0x%04X", got, tt.want)
			}
		})
	}
}

// TestCRC16MatchesBitwise verifies the table implementation against the
// bit-at-a-time loop for every single-byte input and a few longer ones
func TestCRC16MatchesBitwise(t *testing.T) {
	t.Parallel()
	for i := 0; i < 256; i++ {
		data := []byte{byte(i), byte(255 - i), byte(i * 7)}
		if got, want := CRC16(data), bitwiseCRC16(data); got != want {
			t.Errorf("CRC16(%X) = 0x%04X, bitwise = 0x%04X", data, got, want)
		}
	}
}

// TestCRC16Deterministic checks that state is not carried across calls
func TestCRC16Deterministic(t *testing.T) {
	t.Parallel()
	data := []byte{0xEF, 0x01, 0x03, 0x12, 0x45, 0x67, 0x80, 0x30}
	first := CRC16(data)
	_ = CRC16([]byte{0xAA, 0xBB})
	if second := CRC16(data); first != second {
		t.Errorf("CRC16 not deterministic: 0x%04X then 0x%04X", first, second)
	}
}

// TestCRC16DetectsBitFlips flips every bit of a report-sized buffer
func TestCRC16DetectsBitFlips(t *testing.T) {
	t.Parallel()
	data := make([]byte, 62)
	for i := range data {
		data[i] = byte(i * 31)
	}
	base := CRC16(data)

	for i := range data {
		for bit := 0; bit < 8; bit++ {
			data[i] ^= 1 << bit
			if CRC16(data) == base {
				t.Errorf("flip of byte %d bit %d not detected", i, bit)
			}
			data[i] ^= 1 << bit
		}
	}
}

func TestReadCRC(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		raw  []byte
		want uint16
	}{
		{
			name: "low byte first on the wire",
			raw:  []byte{0x00, 0x00, 0x91, 0x6F},
			want: 0x6F91,
		},
		{
			name: "too short",
			raw:  []byte{0x12},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ReadCRC(tt.raw); got != tt.want {
				t.Errorf("ReadCRC() = 0x%04X, want 0x%04X", got, tt.want)
			}
		})
	}
}
