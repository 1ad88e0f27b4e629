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

import "github.com/sigurn/crc16"

// crcTable is CRC-16/MCRF4XX: seed 0xFFFF, reflected 0x1021 (0x8408), no final xor
var crcTable = crc16.MakeTable(crc16.CRC16_MCRF4XX)

// CRC16 calculates the read payload checksum.
// State is never carried between calls.
func CRC16(data []byte) uint16 {
	return crc16.Checksum(data, crcTable)
}

// ReadCRC extracts the received checksum from the last two bytes of a response.
// The chip sends the low byte first: crc = raw[len-1]<<8 | raw[len-2].
func ReadCRC(raw []byte) uint16 {
	n := len(raw)
	if n < CRCLen {
		return 0
	}
	return uint16(raw[n-1])<<8 | uint16(raw[n-2])
}
