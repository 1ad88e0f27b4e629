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

// Package frame provides frame encoding and protocol constants for FT8756 communication
package frame

// Direction is the transfer direction encoded in header byte 1
type Direction byte

// Command markers - header byte 1
const (
	Write   Direction = 0x00 // Host writes registers
	Read    Direction = 0x80 // Host reads registers
	CRCFlag byte      = 0x20 // Read response carries a trailing CRC-16
)

// Frame layout
const (
	HeaderLen  = 4 // addr, command, len_hi, len_lo
	DummyLen   = 3 // turnaround bytes clocked after the header
	CRCLen     = 2 // crc_lo, crc_hi
	StatusByte = 3 // offset of the status byte in a response

	// PayloadOffset is where read data starts in a response
	PayloadOffset = HeaderLen + DummyLen

	// Overhead is the largest number of non-payload bytes in any frame
	Overhead = HeaderLen + DummyLen + CRCLen
)

// StatusErrorMask selects the busy/error bits of the status byte
const StatusErrorMask = 0xA0

// Frame size limits
const (
	// MaxPayload is bounded by the 16-bit length field
	MaxPayload = 0xFFFF
)

// CRC-16/MCRF4XX parameters
const (
	CRCSeed       = 0xFFFF
	CRCPolynomial = 0x8408 // reversed 0x1021
)
