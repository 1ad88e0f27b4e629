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

// FT8756 register addresses
const (
	RegTouchData  = 0x01 // 62-byte touch report
	RegChipIDHigh = 0xA3
	RegChipIDLow  = 0x9F
	RegPowerMode  = 0xA5
)

// Boot ROM commands used by the identity fallback
const (
	cmdStart1 = 0x55 // written as the register address
	cmdStart2 = 0xAA // written as the value
	cmdReadID = 0x90
)

// Power modes for RegPowerMode
const (
	PowerModeSleep byte = 0x03
)

// Chip ids
const (
	// PrimaryChipID is read from RegChipIDHigh/RegChipIDLow in application mode
	PrimaryChipID uint16 = 0x5652
	// SecondaryChipID is read from the boot ROM after the start handshake
	SecondaryChipID uint16 = 0x8756
)
