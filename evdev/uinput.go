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
	"errors"
	"os"

	"github.com/ZaparooProject/go-ft8756/touch"
)

// DefaultName is the input device name used by the CLI
const DefaultName = "ft8756 touchscreen"

// UinputPath is the uinput control node
const UinputPath = "/dev/uinput"

// ErrUnsupported is returned by OpenUinput where uinput does not exist
var ErrUnsupported = errors.New("uinput is only available on linux")

// Axis is the range advertised for one absolute axis
type Axis struct {
	Code uint16
	Min  int32
	Max  int32
}

// Axes returns the axes a panel with the given properties reports
func Axes(props Properties) []Axis {
	maxX, maxY := props.Max()
	return []Axis{
		{Code: AbsMTSlot, Min: 0, Max: touch.MaxSlots - 1},
		{Code: AbsMTTrackingID, Min: 0, Max: 0xFFFF},
		{Code: AbsMTPositionX, Min: 0, Max: maxX},
		{Code: AbsMTPositionY, Min: 0, Max: maxY},
		{Code: AbsMTTouchMajor, Min: 0, Max: touch.MaxArea},
		{Code: AbsMTPressure, Min: 0, Max: touch.MaxPressure},
	}
}

// Uinput is a virtual touchscreen fed through a Writer
type Uinput struct {
	*Writer
	file *os.File
}

// Close releases held contacts and destroys the virtual device
func (u *Uinput) Close() error {
	releaseErr := u.Release()
	return errors.Join(releaseErr, u.destroy())
}
