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

import "github.com/ZaparooProject/go-ft8756/touch"

// Properties describe how panel coordinates map onto the reported axes.
// Inversion uses the panel bounds and happens before the swap, so with
// SwapXY set the reported X range is the panel's Y range.
type Properties struct {
	Bounds  touch.Bounds
	InvertX bool
	InvertY bool
	SwapXY  bool
}

// DefaultProperties reports coordinates as the panel produces them
func DefaultProperties() Properties {
	return Properties{Bounds: touch.DefaultBounds()}
}

// Apply maps a decoded position to reported axis values
func (p Properties) Apply(x, y uint16) (int32, int32) {
	rx, ry := int32(x), int32(y)
	if p.InvertX {
		rx = int32(p.Bounds.MaxX) - rx
	}
	if p.InvertY {
		ry = int32(p.Bounds.MaxY) - ry
	}
	if p.SwapXY {
		rx, ry = ry, rx
	}
	return rx, ry
}

// Max returns the reported maxima for the X and Y axes
func (p Properties) Max() (int32, int32) {
	if p.SwapXY {
		return int32(p.Bounds.MaxY), int32(p.Bounds.MaxX)
	}
	return int32(p.Bounds.MaxX), int32(p.Bounds.MaxY)
}
