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

//go:build !linux

package evdev

import (
	"strconv"
	"time"
)

// Off Linux the stream only ever goes to files; timeval fields follow the
// host word size.
const timevalWord = strconv.IntSize / 8

func timeval(t time.Time) (sec, usec int64) {
	ns := t.UnixNano()
	sec = ns / int64(time.Second)
	usec = (ns % int64(time.Second)) / int64(time.Microsecond)
	if usec < 0 {
		sec--
		usec += int64(time.Second / time.Microsecond)
	}
	return sec, usec
}
