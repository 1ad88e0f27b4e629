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

import (
	"context"
	"fmt"
)

// An exchange cannot be interrupted once started: the attempt loop is
// bounded by MaxAttempts settle delays, so the context variants only refuse
// to begin when ctx is already done.

// ReadContext is Read with a cancellation check before the exchange starts
func (s *Session) ReadContext(ctx context.Context, addr byte, n int, crc bool) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled before read 0x%02X: %w", addr, err)
	}
	return s.Read(addr, n, crc)
}

// WriteContext is Write with a cancellation check before the exchange starts
func (s *Session) WriteContext(ctx context.Context, addr byte, values []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled before write 0x%02X: %w", addr, err)
	}
	return s.Write(addr, values)
}
