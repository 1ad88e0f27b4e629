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
	"fmt"
	"time"
)

// Bus is the full-duplex exchange primitive the Session runs on.
//
// Tx clocks out w while clocking in len(r) bytes; the Session always passes
// buffers of equal length. periph.io spi.Conn satisfies this interface.
// Implementations are not required to be reentrant.
type Bus interface {
	Tx(w, r []byte) error
}

// BusLimits is implemented by buses with a maximum transfer size
type BusLimits interface {
	MaxTxSize() int
}

// BusType represents the kind of bus behind a Session
type BusType string

const (
	// BusSPI represents a host SPI controller.
	BusSPI BusType = "spi"
	// BusBusPirate represents a Bus Pirate bridge in binary SPI mode.
	BusBusPirate BusType = "buspirate"
	// BusMock represents a mock bus for testing
	BusMock BusType = "mock"
	// BusUnknown is reported for buses that do not describe themselves
	BusUnknown BusType = "unknown"
)

// BusTyper is implemented by buses that report their type
type BusTyper interface {
	Type() BusType
}

// RetryConfig configures the bounded-retry policy of a Session
type RetryConfig struct {
	// MaxAttempts is the number of exchanges tried before giving up
	MaxAttempts int
	// SettleDelay is the chip's minimum quiet time between exchanges
	SettleDelay time.Duration
	// SettleJitter widens each quiet time by up to this much
	SettleJitter time.Duration
}

// DefaultRetryConfig returns the controller's retry policy: three attempts
// with a 150-250us settle between exchanges
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:  3,
		SettleDelay:  150 * time.Microsecond,
		SettleJitter: 100 * time.Microsecond,
	}
}

// Validate checks the configuration
func (c *RetryConfig) Validate() error {
	if c.MaxAttempts < 1 {
		return fmt.Errorf("%w: max attempts %d", ErrInvalidParameter, c.MaxAttempts)
	}
	if c.SettleDelay < 0 || c.SettleJitter < 0 {
		return fmt.Errorf("%w: negative settle delay", ErrInvalidParameter)
	}
	return nil
}

func busName(bus Bus) string {
	if s, ok := bus.(fmt.Stringer); ok {
		return s.String()
	}
	return ""
}

func busType(bus Bus) BusType {
	if t, ok := bus.(BusTyper); ok {
		return t.Type()
	}
	return BusUnknown
}
