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

package polling

import (
	"errors"
	"fmt"
	"time"

	"github.com/ZaparooProject/go-ft8756"
)

// ErrInvalidConfig is returned by Config.Validate
var ErrInvalidConfig = errors.New("invalid polling config")

// Config holds the report loop timings
type Config struct {
	// PollInterval is the read period when no IRQ line is used
	PollInterval time.Duration
	// MaxSlowInterval caps the slowed-down period after a long idle stretch
	MaxSlowInterval time.Duration
	// IdleSlowdown is how long without contacts before polling slows down
	IdleSlowdown time.Duration
	// ReleaseTimeout lifts every contact when no report carried one for this long
	ReleaseTimeout time.Duration
	// IRQReleaseTimeout replaces ReleaseTimeout when the loop waits on an IRQ
	// line, since reports then arrive only as often as the chip interrupts
	IRQReleaseTimeout time.Duration
	// IRQTimeout bounds each wait on the IRQ line so cancellation is noticed
	IRQTimeout time.Duration
	// MaxConsecutiveErrors stops the loop after this many failed reads in a
	// row; 0 never stops
	MaxConsecutiveErrors int
}

// DefaultConfig returns a 100 Hz report loop
func DefaultConfig() *Config {
	return &Config{
		PollInterval:         10 * time.Millisecond,
		MaxSlowInterval:      500 * time.Millisecond,
		IdleSlowdown:         5 * time.Second,
		ReleaseTimeout:       100 * time.Millisecond,
		IRQReleaseTimeout:    300 * time.Millisecond,
		IRQTimeout:           100 * time.Millisecond,
		MaxConsecutiveErrors: 10,
	}
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if c.PollInterval <= 0 {
		return fmt.Errorf("%w: poll interval %v", ErrInvalidConfig, c.PollInterval)
	}
	if c.IRQTimeout <= 0 {
		return fmt.Errorf("%w: irq timeout %v", ErrInvalidConfig, c.IRQTimeout)
	}
	if c.MaxSlowInterval < 0 || c.IdleSlowdown < 0 || c.ReleaseTimeout < 0 || c.IRQReleaseTimeout < 0 ||
		c.MaxConsecutiveErrors < 0 {
		return fmt.Errorf("%w: negative value", ErrInvalidConfig)
	}
	return nil
}

func (c *Config) releaseTimeout(irq bool) time.Duration {
	if irq {
		return c.IRQReleaseTimeout
	}
	return c.ReleaseTimeout
}

// slowInterval is five times the poll interval, up to MaxSlowInterval
func (c *Config) slowInterval() time.Duration {
	slow := c.PollInterval * 5
	if c.MaxSlowInterval > 0 && slow > c.MaxSlowInterval {
		slow = c.MaxSlowInterval
	}
	if slow < c.PollInterval {
		slow = c.PollInterval
	}
	return slow
}

// ConfigForBus returns DefaultConfig adjusted for the bus a device sits on.
// A Bus Pirate moves each report in several serial round trips, so it is
// polled slower and given longer before missing reports count as a lift.
func ConfigForBus(busType ft8756.BusType) *Config {
	c := DefaultConfig()
	switch busType {
	case ft8756.BusBusPirate:
		c.PollInterval = 30 * time.Millisecond
		c.MaxSlowInterval = time.Second
		c.ReleaseTimeout = 250 * time.Millisecond
	case ft8756.BusSPI, ft8756.BusMock, ft8756.BusUnknown:
	}
	return c
}
