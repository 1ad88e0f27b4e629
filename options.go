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
	"log/slog"
	"time"

	"github.com/ZaparooProject/go-ft8756/touch"
)

// Option is a functional option for configuring a Device
type Option func(*Device) error

// WithRetryConfig sets the retry configuration for the device
func WithRetryConfig(config *RetryConfig) Option {
	return func(d *Device) error {
		if config == nil {
			return fmt.Errorf("%w: nil retry config", ErrInvalidParameter)
		}
		d.config.RetryConfig = config
		return nil
	}
}

// WithMaxAttempts sets the number of attempts per register exchange
func WithMaxAttempts(maxAttempts int) Option {
	return func(d *Device) error {
		if maxAttempts < 1 {
			return fmt.Errorf("%w: max attempts %d", ErrInvalidParameter, maxAttempts)
		}
		d.config.RetryConfig = cloneRetryConfig(d.config.RetryConfig)
		d.config.RetryConfig.MaxAttempts = maxAttempts
		return nil
	}
}

// WithSettleDelay sets the quiet time between exchanges
func WithSettleDelay(delay, jitter time.Duration) Option {
	return func(d *Device) error {
		if delay < 0 || jitter < 0 {
			return fmt.Errorf("%w: negative settle delay", ErrInvalidParameter)
		}
		d.config.RetryConfig = cloneRetryConfig(d.config.RetryConfig)
		d.config.RetryConfig.SettleDelay = delay
		d.config.RetryConfig.SettleJitter = jitter
		return nil
	}
}

// WithResetLine sets the GPIO driving the chip's reset input
func WithResetLine(line ResetLine) Option {
	return func(d *Device) error {
		d.reset = line
		return nil
	}
}

// WithResetTiming overrides the reset pulse and boot delays
func WithResetTiming(timing ResetTiming) Option {
	return func(d *Device) error {
		if timing.Pulse < 0 || timing.Boot < 0 || timing.Handshake < 0 {
			return fmt.Errorf("%w: negative reset timing", ErrInvalidParameter)
		}
		d.config.ResetTiming = timing
		return nil
	}
}

// WithBounds sets the panel's maximum coordinates
func WithBounds(bounds touch.Bounds) Option {
	return func(d *Device) error {
		if bounds.MaxX == 0 || bounds.MaxY == 0 || bounds.MaxX > touch.MaxCoord || bounds.MaxY > touch.MaxCoord {
			return fmt.Errorf("%w: bounds %dx%d", ErrInvalidParameter, bounds.MaxX, bounds.MaxY)
		}
		d.config.Bounds = bounds
		return nil
	}
}

// WithCRC enables or disables the CRC trailer on reads
func WithCRC(enabled bool) Option {
	return func(d *Device) error {
		d.config.CRC = enabled
		return nil
	}
}

// WithLogger routes the device's debug records to logger
func WithLogger(logger *slog.Logger) Option {
	return func(d *Device) error {
		d.logger = logger
		return nil
	}
}

func cloneRetryConfig(config *RetryConfig) *RetryConfig {
	if config == nil {
		return DefaultRetryConfig()
	}
	c := *config
	return &c
}
