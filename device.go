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
	"io"
	"log/slog"
	"time"

	"github.com/ZaparooProject/go-ft8756/touch"
)

// DeviceConfig contains configuration options for the Device
type DeviceConfig struct {
	// RetryConfig configures the Session's retry policy
	RetryConfig *RetryConfig
	// Bounds is the panel's maximum coordinate on each axis
	Bounds touch.Bounds
	// ResetTiming configures the reset pulse used by Identify
	ResetTiming ResetTiming
	// CRC enables the CRC-16 trailer on register reads
	CRC bool
}

// DefaultDeviceConfig returns default device configuration
func DefaultDeviceConfig() *DeviceConfig {
	return &DeviceConfig{
		RetryConfig: DefaultRetryConfig(),
		Bounds:      touch.DefaultBounds(),
		ResetTiming: DefaultResetTiming(),
		CRC:         true,
	}
}

// Device represents an FT8756 touch controller
//
// Thread Safety: Device is NOT thread-safe. All methods must be called from
// a single goroutine or protected with external synchronization. The chip's
// addressing mode (application or boot ROM) is shared state that Identify
// changes, so it falls under the same rule.
type Device struct {
	session *Session
	config  *DeviceConfig
	reset   ResetLine
	logger  *slog.Logger
	wait    func(context.Context, time.Duration) error
	variant Variant
}

// New creates a new FT8756 device on the given bus
func New(bus Bus, opts ...Option) (*Device, error) {
	if bus == nil {
		return nil, fmt.Errorf("%w: nil bus", ErrInvalidParameter)
	}

	device := &Device{
		config: DefaultDeviceConfig(),
		wait:   sleepContext,
	}

	for _, opt := range opts {
		if err := opt(device); err != nil {
			return nil, err
		}
	}

	if err := device.config.RetryConfig.Validate(); err != nil {
		return nil, err
	}

	device.session = NewSession(bus, device.config.RetryConfig)
	device.session.SetLogger(device.logger)

	debugf("ft8756: device on %s bus %q", busType(bus), busName(bus))
	return device, nil
}

// Session returns the register session
func (d *Device) Session() *Session {
	return d.session
}

// Config returns the device configuration
func (d *Device) Config() *DeviceConfig {
	return d.config
}

// Variant returns the protocol variant found by the last Identify
func (d *Device) Variant() Variant {
	return d.variant
}

// Bounds returns the panel bounds used for decoding
func (d *Device) Bounds() touch.Bounds {
	return d.config.Bounds
}

// ReadRegister reads n bytes starting at addr
func (d *Device) ReadRegister(ctx context.Context, addr byte, n int) ([]byte, error) {
	return d.session.ReadContext(ctx, addr, n, d.config.CRC)
}

// WriteRegister writes values starting at addr
func (d *Device) WriteRegister(ctx context.Context, addr byte, values ...byte) error {
	return d.session.WriteContext(ctx, addr, values)
}

// Close closes the underlying bus when it supports closing
func (d *Device) Close() error {
	if c, ok := d.session.Bus().(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("failed to close bus: %w", err)
		}
	}
	return nil
}

// sleepContext waits for d or until ctx is done
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
