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
	"encoding/binary"
	"fmt"
	"log/slog"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// ResetLine drives the chip's active-low reset input.
// periph.io gpio.PinOut satisfies this interface.
type ResetLine interface {
	Out(l gpio.Level) error
}

// ResetTiming holds the delays of the identification sequence
type ResetTiming struct {
	// Pulse is how long reset is held low
	Pulse time.Duration
	// Boot is how long the chip needs after reset is released
	Boot time.Duration
	// Handshake is the settle time after the boot ROM start command
	Handshake time.Duration
}

// DefaultResetTiming returns the timings the controller needs
func DefaultResetTiming() ResetTiming {
	return ResetTiming{
		Pulse:     1 * time.Millisecond,
		Boot:      200 * time.Millisecond,
		Handshake: 15 * time.Millisecond,
	}
}

// Variant is the protocol variant the attached chip speaks
type Variant int

const (
	// VariantUnknown means Identify has not succeeded
	VariantUnknown Variant = iota
	// VariantPrimary is the chip running its application firmware
	VariantPrimary
	// VariantSecondary is the chip answering from its boot ROM
	VariantSecondary
)

// String returns the variant name
func (v Variant) String() string {
	switch v {
	case VariantPrimary:
		return "primary"
	case VariantSecondary:
		return "secondary"
	default:
		return "unknown"
	}
}

// Reset pulses the reset line and waits for the chip to boot.
// Without a reset line it does nothing.
func (d *Device) Reset(ctx context.Context) error {
	if d.reset == nil {
		debugln("ft8756: no reset line configured, skipping reset")
		return nil
	}

	timing := d.config.ResetTiming
	if err := d.reset.Out(gpio.Low); err != nil {
		return fmt.Errorf("failed to assert reset: %w", err)
	}
	if err := d.wait(ctx, timing.Pulse); err != nil {
		return err
	}
	if err := d.reset.Out(gpio.High); err != nil {
		return fmt.Errorf("failed to release reset: %w", err)
	}
	return d.wait(ctx, timing.Boot)
}

// Identify resets the chip and determines which protocol variant it speaks.
//
// The primary id registers are read first. If they do not hold
// PrimaryChipID the boot ROM start handshake is written and the secondary
// id is read. Retries happen in the Session underneath; this probe makes
// exactly one attempt at each stage. ErrUnknownDevice is fatal to bring-up.
func (d *Device) Identify(ctx context.Context) (Variant, error) {
	d.variant = VariantUnknown

	if err := d.Reset(ctx); err != nil {
		return VariantUnknown, fmt.Errorf("identify: %w", err)
	}

	primary, err := d.readPrimaryID(ctx)
	if err == nil && primary == PrimaryChipID {
		d.variant = VariantPrimary
		debugAttrs(d.logger, "chip identified", slog.String("variant", d.variant.String()),
			slog.String("id", fmt.Sprintf("0x%04X", primary)))
		return d.variant, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return VariantUnknown, fmt.Errorf("identify: %w", ctxErr)
	}
	debugAttrs(d.logger, "chip id mismatch",
		slog.String("expected", fmt.Sprintf("0x%04X", PrimaryChipID)),
		slog.String("got", fmt.Sprintf("0x%04X", primary)),
		slog.Any("error", err))

	if err := d.startBootROM(ctx); err != nil {
		return VariantUnknown, fmt.Errorf("identify: %w", err)
	}
	secondary, err := d.readSecondaryID(ctx)
	if err != nil {
		return VariantUnknown, fmt.Errorf("%w: read boot id: %w", ErrUnknownDevice, err)
	}
	if secondary != SecondaryChipID {
		return VariantUnknown, fmt.Errorf("%w: expected 0x%04X or 0x%04X, got 0x%04X and 0x%04X",
			ErrUnknownDevice, PrimaryChipID, SecondaryChipID, primary, secondary)
	}

	d.variant = VariantSecondary
	debugAttrs(d.logger, "chip identified", slog.String("variant", d.variant.String()),
		slog.String("id", fmt.Sprintf("0x%04X", secondary)))
	return d.variant, nil
}

// readPrimaryID assembles the id from its two single-byte registers
func (d *Device) readPrimaryID(ctx context.Context) (uint16, error) {
	high, err := d.session.ReadContext(ctx, RegChipIDHigh, 1, d.config.CRC)
	if err != nil {
		return 0, err
	}
	low, err := d.session.ReadContext(ctx, RegChipIDLow, 1, d.config.CRC)
	if err != nil {
		return uint16(high[0]) << 8, err
	}
	return uint16(high[0])<<8 | uint16(low[0]), nil
}

// startBootROM writes the handshake that switches the chip to boot ROM addressing
func (d *Device) startBootROM(ctx context.Context) error {
	if err := d.session.WriteContext(ctx, cmdStart1, []byte{cmdStart2}); err != nil {
		return fmt.Errorf("start handshake: %w", err)
	}
	return d.wait(ctx, d.config.ResetTiming.Handshake)
}

func (d *Device) readSecondaryID(ctx context.Context) (uint16, error) {
	buf, err := d.session.ReadContext(ctx, cmdReadID, 2, d.config.CRC)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf), nil
}
