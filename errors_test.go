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
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestIsRetryable(t *testing.T) {
	t.Parallel()
	tests := getIsRetryableTestCases()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := IsRetryable(tt.err)
			if got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func getIsRetryableTestCases() []struct {
	err  error
	name string
	want bool
} {
	return []struct {
		err  error
		name string
		want bool
	}{
		{name: "nil error", err: nil, want: false},
		{name: "i/o retryable", err: ErrIO, want: true},
		{name: "bus transfer retryable", err: ErrBusTransfer, want: true},
		{name: "crc mismatch retryable", err: ErrCRCMismatch, want: true},
		{name: "device status retryable", err: ErrDeviceStatus, want: true},
		{name: "status error retryable", err: &StatusError{Status: 0x80}, want: true},
		{name: "deadline retryable", err: context.DeadlineExceeded, want: true},
		{name: "unknown device not retryable", err: ErrUnknownDevice, want: false},
		{name: "invalid parameter not retryable", err: ErrInvalidParameter, want: false},
		{name: "too large not retryable", err: NewTransferTooLargeError("read", "spi0", 71, 64), want: false},
		{name: "io error retryable", err: NewIOError("read", "spi0", errors.New("x")), want: true},
		{
			name: "wrapped retryable error",
			err:  fmt.Errorf("poll: %w", ErrCRCMismatch),
			want: true,
		},
		{
			name: "string lookalike not retryable",
			err:  errors.New("outer: " + ErrIO.Error()),
			want: false,
		},
	}
}

func TestGetErrorType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		name string
		want ErrorType
	}{
		{name: "nil", err: nil, want: ErrorTypePermanent},
		{name: "deadline", err: context.DeadlineExceeded, want: ErrorTypeTimeout},
		{name: "crc", err: ErrCRCMismatch, want: ErrorTypeTransient},
		{name: "bus", err: fmt.Errorf("%w: eio", ErrBusTransfer), want: ErrorTypeTransient},
		{name: "unknown device", err: ErrUnknownDevice, want: ErrorTypePermanent},
		{
			name: "transport error type wins",
			err:  NewTransportError("write", "mock", ErrCRCMismatch, ErrorTypeTimeout),
			want: ErrorTypeTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := GetErrorType(tt.err); got != tt.want {
				t.Errorf("GetErrorType() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransportError(t *testing.T) {
	t.Parallel()

	cause := errors.New("short transfer")
	err := NewIOError("read", "/dev/spidev0.0", cause)

	if !errors.Is(err, ErrIO) {
		t.Error("expected errors.Is(err, ErrIO)")
	}
	if !errors.Is(err, cause) {
		t.Error("expected the cause to stay reachable")
	}
	if !strings.Contains(err.Error(), "/dev/spidev0.0") {
		t.Errorf("error %q does not name the port", err)
	}

	bare := NewTransportError("write", "", cause, ErrorTypePermanent)
	if bare.Retryable {
		t.Error("permanent transport error must not be retryable")
	}
	if got := bare.Error(); got != "write: short transfer" {
		t.Errorf("Error() = %q", got)
	}
}

func TestTransferTooLargeError(t *testing.T) {
	t.Parallel()

	err := NewTransferTooLargeError("read", "buspirate", 71, 16)
	if !errors.Is(err, ErrTransferTooLarge) {
		t.Error("expected ErrTransferTooLarge")
	}
	if !strings.Contains(err.Error(), "71 bytes, limit 16") {
		t.Errorf("error %q does not carry sizes", err)
	}
}

func TestErrorType_String(t *testing.T) {
	t.Parallel()

	for typ, want := range map[ErrorType]string{
		ErrorTypePermanent: "permanent",
		ErrorTypeTransient: "transient",
		ErrorTypeTimeout:   "timeout",
	} {
		if got := typ.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", typ, got, want)
		}
	}
}
