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

	"github.com/ZaparooProject/go-ft8756/internal/frame"
	"github.com/ZaparooProject/go-ft8756/internal/transport"
)

// Transport errors
var (
	// ErrIO is returned once an exchange has used up its retry budget.
	// The last attempt's cause stays reachable through errors.Is/As.
	ErrIO = errors.New("i/o error")

	// ErrBusTransfer wraps a failure reported by the Bus itself
	ErrBusTransfer = errors.New("bus transfer failed")

	// ErrCRCMismatch means a read payload failed its CRC-16
	ErrCRCMismatch = frame.ErrCRCMismatch

	// ErrDeviceStatus means the chip answered with busy/error status bits
	ErrDeviceStatus = frame.ErrDeviceStatus

	// ErrFrameLength means a response did not match the requested frame size
	ErrFrameLength = frame.ErrFrameLength

	// ErrInvalidLength means a requested payload length cannot be framed
	ErrInvalidLength = frame.ErrInvalidLength

	// ErrTransferTooLarge means the frame exceeds the bus's transfer limit
	ErrTransferTooLarge = errors.New("transfer exceeds bus limit")

	// ErrBusClosed is returned by transports after Close
	ErrBusClosed = errors.New("bus closed")

	// ErrRetriesExhausted is matched by every exchange that used up its
	// attempts
	ErrRetriesExhausted = transport.ErrRetriesExhausted
)

// Device errors
var (
	// ErrUnknownDevice means neither identity probe matched. It is fatal to
	// bring-up and is never retried at this layer.
	ErrUnknownDevice = errors.New("unknown device")

	// ErrInvalidParameter is returned for bad options or arguments
	ErrInvalidParameter = errors.New("invalid parameter")
)

// StatusError carries the raw status byte of a rejected response
type StatusError = frame.StatusError

// CRCError carries the computed and received checksums of a rejected read
type CRCError = frame.CRCError

// ExhaustedError reports the attempt count and last failure of an exchange
type ExhaustedError = transport.ExhaustedError

// ErrorType classifies errors for retry decisions
type ErrorType int

const (
	// ErrorTypePermanent errors will not go away by trying again
	ErrorTypePermanent ErrorType = iota
	// ErrorTypeTransient errors may succeed on a later exchange
	ErrorTypeTransient
	// ErrorTypeTimeout errors come from an expired deadline
	ErrorTypeTimeout
)

// String returns the error type name
func (t ErrorType) String() string {
	switch t {
	case ErrorTypeTransient:
		return "transient"
	case ErrorTypeTimeout:
		return "timeout"
	default:
		return "permanent"
	}
}

// TransportError is the error surfaced by a failed Session exchange
type TransportError struct {
	Err       error
	Op        string
	Port      string
	Type      ErrorType
	Retryable bool
}

func (e *TransportError) Error() string {
	if e.Port != "" {
		return fmt.Sprintf("%s on %s: %v", e.Op, e.Port, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a transport error; retryability follows the type
func NewTransportError(op, port string, err error, errType ErrorType) *TransportError {
	return &TransportError{
		Op:        op,
		Port:      port,
		Err:       err,
		Type:      errType,
		Retryable: errType != ErrorTypePermanent,
	}
}

// NewIOError reports an exchange that used up its retry budget
func NewIOError(op, port string, cause error) *TransportError {
	return &TransportError{
		Op:        op,
		Port:      port,
		Err:       fmt.Errorf("%w: %w", ErrIO, cause),
		Type:      ErrorTypeTransient,
		Retryable: true,
	}
}

// NewTransferTooLargeError reports a frame the bus cannot carry
func NewTransferTooLargeError(op, port string, size, limit int) *TransportError {
	return &TransportError{
		Op:   op,
		Port: port,
		Err:  fmt.Errorf("%w: %d bytes, limit %d", ErrTransferTooLarge, size, limit),
		Type: ErrorTypePermanent,
	}
}

// IsRetryable reports whether a later exchange could succeed
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var te *TransportError
	if errors.As(err, &te) {
		return te.Retryable
	}

	return errors.Is(err, ErrIO) ||
		errors.Is(err, ErrBusTransfer) ||
		errors.Is(err, ErrCRCMismatch) ||
		errors.Is(err, ErrDeviceStatus) ||
		errors.Is(err, context.DeadlineExceeded)
}

// GetErrorType classifies an error
func GetErrorType(err error) ErrorType {
	if err == nil {
		return ErrorTypePermanent
	}

	var te *TransportError
	if errors.As(err, &te) {
		return te.Type
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorTypeTimeout
	case errors.Is(err, ErrIO),
		errors.Is(err, ErrBusTransfer),
		errors.Is(err, ErrCRCMismatch),
		errors.Is(err, ErrDeviceStatus):
		return ErrorTypeTransient
	default:
		return ErrorTypePermanent
	}
}
