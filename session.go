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
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ZaparooProject/go-ft8756/internal/frame"
	"github.com/ZaparooProject/go-ft8756/internal/transport"
)

// Session performs register exchanges over a Bus with bounded retry.
//
// Thread Safety: Session is NOT thread-safe and holds no lock, because the
// bus primitive underneath is not reentrant. Only one exchange may be in
// flight per Session; callers must serialize access.
type Session struct {
	bus    Bus
	config *RetryConfig
	logger *slog.Logger
	sleep  func(time.Duration)
	port   string
	maxTx  int
}

// NewSession creates a session on bus. A nil config uses DefaultRetryConfig.
func NewSession(bus Bus, config *RetryConfig) *Session {
	if config == nil {
		config = DefaultRetryConfig()
	}
	s := &Session{
		bus:    bus,
		config: config,
		port:   busName(bus),
	}
	if lim, ok := bus.(BusLimits); ok {
		s.maxTx = lim.MaxTxSize()
	}
	return s
}

// SetRetryConfig updates the retry configuration
func (s *Session) SetRetryConfig(config *RetryConfig) {
	if config == nil {
		config = DefaultRetryConfig()
	}
	s.config = config
}

// RetryConfig returns the current retry configuration
func (s *Session) RetryConfig() *RetryConfig {
	return s.config
}

// SetLogger routes transfer diagnostics to logger
func (s *Session) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Bus returns the underlying bus
func (s *Session) Bus() Bus {
	return s.bus
}

// Write writes values to consecutive registers starting at addr.
// An empty values slice sends a bare 4-byte command.
func (s *Session) Write(addr byte, values []byte) error {
	tx, err := frame.EncodeWrite(addr, values)
	if err != nil {
		return NewTransportError("write", s.port, err, ErrorTypePermanent)
	}
	if err := s.checkLimit("write", len(tx)); err != nil {
		return err
	}

	rx := make([]byte, len(tx))
	_, err = transport.WithRetry(s.retryConfig(fmt.Sprintf("write 0x%02X", addr), addr),
		func(int) (struct{}, transport.Outcome, error) {
			clear(rx)
			if err := s.bus.Tx(tx, rx); err != nil {
				return struct{}{}, transport.BusFault, fmt.Errorf("%w: %w", ErrBusTransfer, err)
			}
			if err := frame.CheckStatus(rx); err != nil {
				return struct{}{}, transport.StatusFault, err
			}
			return struct{}{}, transport.Success, nil
		})
	if err != nil {
		return NewIOError("write", s.port, err)
	}
	return nil
}

// Read reads n bytes starting at register addr. With crc set the chip
// appends a CRC-16 that must match before the payload is accepted; a
// mismatch consumes an attempt like any bus fault.
func (s *Session) Read(addr byte, n int, crc bool) ([]byte, error) {
	tx, err := frame.EncodeRead(addr, n, crc)
	if err != nil {
		return nil, NewTransportError("read", s.port, err, ErrorTypePermanent)
	}
	if err := s.checkLimit("read", len(tx)); err != nil {
		return nil, err
	}

	rx := make([]byte, len(tx))
	payload, err := transport.WithRetry(s.retryConfig(fmt.Sprintf("read 0x%02X", addr), addr),
		func(int) ([]byte, transport.Outcome, error) {
			clear(rx)
			if err := s.bus.Tx(tx, rx); err != nil {
				return nil, transport.BusFault, fmt.Errorf("%w: %w", ErrBusTransfer, err)
			}
			data, err := frame.DecodeReadResponse(rx, n, crc)
			if err != nil {
				return nil, classify(err), err
			}
			return data, transport.Success, nil
		})
	if err != nil {
		return nil, NewIOError("read", s.port, err)
	}
	return payload, nil
}

// classify maps a decode error to a retry outcome
func classify(err error) transport.Outcome {
	switch {
	case errors.Is(err, ErrCRCMismatch):
		return transport.CRCFault
	case errors.Is(err, ErrDeviceStatus):
		return transport.StatusFault
	default:
		return transport.Permanent
	}
}

func (s *Session) checkLimit(op string, size int) error {
	if s.maxTx > 0 && size > s.maxTx {
		return NewTransferTooLargeError(op, s.port, size, s.maxTx)
	}
	return nil
}

func (s *Session) retryConfig(desc string, addr byte) transport.RetryConfig {
	return transport.RetryConfig{
		Description:  desc,
		MaxAttempts:  s.config.MaxAttempts,
		SettleDelay:  s.config.SettleDelay,
		SettleJitter: s.config.SettleJitter,
		Sleep:        s.sleep,
		OnRetry: func(attempt int, outcome transport.Outcome, err error) {
			attrs := []slog.Attr{
				slog.String("op", desc),
				slog.Int("attempt", attempt),
				slog.String("addr", fmt.Sprintf("0x%02X", addr)),
				slog.String("fault", outcome.String()),
				slog.Any("error", err),
			}
			var statusErr *StatusError
			if errors.As(err, &statusErr) {
				attrs = append(attrs, slog.String("status", fmt.Sprintf("0x%02X", statusErr.Status)))
			}
			debugAttrs(s.logger, "transfer failed", attrs...)
		},
	}
}
