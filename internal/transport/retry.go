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

// Package transport provides internal transport utilities
package transport

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

// ErrRetriesExhausted is matched by every ExhaustedError
var ErrRetriesExhausted = errors.New("retries exhausted")

// Outcome classifies a single exchange attempt
type Outcome uint8

const (
	// Success means the attempt produced a valid result
	Success Outcome = iota
	// BusFault means the bus transfer itself failed
	BusFault
	// StatusFault means the chip answered with busy/error status bits
	StatusFault
	// CRCFault means the read payload failed its checksum
	CRCFault
	// Permanent stops the loop without consuming further attempts
	Permanent
)

// String returns a short name for logs
func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case BusFault:
		return "bus"
	case StatusFault:
		return "status"
	case CRCFault:
		return "crc"
	case Permanent:
		return "permanent"
	default:
		return fmt.Sprintf("outcome(%d)", uint8(o))
	}
}

// Retryable reports whether the outcome consumes an attempt and tries again
func (o Outcome) Retryable() bool {
	return o == BusFault || o == StatusFault || o == CRCFault
}

// RetryOperation represents one attempt of an exchange.
// attempt counts from 1. The returned error is only read when the
// outcome is not Success.
type RetryOperation[T any] func(attempt int) (T, Outcome, error)

// RetryConfig configures retry behavior
type RetryConfig struct {
	// OnRetry is called after each failed attempt, before settling
	OnRetry func(attempt int, outcome Outcome, err error)
	// Sleep replaces time.Sleep, mostly for tests
	Sleep       func(time.Duration)
	Description string
	MaxAttempts int
	// SettleDelay is the minimum quiet time after every exchange
	SettleDelay time.Duration
	// SettleJitter widens the quiet time to [SettleDelay, SettleDelay+SettleJitter]
	SettleJitter time.Duration
}

// ExhaustedError is returned once every attempt failed with a retryable outcome
type ExhaustedError struct {
	Last     error
	Op       string
	Attempts int
	Outcome  Outcome
}

func (e *ExhaustedError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("retries exhausted after %d attempts: %v", e.Attempts, e.Last)
	}
	return fmt.Sprintf("%s: retries exhausted after %d attempts: %v", e.Op, e.Attempts, e.Last)
}

// Unwrap exposes both ErrRetriesExhausted and the last attempt's cause
func (e *ExhaustedError) Unwrap() []error {
	if e.Last == nil {
		return []error{ErrRetriesExhausted}
	}
	return []error{ErrRetriesExhausted, e.Last}
}

// WithRetry executes an operation with a fixed retry budget.
//
// Every failed attempt is followed by one settle delay, and the loop always
// ends with one more settle delay whether it succeeded or not, so the chip
// sees its minimum quiet time before the next transaction.
func WithRetry[T any](config RetryConfig, operation RetryOperation[T]) (T, error) {
	var zero T
	maxAttempts := config.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var (
		lastErr     error
		lastOutcome Outcome
	)
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, outcome, err := operation(attempt)
		if outcome == Success {
			settle(config)
			return result, nil
		}
		if !outcome.Retryable() {
			settle(config)
			return zero, err
		}

		lastErr, lastOutcome = err, outcome
		if config.OnRetry != nil {
			config.OnRetry(attempt, outcome, err)
		}
		settle(config)
	}

	settle(config)
	return zero, &ExhaustedError{
		Op:       config.Description,
		Attempts: maxAttempts,
		Outcome:  lastOutcome,
		Last:     lastErr,
	}
}

// SettleDuration picks the quiet time for one settle
func SettleDuration(config RetryConfig) time.Duration {
	d := config.SettleDelay
	if config.SettleJitter > 0 {
		d += rand.N(config.SettleJitter + 1)
	}
	return d
}

func settle(config RetryConfig) {
	d := SettleDuration(config)
	if d <= 0 {
		return
	}
	if config.Sleep != nil {
		config.Sleep(d)
		return
	}
	time.Sleep(d)
}
