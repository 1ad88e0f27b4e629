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

// Package polling runs the touch report loop: wait for the IRQ line or a
// poll tick, read one report, decode it and hand the contacts to a sink.
package polling

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ZaparooProject/go-ft8756"
	"github.com/ZaparooProject/go-ft8756/touch"
)

// Monitor errors
var (
	ErrMonitorRunning    = errors.New("monitor is already running")
	ErrMonitorNotRunning = errors.New("monitor is not running")
	ErrMonitorStopped    = errors.New("monitor was stopped")
	ErrTooManyErrors     = errors.New("too many consecutive read errors")
)

// Poller reads and dispatches one touch report. *ft8756.Device implements it.
type Poller interface {
	Poll(ctx context.Context, sink touch.Sink) (touch.Stats, error)
}

// IRQLine is the chip's interrupt output. periph.io gpio.PinIn implements it
// once configured for rising edges.
type IRQLine interface {
	WaitForEdge(timeout time.Duration) bool
}

// Monitor owns a device while running and drives its report loop.
//
// Reports are never decoded concurrently: a single goroutine runs the loop
// and other register operations are funnelled through Do.
type Monitor struct {
	device    Poller
	sink      touch.Sink
	irq       IRQLine
	config    *Config
	now       func() time.Time
	OnError   func(err error)
	OnRelease func()
	pending   atomic.Pointer[request]
	cancel    context.CancelFunc
	done      chan struct{}
	exitErr   error
	state     TouchState
	counters  counters
	// Adaptive polling state
	currentInterval   atomic.Int64
	lastContact       atomic.Int64
	consecutiveErrors int
	opMu              sync.Mutex
	stopMu            sync.Mutex
	stateMu           sync.Mutex
	running           atomic.Bool
}

// NewMonitor creates a report loop for device feeding sink. With a nil irq
// the device is polled at Config.PollInterval.
func NewMonitor(device Poller, sink touch.Sink, irq IRQLine, config *Config) (*Monitor, error) {
	if device == nil || sink == nil {
		return nil, fmt.Errorf("%w: device and sink are required", ErrInvalidConfig)
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	m := &Monitor{
		device: device,
		sink:   sink,
		irq:    irq,
		config: config,
		now:    time.Now,
	}
	m.currentInterval.Store(int64(config.PollInterval))
	m.lastContact.Store(m.now().UnixNano())
	return m, nil
}

// Run drives the report loop until ctx is done or a fatal error occurs
func (m *Monitor) Run(ctx context.Context) error {
	runCtx, done, err := m.begin(ctx)
	if err != nil {
		return err
	}
	return m.run(runCtx, done)
}

// Start runs the report loop in the background
func (m *Monitor) Start(ctx context.Context) error {
	runCtx, done, err := m.begin(ctx)
	if err != nil {
		return err
	}
	go func() {
		_ = m.run(runCtx, done)
	}()
	return nil
}

// Stop cancels the loop and waits for it to exit. It returns the error that
// ended the loop, if any, other than the cancellation itself.
func (m *Monitor) Stop(ctx context.Context) error {
	m.stopMu.Lock()
	cancel, done := m.cancel, m.done
	m.stopMu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()

	select {
	case <-done:
	case <-ctx.Done():
		return fmt.Errorf("waiting for report loop: %w", ctx.Err())
	}
	return m.Err()
}

// Err returns why the last run ended, ignoring cancellation
func (m *Monitor) Err() error {
	m.stopMu.Lock()
	defer m.stopMu.Unlock()
	if errors.Is(m.exitErr, context.Canceled) {
		return nil
	}
	return m.exitErr
}

// IsRunning returns whether the loop is active
func (m *Monitor) IsRunning() bool {
	return m.running.Load()
}

// GetState returns a snapshot of the contact state
func (m *Monitor) GetState() TouchState {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	return m.state
}

// GetCurrentPollInterval returns the current adaptive polling interval
func (m *Monitor) GetCurrentPollInterval() time.Duration {
	return time.Duration(m.currentInterval.Load())
}

// Close stops the loop and closes the device when it supports closing
func (m *Monitor) Close() error {
	if err := m.Stop(context.Background()); err != nil {
		return err
	}
	if c, ok := m.device.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("failed to close device: %w", err)
		}
	}
	return nil
}

func (m *Monitor) begin(ctx context.Context) (context.Context, chan struct{}, error) {
	if !m.running.CompareAndSwap(false, true) {
		return nil, nil, ErrMonitorRunning
	}
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	m.stopMu.Lock()
	m.cancel = cancel
	m.done = done
	m.exitErr = nil
	m.stopMu.Unlock()

	return runCtx, done, nil
}

func (m *Monitor) run(ctx context.Context, done chan struct{}) error {
	err := m.loop(ctx)

	m.stopMu.Lock()
	m.cancel()
	m.exitErr = err
	m.stopMu.Unlock()

	m.running.Store(false)
	m.failPending()
	close(done)
	return err
}

// loop runs until ctx is done or a cycle fails fatally
func (m *Monitor) loop(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.processPending()

		fired, err := m.wait(ctx)
		if err != nil {
			return err
		}
		if fired {
			if err := m.cycle(ctx); err != nil {
				return err
			}
		}

		now := m.now()
		m.checkRelease(now)
		m.adjustPollInterval(now)
	}
}

// wait blocks until the next report should be read
func (m *Monitor) wait(ctx context.Context) (bool, error) {
	if m.irq != nil {
		return m.irq.WaitForEdge(m.config.IRQTimeout), nil
	}

	timer := time.NewTimer(m.GetCurrentPollInterval())
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case <-timer.C:
		return true, nil
	}
}

// cycle reads, decodes and dispatches one report
func (m *Monitor) cycle(ctx context.Context) error {
	start := m.now()
	stats, err := m.device.Poll(ctx, m.sink)
	end := m.now()

	m.counters.cycles.Add(1)
	m.counters.lastLatency.Store(int64(end.Sub(start)))

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return m.handlePollingError(err)
	}
	m.consecutiveErrors = 0
	m.record(stats)

	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	m.state.LastReportTime = end
	switch {
	case stats.Idle:
		// idle frames say nothing about held contacts
	case stats.Samples > 0:
		m.lastContact.Store(end.UnixNano())
		m.state.TransitionToTouching(end, stats.Samples)
	default:
		// the sink saw an empty frame and lifted everything itself
		m.state.TransitionToIdle()
	}
	return nil
}

// handlePollingError decides whether a failed read ends the loop
func (m *Monitor) handlePollingError(err error) error {
	m.counters.readErrors.Add(1)
	m.consecutiveErrors++
	if m.OnError != nil {
		m.OnError(err)
	}

	if !ft8756.IsRetryable(err) {
		return fmt.Errorf("report loop stopped: %w", err)
	}
	if limit := m.config.MaxConsecutiveErrors; limit > 0 && m.consecutiveErrors >= limit {
		return fmt.Errorf("%w (%d): %w", ErrTooManyErrors, m.consecutiveErrors, err)
	}
	return nil
}

// checkRelease lifts held contacts once reports stop confirming them
func (m *Monitor) checkRelease(now time.Time) {
	m.stateMu.Lock()
	due := m.state.ReleaseDue(now, m.config.releaseTimeout(m.irq != nil))
	if due {
		m.state.TransitionToIdle()
	}
	m.stateMu.Unlock()

	if !due {
		return
	}
	if err := touch.Dispatch(m.sink, nil); err != nil && m.OnError != nil {
		m.OnError(fmt.Errorf("release contacts: %w", err))
	}
	if m.OnRelease != nil {
		m.OnRelease()
	}
}

// adjustPollInterval slows polling down after a long stretch without contacts
func (m *Monitor) adjustPollInterval(now time.Time) {
	sinceContact := time.Duration(now.UnixNano() - m.lastContact.Load())

	if m.config.IdleSlowdown > 0 && sinceContact > m.config.IdleSlowdown {
		m.currentInterval.Store(int64(m.config.slowInterval()))
		return
	}
	m.currentInterval.Store(int64(m.config.PollInterval))
}
