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


// Package spi provides the host SPI bus for the FT8756 using periph.io
package spi

import (
	"errors"
	"fmt"
	"sync"

	ft8756 "github.com/ZaparooProject/go-ft8756"
	"github.com/ZaparooProject/go-ft8756/polling"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

const (
	// DefaultFrequency is a conservative clock for the controller
	DefaultFrequency = 5 * physic.MegaHertz

	// Mode 0, 8 bits per word.
	busMode = spi.Mode0
	busBits = 8
)

// ErrPinNotFound is returned when a named GPIO does not exist
var ErrPinNotFound = errors.New("gpio pin not found")

// Config selects the SPI port and optional control lines
type Config struct {
	// Port is the spireg name, for example "/dev/spidev0.0". Empty picks
	// the first port registered.
	Port string
	// ResetPin is the gpioreg name of the chip's reset input
	ResetPin string
	// IRQPin is the gpioreg name of the chip's interrupt output
	IRQPin string
	// Frequency is the bus clock
	Frequency physic.Frequency
}

// DefaultConfig returns the first SPI port at DefaultFrequency, no GPIOs
func DefaultConfig() Config {
	return Config{Frequency: DefaultFrequency}
}

// Pins holds the optional control lines next to the bus
type Pins struct {
	Reset gpio.PinOut
	IRQ   gpio.PinIn
}

// Transport is an ft8756.Bus over a periph.io SPI port
type Transport struct {
	port   spi.PortCloser
	conn   spi.Conn
	pins   Pins
	name   string
	maxTx  int
	mu     sync.Mutex
	closed bool
}

// Open initializes the host drivers and opens the port and pins in config
func Open(config Config) (*Transport, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	port, err := spireg.Open(config.Port)
	if err != nil {
		return nil, fmt.Errorf("failed to open SPI port %q: %w", config.Port, err)
	}

	var pins Pins
	if config.ResetPin != "" {
		p := gpioreg.ByName(config.ResetPin)
		if p == nil {
			_ = port.Close()
			return nil, fmt.Errorf("%w: reset %s", ErrPinNotFound, config.ResetPin)
		}
		pins.Reset = p
	}
	if config.IRQPin != "" {
		p := gpioreg.ByName(config.IRQPin)
		if p == nil {
			_ = port.Close()
			return nil, fmt.Errorf("%w: irq %s", ErrPinNotFound, config.IRQPin)
		}
		pins.IRQ = p
	}

	t, err := New(port, config.Frequency, pins)
	if err != nil {
		_ = port.Close()
		return nil, err
	}
	return t, nil
}

// New connects to an already opened port. A zero frequency uses
// DefaultFrequency. The reset line is released (driven high) and the IRQ
// line is armed for rising edges.
func New(port spi.PortCloser, frequency physic.Frequency, pins Pins) (*Transport, error) {
	if frequency == 0 {
		frequency = DefaultFrequency
	}

	c, err := port.Connect(frequency, busMode, busBits)
	if err != nil {
		return nil, fmt.Errorf("failed to connect SPI port %s: %w", port, err)
	}

	if pins.Reset != nil {
		if err := pins.Reset.Out(gpio.High); err != nil {
			return nil, fmt.Errorf("failed to release reset line: %w", err)
		}
	}
	if pins.IRQ != nil {
		if err := pins.IRQ.In(gpio.PullNoChange, gpio.RisingEdge); err != nil {
			return nil, fmt.Errorf("failed to arm IRQ line: %w", err)
		}
	}

	t := &Transport{
		port: port,
		conn: c,
		pins: pins,
		name: port.String(),
	}
	if lim, ok := c.(ft8756.BusLimits); ok {
		t.maxTx = lim.MaxTxSize()
	}
	return t, nil
}

// Tx runs one full-duplex exchange
func (t *Transport) Tx(w, r []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ft8756.ErrBusClosed
	}
	if err := t.conn.Tx(w, r); err != nil {
		return fmt.Errorf("SPI transfer on %s: %w", t.name, err)
	}
	return nil
}

// MaxTxSize reports the driver's transfer limit, 0 when unbounded
func (t *Transport) MaxTxSize() int {
	return t.maxTx
}

// ResetLine returns the reset GPIO, or nil when none was configured
func (t *Transport) ResetLine() ft8756.ResetLine {
	if t.pins.Reset == nil {
		return nil
	}
	return t.pins.Reset
}

// IRQLine returns the interrupt GPIO, or nil when none was configured
func (t *Transport) IRQLine() polling.IRQLine {
	if t.pins.IRQ == nil {
		return nil
	}
	return t.pins.IRQ
}

// Close releases the port. Further exchanges fail with ft8756.ErrBusClosed.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true
	if t.pins.IRQ != nil {
		_ = t.pins.IRQ.In(gpio.PullNoChange, gpio.NoEdge)
	}
	if err := t.port.Close(); err != nil {
		return fmt.Errorf("failed to close SPI port %s: %w", t.name, err)
	}
	return nil
}

// Type returns the bus type
func (*Transport) Type() ft8756.BusType {
	return ft8756.BusSPI
}

func (t *Transport) String() string {
	return t.name
}

// Ensure Transport implements the bus interfaces
var (
	_ ft8756.Bus       = (*Transport)(nil)
	_ ft8756.BusLimits = (*Transport)(nil)
	_ ft8756.BusTyper  = (*Transport)(nil)
)
