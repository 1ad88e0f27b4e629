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


// Package buspirate drives the FT8756 through a Bus Pirate in binary SPI
// mode, for bench work from a machine without a SPI controller.
package buspirate

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	ft8756 "github.com/ZaparooProject/go-ft8756"
	"go.bug.st/serial"
)

const (
	baudRate    = 115200
	readTimeout = 100 * time.Millisecond

	// Enter binary mode takes up to 20 zero bytes.
	maxResetAttempts = 20

	// Bulk transfers move at most 16 bytes per command.
	maxChunk = 16
)

// Binary mode commands
const (
	cmdBitbang    = 0x00
	cmdSPI        = 0x01
	cmdCSLow      = 0x02
	cmdCSHigh     = 0x03
	cmdExit       = 0x0F
	cmdBulk       = 0x10
	cmdPeripheral = 0x40
	cmdSpeed      = 0x60
	cmdConfig     = 0x80

	ack = 0x01
)

// Peripheral bits
const (
	periphPower   = 0x08
	periphPullups = 0x04
)

// SPI config bits. Mode 0 is clock idle low, output on active to idle.
const (
	configOutput3V3 = 0x08
	configCKE       = 0x02
)

// Speed selects the Bus Pirate SPI clock
type Speed byte

// Clock rates
const (
	Speed30kHz  Speed = 0
	Speed125kHz Speed = 1
	Speed250kHz Speed = 2
	Speed1MHz   Speed = 3
	Speed2MHz   Speed = 4
	Speed2M6Hz  Speed = 5
	Speed4MHz   Speed = 6
	Speed8MHz   Speed = 7
)

var (
	bbioBanner = []byte("BBIO1")
	spiBanner  = []byte("SPI1")

	// ErrNoResponse is returned when the Bus Pirate stops answering
	ErrNoResponse = errors.New("bus pirate did not respond")
	// ErrNoAck is returned when a command is not acknowledged
	ErrNoAck = errors.New("bus pirate command not acknowledged")
)

// Config selects the serial port and bus settings
type Config struct {
	Port  string
	Speed Speed
	// Power switches on the Bus Pirate's supply pins
	Power bool
	// Pullups enables the on-board pull-up resistors
	Pullups bool
}

// DefaultConfig returns a powered 1 MHz bus on port
func DefaultConfig(port string) Config {
	return Config{Port: port, Speed: Speed1MHz, Power: true}
}

// Transport is an ft8756.Bus over a Bus Pirate
type Transport struct {
	port   io.ReadWriteCloser
	name   string
	buf    []byte
	mu     sync.Mutex
	closed bool
}

// Open opens the serial port and enters binary SPI mode
func Open(config Config) (*Transport, error) {
	port, err := serial.Open(config.Port, &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", config.Port, err)
	}
	if err := port.SetReadTimeout(readTimeout); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to set read timeout: %w", err)
	}

	t, err := New(port, config.Port, config)
	if err != nil {
		_ = port.Close()
		return nil, err
	}
	return t, nil
}

// New enters binary SPI mode on an open port. Reads returning no data are
// taken as a timeout.
func New(port io.ReadWriteCloser, name string, config Config) (*Transport, error) {
	t := &Transport{port: port, name: name}

	if err := t.enterBitbang(); err != nil {
		return nil, err
	}
	if err := t.expect([]byte{cmdSPI}, spiBanner); err != nil {
		return nil, fmt.Errorf("failed to enter SPI mode: %w", err)
	}

	periph := byte(cmdPeripheral)
	if config.Power {
		periph |= periphPower
	}
	if config.Pullups {
		periph |= periphPullups
	}

	steps := []struct {
		what string
		cmd  byte
	}{
		{"peripherals", periph},
		{"speed", cmdSpeed | byte(config.Speed&0x07)},
		{"mode", cmdConfig | configOutput3V3 | configCKE},
		{"chip select", cmdCSHigh},
	}
	for _, s := range steps {
		if err := t.command(s.cmd); err != nil {
			return nil, fmt.Errorf("failed to set %s: %w", s.what, err)
		}
	}
	return t, nil
}

func (t *Transport) enterBitbang() error {
	reply := make([]byte, len(bbioBanner))
	for i := 0; i < maxResetAttempts; i++ {
		if _, err := t.port.Write([]byte{cmdBitbang}); err != nil {
			return fmt.Errorf("failed to write reset: %w", err)
		}
		n, err := t.readFull(reply)
		if err != nil && !errors.Is(err, ErrNoResponse) {
			return err
		}
		if n == len(reply) && bytes.Equal(reply, bbioBanner) {
			return nil
		}
	}
	return fmt.Errorf("failed to enter binary mode: %w", ErrNoResponse)
}

func (t *Transport) expect(cmd, want []byte) error {
	if _, err := t.port.Write(cmd); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	got := make([]byte, len(want))
	if _, err := t.readFull(got); err != nil {
		return err
	}
	if !bytes.Equal(got, want) {
		return fmt.Errorf("%w: got %q, want %q", ErrNoAck, got, want)
	}
	return nil
}

func (t *Transport) command(cmd byte) error {
	return t.expect([]byte{cmd}, []byte{ack})
}

// readFull fills p, failing with ErrNoResponse when a read times out
func (t *Transport) readFull(p []byte) (int, error) {
	got := 0
	for got < len(p) {
		n, err := t.port.Read(p[got:])
		got += n
		if err != nil {
			return got, fmt.Errorf("read: %w", err)
		}
		if n == 0 {
			return got, ErrNoResponse
		}
	}
	return got, nil
}

// Tx holds chip select low for the whole exchange and moves it in bulk
// chunks
func (t *Transport) Tx(w, r []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ft8756.ErrBusClosed
	}
	if len(w) != len(r) {
		return fmt.Errorf("%w: write %d bytes, read %d", ft8756.ErrInvalidParameter, len(w), len(r))
	}

	if err := t.command(cmdCSLow); err != nil {
		return fmt.Errorf("chip select: %w", err)
	}
	txErr := t.transfer(w, r)
	if err := t.command(cmdCSHigh); err != nil && txErr == nil {
		txErr = fmt.Errorf("chip select: %w", err)
	}
	return txErr
}

func (t *Transport) transfer(w, r []byte) error {
	for off := 0; off < len(w); off += maxChunk {
		end := min(off+maxChunk, len(w))
		n := end - off

		t.buf = append(t.buf[:0], cmdBulk|byte(n-1))
		t.buf = append(t.buf, w[off:end]...)
		if _, err := t.port.Write(t.buf); err != nil {
			return fmt.Errorf("bulk write: %w", err)
		}

		reply := t.buf[:1+n]
		if _, err := t.readFull(reply); err != nil {
			return fmt.Errorf("bulk transfer: %w", err)
		}
		if reply[0] != ack {
			return fmt.Errorf("bulk transfer: %w", ErrNoAck)
		}
		copy(r[off:end], reply[1:])
	}
	return nil
}

// Close returns the Bus Pirate to its terminal and closes the port
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true
	_, writeErr := t.port.Write([]byte{cmdBitbang, cmdExit})
	return errors.Join(writeErr, t.port.Close())
}

// Type returns the bus type
func (*Transport) Type() ft8756.BusType {
	return ft8756.BusBusPirate
}

func (t *Transport) String() string {
	return t.name
}
