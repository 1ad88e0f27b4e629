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


/*
Package ft8756 provides a pure Go driver for the FocalTech FT8756 touch
controller on SPI.

The FT8756 speaks a small register protocol: every exchange is one
full-duplex SPI transfer carrying a 7-byte header, and reads may carry a
CRC-16 trailer. The chip needs a short quiet time between transfers and
occasionally answers with a busy or error status, so every exchange goes
through a Session that retries up to three times.

Features:
  - Register read and write framing with optional CRC-16 check
  - Bounded retries with a settle delay between exchanges
  - Chip identification, including the boot ROM fallback id
  - Decoding of the 62-byte multitouch report into per-slot samples
  - Host SPI (periph.io) and Bus Pirate transports
  - Polling or IRQ driven report loop, evdev/uinput output, CBOR capture

Basic Usage:

	import (
	    "github.com/ZaparooProject/go-ft8756"
	    "github.com/ZaparooProject/go-ft8756/touch"
	    "github.com/ZaparooProject/go-ft8756/transport/spi"
	)

	cfg := spi.DefaultConfig()
	cfg.Port = "/dev/spidev0.0"
	cfg.ResetPin = "GPIO25"
	bus, err := spi.Open(cfg)
	if err != nil {
	    log.Fatal(err)
	}

	device, err := ft8756.New(bus, ft8756.WithResetLine(bus.ResetLine()))
	if err != nil {
	    log.Fatal(err)
	}
	defer device.Close()

	variant, err := device.Identify(ctx)
	if err != nil {
	    log.Fatal(err)
	}
	fmt.Println("found", variant)

	var frames touch.Collector
	if _, err := device.Poll(ctx, &frames); err != nil {
	    log.Fatal(err)
	}

For continuous reading use polling.Monitor, which owns the device, reads
reports on the IRQ line or a timer and releases contacts whose lift frame
never arrived.

Error Handling:

Transfer failures are reported as *TransportError and can be inspected:

	if errors.Is(err, ft8756.ErrRetriesExhausted) {
	    // every attempt failed
	}
	if errors.Is(err, ft8756.ErrCRCMismatch) {
	    // the last attempt was corrupted in transit
	}

Thread Safety:

Device operations are not thread-safe. polling.Monitor.Do runs register
operations on a device the monitor is driving.
*/
package ft8756
