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


package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	ft8756 "github.com/ZaparooProject/go-ft8756"
	"github.com/ZaparooProject/go-ft8756/capture"
	"github.com/ZaparooProject/go-ft8756/detection"
	// Import the detectors to register them
	_ "github.com/ZaparooProject/go-ft8756/detection/buspirate"
	_ "github.com/ZaparooProject/go-ft8756/detection/spi"
	"github.com/ZaparooProject/go-ft8756/evdev"
	"github.com/ZaparooProject/go-ft8756/polling"
	"github.com/ZaparooProject/go-ft8756/touch"
	"github.com/ZaparooProject/go-ft8756/transport/buspirate"
	"github.com/ZaparooProject/go-ft8756/transport/spi"
)

type config struct {
	spiPort      *string
	resetPin     *string
	irqPin       *string
	busPirate    *string
	replay       *string
	record       *string
	uinput       *bool
	maxX         *uint
	maxY         *uint
	invertX      *bool
	invertY      *bool
	swapXY       *bool
	pollInterval *time.Duration
	realtime     *bool
	sleepOnExit  *bool
	quiet        *bool
	listBuses    *bool
	debug        *bool
}

func parseFlags() *config {
	bounds := touch.DefaultBounds()
	cfg := &config{
		spiPort:   flag.String("spi", "", "SPI port (e.g., /dev/spidev0.0). Leave empty for the first port."),
		resetPin:  flag.String("reset", "", "GPIO name of the reset line (e.g., GPIO25)"),
		irqPin:    flag.String("irq", "", "GPIO name of the interrupt line. Without it the chip is polled."),
		busPirate: flag.String("buspirate", "", "Serial port of a Bus Pirate to use instead of host SPI"),
		replay:    flag.String("replay", "", "Decode a capture file instead of reading the chip"),
		record:    flag.String("record", "", "Write every report read to this capture file"),
		uinput:    flag.Bool("uinput", false, "Create a virtual touchscreen from the decoded contacts"),
		maxX:      flag.Uint("max-x", uint(bounds.MaxX), "Largest valid X coordinate"),
		maxY:      flag.Uint("max-y", uint(bounds.MaxY), "Largest valid Y coordinate"),
		invertX:   flag.Bool("invert-x", false, "Mirror reported X"),
		invertY:   flag.Bool("invert-y", false, "Mirror reported Y"),
		swapXY:    flag.Bool("swap-xy", false, "Swap reported X and Y after inversion"),
		pollInterval: flag.Duration("poll-interval", 0,
			"Report read period when no IRQ line is given (default depends on the bus)"),
		realtime:    flag.Bool("realtime", false, "Replay at the recorded pace"),
		sleepOnExit: flag.Bool("sleep", false, "Put the chip in sleep mode on exit"),
		quiet:       flag.Bool("quiet", false, "Do not print contacts"),
		listBuses:   flag.Bool("list", false, "List SPI ports and Bus Pirates and exit"),
		debug:       flag.Bool("debug", false, "Enable debug output"),
	}
	flag.Parse()

	if *cfg.debug {
		ft8756.SetDebugEnabled(true)
	}

	return cfg
}

func (cfg *config) bounds() (touch.Bounds, error) {
	if *cfg.maxX > touch.MaxCoord || *cfg.maxY > touch.MaxCoord {
		return touch.Bounds{}, fmt.Errorf("bounds %dx%d exceed %d", *cfg.maxX, *cfg.maxY, touch.MaxCoord)
	}
	return touch.Bounds{MaxX: uint16(*cfg.maxX), MaxY: uint16(*cfg.maxY)}, nil
}

func (cfg *config) properties(bounds touch.Bounds) evdev.Properties {
	return evdev.Properties{
		Bounds:  bounds,
		InvertX: *cfg.invertX,
		InvertY: *cfg.invertY,
		SwapXY:  *cfg.swapXY,
	}
}

type transport interface {
	ft8756.Bus
	ft8756.BusTyper
	io.Closer
	fmt.Stringer
}

// bus is the chosen transport and whatever control lines it brings
type bus struct {
	conn  transport
	reset ft8756.ResetLine
	irq   polling.IRQLine
}

func openBus(cfg *config) (*bus, error) {
	if *cfg.busPirate != "" {
		if *cfg.resetPin != "" || *cfg.irqPin != "" {
			return nil, errors.New("-reset and -irq need host SPI")
		}
		t, err := buspirate.Open(buspirate.DefaultConfig(*cfg.busPirate))
		if err != nil {
			return nil, fmt.Errorf("failed to open Bus Pirate: %w", err)
		}
		return &bus{conn: t}, nil
	}

	spiCfg := spi.DefaultConfig()
	spiCfg.Port = *cfg.spiPort
	spiCfg.ResetPin = *cfg.resetPin
	spiCfg.IRQPin = *cfg.irqPin
	t, err := spi.Open(spiCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open SPI: %w", err)
	}
	return &bus{conn: t, reset: t.ResetLine(), irq: t.IRQLine()}, nil
}

func buildSink(cfg *config, props evdev.Properties) (touch.Sink, io.Closer, error) {
	var sinks []touch.Sink
	if !*cfg.quiet {
		sinks = append(sinks, newPrintSink(os.Stdout))
	}

	var closer io.Closer = nopCloser{}
	if *cfg.uinput {
		u, err := evdev.OpenUinput(evdev.DefaultName, props)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create virtual touchscreen: %w", err)
		}
		sinks = append(sinks, u)
		closer = u
		_, _ = fmt.Printf("Virtual touchscreen %q created\n", evdev.DefaultName)
	}
	return touch.Tee(sinks...), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func runReplay(ctx context.Context, cfg *config) error {
	f, err := os.Open(*cfg.replay)
	if err != nil {
		return fmt.Errorf("failed to open capture: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader, err := capture.NewReader(f)
	if err != nil {
		return err
	}
	header := reader.Header()
	_, _ = fmt.Printf("Capture from %s (%s, bus %q, %dx%d)\n",
		header.Started.Format(time.RFC3339), header.Variant, header.Bus, header.Bounds.MaxX, header.Bounds.MaxY)

	sink, closer, err := buildSink(cfg, cfg.properties(header.Bounds))
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	sum, err := capture.Replay(ctx, reader, sink, *cfg.realtime)
	_, _ = fmt.Printf("%d reports, %d idle, %d contacts, %d malformed slots\n",
		sum.Reports, sum.Idle, sum.Samples, sum.Malformed)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func connectDevice(ctx context.Context, cfg *config, b *bus, bounds touch.Bounds) (*ft8756.Device, error) {
	opts := []ft8756.Option{ft8756.WithBounds(bounds)}
	if b.reset != nil {
		opts = append(opts, ft8756.WithResetLine(b.reset))
	}
	if *cfg.debug {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		opts = append(opts, ft8756.WithLogger(logger))
	}

	device, err := ft8756.New(b.conn, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create device: %w", err)
	}

	variant, err := device.Identify(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to identify controller: %w", err)
	}
	_, _ = fmt.Printf("FT8756 %s variant on %s\n", variant, b.conn)
	return device, nil
}

func openRecorder(path string, device *ft8756.Device, b *bus) (*capture.Recorder, io.Closer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create capture: %w", err)
	}
	rec, err := capture.NewRecorder(f, capture.Header{
		Variant: device.Variant().String(),
		Bus:     b.conn.String(),
		Bounds:  device.Bounds(),
	})
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	return rec, f, nil
}

func runLive(ctx context.Context, cfg *config) error {
	bounds, err := cfg.bounds()
	if err != nil {
		return err
	}

	b, err := openBus(cfg)
	if err != nil {
		return err
	}

	device, err := connectDevice(ctx, cfg, b, bounds)
	if err != nil {
		_ = b.conn.Close()
		return err
	}
	defer func() { _ = device.Close() }()

	var poller polling.Poller = device
	if *cfg.record != "" {
		rec, f, recErr := openRecorder(*cfg.record, device, b)
		if recErr != nil {
			return recErr
		}
		defer func() {
			_ = f.Close()
			_, _ = fmt.Printf("%d reports recorded to %s\n", rec.Count(), *cfg.record)
		}()
		poller = capture.NewTap(device, rec)
	}

	sink, closer, err := buildSink(cfg, cfg.properties(bounds))
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	monitorConfig := polling.ConfigForBus(b.conn.Type())
	if *cfg.pollInterval > 0 {
		monitorConfig.PollInterval = *cfg.pollInterval
	}
	monitor, err := polling.NewMonitor(poller, sink, b.irq, monitorConfig)
	if err != nil {
		return fmt.Errorf("failed to set up report loop: %w", err)
	}
	monitor.OnError = func(err error) {
		_, _ = fmt.Fprintf(os.Stderr, "read error: %v\n", err)
	}

	if b.irq != nil {
		_, _ = fmt.Println("Waiting for touches (IRQ driven, Ctrl-C to stop)...")
	} else {
		_, _ = fmt.Printf("Waiting for touches (poll interval: %s, Ctrl-C to stop)...\n",
			monitorConfig.PollInterval)
	}

	runErr := monitor.Run(ctx)
	if errors.Is(runErr, context.Canceled) {
		runErr = nil
	}

	if *cfg.sleepOnExit {
		if err := device.Sleep(context.Background()); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Failed to put controller to sleep: %v\n", err)
		}
	}

	m := monitor.GetMetrics()
	_, _ = fmt.Printf("%d reports, %d idle, %d contacts, %d read errors\n",
		m.ReportCycles, m.IdleFrames, m.Samples, m.ReadErrors)
	return runErr
}

func listBuses(ctx context.Context) error {
	cands, err := detection.DetectAll(ctx, detection.DefaultOptions())
	if len(cands) == 0 && err == nil {
		_, _ = fmt.Println("No SPI ports or Bus Pirates found")
	}
	for _, c := range cands {
		_, _ = fmt.Println(c)
	}
	return err
}

func main() {
	cfg := parseFlags()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var err error
	switch {
	case *cfg.listBuses:
		err = listBuses(ctx)
	case *cfg.replay != "":
		err = runReplay(ctx, cfg)
	default:
		err = runLive(ctx, cfg)
	}
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%v\n", err)
		cancel()
		os.Exit(1)
	}
}
