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


// Package detection finds buses an FT8756 could be attached to.
//
// Bus-specific detectors register themselves on import:
//
//	import (
//		"github.com/ZaparooProject/go-ft8756/detection"
//		_ "github.com/ZaparooProject/go-ft8756/detection/buspirate"
//		_ "github.com/ZaparooProject/go-ft8756/detection/spi"
//	)
//
// Detection only lists candidates. Nothing is written to a bus; use
// ft8756.Device.Identify to confirm a controller is there.
package detection

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnsupportedPlatform is returned by detectors that cannot run here
var ErrUnsupportedPlatform = errors.New("detection not supported on this platform")

// Candidate is a bus that may have a controller on it
type Candidate struct {
	// Bus is the detector that found it, "spi" or "buspirate"
	Bus string
	// Path opens the bus: a spireg name or a serial port
	Path string
	// VIDPID is the USB id as VID:PID for USB adapters
	VIDPID string
	// Description is a human readable label
	Description string
}

func (c Candidate) String() string {
	s := fmt.Sprintf("%s %s", c.Bus, c.Path)
	if c.VIDPID != "" {
		s += " [" + c.VIDPID + "]"
	}
	if c.Description != "" {
		s += " " + c.Description
	}
	return s
}

// Options filter detection
type Options struct {
	// Blocklist holds VID:PID pairs never reported
	Blocklist []string
	// IgnorePaths holds bus paths never reported
	IgnorePaths []string
}

// DefaultOptions returns options with the default blocklist
func DefaultOptions() *Options {
	return &Options{Blocklist: DefaultBlocklist()}
}

// Allowed reports whether c passes the filters in o
func (o *Options) Allowed(c Candidate) bool {
	if o == nil {
		return true
	}
	if c.VIDPID != "" && IsBlocked(c.VIDPID, o.Blocklist) {
		return false
	}
	return !IsPathIgnored(c.Path, o.IgnorePaths)
}

// Detector lists candidates on one kind of bus
type Detector interface {
	Bus() string
	Detect(ctx context.Context, opts *Options) ([]Candidate, error)
}

var (
	registryMu sync.Mutex
	registry   = map[string]Detector{}
)

// RegisterDetector makes a detector available to DetectAll
func RegisterDetector(d Detector) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[d.Bus()] = d
}

func detectors() []Detector {
	registryMu.Lock()
	defer registryMu.Unlock()

	out := make([]Detector, 0, len(registry))
	for _, d := range registry {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Bus() < out[j].Bus() })
	return out
}

// DetectAll runs every registered detector. Detectors that are not
// supported on this platform are skipped; other failures are joined into
// the returned error alongside whatever the remaining detectors found.
func DetectAll(ctx context.Context, opts *Options) ([]Candidate, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	var (
		found []Candidate
		errs  []error
	)
	for _, d := range detectors() {
		if err := ctx.Err(); err != nil {
			return found, err
		}
		cands, err := d.Detect(ctx, opts)
		if errors.Is(err, ErrUnsupportedPlatform) {
			continue
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s detection: %w", d.Bus(), err))
			continue
		}
		for _, c := range cands {
			if opts.Allowed(c) {
				found = append(found, c)
			}
		}
	}
	return found, errors.Join(errs...)
}
