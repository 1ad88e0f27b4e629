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


// Package spi lists host SPI ports registered with periph.io
package spi

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZaparooProject/go-ft8756/detection"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

type detector struct {
	init  func() error
	ports func() []*spireg.Ref
}

// New creates the SPI detector
func New() detection.Detector {
	return &detector{
		init: func() error {
			_, err := host.Init()
			return err
		},
		ports: spireg.All,
	}
}

func init() {
	detection.RegisterDetector(New())
}

// Bus returns the detector name
func (*detector) Bus() string {
	return "spi"
}

// Detect lists every registered SPI port
func (d *detector) Detect(_ context.Context, _ *detection.Options) ([]detection.Candidate, error) {
	if err := d.init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	refs := d.ports()
	cands := make([]detection.Candidate, 0, len(refs))
	for _, ref := range refs {
		c := detection.Candidate{Bus: "spi", Path: ref.Name}
		if len(ref.Aliases) > 0 {
			c.Description = "aka " + strings.Join(ref.Aliases, ", ")
		}
		cands = append(cands, c)
	}
	return cands, nil
}
