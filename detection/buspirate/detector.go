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


// Package buspirate lists USB serial ports that look like a Bus Pirate
package buspirate

import (
	"context"
	"fmt"

	"github.com/ZaparooProject/go-ft8756/detection"
	"go.bug.st/serial/enumerator"
)

// Known Bus Pirate USB ids
var knownIDs = map[string]string{
	"0403:6001": "Bus Pirate v3 (FT232R)",
	"04D8:FB00": "Bus Pirate v4",
	"1209:7331": "Bus Pirate 5",
}

type detector struct {
	list func() ([]*enumerator.PortDetails, error)
}

// New creates the Bus Pirate detector
func New() detection.Detector {
	return &detector{list: enumerator.GetDetailedPortsList}
}

func init() {
	detection.RegisterDetector(New())
}

// Bus returns the detector name
func (*detector) Bus() string {
	return "buspirate"
}

// Detect lists USB serial ports with a known Bus Pirate id
func (d *detector) Detect(_ context.Context, _ *detection.Options) ([]detection.Candidate, error) {
	ports, err := d.list()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate serial ports: %w", err)
	}

	var cands []detection.Candidate
	for _, p := range ports {
		if !p.IsUSB {
			continue
		}
		id := detection.FormatVIDPID(p.VID, p.PID)
		name, ok := knownIDs[id]
		if !ok {
			continue
		}
		if p.Product != "" {
			name = p.Product
		}
		cands = append(cands, detection.Candidate{
			Bus:         "buspirate",
			Path:        p.Name,
			VIDPID:      id,
			Description: name,
		})
	}
	return cands, nil
}
