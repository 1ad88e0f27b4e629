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
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ZaparooProject/go-ft8756/touch"
)

// printSink writes one line per frame
type printSink struct {
	w       io.Writer
	now     func() time.Time
	pending []string
	wasDown bool
}

func newPrintSink(w io.Writer) *printSink {
	return &printSink{w: w, now: time.Now}
}

func (p *printSink) Contact(sample touch.ContactSample) error {
	p.pending = append(p.pending, sample.String())
	return nil
}

func (p *printSink) Sync() error {
	defer func() { p.pending = p.pending[:0] }()

	if len(p.pending) == 0 {
		if !p.wasDown {
			return nil
		}
		p.wasDown = false
		_, err := fmt.Fprintf(p.w, "%s released\n", p.now().Format("15:04:05.000"))
		return err
	}

	p.wasDown = true
	_, err := fmt.Fprintf(p.w, "%s %s\n", p.now().Format("15:04:05.000"), strings.Join(p.pending, " | "))
	return err
}
