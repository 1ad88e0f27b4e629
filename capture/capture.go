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


// Package capture records raw touch reports as a CBOR sequence and plays
// them back through the decoder.
//
// A capture starts with a Header item followed by one Record per report
// read from the chip, idle frames included, so a session can be decoded
// again offline with different bounds or sinks.
package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ZaparooProject/go-ft8756/touch"
	"github.com/fxamacker/cbor/v2"
)

// Version is the capture format version written in the header
const Version = 1

var (
	// ErrVersion is returned for captures written by an unknown format version
	ErrVersion = errors.New("unsupported capture version")
	// ErrReportSize is returned for records that are not one touch report long
	ErrReportSize = errors.New("record is not a touch report")
)

// Header describes the capture
type Header struct {
	Version int          `cbor:"1,keyasint"`
	Variant string       `cbor:"2,keyasint,omitempty"`
	Bus     string       `cbor:"3,keyasint,omitempty"`
	Bounds  touch.Bounds `cbor:"4,keyasint"`
	Started time.Time    `cbor:"5,keyasint"`
}

// Record is one report read from the chip
type Record struct {
	Time   time.Time `cbor:"1,keyasint"`
	Report []byte    `cbor:"2,keyasint"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	opts := cbor.CoreDetEncOptions()
	opts.Time = cbor.TimeRFC3339Nano
	em, err := opts.EncMode()
	if err != nil {
		panic(err)
	}
	dm, err := cbor.DecOptions{
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}.DecMode()
	if err != nil {
		panic(err)
	}
	encMode, decMode = em, dm
}

// Recorder appends records to a capture. It is safe for concurrent use.
type Recorder struct {
	enc   *cbor.Encoder
	now   func() time.Time
	mu    sync.Mutex
	count int
}

// NewRecorder writes header to w and returns a Recorder appending to it.
// Version and Started are filled in when zero.
func NewRecorder(w io.Writer, header Header) (*Recorder, error) {
	r := &Recorder{
		enc: encMode.NewEncoder(w),
		now: time.Now,
	}
	if header.Version == 0 {
		header.Version = Version
	}
	if header.Started.IsZero() {
		header.Started = r.now()
	}
	if err := r.enc.Encode(header); err != nil {
		return nil, fmt.Errorf("write capture header: %w", err)
	}
	return r, nil
}

// Record appends one report stamped with the current time
func (r *Recorder) Record(report []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.enc.Encode(Record{Time: r.now(), Report: report}); err != nil {
		return fmt.Errorf("write capture record %d: %w", r.count, err)
	}
	r.count++
	return nil
}

// Count returns the number of records written
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Reader iterates a capture
type Reader struct {
	dec    *cbor.Decoder
	header Header
	index  int
}

// NewReader reads the capture header from r
func NewReader(r io.Reader) (*Reader, error) {
	rd := &Reader{dec: decMode.NewDecoder(r)}
	if err := rd.dec.Decode(&rd.header); err != nil {
		return nil, fmt.Errorf("read capture header: %w", err)
	}
	if rd.header.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, rd.header.Version)
	}
	return rd, nil
}

// Header returns the capture header
func (r *Reader) Header() Header {
	return r.header
}

// Next returns the next record, or io.EOF after the last one
func (r *Reader) Next() (Record, error) {
	var rec Record
	if err := r.dec.Decode(&rec); err != nil {
		if errors.Is(err, io.EOF) {
			return Record{}, io.EOF
		}
		return Record{}, fmt.Errorf("read capture record %d: %w", r.index, err)
	}
	r.index++
	if len(rec.Report) != touch.ReportSize {
		return rec, fmt.Errorf("%w: record %d has %d bytes", ErrReportSize, r.index-1, len(rec.Report))
	}
	return rec, nil
}

// Summary totals a replay
type Summary struct {
	Reports   int
	Idle      int
	Samples   int
	Malformed int
}

// Replay decodes every record in r into sink using the capture's bounds.
// With realtime set the original spacing between records is kept.
func Replay(ctx context.Context, r *Reader, sink touch.Sink, realtime bool) (Summary, error) {
	var (
		sum  Summary
		last time.Time
	)
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			return sum, nil
		}
		if err != nil {
			return sum, err
		}

		if realtime && !last.IsZero() {
			if err := wait(ctx, rec.Time.Sub(last)); err != nil {
				return sum, err
			}
		} else if err := ctx.Err(); err != nil {
			return sum, err
		}
		last = rec.Time

		stats, err := touch.Process(rec.Report, r.header.Bounds, sink)
		sum.Reports++
		if stats.Idle {
			sum.Idle++
		}
		sum.Samples += stats.Samples
		sum.Malformed += stats.Malformed()
		if err != nil {
			return sum, fmt.Errorf("replay record %d: %w", sum.Reports-1, err)
		}
	}
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
