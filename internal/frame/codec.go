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

package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Codec errors
var (
	ErrCRCMismatch   = errors.New("crc mismatch")
	ErrDeviceStatus  = errors.New("device reported error status")
	ErrFrameLength   = errors.New("frame length mismatch")
	ErrInvalidLength = errors.New("invalid payload length")
)

// StatusError reports a response whose status byte has the busy/error bits set
type StatusError struct {
	Status byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("device status 0x%02X", e.Status)
}

// Unwrap lets errors.Is match ErrDeviceStatus
func (*StatusError) Unwrap() error {
	return ErrDeviceStatus
}

// CRCError carries both checksums of a rejected read
type CRCError struct {
	Computed uint16
	Received uint16
}

func (e *CRCError) Error() string {
	return fmt.Sprintf("crc error: 0x%04X expected, got 0x%04X", e.Computed, e.Received)
}

// Unwrap lets errors.Is match ErrCRCMismatch
func (*CRCError) Unwrap() error {
	return ErrCRCMismatch
}

// WriteLen returns the encoded length of a write carrying n value bytes
func WriteLen(n int) int {
	if n == 0 {
		return HeaderLen
	}
	return HeaderLen + DummyLen + n
}

// ReadLen returns the encoded length of a read of n bytes
func ReadLen(n int, crc bool) int {
	size := HeaderLen + DummyLen + n
	if crc {
		size += CRCLen
	}
	return size
}

// EncodeWrite builds a register write frame.
//
// The register address takes the first slot of the frame and values follow
// the dummy bytes: [addr, 0x00, len_hi, len_lo, dummy x3, values...].
// An empty values slice encodes a bare 4-byte command.
func EncodeWrite(addr byte, values []byte) ([]byte, error) {
	if len(values) > MaxPayload {
		return nil, fmt.Errorf("%w: write of %d bytes", ErrInvalidLength, len(values))
	}

	buf := make([]byte, WriteLen(len(values)))
	buf[0] = addr
	buf[1] = byte(Write)
	binary.BigEndian.PutUint16(buf[2:4], uint16(len(values)))
	if len(values) > 0 {
		copy(buf[PayloadOffset:], values)
	}
	return buf, nil
}

// EncodeRead builds a register read frame of n response bytes.
// The returned buffer is the full transfer length; everything after the
// header is clocked out as zero while the chip answers.
func EncodeRead(addr byte, n int, crc bool) ([]byte, error) {
	if n < 1 || n > MaxPayload {
		return nil, fmt.Errorf("%w: read of %d bytes", ErrInvalidLength, n)
	}

	buf := make([]byte, ReadLen(n, crc))
	buf[0] = addr
	buf[1] = byte(Read)
	if crc {
		buf[1] |= CRCFlag
	}
	binary.BigEndian.PutUint16(buf[2:4], uint16(n))
	return buf, nil
}

// CheckStatus validates the status byte of any response
func CheckStatus(raw []byte) error {
	if len(raw) <= StatusByte {
		return fmt.Errorf("%w: %d byte response", ErrFrameLength, len(raw))
	}
	if status := raw[StatusByte]; status&StatusErrorMask != 0 {
		return &StatusError{Status: status}
	}
	return nil
}

// DecodeReadResponse validates a read response and returns a copy of its payload.
// The status byte is checked before the CRC; neither failure returns data.
func DecodeReadResponse(raw []byte, n int, crc bool) ([]byte, error) {
	if n < 1 || n > MaxPayload {
		return nil, fmt.Errorf("%w: read of %d bytes", ErrInvalidLength, n)
	}
	if want := ReadLen(n, crc); len(raw) != want {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrFrameLength, len(raw), want)
	}
	if err := CheckStatus(raw); err != nil {
		return nil, err
	}

	payload := raw[PayloadOffset : PayloadOffset+n]
	if crc {
		computed := CRC16(payload)
		if received := ReadCRC(raw); computed != received {
			return nil, &CRCError{Computed: computed, Received: received}
		}
	}

	out := make([]byte, n)
	copy(out, payload)
	return out, nil
}
