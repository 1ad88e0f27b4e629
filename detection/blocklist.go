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

package detection

import (
	"path/filepath"
	"strings"
)

// DefaultBlocklist returns USB serial adapters that are never a Bus Pirate.
// Format: VID:PID in hexadecimal (case-insensitive).
func DefaultBlocklist() []string {
	return []string{
		"2341:0043", // Arduino Uno
		"1A86:7523", // CH340 USB serial
	}
}

// IsBlocked checks if a USB id is in the blocklist
func IsBlocked(vidpid string, blocklist []string) bool {
	vidpid = ParseVIDPID(vidpid)
	if vidpid == "" {
		return false
	}
	for _, blocked := range blocklist {
		if ParseVIDPID(blocked) == vidpid {
			return true
		}
	}
	return false
}

// FormatVIDPID renders a USB id the way ParseVIDPID returns it
func FormatVIDPID(vid, pid string) string {
	vid, pid = extractHex(strings.ToUpper(vid)), extractHex(strings.ToUpper(pid))
	if vid == "" || pid == "" {
		return ""
	}
	return padHex(vid) + ":" + padHex(pid)
}

func padHex(s string) string {
	for len(s) < 4 {
		s = "0" + s
	}
	return s
}

var (
	vidKeys = []string{"VID:", "VENDOR=", "VID="}
	pidKeys = []string{"PID:", "PRODUCT=", "PID="}
)

// ParseVIDPID extracts VID:PID from "VID:0403 PID:6001", "0403:6001" or
// "vendor=0403 product=6001" style descriptors, normalized to upper case
func ParseVIDPID(descriptor string) string {
	descriptor = strings.ToUpper(strings.TrimSpace(descriptor))

	vid, pid := valueAfter(descriptor, vidKeys), valueAfter(descriptor, pidKeys)
	if vid != "" && pid != "" {
		return FormatVIDPID(vid, pid)
	}

	if v, p, ok := strings.Cut(descriptor, ":"); ok && isHex(v) && isHex(p) {
		return FormatVIDPID(v, p)
	}
	return ""
}

// valueAfter returns the hex run following the first key found in s
func valueAfter(s string, keys []string) string {
	for _, key := range keys {
		if _, rest, ok := strings.Cut(s, key); ok {
			return extractHex(rest)
		}
	}
	return ""
}

// extractHex returns the first run of upper case hex digits in s
func extractHex(s string) string {
	start := strings.IndexFunc(s, isUpperHex)
	if start < 0 {
		return ""
	}
	s = s[start:]
	if end := strings.IndexFunc(s, func(r rune) bool { return !isUpperHex(r) }); end >= 0 {
		s = s[:end]
	}
	return s
}

func isUpperHex(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'A' && r <= 'F')
}

func isHex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range strings.ToUpper(s) {
		if !isUpperHex(r) {
			return false
		}
	}
	return true
}

// IsPathIgnored checks if a bus path is in ignorePaths, comparing cleaned
// case-insensitive paths so "COM3" matches "com3"
func IsPathIgnored(devicePath string, ignorePaths []string) bool {
	if devicePath == "" || len(ignorePaths) == 0 {
		return false
	}

	normalizedDevice := normalizedPath(devicePath)

	for _, ignorePath := range ignorePaths {
		if ignorePath == "" {
			continue
		}

		if devicePath == ignorePath || normalizedDevice == normalizedPath(ignorePath) {
			return true
		}
	}
	return false
}

func normalizedPath(path string) string {
	return strings.ToLower(filepath.Clean(path))
}
