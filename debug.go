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

package ft8756

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
)

var (
	debugEnabled atomic.Bool
	debugLogger  atomic.Pointer[slog.Logger]
)

func init() {
	debugLogger.Store(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
}

// SetDebugEnabled turns package debug output on or off
func SetDebugEnabled(enabled bool) {
	debugEnabled.Store(enabled)
}

// SetDebugLogger replaces the logger used for package debug output
func SetDebugLogger(logger *slog.Logger) {
	if logger != nil {
		debugLogger.Store(logger)
	}
}

// DebugEnabled reports whether debug output is on
func DebugEnabled() bool {
	return debugEnabled.Load()
}

func debugf(format string, args ...any) {
	if !debugEnabled.Load() {
		return
	}
	debugLogger.Load().Debug(fmt.Sprintf(format, args...))
}

func debugln(msg string) {
	if !debugEnabled.Load() {
		return
	}
	debugLogger.Load().Debug(msg)
}

// debugAttrs logs a structured record through the device logger when one is
// configured, or through the package logger when debug output is on
func debugAttrs(logger *slog.Logger, msg string, attrs ...slog.Attr) {
	if logger != nil {
		logger.LogAttrs(context.Background(), slog.LevelDebug, msg, attrs...)
		return
	}
	if !debugEnabled.Load() {
		return
	}
	debugLogger.Load().LogAttrs(context.Background(), slog.LevelDebug, msg, attrs...)
}
