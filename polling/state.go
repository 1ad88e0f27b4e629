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

package polling

import "time"

// ContactState represents whether the panel is being touched
type ContactState int

const (
	StateIdle ContactState = iota
	StateTouching
)

// String returns the state name
func (s ContactState) String() string {
	if s == StateTouching {
		return "touching"
	}
	return "idle"
}

// TouchState tracks the panel between reports
type TouchState struct {
	LastContactTime time.Time
	LastReportTime  time.Time
	DetectionState  ContactState
	Contacts        int
}

// TransitionToTouching records a report that carried contacts
func (ts *TouchState) TransitionToTouching(now time.Time, contacts int) {
	ts.DetectionState = StateTouching
	ts.Contacts = contacts
	ts.LastContactTime = now
	ts.LastReportTime = now
}

// TransitionToIdle records that every contact lifted
func (ts *TouchState) TransitionToIdle() {
	ts.DetectionState = StateIdle
	ts.Contacts = 0
	ts.LastContactTime = time.Time{}
}

// ReleaseDue reports whether contacts are held past timeout without a
// report confirming them. A zero timeout disables the release.
func (ts *TouchState) ReleaseDue(now time.Time, timeout time.Duration) bool {
	if ts.DetectionState != StateTouching || timeout <= 0 {
		return false
	}
	return now.Sub(ts.LastContactTime) > timeout
}
