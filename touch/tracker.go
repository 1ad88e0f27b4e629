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

package touch

// maxTrackingID matches the kernel's multitouch tracking id wrap
const maxTrackingID = 0xFFFF

// SlotTracker infers liftoff from frame-to-frame absence.
//
// Sinks call Touch for every contact and EndFrame on every sync. A slot
// that was active in the previous frame and was not touched in this one is
// reported as lifted. SlotTracker is not safe for concurrent use.
type SlotTracker struct {
	ids    [MaxSlots]int32
	active [MaxSlots]bool
	seen   [MaxSlots]bool
	nextID int32
}

// Touch marks slot as present in the current frame. It returns the slot's
// tracking id and whether this is a new contact.
func (t *SlotTracker) Touch(slot Slot) (trackingID int32, isNew bool) {
	if int(slot) >= MaxSlots {
		return -1, false
	}
	t.seen[slot] = true
	if t.active[slot] {
		return t.ids[slot], false
	}
	t.active[slot] = true
	t.ids[slot] = t.nextID
	t.nextID = (t.nextID + 1) & maxTrackingID
	return t.ids[slot], true
}

// EndFrame closes the current frame and returns the slots that lifted
func (t *SlotTracker) EndFrame() []Slot {
	var lifted []Slot
	for i := 0; i < MaxSlots; i++ {
		if t.active[i] && !t.seen[i] {
			t.active[i] = false
			lifted = append(lifted, Slot(i))
		}
		t.seen[i] = false
	}
	return lifted
}

// Active returns the slots with a live contact
func (t *SlotTracker) Active() []Slot {
	var slots []Slot
	for i := 0; i < MaxSlots; i++ {
		if t.active[i] {
			slots = append(slots, Slot(i))
		}
	}
	return slots
}

// Count returns the number of live contacts
func (t *SlotTracker) Count() int {
	n := 0
	for _, a := range t.active {
		if a {
			n++
		}
	}
	return n
}

// Reset releases every slot and returns the ones that were active
func (t *SlotTracker) Reset() []Slot {
	lifted := t.Active()
	for i := range t.active {
		t.active[i] = false
		t.seen[i] = false
	}
	return lifted
}
