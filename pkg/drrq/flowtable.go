// Copyright 2025 Esteban Alvarez. All Rights Reserved.
//
// Created: October 2025
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package drrq

// FlowTable is a sparse mapping from slot id to FlowSlot. Slots are
// allocated lazily on first use and linger, empty or INACTIVE, for the
// scheduler's lifetime; deletion is never required for correctness.
//
// The scheduler is single-threaded cooperative, so FlowTable is a plain map
// rather than a sync.Map guarding concurrently-accessed keys.
type FlowTable struct {
	slots map[uint32]*FlowSlot
}

func newFlowTable() *FlowTable {
	return &FlowTable{slots: make(map[uint32]*FlowSlot)}
}

// GetOrCreate returns the FlowSlot for id, creating it on first use.
func (t *FlowTable) GetOrCreate(id uint32) *FlowSlot {
	if s, ok := t.slots[id]; ok {
		return s
	}
	s := newFlowSlot(id)
	t.slots[id] = s
	return s
}

// Get returns the FlowSlot for id without creating it.
func (t *FlowTable) Get(id uint32) (*FlowSlot, bool) {
	s, ok := t.slots[id]
	return s, ok
}

// ForEach iterates every known slot, including lingering empty/INACTIVE
// ones. Iteration order is unspecified; callers that need a deterministic
// tie-break must apply it themselves (packet stealing compares slot ids to
// prefer the lowest).
func (t *FlowTable) ForEach(f func(*FlowSlot)) {
	for _, s := range t.slots {
		f(s)
	}
}

// Len returns the number of slots ever created, including lingering empty
// ones.
func (t *FlowTable) Len() int { return len(t.slots) }
