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

import "testing"

func TestFlowTable_GetOrCreateIsIdempotent(t *testing.T) {
	ft := newFlowTable()
	a := ft.GetOrCreate(5)
	b := ft.GetOrCreate(5)
	if a != b {
		t.Fatal("GetOrCreate returned different FlowSlot pointers for the same id")
	}
	if ft.Len() != 1 {
		t.Fatalf("Len = %d, want 1", ft.Len())
	}
}

func TestFlowTable_GetMissingReportsFalse(t *testing.T) {
	ft := newFlowTable()
	if _, ok := ft.Get(42); ok {
		t.Fatal("Get on an untouched id should report ok=false")
	}
}

func TestFlowTable_SlotsLingerEmptyAfterCreation(t *testing.T) {
	ft := newFlowTable()
	slot := ft.GetOrCreate(1)
	slot.Status = Active
	slot.sub.Enqueue(v4pkt(100, 1, 1))
	slot.sub.Dequeue()
	slot.Status = Inactive
	// The slot stays in the table even though it is empty/Inactive.
	if ft.Len() != 1 {
		t.Fatalf("Len = %d, want 1 (lingering slot)", ft.Len())
	}
	if _, ok := ft.Get(1); !ok {
		t.Fatal("expected the lingering slot to still be retrievable")
	}
}

func TestFlowTable_ForEachVisitsEverySlot(t *testing.T) {
	ft := newFlowTable()
	ft.GetOrCreate(1)
	ft.GetOrCreate(2)
	ft.GetOrCreate(3)
	seen := make(map[uint32]bool)
	ft.ForEach(func(s *FlowSlot) { seen[s.ID] = true })
	if len(seen) != 3 {
		t.Fatalf("ForEach visited %d slots, want 3", len(seen))
	}
	for _, id := range []uint32{1, 2, 3} {
		if !seen[id] {
			t.Fatalf("ForEach never visited id %d", id)
		}
	}
}
