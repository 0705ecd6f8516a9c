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

func TestActiveList_FIFOOrder(t *testing.T) {
	a := newActiveList()
	a.PushBack(1)
	a.PushBack(2)
	a.PushBack(3)
	for _, want := range []uint32{1, 2, 3} {
		id, ok := a.PopFront()
		if !ok || id != want {
			t.Fatalf("PopFront = %d, ok=%v; want %d", id, ok, want)
		}
	}
	if _, ok := a.PopFront(); ok {
		t.Fatal("expected empty list to report ok=false")
	}
}

func TestActiveList_FrontDoesNotRemove(t *testing.T) {
	a := newActiveList()
	a.PushBack(7)
	id, ok := a.Front()
	if !ok || id != 7 {
		t.Fatalf("Front = %d, ok=%v; want 7", id, ok)
	}
	if a.Len() != 1 {
		t.Fatalf("Len after Front = %d, want 1", a.Len())
	}
}

func TestActiveList_ContainsTracksMembership(t *testing.T) {
	a := newActiveList()
	if a.Contains(1) {
		t.Fatal("empty list should not Contain anything")
	}
	a.PushBack(1)
	if !a.Contains(1) {
		t.Fatal("expected Contains(1) after PushBack(1)")
	}
	a.PopFront()
	if a.Contains(1) {
		t.Fatal("expected Contains(1) to be false after PopFront")
	}
}

// TestActiveList_RemoveNonHead exercises removing a slot id from the middle
// of the list, the case packet stealing hits when it empties a flow that is
// not currently at the head.
func TestActiveList_RemoveNonHead(t *testing.T) {
	a := newActiveList()
	a.PushBack(1)
	a.PushBack(2)
	a.PushBack(3)
	if !a.Remove(2) {
		t.Fatal("Remove(2) should report true, 2 is a member")
	}
	if a.Contains(2) {
		t.Fatal("expected 2 to no longer be a member after Remove")
	}
	if a.Len() != 2 {
		t.Fatalf("Len after Remove = %d, want 2", a.Len())
	}
	// Order of what's left must be preserved.
	id, _ := a.PopFront()
	if id != 1 {
		t.Fatalf("first remaining id = %d, want 1", id)
	}
	id, _ = a.PopFront()
	if id != 3 {
		t.Fatalf("second remaining id = %d, want 3", id)
	}
}

func TestActiveList_RemoveAbsentReturnsFalse(t *testing.T) {
	a := newActiveList()
	a.PushBack(1)
	if a.Remove(99) {
		t.Fatal("Remove on an absent id should report false")
	}
	if a.Len() != 1 {
		t.Fatalf("Len after no-op Remove = %d, want 1", a.Len())
	}
}

func TestActiveList_EmptyReflectsLen(t *testing.T) {
	a := newActiveList()
	if !a.Empty() {
		t.Fatal("new list should be Empty")
	}
	a.PushBack(1)
	if a.Empty() {
		t.Fatal("list with one id should not be Empty")
	}
}
