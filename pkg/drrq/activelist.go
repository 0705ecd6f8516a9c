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

import "container/list"

// ActiveList is the ordered working set of flow slot ids eligible to
// transmit this round; insertion order is service order.
// It provides O(1) push-back and pop-front, and an O(1) membership test so
// callers (and tests asserting the active-membership invariant) never need
// a linear scan.
type ActiveList struct {
	l         *list.List
	elemByID  map[uint32]*list.Element
}

func newActiveList() *ActiveList {
	return &ActiveList{l: list.New(), elemByID: make(map[uint32]*list.Element)}
}

// PushBack appends id to the tail. id must not already be a member.
func (a *ActiveList) PushBack(id uint32) {
	e := a.l.PushBack(id)
	a.elemByID[id] = e
}

// PopFront removes and returns the head id, or ok=false if empty.
func (a *ActiveList) PopFront() (id uint32, ok bool) {
	e := a.l.Front()
	if e == nil {
		return 0, false
	}
	a.l.Remove(e)
	id = e.Value.(uint32)
	delete(a.elemByID, id)
	return id, true
}

// Front returns the head id without removing it, or ok=false if empty.
func (a *ActiveList) Front() (id uint32, ok bool) {
	e := a.l.Front()
	if e == nil {
		return 0, false
	}
	return e.Value.(uint32), true
}

// Remove removes id from wherever it sits on the list. Used when packet
// stealing empties a flow that is not at the head of the active list.
// Reports whether id was present.
func (a *ActiveList) Remove(id uint32) bool {
	e, ok := a.elemByID[id]
	if !ok {
		return false
	}
	a.l.Remove(e)
	delete(a.elemByID, id)
	return true
}

// Contains reports whether id is currently on the list.
func (a *ActiveList) Contains(id uint32) bool {
	_, ok := a.elemByID[id]
	return ok
}

// Len returns the number of ids currently on the list.
func (a *ActiveList) Len() int { return a.l.Len() }

// Empty reports whether the list holds no ids.
func (a *ActiveList) Empty() bool { return a.l.Len() == 0 }
