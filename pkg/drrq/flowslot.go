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

// FlowStatus is a flow's membership state relative to the scheduler's
// active list.
type FlowStatus uint8

const (
	// Inactive flows are not on the active list; their deficit/allot is 0
	// and their subqueue is empty.
	Inactive FlowStatus = iota
	// Active flows are on the active list exactly once.
	Active
)

// FlowSlot is the per-flow state created lazily on first enqueue to a hash
// bucket and held for the lifetime of the owning scheduler.
type FlowSlot struct {
	ID      uint32
	sub     *FlowSubqueue
	Deficit int64 // DRR deficit, or SFQ "allot" when used by SFQScheduler
	Status  FlowStatus
}

func newFlowSlot(id uint32) *FlowSlot {
	return &FlowSlot{ID: id, sub: newFlowSubqueue()}
}

// Bytes returns the slot's current queued byte total.
func (f *FlowSlot) Bytes() uint64 { return f.sub.Bytes() }

// Packets returns the slot's current queued packet count.
func (f *FlowSlot) Packets() uint64 { return f.sub.Packets() }
