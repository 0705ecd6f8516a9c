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

// FlowSubqueue is a bounded FIFO of PacketDescriptor for a single flow. Its
// own bound is advisory only; DRRScheduler/SFQScheduler enforce the global
// limits.
type FlowSubqueue struct {
	q      *list.List
	bytes  uint64
	npkts  uint64
}

func newFlowSubqueue() *FlowSubqueue {
	return &FlowSubqueue{q: list.New()}
}

// Enqueue appends pkt to the tail.
func (s *FlowSubqueue) Enqueue(pkt PacketDescriptor) {
	s.q.PushBack(pkt)
	s.bytes += uint64(pkt.Size)
	s.npkts++
}

// Dequeue removes and returns the head packet, or ok=false if empty.
func (s *FlowSubqueue) Dequeue() (pkt PacketDescriptor, ok bool) {
	e := s.q.Front()
	if e == nil {
		return PacketDescriptor{}, false
	}
	s.q.Remove(e)
	pkt = e.Value.(PacketDescriptor)
	s.bytes -= uint64(pkt.Size)
	s.npkts--
	return pkt, true
}

// Peek returns the head packet without removing it, or ok=false if empty.
func (s *FlowSubqueue) Peek() (pkt PacketDescriptor, ok bool) {
	e := s.q.Front()
	if e == nil {
		return PacketDescriptor{}, false
	}
	return e.Value.(PacketDescriptor), true
}

// Bytes returns the current total byte size of queued packets.
func (s *FlowSubqueue) Bytes() uint64 { return s.bytes }

// Packets returns the current count of queued packets.
func (s *FlowSubqueue) Packets() uint64 { return s.npkts }

// Empty reports whether the subqueue holds no packets.
func (s *FlowSubqueue) Empty() bool { return s.npkts == 0 }
