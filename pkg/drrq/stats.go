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

import "sync/atomic"

// DropReason identifies why a packet was dropped.
type DropReason uint8

const (
	// UnclassifiedDrop is recorded when no installed filter can classify a
	// packet.
	UnclassifiedDrop DropReason = iota
	// OverlimitDrop is recorded when packet stealing removes a packet to
	// bring the scheduler back under its byte limit, or, for SFQ, when
	// admission control rejects a packet.
	OverlimitDrop
	// ClosedDrop marks a packet released to the DropSink during Close's
	// scoped teardown. It is not one of the two drop reasons the external
	// stats surface enumerates, so it is never counted there.
	ClosedDrop
)

func (r DropReason) String() string {
	switch r {
	case UnclassifiedDrop:
		return "UNCLASSIFIED_DROP"
	case OverlimitDrop:
		return "OVERLIMIT_DROP"
	case ClosedDrop:
		return "CLOSED_DROP"
	default:
		return "UNKNOWN_DROP"
	}
}

// Stats holds cumulative, per-scheduler-instance counters. All fields are
// safe for concurrent reads from a different goroutine than the one driving
// the scheduler (e.g. an HTTP /stats handler), matching
// internal/ratelimiter/core/metrics.go's atomic-counter idiom, but scoped to
// a single instance rather than process-wide globals.
type Stats struct {
	unclassifiedDrops atomic.Uint64
	overlimitDrops    atomic.Uint64
	admitted          atomic.Uint64
	served            atomic.Uint64
}

func (s *Stats) recordDrop(reason DropReason) {
	switch reason {
	case UnclassifiedDrop:
		s.unclassifiedDrops.Add(1)
	case OverlimitDrop:
		s.overlimitDrops.Add(1)
	}
}

func (s *Stats) recordAdmit() { s.admitted.Add(1) }
func (s *Stats) recordServe() { s.served.Add(1) }

// Snapshot is a point-in-time copy of Stats' counters, suitable for
// rendering or comparison in tests.
type Snapshot struct {
	UnclassifiedDrops uint64
	OverlimitDrops    uint64
	Admitted          uint64
	Served            uint64
}

// Snapshot returns a consistent-enough point-in-time copy of the counters.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		UnclassifiedDrops: s.unclassifiedDrops.Load(),
		OverlimitDrops:    s.overlimitDrops.Load(),
		Admitted:          s.admitted.Load(),
		Served:            s.served.Load(),
	}
}
