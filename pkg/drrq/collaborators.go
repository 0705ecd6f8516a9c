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

import "time"

// MTUProvider is consumed once at construction time to derive Quantum when
// the caller leaves it unset.
type MTUProvider interface {
	MTU() uint32
}

// StaticMTU is an MTUProvider returning a fixed value. Useful for tests and
// for callers that already know their device's MTU.
type StaticMTU uint32

func (m StaticMTU) MTU() uint32 { return uint32(m) }

// DropSink is invoked once for every dropped packet. Implementations must
// not block the caller for long: they run synchronously, inline with
// Enqueue/packet-stealing, since the scheduler core has no suspension
// points of its own. A nil DropSink is never passed to scheduler internals;
// Config.validate substitutes NopDropSink.
type DropSink interface {
	OnDrop(pkt PacketDescriptor, reason DropReason)
}

// NopDropSink discards every drop. It is the default when no DropSink is
// configured.
type NopDropSink struct{}

func (NopDropSink) OnDrop(PacketDescriptor, DropReason) {}

// PerturbationClock schedules a recurring callback. SFQ uses it to rotate
// its classifier salt every PerturbationInterval. The returned stop
// function must be safe to call more than once.
type PerturbationClock interface {
	Every(d time.Duration, fn func()) (stop func())
}
