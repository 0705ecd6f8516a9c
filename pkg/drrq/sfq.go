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

// SFQScheduler implements Stochastic Fairness Queueing, following the ns-2
// and ns-3 sfq-queue-disc reference algorithms: a packet-count admission
// rule feeding the same hash-classified flow slots as DRRScheduler,
// serviced either by an allot (byte-quantum) rotation or, in ns-2 mode,
// strict packet-by-packet round robin.
package drrq

import (
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/dgryski/go-rendezvous"
)

// SFQScheduler schedules packets across hash-classified flows using
// Stochastic Fairness Queueing. Like DRRScheduler it is driven synchronously
// by a single caller; the one exception is classifier salt rotation, which
// PerturbationClock may run on its own goroutine.
type SFQScheduler struct {
	cfg        Config
	classifier *Classifier
	table      *FlowTable
	active     *ActiveList
	stats      Stats

	totalBytes   uint64
	totalPackets uint64
	lastRounds   int

	unclassifiedSlot uint32
	fairshare        uint32

	rendezvous   *rendezvous.Rendezvous
	stopPerturb  func()
	perturbCount uint64
}

// NewSFQ constructs an SFQScheduler from cfg. Returns a ConfigError if cfg
// cannot be satisfied.
func NewSFQ(cfg Config) (*SFQScheduler, error) {
	if err := cfg.validateSFQ(); err != nil {
		return nil, err
	}
	s := &SFQScheduler{
		cfg:              cfg,
		classifier:       NewClassifier(cfg.Filters, cfg.NetworkMask),
		table:            newFlowTable(),
		active:           newActiveList(),
		unclassifiedSlot: cfg.MaxFlows, // one past the ordinary 0..MaxFlows-1 range
		fairshare:        cfg.MaxPackets / cfg.MaxFlows,
	}
	if cfg.PerturbationInterval != 0 {
		s.rendezvous = buildRendezvous(cfg.MaxFlows)
		s.stopPerturb = cfg.PerturbationClock.Every(
			time.Duration(cfg.PerturbationInterval), s.perturb)
	}
	return s, nil
}

// buildRendezvous seeds a rendezvous set over the ordinary slot ids
// 0..n-1, keyed by slot id string. The node set never changes; only the
// lookup key (which folds in the current salt) does, so rotation is driven
// entirely by Classify's existing salt plumbing rather than by adding or
// removing nodes.
func buildRendezvous(n uint32) *rendezvous.Rendezvous {
	nodes := make([]string, n)
	for i := range nodes {
		nodes[i] = strconv.Itoa(i)
	}
	return rendezvous.New(nodes, xxhash.Sum64String)
}

// perturb is the PerturbationClock callback: it derives a new salt from a
// monotonic tick counter and installs it on the classifier. The salt only
// needs to change on each tick, not be cryptographically unpredictable, so
// a counter fed through xxhash is enough and keeps salt rotation
// reproducible under a manual PerturbationClock in tests.
func (s *SFQScheduler) perturb() {
	s.perturbCount++
	next := uint32(xxhash.Sum64String(strconv.FormatUint(s.perturbCount, 10)))
	s.classifier.SetSalt(next)
}

// Quantum returns the byte credit an allot is initialized to on activation.
func (s *SFQScheduler) Quantum() uint32 { return s.cfg.Quantum }

// NBytes returns the instantaneous total queued bytes across all flows.
func (s *SFQScheduler) NBytes() uint64 { return s.totalBytes }

// NPackets returns the instantaneous total queued packets across all flows.
func (s *SFQScheduler) NPackets() uint64 { return s.totalPackets }

// Stats returns a snapshot of cumulative drop/admit/serve counters.
func (s *SFQScheduler) Stats() Snapshot { return s.stats.Snapshot() }

// slotFor maps a classification hash to a slot id. When perturbation is
// enabled, the lookup goes through the rendezvous set keyed by hash and, for
// 5-tuple hashes, the classifier's current salt is already folded into hash
// by Classify, so no separate seed plumbing is needed here (mask-mode hashes
// carry no salt, so their slot does not change on rotation); the rendezvous indirection exists
// so the node set (and therefore Lookup's scoring) stays stable in its own
// right even as callers experiment with alternate salt-rotation strategies.
func (s *SFQScheduler) slotFor(hash uint32) uint32 {
	if s.rendezvous == nil {
		return hash % s.cfg.MaxFlows
	}
	node := s.rendezvous.Lookup(strconv.FormatUint(uint64(hash), 16))
	id, err := strconv.ParseUint(node, 10, 32)
	if err != nil {
		return hash % s.cfg.MaxFlows
	}
	return uint32(id)
}

// Enqueue classifies and admits pkt. Unclassified packets are never
// dropped outright; they are routed to the dedicated overflow slot and
// compete for fair service like any other flow. Returns false only when
// admission control rejects pkt as OverlimitDrop.
func (s *SFQScheduler) Enqueue(pkt PacketDescriptor) bool {
	var slotID uint32
	if hash, ok := s.classifier.Classify(pkt); ok {
		slotID = s.slotFor(hash)
	} else {
		slotID = s.unclassifiedSlot
	}

	slot := s.table.GetOrCreate(slotID)
	if !s.admit(slot) {
		s.drop(pkt, OverlimitDrop)
		return false
	}

	if slot.Status == Inactive {
		slot.Status = Active
		slot.Deficit = int64(s.cfg.Quantum) // "allot", initialized on activation
		s.active.PushBack(slotID)
	}
	slot.sub.Enqueue(pkt)
	s.totalBytes += uint64(pkt.Size)
	s.totalPackets++
	s.stats.recordAdmit()
	return true
}

// admit applies the fairshare admission rule: reject once the scheduler is
// at MaxPackets, and reject early once remaining capacity
// is tight (less than MaxFlows packets left) and slot is already carrying
// more than its fair share. Both modes share this rule; only Dequeue's
// rotation differs between them.
func (s *SFQScheduler) admit(slot *FlowSlot) bool {
	if uint32(s.totalPackets) >= s.cfg.MaxPackets {
		return false
	}
	remaining := s.cfg.MaxPackets - uint32(s.totalPackets)
	if remaining < s.cfg.MaxFlows && uint32(slot.Packets()) > s.fairshare {
		return false
	}
	return true
}

// Dequeue serves one packet, dispatching to the allot rotation or the ns-2
// strict round robin depending on Config.NS2Style. DequeueRounds reports
// how many trials the most recent call took.
func (s *SFQScheduler) Dequeue() (PacketDescriptor, bool) {
	if s.cfg.NS2Style {
		return s.dequeueNS2()
	}
	return s.dequeueAllot()
}

// dequeueAllot implements the default allot-based rotation: slots with a
// non-positive allot are credited +quantum and rotated to the tail until one
// with a positive allot reaches the head; that slot yields one packet and
// its allot is debited by the packet's size.
func (s *SFQScheduler) dequeueAllot() (PacketDescriptor, bool) {
	rounds := 0
	for {
		rounds++
		slotID, ok := s.active.PopFront()
		if !ok {
			s.lastRounds = rounds
			return PacketDescriptor{}, false
		}
		slot, _ := s.table.Get(slotID)

		if slot.Deficit <= 0 {
			slot.Deficit += int64(s.cfg.Quantum)
			s.active.PushBack(slotID)
			continue
		}

		pkt, ok := slot.sub.Peek()
		if !ok {
			continue // unreachable: an ACTIVE slot always holds >=1 packet
		}
		slot.sub.Dequeue()
		slot.Deficit -= int64(pkt.Size)
		s.totalBytes -= uint64(pkt.Size)
		s.totalPackets--
		s.stats.recordServe()

		if slot.sub.Empty() {
			slot.Deficit = 0
			slot.Status = Inactive
		} else {
			s.active.PushBack(slotID)
		}
		s.lastRounds = rounds
		return pkt, true
	}
}

// dequeueNS2 implements the ns-2 strict round-robin mode: one packet per
// visit, no allot bookkeeping. It always resolves in a single round.
func (s *SFQScheduler) dequeueNS2() (PacketDescriptor, bool) {
	s.lastRounds = 1
	slotID, ok := s.active.PopFront()
	if !ok {
		return PacketDescriptor{}, false
	}
	slot, _ := s.table.Get(slotID)
	pkt, ok := slot.sub.Dequeue()
	if !ok {
		return PacketDescriptor{}, false // unreachable: see dequeueAllot
	}
	s.totalBytes -= uint64(pkt.Size)
	s.totalPackets--
	s.stats.recordServe()

	if slot.sub.Empty() {
		slot.Deficit = 0
		slot.Status = Inactive
	} else {
		s.active.PushBack(slotID)
	}
	return pkt, true
}

// DequeueRounds returns the number of round trials the most recent
// Dequeue call took before it returned.
func (s *SFQScheduler) DequeueRounds() int { return s.lastRounds }

// Peek returns the head packet of the head slot on the active list without
// mutating any state.
func (s *SFQScheduler) Peek() (PacketDescriptor, bool) {
	slotID, ok := s.active.Front()
	if !ok {
		return PacketDescriptor{}, false
	}
	slot, _ := s.table.Get(slotID)
	return slot.sub.Peek()
}

// Close stops the perturbation ticker, if any, and releases every queued
// packet to the configured DropSink. A scheduler must not be used after
// Close.
func (s *SFQScheduler) Close() {
	if s.stopPerturb != nil {
		s.stopPerturb()
	}
	s.table.ForEach(func(slot *FlowSlot) {
		for {
			pkt, ok := slot.sub.Dequeue()
			if !ok {
				break
			}
			s.cfg.DropSink.OnDrop(pkt, ClosedDrop)
		}
	})
	s.totalBytes = 0
	s.totalPackets = 0
}

func (s *SFQScheduler) drop(pkt PacketDescriptor, reason DropReason) {
	s.stats.recordDrop(reason)
	s.cfg.DropSink.OnDrop(pkt, reason)
}
