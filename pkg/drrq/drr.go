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

// Package drrq: DRRScheduler implements the Deficit Round Robin queue
// discipline, following the ns-3 drr-queue-disc algorithm. It is the core
// of this package: a dynamic working set of per-flow subqueues, serviced
// in round-robin order with a deficit byte budget, with a global byte
// limit enforced by stealing from the fattest flow.
package drrq

// DRRScheduler schedules packets across a bounded set of hash-classified
// flows using Deficit Round Robin. It is driven synchronously by a single
// caller: an external event loop invokes Enqueue/Dequeue/Peek serially,
// and no operation here suspends or spawns goroutines of its own.
type DRRScheduler struct {
	cfg        Config
	classifier *Classifier
	table      *FlowTable
	active     *ActiveList
	stats      Stats

	totalBytes   uint64
	totalPackets uint64
	lastRounds   int
}

// New constructs a DRRScheduler from cfg. Returns a ConfigError if cfg
// cannot be satisfied.
func New(cfg Config) (*DRRScheduler, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &DRRScheduler{
		cfg:        cfg,
		classifier: NewClassifier(cfg.Filters, cfg.NetworkMask),
		table:      newFlowTable(),
		active:     newActiveList(),
	}, nil
}

// Quantum returns the byte credit each flow is granted per service turn.
func (d *DRRScheduler) Quantum() uint32 { return d.cfg.Quantum }

// NBytes returns the instantaneous total queued bytes across all flows.
func (d *DRRScheduler) NBytes() uint64 { return d.totalBytes }

// NPackets returns the instantaneous total queued packets across all flows.
func (d *DRRScheduler) NPackets() uint64 { return d.totalPackets }

// Stats returns a snapshot of cumulative drop/admit/serve counters.
func (d *DRRScheduler) Stats() Snapshot { return d.stats.Snapshot() }

// Enqueue classifies and admits pkt. Returns false only when the packet
// itself could not be classified (UnclassifiedDrop); a packet that is
// admitted and later stolen by overflow still returns true, since the
// stolen packet is typically an earlier one.
func (d *DRRScheduler) Enqueue(pkt PacketDescriptor) bool {
	hash, ok := d.classifier.Classify(pkt)
	if !ok {
		d.drop(pkt, UnclassifiedDrop)
		return false
	}
	slotID := hash % d.cfg.MaxFlows
	slot := d.table.GetOrCreate(slotID)

	if slot.Status == Inactive {
		slot.Status = Active
		d.active.PushBack(slotID)
	}

	slot.sub.Enqueue(pkt)
	d.totalBytes += uint64(pkt.Size)
	d.totalPackets++
	d.stats.recordAdmit()

	for d.totalBytes > d.cfg.ByteLimit {
		d.stealFromFattest()
	}
	return true
}

// stealFromFattest implements the packet-stealing overflow policy: scan
// all known flows, pick the one with the largest current byte backlog
// (ties broken by lowest slot id), and drop the head packet of its
// subqueue. Every call removes at least one packet, so the caller's overflow
// loop in Enqueue is bounded.
func (d *DRRScheduler) stealFromFattest() {
	var fattest *FlowSlot
	d.table.ForEach(func(s *FlowSlot) {
		if s.sub.Empty() {
			return
		}
		if fattest == nil || s.Bytes() > fattest.Bytes() ||
			(s.Bytes() == fattest.Bytes() && s.ID < fattest.ID) {
			fattest = s
		}
	})
	if fattest == nil {
		return // nothing left to steal; totalBytes must already be 0
	}

	pkt, ok := fattest.sub.Dequeue()
	if !ok {
		return
	}
	d.totalBytes -= uint64(pkt.Size)
	d.totalPackets--
	d.drop(pkt, OverlimitDrop)

	if fattest.sub.Empty() {
		fattest.Deficit = 0
		fattest.Status = Inactive
		d.active.Remove(fattest.ID)
	}
}

// Dequeue runs one or more round trials of the DRR algorithm until a
// packet is returned or the active list is exhausted. DequeueRounds
// reports how many trials the most recent call took.
func (d *DRRScheduler) Dequeue() (PacketDescriptor, bool) {
	rounds := 0
	for {
		rounds++
		slotID, ok := d.active.PopFront()
		if !ok {
			d.lastRounds = rounds
			return PacketDescriptor{}, false
		}
		slot, _ := d.table.Get(slotID)

		slot.Deficit += int64(d.cfg.Quantum)

		pkt, ok := slot.sub.Peek()
		if !ok {
			// An ACTIVE slot always has >=1 packet, so this branch is
			// unreachable; if it were taken, the empty slot would simply
			// be left off the active list and the loop would go on.
			continue
		}

		if slot.Deficit >= int64(pkt.Size) {
			slot.sub.Dequeue()
			slot.Deficit -= int64(pkt.Size)
			d.totalBytes -= uint64(pkt.Size)
			d.totalPackets--
			d.stats.recordServe()

			if slot.sub.Empty() {
				slot.Deficit = 0
				slot.Status = Inactive
			} else {
				d.active.PushBack(slotID)
			}
			d.lastRounds = rounds
			return pkt, true
		}

		// Quantum insufficient for the head packet this round: rotate and
		// let the deficit keep growing.
		d.active.PushBack(slotID)
	}
}

// DequeueRounds returns the number of round trials the most recent
// Dequeue call took before it returned. It is meant to be sampled by a
// caller after each Dequeue, e.g. into a latency-shaped histogram.
func (d *DRRScheduler) DequeueRounds() int { return d.lastRounds }

// Peek returns a non-mutating view of the packet the next Dequeue would
// most likely produce: the head of the head slot on the active list. It is
// an advisory observer and does not simulate deficit rotation.
func (d *DRRScheduler) Peek() (PacketDescriptor, bool) {
	slotID, ok := d.active.Front()
	if !ok {
		return PacketDescriptor{}, false
	}
	slot, _ := d.table.Get(slotID)
	return slot.sub.Peek()
}

// Close releases every queued packet to the configured DropSink (or drops
// it silently if none is configured) as a scoped teardown. A scheduler
// must not be used after Close.
func (d *DRRScheduler) Close() {
	d.table.ForEach(func(s *FlowSlot) {
		for {
			pkt, ok := s.sub.Dequeue()
			if !ok {
				break
			}
			d.cfg.DropSink.OnDrop(pkt, ClosedDrop)
		}
	})
	d.totalBytes = 0
	d.totalPackets = 0
}

func (d *DRRScheduler) drop(pkt PacketDescriptor, reason DropReason) {
	d.stats.recordDrop(reason)
	d.cfg.DropSink.OnDrop(pkt, reason)
}
