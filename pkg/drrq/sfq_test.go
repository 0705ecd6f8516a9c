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

// distinctFlowPair returns two PacketDescriptors guaranteed to land in
// different slots under maxFlows, so tests exercising two concurrent flows
// never accidentally collapse into one flow slot.
func distinctFlowPair(t *testing.T, c *Classifier, maxFlows uint32) (a, b PacketDescriptor) {
	t.Helper()
	a = v4pkt(200, 1, 1)
	ha, _ := c.Classify(a)
	for host := byte(2); host < 250; host++ {
		b = v4pkt(200, host, host)
		hb, _ := c.Classify(b)
		if ha%maxFlows != hb%maxFlows {
			return a, b
		}
	}
	t.Fatal("could not find two 5-tuples mapping to different slots")
	return a, b
}

// TestSFQ_FairshareAdmissionRejectsOverrunOnTightCapacity exercises
// MaxPackets=8, MaxFlows=4 (fairshare=2): two flows racing for the last
// slots of capacity, with the second flow's final packet rejected once it
// has overrun its fairshare and remaining capacity has gone tight.
func TestSFQ_FairshareAdmissionRejectsOverrunOnTightCapacity(t *testing.T) {
	sched, err := NewSFQ(Config{
		MaxFlows:    4,
		MaxPackets:  8,
		MTUProvider: StaticMTU(600),
		Filters:     []FamilyFilter{IPv4Filter{}},
	})
	if err != nil {
		t.Fatalf("NewSFQ: %v", err)
	}
	defer sched.Close()

	a, b := distinctFlowPair(t, sched.classifier, sched.cfg.MaxFlows)

	admittedA, admittedB := 0, 0
	for i := 0; i < 2; i++ {
		if sched.Enqueue(a) {
			admittedA++
		}
	}
	for i := 0; i < 4; i++ {
		if sched.Enqueue(b) {
			admittedB++
		}
	}

	if admittedA != 2 {
		t.Fatalf("admittedA = %d, want 2", admittedA)
	}
	if admittedB != 3 {
		t.Fatalf("admittedB = %d, want 3 (4th packet should be rejected)", admittedB)
	}
	if sched.NPackets() != 5 {
		t.Fatalf("NPackets = %d, want 5", sched.NPackets())
	}
	snap := sched.Stats()
	if snap.OverlimitDrops != 1 {
		t.Fatalf("OverlimitDrops = %d, want 1", snap.OverlimitDrops)
	}
}

// TestSFQ_AllotGoesNegativeAndSkipsUntilRecredited exercises quantum=90,
// packet size=120: a flow's allot is credited once on activation; serving
// one 120-byte packet against a 90-byte allot drives it negative, forcing
// the next visit to skip (credit +quantum, rotate to tail) before it can
// serve the flow's second packet.
func TestSFQ_AllotGoesNegativeAndSkipsUntilRecredited(t *testing.T) {
	sched, err := NewSFQ(Config{
		MaxFlows:    4,
		MaxPackets:  100,
		Quantum:     90,
		Filters:     []FamilyFilter{IPv4Filter{}},
	})
	if err != nil {
		t.Fatalf("NewSFQ: %v", err)
	}
	defer sched.Close()

	pkt := v4pkt(120, 1, 1)
	sched.Enqueue(pkt)
	sched.Enqueue(pkt)

	slotID, _ := sched.classifier.Classify(pkt)
	slotID %= sched.cfg.MaxFlows
	slot, _ := sched.table.Get(slotID)
	if slot.Deficit != 90 {
		t.Fatalf("allot after activation = %d, want 90 (quantum)", slot.Deficit)
	}

	got, ok := sched.Dequeue()
	if !ok || got.Size != 120 {
		t.Fatalf("dequeue #1 = %+v, ok=%v; want size 120", got, ok)
	}
	if slot.Deficit != -30 {
		t.Fatalf("allot after #1 = %d, want -30 (90-120)", slot.Deficit)
	}
	if slot.Status != Active {
		t.Fatalf("status after #1 = %v, want Active (one packet still queued)", slot.Status)
	}

	got, ok = sched.Dequeue()
	if !ok || got.Size != 120 {
		t.Fatalf("dequeue #2 = %+v, ok=%v; want size 120 (served after one skip-credit)", got, ok)
	}
	if slot.Deficit != 0 {
		t.Fatalf("allot after #2 = %d, want 0 (zeroed on empty)", slot.Deficit)
	}
	if slot.Status != Inactive {
		t.Fatalf("status after #2 = %v, want Inactive", slot.Status)
	}
}

func TestSFQ_NS2Mode_NoAllotBookkeeping(t *testing.T) {
	sched, err := NewSFQ(Config{
		MaxFlows:    4,
		MaxPackets:  100,
		Quantum:     90,
		NS2Style:    true,
		Filters:     []FamilyFilter{IPv4Filter{}},
	})
	if err != nil {
		t.Fatalf("NewSFQ: %v", err)
	}
	defer sched.Close()

	// ns-2 mode serves exactly one packet per visit regardless of size,
	// with no deficit/allot gating at all.
	sched.Enqueue(v4pkt(500, 1, 1))
	got, ok := sched.Dequeue()
	if !ok || got.Size != 500 {
		t.Fatalf("Dequeue = %+v, ok=%v; want size 500 served unconditionally", got, ok)
	}
}

func TestSFQ_UnclassifiedPacketsUseOverflowSlot(t *testing.T) {
	sched, err := NewSFQ(Config{
		MaxFlows:    4,
		MaxPackets:  100,
		Quantum:     600,
		Filters:     []FamilyFilter{IPv4Filter{}},
	})
	if err != nil {
		t.Fatalf("NewSFQ: %v", err)
	}
	defer sched.Close()

	if ok := sched.Enqueue(v6Descriptor()); !ok {
		t.Fatal("expected the unclassified overflow slot to admit the packet")
	}
	slot, ok := sched.table.Get(sched.cfg.MaxFlows)
	if !ok {
		t.Fatal("expected a slot at id MaxFlows (the unclassified overflow slot)")
	}
	if slot.Packets() != 1 {
		t.Fatalf("overflow slot Packets = %d, want 1", slot.Packets())
	}
}

func TestSFQ_PeekDoesNotMutate(t *testing.T) {
	sched, err := NewSFQ(Config{
		MaxFlows:    4,
		MaxPackets:  100,
		Quantum:     600,
		Filters:     []FamilyFilter{IPv4Filter{}},
	})
	if err != nil {
		t.Fatalf("NewSFQ: %v", err)
	}
	defer sched.Close()

	sched.Enqueue(v4pkt(100, 1, 1))
	first, ok := sched.Peek()
	if !ok || first.Size != 100 {
		t.Fatalf("Peek = %+v, ok=%v", first, ok)
	}
	if sched.NPackets() != 1 {
		t.Fatalf("NPackets after Peek = %d, want 1", sched.NPackets())
	}
}

func TestSFQ_CloseDrainsAndTagsClosedDrop(t *testing.T) {
	var drops []DropReason
	sink := dropSinkFunc(func(_ PacketDescriptor, reason DropReason) {
		drops = append(drops, reason)
	})
	sched, err := NewSFQ(Config{
		MaxFlows:    4,
		MaxPackets:  100,
		Quantum:     600,
		Filters:     []FamilyFilter{IPv4Filter{}},
		DropSink:    sink,
	})
	if err != nil {
		t.Fatalf("NewSFQ: %v", err)
	}

	sched.Enqueue(v4pkt(100, 1, 1))
	sched.Enqueue(v4pkt(100, 2, 2))
	sched.Close()

	if len(drops) != 2 {
		t.Fatalf("expected 2 drops from Close, got %d", len(drops))
	}
	for _, r := range drops {
		if r != ClosedDrop {
			t.Fatalf("drop reason = %v, want ClosedDrop", r)
		}
	}
	if sched.NBytes() != 0 || sched.NPackets() != 0 {
		t.Fatalf("expected zeroed totals after Close, got bytes=%d packets=%d", sched.NBytes(), sched.NPackets())
	}
}

func TestSFQ_ConfigRequiresMaxPackets(t *testing.T) {
	_, err := NewSFQ(Config{
		MaxFlows:    4,
		Quantum:     600,
		Filters:     []FamilyFilter{IPv4Filter{}},
	})
	if err == nil {
		t.Fatal("expected a ConfigError when MaxPackets is 0")
	}
}
