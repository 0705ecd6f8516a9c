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

// Package benchmarks contains the performance tests for pkg/drrq.
package benchmarks

import (
	"sync/atomic"
	"testing"

	"drrq/pkg/drrq"
)

// sink variables prevent the compiler from optimizing away results in
// read-heavy benchmarks.
var (
	sinkBool  bool
	sinkUint  uint64
	globalIdx atomic.Uint64
)

func benchPacket(flow int) drrq.PacketDescriptor {
	return drrq.PacketDescriptor{
		Size:          512,
		Src:           drrq.V4Address(10, byte(flow>>8), byte(flow), 1),
		Dst:           drrq.V4Address(192, 168, 0, 1),
		Proto:         6,
		SrcPort:       uint16(1024 + flow),
		DstPort:       80,
		FirstFragment: true,
	}
}

func newBenchDRR(b *testing.B, maxFlows uint32) *drrq.DRRScheduler {
	b.Helper()
	sched, err := drrq.New(drrq.Config{
		MaxFlows:    maxFlows,
		ByteLimit:   1 << 30,
		MTUProvider: drrq.StaticMTU(1500),
		Filters:     []drrq.FamilyFilter{drrq.IPv4Filter{}},
	})
	if err != nil {
		b.Fatalf("drrq.New: %v", err)
	}
	return sched
}

// BenchmarkDRR_EnqueueDequeue_Uncontended measures the raw cost of one
// Enqueue+Dequeue round trip on a single DRRScheduler from a single
// goroutine. The scheduler's cooperative single-threaded design means this
// is the only valid way to benchmark one instance; see
// BenchmarkDRR_ShardedThroughput for a concurrent variant.
func BenchmarkDRR_EnqueueDequeue_Uncontended(b *testing.B) {
	sched := newBenchDRR(b, 256)
	defer sched.Close()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sched.Enqueue(benchPacket(i % 256))
		sched.Dequeue()
	}
}

// BenchmarkDRR_ShardedThroughput runs one DRRScheduler per goroutine, each
// driven entirely by that goroutine, mirroring how a NIC with multiple RX
// queues would shard flows across independent scheduler instances rather
// than sharing one scheduler across goroutines.
func BenchmarkDRR_ShardedThroughput(b *testing.B) {
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		sched, err := drrq.New(drrq.Config{
			MaxFlows:    64,
			ByteLimit:   1 << 30,
			MTUProvider: drrq.StaticMTU(1500),
			Filters:     []drrq.FamilyFilter{drrq.IPv4Filter{}},
		})
		if err != nil {
			panic(err)
		}
		defer sched.Close()
		i := 0
		for pb.Next() {
			sched.Enqueue(benchPacket(i % 64))
			sched.Dequeue()
			i++
		}
	})
}

// BenchmarkClassifier_Classify measures the 5-tuple classification hash in
// isolation, the hot path every Enqueue calls first.
func BenchmarkClassifier_Classify(b *testing.B) {
	c := drrq.NewClassifier([]drrq.FamilyFilter{drrq.IPv4Filter{}}, nil)
	pkt := benchPacket(42)
	b.ResetTimer()
	var h uint32
	for i := 0; i < b.N; i++ {
		v, ok := c.Classify(pkt)
		h ^= v
		sinkBool = ok
	}
	atomic.AddUint64(&sinkUint, uint64(h))
}

func newBenchSFQ(b *testing.B, maxFlows uint32) *drrq.SFQScheduler {
	b.Helper()
	sched, err := drrq.NewSFQ(drrq.Config{
		MaxFlows:    maxFlows,
		MaxPackets:  4096,
		MTUProvider: drrq.StaticMTU(1500),
		Filters:     []drrq.FamilyFilter{drrq.IPv4Filter{}},
	})
	if err != nil {
		b.Fatalf("drrq.NewSFQ: %v", err)
	}
	return sched
}

// BenchmarkSFQ_EnqueueDequeue_Uncontended is BenchmarkDRR_EnqueueDequeue_Uncontended's
// SFQ counterpart, exercising the allot rotation instead of the deficit one.
func BenchmarkSFQ_EnqueueDequeue_Uncontended(b *testing.B) {
	sched := newBenchSFQ(b, 256)
	defer sched.Close()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sched.Enqueue(benchPacket(i % 256))
		sched.Dequeue()
	}
}

// BenchmarkSFQ_NS2Mode measures the ns-2 strict round-robin rotation, which
// skips allot bookkeeping entirely.
func BenchmarkSFQ_NS2Mode(b *testing.B) {
	sched, err := drrq.NewSFQ(drrq.Config{
		MaxFlows:    256,
		MaxPackets:  4096,
		NS2Style:    true,
		MTUProvider: drrq.StaticMTU(1500),
		Filters:     []drrq.FamilyFilter{drrq.IPv4Filter{}},
	})
	if err != nil {
		b.Fatalf("drrq.NewSFQ: %v", err)
	}
	defer sched.Close()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sched.Enqueue(benchPacket(i % 256))
		sched.Dequeue()
	}
}

// BenchmarkAtomicAdd is a raw-atomic baseline to compare the scheduler's
// counter overhead against.
func BenchmarkAtomicAdd(b *testing.B) {
	var counter int64
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			atomic.AddInt64(&counter, 1)
			globalIdx.Add(1)
		}
	})
}
