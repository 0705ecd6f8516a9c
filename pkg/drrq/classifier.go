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

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
)

// FamilyFilter recognizes one packet address family and serializes the
// fixed-layout classification buffer for it. Buffer reports ok=false when
// pkt's family is not the one this filter serves, so the Classifier can try
// the next installed filter in order.
type FamilyFilter interface {
	Buffer(pkt PacketDescriptor, mask *[4]byte, salt uint32) (buf []byte, ok bool)
}

// IPv4Filter serves IPv4 descriptors: a 13-byte buffer
// src(4) || dst(4) || proto(1) || srcPort-BE(2) || dstPort-BE(2),
// followed by the 4-byte big-endian salt when the salt is non-zero.
type IPv4Filter struct{}

func (IPv4Filter) Buffer(pkt PacketDescriptor, mask *[4]byte, salt uint32) ([]byte, bool) {
	if pkt.Src.Family != AddressV4 || pkt.Dst.Family != AddressV4 {
		return nil, false
	}
	src := pkt.Src
	if mask != nil {
		src = src.Masked(*mask)
	}
	buf := make([]byte, 0, 13+4)
	buf = append(buf, src.V4[:]...)
	buf = append(buf, pkt.Dst.V4[:]...)
	buf = append(buf, pkt.Proto)
	var srcPort, dstPort uint16
	if pkt.portsEligible() {
		srcPort, dstPort = pkt.SrcPort, pkt.DstPort
	}
	buf = binary.BigEndian.AppendUint16(buf, srcPort)
	buf = binary.BigEndian.AppendUint16(buf, dstPort)
	if salt != 0 {
		buf = binary.BigEndian.AppendUint32(buf, salt)
	}
	return buf, true
}

// IPv6Filter serves IPv6 descriptors: a 37-byte buffer
// src(16) || dst(16) || proto(1) || srcPort-BE(2) || dstPort-BE(2),
// followed by the 4-byte big-endian salt when the salt is non-zero.
// The network-mask mode only applies to IPv4 source addresses, so mask is
// accepted but ignored here.
type IPv6Filter struct{}

func (IPv6Filter) Buffer(pkt PacketDescriptor, _ *[4]byte, salt uint32) ([]byte, bool) {
	if pkt.Src.Family != AddressV6 || pkt.Dst.Family != AddressV6 {
		return nil, false
	}
	buf := make([]byte, 0, 37+4)
	buf = append(buf, pkt.Src.V6[:]...)
	buf = append(buf, pkt.Dst.V6[:]...)
	buf = append(buf, pkt.Proto)
	var srcPort, dstPort uint16
	if pkt.portsEligible() {
		srcPort, dstPort = pkt.SrcPort, pkt.DstPort
	}
	buf = binary.BigEndian.AppendUint16(buf, srcPort)
	buf = binary.BigEndian.AppendUint16(buf, dstPort)
	if salt != 0 {
		buf = binary.BigEndian.AppendUint32(buf, salt)
	}
	return buf, true
}

// maskPrime is P = 2^24 - 1, the modulus of the ns-2 mask-mode hash.
const maskPrime = 1<<24 - 1

// Classifier maps a PacketDescriptor to a 32-bit flow hash, or reports
// NoMatch. Classify is safe to call from the single goroutine driving the
// owning scheduler at any time; salt is an atomic.Uint32 because SFQ's
// perturbation ticker (a TickerClock, running on its own goroutine) calls
// SetSalt concurrently with that caller.
type Classifier struct {
	filters []FamilyFilter
	mask    *[4]byte
	salt    atomic.Uint32
}

// NewClassifier builds a Classifier from an ordered list of filters and an
// optional network mask. At least one filter is required; Config.validate
// enforces this before a Classifier is ever built.
func NewClassifier(filters []FamilyFilter, mask *[4]byte) *Classifier {
	return &Classifier{filters: filters, mask: mask}
}

// SetSalt installs the 32-bit perturbation salt mixed into every 5-tuple
// hash computed from this point on. The network-mask hash does not take the
// salt as an input, so in mask mode SetSalt leaves IPv4 hashes unchanged.
// DRR never calls this; only SFQ's perturbation ticker does.
func (c *Classifier) SetSalt(salt uint32) { c.salt.Store(salt) }

// Classify returns a 32-bit flow hash for pkt, and ok=false (the NO_MATCH
// sentinel) if no installed filter serves pkt's address family.
func (c *Classifier) Classify(pkt PacketDescriptor) (hash uint32, ok bool) {
	salt := c.salt.Load()
	for _, f := range c.filters {
		buf, matched := f.Buffer(pkt, c.mask, salt)
		if !matched {
			continue
		}
		if c.mask != nil && pkt.Src.Family == AddressV4 {
			return maskModeHash(pkt, *c.mask), true
		}
		return mixHash(buf), true
	}
	return 0, false
}

// mixHash applies a fast, well-avalanched, non-cryptographic 64-bit mix
// (xxhash) to buf and folds it to 32 bits. This is the 5-tuple mix side of
// the classifier, used whenever network-mask mode is off.
func mixHash(buf []byte) uint32 {
	h := xxhash.Sum64(buf)
	return uint32(h) ^ uint32(h>>32)
}

// maskModeHash implements the ns-2 prime-modulo hash: ((s + (s>>8) +
// ~(s>>4)) mod P) + 1, where s is the masked IPv4 source address read as a
// big-endian uint32 and P = 2^24-1. This is mutually exclusive with
// mixHash and only ever applies to IPv4 source addresses, matching
// IPv4Filter's mask handling.
func maskModeHash(pkt PacketDescriptor, mask [4]byte) uint32 {
	masked := pkt.Src.Masked(mask)
	s := binary.BigEndian.Uint32(masked.V4[:])
	mixed := int64(s) + int64(s>>8) + int64(^(s >> 4))
	return uint32(mixed%maskPrime) + 1
}
