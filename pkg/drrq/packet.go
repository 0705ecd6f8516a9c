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

// AddressFamily tags which variant of Address is populated.
type AddressFamily uint8

const (
	// AddressUnknown marks a descriptor no installed filter can serve.
	AddressUnknown AddressFamily = iota
	AddressV4
	AddressV6
)

// Address is a tagged union of an IPv4 or IPv6 address. Only the field named
// by Family is meaningful; the other is left zeroed.
type Address struct {
	Family AddressFamily
	V4     [4]byte
	V6     [16]byte
}

// V4Address builds an Address in the IPv4 family.
func V4Address(a, b, c, d byte) Address {
	return Address{Family: AddressV4, V4: [4]byte{a, b, c, d}}
}

// V6Address builds an Address in the IPv6 family from 16 bytes.
func V6Address(b [16]byte) Address {
	return Address{Family: AddressV6, V6: b}
}

// Masked returns a copy of the address with a.V4 bitwise-ANDed against mask,
// used by the classifier's network-mask mode. IPv6 addresses are returned
// unchanged; mask mode only applies to the source address of IPv4 traffic
// per spec.
func (a Address) Masked(mask [4]byte) Address {
	if a.Family != AddressV4 {
		return a
	}
	out := a
	for i := range out.V4 {
		out.V4[i] &= mask[i]
	}
	return out
}

const (
	protoTCP = 6
	protoUDP = 17
)

// PacketDescriptor is the immutable unit the scheduler operates on. The
// scheduler never mutates a descriptor it is handed; Size is always > 0 for
// packets produced by a well-behaved caller, though a zero-size descriptor
// is tolerated (it dequeues without affecting deficit accounting).
type PacketDescriptor struct {
	Size uint32
	Src  Address
	Dst  Address
	// Proto is the 8-bit transport protocol id (6 = TCP, 17 = UDP, ...).
	Proto uint8
	// SrcPort and DstPort are only meaningful when Proto is TCP or UDP and
	// FirstFragment is true; the classifier zeroes them otherwise.
	SrcPort, DstPort uint16
	// FirstFragment is true for unfragmented packets or the first fragment
	// of a fragmented one; false for trailing fragments, which carry no
	// transport port information.
	FirstFragment bool
}

// portsEligible reports whether this descriptor's ports should participate
// in classification.
func (p PacketDescriptor) portsEligible() bool {
	return p.FirstFragment && (p.Proto == protoTCP || p.Proto == protoUDP)
}
