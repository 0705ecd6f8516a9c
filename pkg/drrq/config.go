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

// Package drrq's configuration is an explicit struct passed at construction
// time, replacing the ns-3 source's process-wide ObjectFactory/attribute
// registry.
package drrq

const (
	// DefaultMaxFlows is the default number of flow slots (N).
	DefaultMaxFlows = 1024
	// DefaultByteLimit is the default global byte cap.
	DefaultByteLimit = 10 * 1024
)

// Config configures a DRRScheduler or SFQScheduler. Zero-value fields are
// filled in with documented defaults by New/NewSFQ except where noted.
type Config struct {
	// MaxFlows is N, the number of flow slots. Zero means "use
	// DefaultMaxFlows," matching the ns-3 attribute system's own default
	// for this knob — it is not treated as the fatal "N == 0" misconfiguration,
	// which would require a distinct explicit opt-out type to express.
	MaxFlows uint32

	// ByteLimit is the global byte cap enforced by packet stealing.
	// Defaults to DefaultByteLimit when zero.
	ByteLimit uint64

	// Quantum is the byte credit added to a flow's deficit each time it
	// reaches the head of the active list. If zero, it is set from
	// MTUProvider.MTU() at construction time.
	Quantum uint32

	// MeanPacketSize is informational only; neither scheduler reads it (SFQ's
	// fairshare is MaxPackets / MaxFlows). Optional.
	MeanPacketSize uint32

	// NetworkMask, when non-nil, enables the classifier's network-mask
	// mode for IPv4 traffic: the source address is ANDed with the mask
	// before hashing, and the ns-2 prime-modulo hash is used instead of the
	// 5-tuple mix. The two hash formulations are mutually exclusive. IPv6
	// traffic always uses the 5-tuple mix.
	NetworkMask *[4]byte

	// Filters are the installed family filters, tried in order until one
	// returns other than NoMatch. At least one must be installed.
	Filters []FamilyFilter

	// MTUProvider supplies the device MTU used to derive Quantum when it is
	// left zero. Required unless Quantum is set explicitly.
	MTUProvider MTUProvider

	// DropSink receives every dropped packet with its reason. May be left
	// nil, in which case drops are recorded in Stats only.
	DropSink DropSink

	// --- SFQ-only fields ---

	// MaxPackets bounds total queued packets for SFQ's admission control.
	// Required (> 0) for SFQ; unused by DRR.
	MaxPackets uint32

	// NS2Style switches SFQ's Dequeue to the packet-by-packet round-robin
	// rotation used by the ns-2 reference implementation, rather than the
	// default byte-quantum allot rotation. Admission control is the same
	// fairshare rule in both modes.
	NS2Style bool

	// PerturbationInterval, when non-zero, enables SFQ's periodic hash
	// perturbation via PerturbationClock.
	PerturbationInterval uint64 // nanoseconds; NewSFQ converts it to a time.Duration for PerturbationClock.Every

	// PerturbationClock schedules the periodic salt rotation callback.
	// Required when PerturbationInterval != 0.
	PerturbationClock PerturbationClock
}

// validate checks the construction-time invariants common to both
// schedulers and fills in defaults. A caller cannot hand the scheduler
// already-populated flow state through this API — New always starts from
// an empty FlowTable — so that failure mode is structurally impossible
// rather than something validate needs to check for.
func (c *Config) validate() error {
	if len(c.Filters) == 0 {
		return configErrorf("no packet filter installed; at least one family filter is required")
	}
	if c.MaxFlows == 0 {
		c.MaxFlows = DefaultMaxFlows
	}
	if c.ByteLimit == 0 {
		c.ByteLimit = DefaultByteLimit
	}
	if c.Quantum == 0 {
		if c.MTUProvider == nil {
			return configErrorf("quantum not set and no MTUProvider configured")
		}
		mtu := c.MTUProvider.MTU()
		if mtu == 0 {
			return configErrorf("MTUProvider returned 0")
		}
		c.Quantum = mtu
	}
	if c.DropSink == nil {
		c.DropSink = NopDropSink{}
	}
	return nil
}

func (c *Config) validateSFQ() error {
	if err := c.validate(); err != nil {
		return err
	}
	if c.MaxPackets == 0 {
		return configErrorf("SFQ requires MaxPackets > 0")
	}
	if c.PerturbationInterval != 0 && c.PerturbationClock == nil {
		return configErrorf("PerturbationInterval set without a PerturbationClock")
	}
	return nil
}
