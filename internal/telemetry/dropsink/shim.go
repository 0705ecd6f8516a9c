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

package dropsink

import (
	"context"
	"time"

	"drrq/pkg/drrq"
)

// PublisherSink adapts a Publisher to drrq.DropSink, the interface the
// scheduler actually calls. Publish errors are swallowed, so a failing audit
// backend never fails the packet path. Publish runs synchronously inside
// OnDrop, which runs inline with Enqueue/packet-stealing, so a slow backend
// does delay the caller.
type PublisherSink struct {
	pub Publisher
}

// NewPublisherSink wraps pub as a drrq.DropSink.
func NewPublisherSink(pub Publisher) *PublisherSink {
	return &PublisherSink{pub: pub}
}

func (s *PublisherSink) OnDrop(pkt drrq.PacketDescriptor, reason drrq.DropReason) {
	ev := Event{
		Reason:    reason.String(),
		Size:      pkt.Size,
		Proto:     pkt.Proto,
		Timestamp: time.Now(),
	}
	_ = s.pub.Publish(context.Background(), ev)
}
