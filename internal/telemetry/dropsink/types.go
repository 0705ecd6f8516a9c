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

// Package dropsink adapts drrq.DropSink to pluggable audit backends (an
// in-process logger, Redis, Kafka). None of these back the scheduler's own
// state or admission decisions — they only observe drops after the fact, so
// the scheduler itself remains purely in-memory regardless of which
// backend is wired in.
package dropsink

import (
	"context"
	"time"
)

// Event is the audit record published for one dropped packet.
type Event struct {
	Reason    string
	Size      uint32
	Proto     uint8
	Timestamp time.Time
}

// Publisher is the minimal surface a drop-audit backend must provide.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}
