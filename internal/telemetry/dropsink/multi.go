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

import "drrq/pkg/drrq"

// Multi fans a single drop out to several sinks, e.g. a metrics exporter and
// an audit backend. Sinks run in order on the caller's goroutine; a slow sink
// here blocks Enqueue just as a single sink would, so callers chaining a
// network-backed Publisher should keep it cheap or asynchronous on its own.
type Multi []drrq.DropSink

func (m Multi) OnDrop(pkt drrq.PacketDescriptor, reason drrq.DropReason) {
	for _, sink := range m {
		sink.OnDrop(pkt, reason)
	}
}
