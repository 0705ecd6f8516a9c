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

// Package drrq implements a Deficit Round Robin (DRR) fair-queueing packet
// scheduler and its Stochastic Fairness Queueing (SFQ) sibling. Both share a
// 5-tuple classifier, a lazily-created flow table, and an active-list
// round-robin core; they differ in admission policy and accounting unit.
//
// The scheduler is driven synchronously by an external event loop: Enqueue,
// Dequeue and Peek never block and never spawn goroutines of their own. A
// scheduler instance owns all of its state and is not safe for concurrent
// use without external serialization (one mutex per instance suffices).
package drrq
