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
	"sync"
	"sync/atomic"
	"time"
)

// TickerClock is the production PerturbationClock. Each call to Every starts
// its own goroutine driven by a time.Ticker; the returned stop function is
// idempotent, matching the Start/Stop/stopChan/sync.WaitGroup pattern
// internal/ratelimiter/core/worker.go uses for its background eviction loop,
// adapted here for salt rotation instead of commit/eviction.
type TickerClock struct{}

// NewTickerClock returns a ready-to-use TickerClock. It holds no state of its
// own; every Every call is independent.
func NewTickerClock() *TickerClock { return &TickerClock{} }

// Every runs fn on its own goroutine every d until the returned stop func is
// called. d <= 0 disables the ticker entirely (stop is a no-op).
func (c *TickerClock) Every(d time.Duration, fn func()) (stop func()) {
	if d <= 0 {
		return func() {}
	}

	ticker := time.NewTicker(d)
	stopCh := make(chan struct{})
	var stopped atomic.Bool
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				fn()
			case <-stopCh:
				return
			}
		}
	}()

	return func() {
		if stopped.CompareAndSwap(false, true) {
			close(stopCh)
			wg.Wait()
		}
	}
}

// ManualClock is a test PerturbationClock: Every records fn without starting
// any goroutine, and Tick invokes every registered fn synchronously on the
// caller's goroutine. This lets scenario tests exercise perturbation-driven
// salt rotation deterministically, without a real timer.
type ManualClock struct {
	callbacks []func()
}

// Every registers fn and returns a stop func that removes it.
func (m *ManualClock) Every(_ time.Duration, fn func()) (stop func()) {
	idx := len(m.callbacks)
	m.callbacks = append(m.callbacks, fn)
	return func() {
		if idx < len(m.callbacks) {
			m.callbacks[idx] = nil
		}
	}
}

// Tick invokes every still-registered callback once, in registration order.
func (m *ManualClock) Tick() {
	for _, fn := range m.callbacks {
		if fn != nil {
			fn()
		}
	}
}
