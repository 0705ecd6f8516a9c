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

// Package dropmetrics provides opt-in Prometheus telemetry for drrq
// schedulers. It is designed to be safe to call from the scheduler's hot
// path: when disabled, Sink.OnDrop, the Record* helpers and SetQueueGauges
// are no-ops.
package dropmetrics

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"drrq/pkg/drrq"
)

var modEnabled atomic.Bool

var (
	dropsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "drrq_drops_total",
		Help: "Total packets dropped, by reason",
	}, []string{"reason"})
	admittedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "drrq_admitted_total",
		Help: "Total packets admitted into the scheduler",
	})
	servedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "drrq_served_total",
		Help: "Total packets dequeued and handed to the caller",
	})
	activeFlows = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "drrq_active_flows",
		Help: "Number of flow slots currently on the active list",
	})
	bytesQueued = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "drrq_bytes_queued",
		Help: "Instantaneous total queued bytes across all flows",
	})
	packetsQueued = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "drrq_packets_queued",
		Help: "Instantaneous total queued packets across all flows",
	})
	dequeueRounds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "drrq_dequeue_rounds",
		Help:    "Round trials a single Dequeue call took before returning",
		Buckets: prometheus.LinearBuckets(1, 1, 8),
	})
)

func init() {
	prometheus.MustRegister(dropsTotal, admittedTotal, servedTotal, activeFlows, bytesQueued, packetsQueued, dequeueRounds)
}

// Enable turns on metric emission. Disabled by default so importing this
// package has no cost for callers who never call Enable.
func Enable(enabled bool) { modEnabled.Store(enabled) }

// Enabled reports whether metric emission is turned on.
func Enabled() bool { return modEnabled.Load() }

// Sink is a drrq.DropSink that feeds dropsTotal, keyed by DropReason. Install
// it as Config.DropSink (optionally chained with another sink via
// dropsink.Multi) to get metrics without giving up an audit/telemetry sink.
type Sink struct{}

func (Sink) OnDrop(_ drrq.PacketDescriptor, reason drrq.DropReason) {
	if !modEnabled.Load() {
		return
	}
	dropsTotal.WithLabelValues(reason.String()).Inc()
}

// RecordAdmit increments the admitted-packets counter. Sink only counts
// drops, so this counter moves only when a caller invokes RecordAdmit itself.
func RecordAdmit() {
	if modEnabled.Load() {
		admittedTotal.Inc()
	}
}

// RecordServe increments the served-packets counter.
func RecordServe() {
	if modEnabled.Load() {
		servedTotal.Inc()
	}
}

// RecordDequeueRounds observes n, the number of round trials the most
// recent Dequeue call took. Callers should sample a scheduler's
// DequeueRounds() once after each Dequeue.
func RecordDequeueRounds(n int) {
	if modEnabled.Load() {
		dequeueRounds.Observe(float64(n))
	}
}

// SetQueueGauges publishes the scheduler's current occupancy. Callers
// typically do this on a periodic timer rather than per-packet, to keep the
// gauges cheap to update.
func SetQueueGauges(active int, bytes, packets uint64) {
	if !modEnabled.Load() {
		return
	}
	activeFlows.Set(float64(active))
	bytesQueued.Set(float64(bytes))
	packetsQueued.Set(float64(packets))
}

// ServeMetrics starts a dedicated HTTP server exposing /metrics on addr in a
// background goroutine. Safe to call at most once per addr; callers that
// already run an HTTP server elsewhere should mount promhttp.Handler() there
// instead.
func ServeMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		_ = server.ListenAndServe()
	}()
}
