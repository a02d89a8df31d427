// MIT License
//
// Copyright 2018 Canonical Ledgers, LLC
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS
// IN THE SOFTWARE.

package engine

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "canaryd"

type metrics struct {
	registry *prometheus.Registry

	polls        prometheus.Counter
	pollErrors   prometheus.Counter
	pollDuration prometheus.Histogram
	changes      *prometheus.CounterVec

	fee         prometheus.Gauge
	memberCount prometheus.Gauge
	members     prometheus.Gauge
	blobs       prometheus.Gauge
}

func newMetrics() *metrics {
	m := &metrics{registry: prometheus.NewRegistry()}

	m.polls = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "engine",
		Name:      "polls_total",
		Help:      "Number of polls started.",
	})
	m.pollErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "engine",
		Name:      "poll_errors_total",
		Help:      "Number of polls that failed.",
	})
	m.pollDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "engine",
		Name:      "poll_duration_seconds",
		Help:      "Time taken by a poll.",
		Buckets:   prometheus.DefBuckets,
	})
	m.changes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "engine",
		Name:      "changes_total",
		Help:      "Number of observed changes by kind.",
	}, []string{"kind"})

	m.fee = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "registry",
		Name:      "fee_mist",
		Help:      "Registration fee of the registry.",
	})
	m.memberCount = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "registry",
		Name:      "members",
		Help:      "Number of members of the registry.",
	})
	m.members = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "watch",
		Name:      "members_registered",
		Help:      "Number of watched addresses that are registered.",
	})
	m.blobs = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "watch",
		Name:      "blobs_present",
		Help:      "Number of watched canary blobs that exist.",
	})

	m.registry.MustRegister(m.polls, m.pollErrors, m.pollDuration, m.changes,
		m.fee, m.memberCount, m.members, m.blobs)
	return m
}

func (m *metrics) observe(s State) {
	m.fee.Set(float64(s.Registry.Fee))
	m.memberCount.Set(float64(s.Registry.MemberCount))
	var members, blobs int
	for _, info := range s.Members {
		if info != nil {
			members++
		}
	}
	for _, info := range s.Blobs {
		if info != nil {
			blobs++
		}
	}
	m.members.Set(float64(members))
	m.blobs.Set(float64(blobs))
}

// Gatherer returns the registry holding the metrics of e.
func (e *Engine) Gatherer() prometheus.Gatherer {
	return e.metrics.registry
}
