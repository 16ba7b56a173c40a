// Copyright 2026 The Workshopd Authors
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

// Package metrics exposes session manager counters through the
// controller-runtime metrics endpoint.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

const subsystem = "workshopd"

var (
	// SessionsAllocated counts sessions handed to users, by environment.
	SessionsAllocated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: subsystem,
			Name:      "sessions_allocated_total",
			Help:      "Count of workshop sessions allocated to users.",
		},
		[]string{"environment"},
	)

	// SessionsDenied counts allocation requests refused because capacity
	// was exhausted or the user was not permitted.
	SessionsDenied = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: subsystem,
			Name:      "sessions_denied_total",
			Help:      "Count of workshop session requests denied.",
		},
		[]string{"environment", "reason"},
	)

	// SessionsEvicted counts reserve sessions stopped to free portal
	// budget for another environment.
	SessionsEvicted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: subsystem,
			Name:      "sessions_evicted_total",
			Help:      "Count of reserved workshop sessions evicted to free portal capacity.",
		},
		[]string{"environment"},
	)

	// ReserveTopUps counts reserved pool replenishment creations.
	ReserveTopUps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: subsystem,
			Name:      "reserve_top_ups_total",
			Help:      "Count of reserved pool replenishment sessions created.",
		},
		[]string{"environment"},
	)

	// PortalRetries counts retryable training portal provisioning failures.
	PortalRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: subsystem,
			Name:      "portal_provision_retries_total",
			Help:      "Count of retryable training portal provisioning failures.",
		},
		[]string{"portal"},
	)
)

var registerOnce sync.Once

// Register installs the counters into the controller-runtime registry.
// Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		metrics.Registry.MustRegister(
			SessionsAllocated,
			SessionsDenied,
			SessionsEvicted,
			ReserveTopUps,
			PortalRetries,
		)
	})
}
