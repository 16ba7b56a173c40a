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

// Package janitor recovers sessions whose deployment never completed. A
// session record can exist without a cluster resource when the process
// died between commit and task execution; the sweep re-submits the
// deployment for anything stuck in the starting state too long.
package janitor

import (
	"context"
	"time"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/workshopd/workshopd/internal/store"
)

// SubmitFunc re-enqueues the deployment task for a session.
type SubmitFunc func(sessionName string)

// Sweeper periodically re-triggers deployment of stuck sessions.
type Sweeper struct {
	store    *store.Store
	interval time.Duration
	grace    time.Duration
	submit   SubmitFunc
}

// NewSweeper creates a sweeper checking every interval for sessions that
// have sat in the starting state longer than grace.
func NewSweeper(s *store.Store, interval, grace time.Duration, submit SubmitFunc) *Sweeper {
	return &Sweeper{
		store:    s,
		interval: interval,
		grace:    grace,
		submit:   submit,
	}
}

// Start runs the sweep loop until the context is canceled. Implements the
// manager Runnable contract.
func (s *Sweeper) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	logger := log.FromContext(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				// Transient store errors must not stop the loop.
				logger.Error(err, "sweep pass failed")
			}
		}
	}
}

// Sweep performs a single pass. Re-submitting is safe because deployment
// is a no-op for sessions that left the starting state in the meantime.
func (s *Sweeper) Sweep(ctx context.Context) error {
	logger := log.FromContext(ctx)

	cutoff := time.Now().UTC().Add(-s.grace)
	stuck, err := s.store.StuckSessions(ctx, cutoff)
	if err != nil {
		return err
	}

	for _, session := range stuck {
		logger.Info("Re-triggering deployment for stuck session", "session", session.Name)
		s.submit(session.Name)
	}
	return nil
}
